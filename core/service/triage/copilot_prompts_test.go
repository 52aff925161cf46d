package triage

import (
	"strings"
	"testing"
	"time"

	"copilot_server/core/domain"
	"copilot_server/pkg/apperr"
)

func TestBuildSentimentPrompt(t *testing.T) {
	b := NewPromptBuilder(domain.DefaultKnowledge())
	msg := &domain.IncomingMessage{
		From:    "sarah@acme.example",
		Subject: "Billing question",
		Body:    "I was charged twice this month.",
	}
	profile := standardProfile(domain.TierPremium)
	profile.AccountValue = 48000

	system, user, err := b.BuildSentimentPrompt(msg, profile)
	if err != nil {
		t.Fatalf("BuildSentimentPrompt: %v", err)
	}
	if !strings.Contains(system, `"sentiment"`) || !strings.Contains(system, `"urgency"`) {
		t.Error("system prompt must demand the sentiment/urgency JSON shape")
	}
	for _, want := range []string{"sarah@acme.example", "Billing question", "I was charged twice", "premium", "$48000/yr"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}

	// Prompt construction is deterministic.
	_, again, _ := b.BuildSentimentPrompt(msg, profile)
	if user != again {
		t.Error("identical inputs must yield identical prompts")
	}
}

func TestBuildPromptRejectsInvalidMessage(t *testing.T) {
	b := NewPromptBuilder(nil)

	if _, _, err := b.BuildSentimentPrompt(nil, nil); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("nil message: err = %v, want MISSING_FIELD", err)
	}
	blank := &domain.IncomingMessage{From: "a@b.example", Body: "  "}
	if _, _, err := b.BuildIntentPrompt(blank); !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Errorf("blank body: err = %v, want INVALID_INPUT", err)
	}
	if _, _, err := b.BuildIssuesPrompt(blank); !apperr.IsCode(err, apperr.CodeInvalidInput) {
		t.Errorf("blank body: err = %v, want INVALID_INPUT", err)
	}
}

func TestBuildPromptTruncatesLongBody(t *testing.T) {
	b := NewPromptBuilder(nil)
	msg := &domain.IncomingMessage{
		From:    "a@b.test",
		Subject: "long",
		Body:    strings.Repeat("z", promptBodyLimit+500),
	}

	_, user, err := b.BuildIntentPrompt(msg)
	if err != nil {
		t.Fatalf("BuildIntentPrompt: %v", err)
	}
	if strings.Count(user, "z") != promptBodyLimit {
		t.Errorf("embedded body length = %d, want %d", strings.Count(user, "z"), promptBodyLimit)
	}
	if !strings.Contains(user, "...") {
		t.Error("truncated body must end with ellipsis")
	}
}

func TestBuildDraftPrompt(t *testing.T) {
	b := NewPromptBuilder(domain.DefaultKnowledge())
	msg := &domain.IncomingMessage{
		From:       "mike@techflow.example",
		Subject:    "Refund request",
		Body:       "I want a refund for the duplicate charge.",
		ReceivedAt: time.Now(),
	}
	analysis := &domain.AnalysisResult{
		Sentiment:  domain.SentimentFrustrated,
		Confidence: 0.85,
		Urgency:    domain.UrgencyHigh,
		Intents:    []domain.IntentCategory{domain.IntentBillingDispute},
		Issues:     []string{"duplicate charge on March invoice"},
	}
	profile := standardProfile(domain.TierEnterprise)
	decision := NewRuleEngine(nil).Evaluate(analysis, profile)

	system, user, err := b.BuildDraftPrompt(msg, profile, analysis, decision, domain.ToneEmpatheticFormal)
	if err != nil {
		t.Fatalf("BuildDraftPrompt: %v", err)
	}
	if !strings.Contains(system, "Only output the reply body") {
		t.Error("system prompt must constrain output to the reply body")
	}
	for _, want := range []string{
		"Sentiment: frustrated",
		"Urgency: high",
		"billing_dispute",
		"duplicate charge on March invoice",
		"Escalated: true",
		"Requested tone: empathetic-formal",
		"Jordan Lee",
		"I want a refund",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("draft prompt missing %q", want)
		}
	}
	// Billing intent pulls in billing policy lines.
	if !strings.Contains(user, "Relevant company policies:") {
		t.Error("draft prompt missing policy section for billing dispute")
	}
}

func TestBuildDraftPromptRequiresAnalysisAndDecision(t *testing.T) {
	b := NewPromptBuilder(nil)
	msg := &domain.IncomingMessage{From: "a@b.example", Subject: "s", Body: "hello"}

	if _, _, err := b.BuildDraftPrompt(msg, nil, nil, &domain.Decision{}, domain.ToneEmpathetic); err == nil {
		t.Error("nil analysis must be rejected")
	}
	if _, _, err := b.BuildDraftPrompt(msg, nil, &domain.AnalysisResult{}, nil, domain.ToneEmpathetic); err == nil {
		t.Error("nil decision must be rejected")
	}
}
