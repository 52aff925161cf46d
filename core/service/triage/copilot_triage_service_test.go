package triage

import (
	"context"
	"testing"
	"time"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"
)

// scriptedCompleter returns canned completions in call order. An entry with a
// non-nil err fails that call.
type scriptedCompleter struct {
	script []scriptStep
	calls  []out.CompletionRequest
}

type scriptStep struct {
	text string
	err  error
}

func (c *scriptedCompleter) Complete(_ context.Context, req out.CompletionRequest) (*out.Completion, error) {
	i := len(c.calls)
	c.calls = append(c.calls, req)
	if i >= len(c.script) {
		return nil, apperr.Internal("scripted completer exhausted")
	}
	step := c.script[i]
	if step.err != nil {
		return nil, step.err
	}
	return &out.Completion{Text: step.text, PromptTokens: 120, CompletionTokens: 80}, nil
}

const (
	goodSentiment = `{"sentiment": {"label": "frustrated", "confidence": 0.9, "key_indicators": ["third outage"]},
		"urgency": {"level": "high", "reasoning": "production blocked"}}`
	goodIntents = `{"intents": ["Technical Issue", "Complaint"]}`
	goodIssues  = `{"issues": ["sync fails nightly", "exports time out"]}`
	goodDraft   = "Dear Jordan,\n\nI am sorry about the repeated sync failures."
)

func newTestService(completer out.TextCompleter) *Service {
	return NewService(
		completer,
		NewPromptBuilder(domain.DefaultKnowledge()),
		NewRuleEngine(nil),
		DefaultConfig("gpt-4o-mini", "gpt-4o"),
	)
}

func testMessage() *domain.IncomingMessage {
	return &domain.IncomingMessage{
		From:       "jordan@datasync.example",
		Subject:    "Sync failing again",
		Body:       "This is the third outage this month. Our nightly sync fails and exports time out.",
		ReceivedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestProcessMessageCompleteRun(t *testing.T) {
	completer := &scriptedCompleter{script: []scriptStep{
		{text: goodSentiment}, {text: goodIntents}, {text: goodIssues}, {text: goodDraft},
	}}
	svc := newTestService(completer)

	result, err := svc.ProcessMessage(context.Background(), testMessage(), standardProfile(domain.TierPremium))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if len(completer.calls) != 4 {
		t.Fatalf("model calls = %d, want 4", len(completer.calls))
	}
	if result.Analysis == nil || result.Decision == nil || result.Draft == nil {
		t.Fatalf("incomplete result: %+v", result)
	}
	if result.Analysis.Sentiment != domain.SentimentFrustrated {
		t.Errorf("sentiment = %s, want frustrated", result.Analysis.Sentiment)
	}
	if got := result.Analysis.PrimaryIntent(); got != domain.IntentTechnicalIssue {
		t.Errorf("primary intent = %s, want technical_issue", got)
	}
	// Frustrated premium customer escalates under the default policy.
	if !result.Decision.Escalate {
		t.Error("expected escalation for frustrated premium customer")
	}
	if result.Draft.Body != goodDraft {
		t.Errorf("draft body = %q", result.Draft.Body)
	}
	if result.Draft.Tone != domain.ToneEmpatheticFormal {
		t.Errorf("tone = %s, want empathetic-formal", result.Draft.Tone)
	}
	if result.Draft.TokensUsed != 200 {
		t.Errorf("tokens = %d, want 200", result.Draft.TokensUsed)
	}
	if result.Draft.CostUSD <= 0 {
		t.Errorf("cost = %v, want positive", result.Draft.CostUSD)
	}
	if result.Degraded() {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestProcessMessageModelErrorAborts(t *testing.T) {
	tests := []struct {
		name      string
		script    []scriptStep
		wantCode  string
		wantCalls int
	}{
		{
			name:      "timeout on first analysis call",
			script:    []scriptStep{{err: apperr.Timeout("chat completion")}},
			wantCode:  apperr.CodeTimeout,
			wantCalls: 1,
		},
		{
			name: "rate limit on intent call",
			script: []scriptStep{
				{text: goodSentiment},
				{err: apperr.RateLimited("gpt-4o-mini", nil)},
			},
			wantCode:  apperr.CodeRateLimited,
			wantCalls: 2,
		},
		{
			name: "model unavailable on draft call",
			script: []scriptStep{
				{text: goodSentiment}, {text: goodIntents}, {text: goodIssues},
				{err: apperr.ModelUnavailable("gpt-4o", nil)},
			},
			wantCode:  apperr.CodeModelUnavailable,
			wantCalls: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &scriptedCompleter{script: tt.script}
			svc := newTestService(completer)

			result, err := svc.ProcessMessage(context.Background(), testMessage(), standardProfile(domain.TierStandard))
			if result != nil {
				t.Errorf("result = %+v, want nil on model error", result)
			}
			if !apperr.IsCode(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
			if len(completer.calls) != tt.wantCalls {
				t.Errorf("model calls = %d, want %d (no calls after failure)", len(completer.calls), tt.wantCalls)
			}
		})
	}
}

func TestProcessMessageDegradedParseStillCompletes(t *testing.T) {
	completer := &scriptedCompleter{script: []scriptStep{
		{text: "not json at all"},
		{text: "also not json"},
		{text: goodIssues},
		{text: goodDraft},
	}}
	svc := newTestService(completer)

	result, err := svc.ProcessMessage(context.Background(), testMessage(), standardProfile(domain.TierStandard))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !result.Degraded() {
		t.Fatal("expected degraded-parse warnings")
	}
	if result.Analysis.Sentiment != domain.DefaultSentiment {
		t.Errorf("sentiment = %s, want default %s", result.Analysis.Sentiment, domain.DefaultSentiment)
	}
	if result.Analysis.Urgency != domain.DefaultUrgency {
		t.Errorf("urgency = %s, want default %s", result.Analysis.Urgency, domain.DefaultUrgency)
	}
	if got := result.Analysis.PrimaryIntent(); got != domain.DefaultIntent {
		t.Errorf("intent = %s, want default %s", got, domain.DefaultIntent)
	}
	if result.Decision == nil || result.Draft == nil {
		t.Fatal("degraded run must still produce decision and draft")
	}
}

func TestProcessMessageInvalidInput(t *testing.T) {
	completer := &scriptedCompleter{}
	svc := newTestService(completer)

	tests := []struct {
		name string
		msg  *domain.IncomingMessage
	}{
		{"nil message", nil},
		{"blank body", &domain.IncomingMessage{From: "a@b.example", Subject: "hi", Body: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ProcessMessage(context.Background(), tt.msg, nil)
			if result != nil {
				t.Errorf("result = %+v, want nil", result)
			}
			if err == nil || !apperr.IsAppError(err) {
				t.Fatalf("error = %v, want typed validation error", err)
			}
			if code := apperr.CodeOf(err); code != apperr.CodeInvalidInput && code != apperr.CodeMissingField {
				t.Errorf("code = %s, want validation code", code)
			}
			if len(completer.calls) != 0 {
				t.Errorf("model calls = %d, want 0 for invalid input", len(completer.calls))
			}
		})
	}
}

func TestProcessMessageEscalationSignalsFromRawText(t *testing.T) {
	completer := &scriptedCompleter{script: []scriptStep{
		{text: `{"sentiment": {"label": "neutral", "confidence": 0.6}, "urgency": {"level": "low"}}`},
		{text: `{"intents": ["General Inquiry"]}`},
		{text: `{"issues": []}`},
		{text: goodDraft},
	}}
	svc := newTestService(completer)

	msg := testMessage()
	msg.Body = "If this is not fixed I will demand a refund and talk to my lawyer."

	result, err := svc.ProcessMessage(context.Background(), msg, standardProfile(domain.TierStandard))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if len(result.Analysis.EscalationSignals) == 0 {
		t.Fatal("expected trigger keywords captured in analysis")
	}
	if !result.Decision.Escalate {
		t.Error("trigger keywords must escalate")
	}
}
