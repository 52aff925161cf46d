package triage

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"copilot_server/core/domain"
)

// Parsing is best-effort by design: any field that is missing or does not
// match its enumeration/range takes a documented default and appends a
// degraded-parse warning. Minor model formatting drift never aborts a run.

type sentimentUrgencyPayload struct {
	Sentiment struct {
		Label         string   `json:"label"`
		Confidence    *float64 `json:"confidence"`
		KeyIndicators []string `json:"key_indicators"`
	} `json:"sentiment"`
	Urgency struct {
		Level     string `json:"level"`
		Reasoning string `json:"reasoning"`
	} `json:"urgency"`
}

type intentsPayload struct {
	Intents []string `json:"intents"`
}

type issuesPayload struct {
	Issues []string `json:"issues"`
}

// SentimentUrgency holds the parsed first-stage analysis fields.
type SentimentUrgency struct {
	Sentiment     domain.Sentiment
	Confidence    float64
	Signals       []string
	Urgency       domain.Urgency
	UrgencyReason string
}

// defaultConfidence is substituted when the model omits a confidence value.
const defaultConfidence = 0.5

// ParseSentimentUrgency decodes the sentiment/urgency completion.
func ParseSentimentUrgency(raw string) (*SentimentUrgency, []string) {
	out := &SentimentUrgency{
		Sentiment:  domain.DefaultSentiment,
		Confidence: defaultConfidence,
		Urgency:    domain.DefaultUrgency,
	}

	var payload sentimentUrgencyPayload
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &payload); err != nil {
		return out, []string{fmt.Sprintf("sentiment/urgency: unparseable completion, using defaults: %v", err)}
	}

	var warnings []string

	sentiment, ok := domain.ParseSentiment(payload.Sentiment.Label)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("sentiment: unrecognized label %q, defaulted to %s", payload.Sentiment.Label, domain.DefaultSentiment))
	}
	out.Sentiment = sentiment

	if payload.Sentiment.Confidence == nil {
		warnings = append(warnings, "sentiment: missing confidence, defaulted to 0.5")
	} else {
		out.Confidence = domain.ClampConfidence(*payload.Sentiment.Confidence)
	}
	out.Signals = payload.Sentiment.KeyIndicators

	urgency, ok := domain.ParseUrgency(payload.Urgency.Level)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("urgency: unrecognized level %q, defaulted to %s", payload.Urgency.Level, domain.DefaultUrgency))
	}
	out.Urgency = urgency
	out.UrgencyReason = payload.Urgency.Reasoning

	return out, warnings
}

// ParseIntents decodes the intent classification completion. Accepts both
// the documented {"intents": [...]} shape and a bare JSON array.
func ParseIntents(raw string) ([]domain.IntentCategory, []string) {
	cleaned := cleanJSON(raw)

	var labels []string
	var payload intentsPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && len(payload.Intents) > 0 {
		labels = payload.Intents
	} else if err := json.Unmarshal([]byte(cleaned), &labels); err != nil || len(labels) == 0 {
		return []domain.IntentCategory{domain.DefaultIntent},
			[]string{fmt.Sprintf("intent: no usable intents in completion, defaulted to %s", domain.DefaultIntent)}
	}

	intents := make([]domain.IntentCategory, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		intents = append(intents, domain.NormalizeIntent(label))
	}
	if len(intents) == 0 {
		return []domain.IntentCategory{domain.DefaultIntent},
			[]string{fmt.Sprintf("intent: no usable intents in completion, defaulted to %s", domain.DefaultIntent)}
	}

	return intents, nil
}

// ParseIssues decodes the issue extraction completion. Accepts both the
// documented {"issues": [...]} shape and a bare JSON array. An empty issue
// list is valid, not degraded.
func ParseIssues(raw string) ([]string, []string) {
	cleaned := cleanJSON(raw)

	var payload issuesPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		return trimStrings(payload.Issues), nil
	}

	var issues []string
	if err := json.Unmarshal([]byte(cleaned), &issues); err != nil {
		return nil, []string{fmt.Sprintf("issues: unparseable completion, continuing without issues: %v", err)}
	}
	return trimStrings(issues), nil
}

// ParseDraft normalizes the drafted reply body.
func ParseDraft(raw string) string {
	return strings.TrimSpace(stripFences(raw))
}

// cleanJSON strips markdown code fences the model sometimes wraps around
// JSON.
func cleanJSON(resp string) string {
	return strings.TrimSpace(stripFences(resp))
}

func stripFences(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return resp
}

func trimStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
