package domain

import "strings"

// Sentiment is the emotional tone detected in a customer message.
type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
)

// DefaultSentiment is substituted when the model output lacks a usable label.
const DefaultSentiment = SentimentNeutral

// IsUpset reports whether the sentiment warrants extra care.
func (s Sentiment) IsUpset() bool {
	return s == SentimentNegative || s == SentimentFrustrated
}

// ParseSentiment normalizes a sentiment label. Unknown labels map to the
// default so minor model drift never aborts processing.
func ParseSentiment(s string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, true
	case "neutral":
		return SentimentNeutral, true
	case "negative":
		return SentimentNegative, true
	// The model occasionally answers "angry"; fold it into frustrated.
	case "frustrated", "angry":
		return SentimentFrustrated, true
	default:
		return DefaultSentiment, false
	}
}

// Urgency is the ordinal severity classification of a message.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// DefaultUrgency is substituted when the model output lacks a usable level.
const DefaultUrgency = UrgencyMedium

// Rank returns the ordinal position (higher = more urgent).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return 1
	}
}

// ParseUrgency normalizes an urgency level. Unknown levels map to the default.
func ParseUrgency(s string) (Urgency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow, true
	case "medium", "normal":
		return UrgencyMedium, true
	case "high":
		return UrgencyHigh, true
	case "critical", "urgent":
		return UrgencyCritical, true
	default:
		return DefaultUrgency, false
	}
}

// IntentCategory classifies what the customer is trying to accomplish.
// The enumeration is open: unrecognized model labels pass through normalized.
type IntentCategory string

const (
	IntentBillingDispute     IntentCategory = "billing_dispute"
	IntentFeatureRequest     IntentCategory = "feature_request"
	IntentTechnicalIssue     IntentCategory = "technical_issue"
	IntentAccountAccess      IntentCategory = "account_access"
	IntentCancellation       IntentCategory = "cancellation_request"
	IntentIntegration        IntentCategory = "integration_support"
	IntentTraining           IntentCategory = "training_request"
	IntentGeneralInquiry     IntentCategory = "general_inquiry"
	IntentComplaint          IntentCategory = "complaint"
	IntentCompliment         IntentCategory = "compliment"
)

// DefaultIntent is substituted when the model output yields no intents.
const DefaultIntent = IntentGeneralInquiry

// NormalizeIntent folds a free-form model label ("Billing Dispute") into the
// snake_case category form. Unknown labels are kept, normalized.
func NormalizeIntent(s string) IntentCategory {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	if norm == "" {
		return DefaultIntent
	}
	return IntentCategory(norm)
}

// AnalysisResult is the structured outcome of analyzing one message.
// Immutable after creation.
type AnalysisResult struct {
	Sentiment         Sentiment        `json:"sentiment"`
	Confidence        float64          `json:"confidence"` // always within [0,1]
	SentimentSignals  []string         `json:"sentiment_signals,omitempty"`
	Urgency           Urgency          `json:"urgency"`
	UrgencyReason     string           `json:"urgency_reason,omitempty"`
	Intents           []IntentCategory `json:"intents"` // primary first
	Issues            []string         `json:"issues"`
	EscalationSignals []string         `json:"escalation_signals,omitempty"`
}

// PrimaryIntent returns the leading intent, or the default when none were
// extracted.
func (a *AnalysisResult) PrimaryIntent() IntentCategory {
	if len(a.Intents) == 0 {
		return DefaultIntent
	}
	return a.Intents[0]
}

// HasIntent reports whether the analysis contains the given intent.
func (a *AnalysisResult) HasIntent(intent IntentCategory) bool {
	for _, i := range a.Intents {
		if i == intent {
			return true
		}
	}
	return false
}

// ClampConfidence forces a confidence value into [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
