package domain

// Tone labels the register a drafted reply should take.
type Tone string

const (
	// ToneEmpatheticFormal: upset customer under high urgency. Acknowledge
	// frustration explicitly, stay formal and solution-focused.
	ToneEmpatheticFormal Tone = "empathetic-formal"
	// ToneEmpathetic: upset customer, normal urgency.
	ToneEmpathetic Tone = "empathetic"
	// ToneUrgentProfessional: calm customer, high urgency. Emphasize the
	// resolution timeline.
	ToneUrgentProfessional Tone = "urgent-professional"
	// ToneFriendlyProfessional: everything else.
	ToneFriendlyProfessional Tone = "friendly-professional"
)

// ToneFor selects the reply tone from sentiment and urgency.
func ToneFor(sentiment Sentiment, urgency Urgency) Tone {
	upset := sentiment.IsUpset()
	pressing := urgency.Rank() >= UrgencyHigh.Rank()

	switch {
	case upset && pressing:
		return ToneEmpatheticFormal
	case upset:
		return ToneEmpathetic
	case pressing:
		return ToneUrgentProfessional
	default:
		return ToneFriendlyProfessional
	}
}

// DraftResponse is a model-generated candidate reply, not yet sent.
// Immutable after creation. CostUSD is informational only.
type DraftResponse struct {
	Body       string  `json:"body"`
	Tone       Tone    `json:"tone"`
	TokensUsed int     `json:"tokens_used"`
	CostUSD    float64 `json:"cost_usd"`
}
