package triage

import (
	"fmt"
	"strings"
	"time"

	"copilot_server/core/domain"
)

// RulesConfig holds the escalation and SLA policy knobs. The numeric values
// are demo policy, not contractual behavior; operators tune them per
// deployment.
type RulesConfig struct {
	// IssueThreshold: escalate when more issues than this are extracted.
	IssueThreshold int
	// EscalationTriggers are keywords scanned in the raw message.
	EscalationTriggers []string
	// EscalationTarget caps resolution time for escalated runs.
	EscalationTarget time.Duration
	// BaseResolution is the target resolution per intent at Medium urgency,
	// Standard tier.
	BaseResolution map[domain.IntentCategory]time.Duration
	// FallbackResolution covers intents missing from the table.
	FallbackResolution time.Duration
	// UrgencyFactor scales resolution by urgency level.
	UrgencyFactor map[domain.Urgency]float64
	// TierFactor scales resolution by customer tier; higher tiers get
	// faster target SLAs.
	TierFactor map[domain.Tier]float64
}

// DefaultRulesConfig returns the demo policy table.
func DefaultRulesConfig() *RulesConfig {
	return &RulesConfig{
		IssueThreshold: 3,
		EscalationTriggers: []string{
			"cancel", "cancellation", "terminate", "refund",
			"lawyer", "legal", "unacceptable", "terrible",
			"manager", "supervisor", "escalate",
		},
		EscalationTarget: 2 * time.Hour,
		BaseResolution: map[domain.IntentCategory]time.Duration{
			domain.IntentGeneralInquiry: 2 * time.Hour,
			domain.IntentCompliment:     2 * time.Hour,
			domain.IntentAccountAccess:  4 * time.Hour,
			domain.IntentTechnicalIssue: 24 * time.Hour,
			domain.IntentCancellation:   24 * time.Hour,
			domain.IntentComplaint:      24 * time.Hour,
			domain.IntentBillingDispute: 48 * time.Hour,
			domain.IntentTraining:       48 * time.Hour,
			domain.IntentIntegration:    72 * time.Hour,
			domain.IntentFeatureRequest: 72 * time.Hour,
		},
		FallbackResolution: 24 * time.Hour,
		UrgencyFactor: map[domain.Urgency]float64{
			domain.UrgencyLow:      1.5,
			domain.UrgencyMedium:   1.0,
			domain.UrgencyHigh:     0.5,
			domain.UrgencyCritical: 0.25,
		},
		TierFactor: map[domain.Tier]float64{
			domain.TierFree:       1.25,
			domain.TierStandard:   1.0,
			domain.TierPremium:    0.75,
			domain.TierEnterprise: 0.5,
		},
	}
}

// RuleEngine maps (AnalysisResult, CustomerProfile) to a Decision. Evaluate
// is pure and deterministic; identical inputs always yield an identical
// Decision.
type RuleEngine struct {
	cfg *RulesConfig
}

// NewRuleEngine creates a rule engine. A nil config uses the defaults.
func NewRuleEngine(cfg *RulesConfig) *RuleEngine {
	if cfg == nil {
		cfg = DefaultRulesConfig()
	}
	return &RuleEngine{cfg: cfg}
}

// ScanTriggers returns the configured escalation trigger keywords present in
// the text. Called during analysis so the Decision stays a pure function of
// (AnalysisResult, CustomerProfile).
func (e *RuleEngine) ScanTriggers(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, trigger := range e.cfg.EscalationTriggers {
		if strings.Contains(lower, trigger) {
			hits = append(hits, trigger)
		}
	}
	return hits
}

// Evaluate derives the Decision for one analyzed message.
func (e *RuleEngine) Evaluate(analysis *domain.AnalysisResult, profile *domain.CustomerProfile) *domain.Decision {
	escalate, reason := e.escalation(analysis, profile)
	resolution := e.resolution(analysis, profile, escalate)

	return &domain.Decision{
		Escalate:         escalate,
		EscalationReason: reason,
		Resolution:       resolution,
		Actions:          e.actions(analysis, profile, escalate, resolution),
	}
}

func (e *RuleEngine) escalation(analysis *domain.AnalysisResult, profile *domain.CustomerProfile) (bool, string) {
	if analysis.Urgency == domain.UrgencyCritical {
		return true, "critical urgency"
	}
	if analysis.Sentiment.IsUpset() && profile != nil && profile.Tier.IsHighValue() {
		return true, fmt.Sprintf("%s sentiment from %s customer", analysis.Sentiment, profile.Tier)
	}
	if len(analysis.Issues) > e.cfg.IssueThreshold {
		return true, fmt.Sprintf("%d issues exceed threshold of %d", len(analysis.Issues), e.cfg.IssueThreshold)
	}
	if len(analysis.EscalationSignals) > 0 {
		return true, fmt.Sprintf("escalation triggers in message: %s", strings.Join(analysis.EscalationSignals, ", "))
	}
	return false, ""
}

func (e *RuleEngine) resolution(analysis *domain.AnalysisResult, profile *domain.CustomerProfile, escalated bool) time.Duration {
	// The slowest intent drives the base estimate.
	base := time.Duration(0)
	for _, intent := range analysis.Intents {
		d, ok := e.cfg.BaseResolution[intent]
		if !ok {
			d = e.cfg.FallbackResolution
		}
		if d > base {
			base = d
		}
	}
	if base == 0 {
		base = e.cfg.BaseResolution[domain.DefaultIntent]
		if base == 0 {
			base = e.cfg.FallbackResolution
		}
	}

	factor := e.urgencyFactor(analysis.Urgency)
	resolution := time.Duration(float64(base) * factor)

	if escalated && resolution > e.cfg.EscalationTarget {
		resolution = e.cfg.EscalationTarget
	}

	resolution = time.Duration(float64(resolution) * e.tierFactor(profile))

	return resolution.Round(time.Minute)
}

func (e *RuleEngine) urgencyFactor(u domain.Urgency) float64 {
	if f, ok := e.cfg.UrgencyFactor[u]; ok {
		return f
	}
	return 1.0
}

func (e *RuleEngine) tierFactor(profile *domain.CustomerProfile) float64 {
	if profile == nil {
		return 1.0
	}
	if f, ok := e.cfg.TierFactor[profile.Tier]; ok {
		return f
	}
	return 1.0
}

// actions assembles the recommended follow-up from a decision table keyed by
// intent, escalation flag and tier.
func (e *RuleEngine) actions(analysis *domain.AnalysisResult, profile *domain.CustomerProfile, escalated bool, resolution time.Duration) []string {
	highValue := profile != nil && profile.Tier.IsHighValue()

	var actions []string
	if escalated {
		actions = append(actions, "Escalate to duty manager immediately")
	}

	for _, intent := range analysis.Intents {
		switch intent {
		case domain.IntentBillingDispute:
			actions = append(actions, "Review billing history and usage")
			if highValue {
				actions = append(actions, "Draft retention offer")
			}
		case domain.IntentCancellation:
			actions = append(actions, "Draft retention offer", "Schedule retention call")
		case domain.IntentTechnicalIssue, domain.IntentIntegration:
			actions = append(actions, "Engage engineering team for technical review")
		case domain.IntentFeatureRequest:
			actions = append(actions, "Log feature request in product backlog")
		case domain.IntentTraining:
			actions = append(actions, "Schedule training session")
		case domain.IntentCompliment:
			actions = append(actions, "Share feedback with the product team")
		}
	}

	if highValue {
		actions = append(actions, "Apply priority support SLA")
	}

	actions = append(actions, fmt.Sprintf("Follow up within %s", formatDuration(resolution)))

	return dedupeActions(actions)
}

func dedupeActions(actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// formatDuration renders a duration the way a support SLA reads ("2h",
// "30m", "3d").
func formatDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%.0fd", d.Hours()/24)
	case d >= time.Hour:
		return fmt.Sprintf("%.0fh", d.Hours())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
