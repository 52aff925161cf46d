package domain

import "time"

// Decision is the rule-engine output for one analyzed message.
// Derived deterministically from (AnalysisResult, CustomerProfile); immutable.
type Decision struct {
	Escalate         bool          `json:"escalate"`
	EscalationReason string        `json:"escalation_reason,omitempty"`
	Resolution       time.Duration `json:"resolution_ns"` // target resolution time
	Actions          []string      `json:"actions"`       // recommended follow-up, ordered
}

// ResolutionHours is a convenience for presentation layers.
func (d *Decision) ResolutionHours() float64 {
	return d.Resolution.Hours()
}
