package domain

import "time"

// RunStatus tracks a triage run through its linear pipeline.
type RunStatus string

const (
	StatusReceived  RunStatus = "received"
	StatusAnalyzed  RunStatus = "analyzed"
	StatusDecided   RunStatus = "decided"
	StatusDrafted   RunStatus = "drafted"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// TriageResult is the complete outcome of processing one message.
// Either all three parts are present or the run failed; never partial.
type TriageResult struct {
	Analysis *AnalysisResult `json:"analysis"`
	Decision *Decision       `json:"decision"`
	Draft    *DraftResponse  `json:"draft"`
	Warnings []string        `json:"warnings,omitempty"` // degraded-parse notes, non-fatal
}

// Degraded reports whether any parse fell back to defaults.
func (r *TriageResult) Degraded() bool {
	return len(r.Warnings) > 0
}

// TriageRecord is the persisted trace of one run. Written by the adapter
// layer after processing; the core never persists anything itself.
type TriageRecord struct {
	RunID      string    `json:"run_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	Tier       Tier      `json:"tier,omitempty"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Status     RunStatus `json:"status"`
	ErrorCode  string    `json:"error_code,omitempty"`

	Result  *TriageResult  `json:"result,omitempty"`
	Quality *QualityScores `json:"quality,omitempty"` // filled in async by the evaluation worker
	Impact  *ImpactReport  `json:"impact,omitempty"`

	DurationMS float64   `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// QualityScores are LLM-as-judge ratings of a drafted reply, 1-10 each.
type QualityScores struct {
	IssueCoverage   float64 `json:"issue_coverage"`
	Tone            float64 `json:"tone"`
	Professionalism float64 `json:"professionalism"`
	Empathy         float64 `json:"empathy"`
	Actionability   float64 `json:"actionability"`
	Personalization float64 `json:"personalization"`
	Overall         float64 `json:"overall"`
}

// ImpactReport estimates the business value of one assisted run.
// All figures are demo-grade estimates, not billing data.
type ImpactReport struct {
	TimeSavedMinutes   float64 `json:"time_saved_minutes"`
	QualityImprovement float64 `json:"quality_improvement"`
	SatisfactionDelta  float64 `json:"satisfaction_delta"`
	BusinessValue      float64 `json:"business_value"`
}
