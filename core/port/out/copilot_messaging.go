package out

import (
	"context"

	"copilot_server/core/domain"
)

// EvaluationJob asks the worker to judge a completed run.
type EvaluationJob struct {
	RunID       string                `json:"run_id"`
	MessageBody string                `json:"message_body"`
	Result      *domain.TriageResult  `json:"result"`
	Profile     *domain.CustomerProfile `json:"profile,omitempty"`
	DurationMS  float64               `json:"duration_ms"`
}

// EvaluationProducer publishes completed runs for asynchronous quality
// scoring. Publishing is best-effort; a failed publish never fails a run.
type EvaluationProducer interface {
	PublishEvaluation(ctx context.Context, job *EvaluationJob) error
}
