// Package worker hosts the asynchronous job processors consumed from Redis
// Streams.
package worker

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"copilot_server/core/port/out"
	"copilot_server/core/service/evaluation"
	"copilot_server/pkg/logger"
)

// EvaluationProcessor judges drafted replies off the hot path and writes the
// scores back onto the run record. Implements messaging.JobHandler.
type EvaluationProcessor struct {
	evaluator *evaluation.Evaluator
	records   out.RecordRepository
}

// NewEvaluationProcessor creates a new evaluation processor.
func NewEvaluationProcessor(evaluator *evaluation.Evaluator, records out.RecordRepository) *EvaluationProcessor {
	return &EvaluationProcessor{
		evaluator: evaluator,
		records:   records,
	}
}

// Handle processes one evaluation job. Returning an error leaves the message
// pending for retry; jobs for runs that have since disappeared are dropped.
func (p *EvaluationProcessor) Handle(ctx context.Context, stream string, data []byte) error {
	var job out.EvaluationJob
	if err := json.Unmarshal(data, &job); err != nil {
		logger.Error("Failed to decode evaluation job from %s: %v", stream, err)
		return nil // malformed payload, retrying cannot help
	}

	start := time.Now()
	log := logger.WithField("run_id", job.RunID)

	quality := p.evaluator.Judge(ctx, &job)
	impact := p.evaluator.Impact(&job, quality)

	if err := p.records.SetEvaluation(ctx, job.RunID, quality, impact); err != nil {
		log.WithError(err).Error("Failed to store evaluation")
		return err
	}

	log.WithDuration(time.Since(start)).Info("Evaluation stored (overall %.1f)", quality.Overall)
	return nil
}
