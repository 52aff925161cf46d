package out

import (
	"context"

	"copilot_server/core/domain"
)

// RecordRepository persists triage run records for history and analytics.
// This is the external tracing collaborator; the core pipeline never
// touches it.
type RecordRepository interface {
	Save(ctx context.Context, record *domain.TriageRecord) error
	GetByRunID(ctx context.Context, runID string) (*domain.TriageRecord, error)
	List(ctx context.Context, limit, offset int) ([]*domain.TriageRecord, error)
	SetEvaluation(ctx context.Context, runID string, quality *domain.QualityScores, impact *domain.ImpactReport) error
}
