package in

import (
	"context"

	"copilot_server/core/domain"
)

// TriageService is the single entry point of the core: process one message
// with optional customer context. Returns a complete result or a typed
// failure; never a partial tuple.
type TriageService interface {
	ProcessMessage(ctx context.Context, msg *domain.IncomingMessage, profile *domain.CustomerProfile) (*domain.TriageResult, error)
}
