package out

import (
	"context"

	"copilot_server/core/domain"
)

// ProfileRepository supplies read-only customer context. Returning
// (nil, nil) means no profile is known for the customer, which is allowed:
// triage proceeds without personalization.
type ProfileRepository interface {
	GetByID(ctx context.Context, customerID string) (*domain.CustomerProfile, error)
}
