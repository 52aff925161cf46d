// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// ProfileAdapter implements out.ProfileRepository using PostgreSQL.
type ProfileAdapter struct {
	db *sqlx.DB
}

var _ out.ProfileRepository = (*ProfileAdapter)(nil)

// NewProfileAdapter creates a new ProfileAdapter.
func NewProfileAdapter(db *sqlx.DB) *ProfileAdapter {
	return &ProfileAdapter{db: db}
}

// profileRow represents the database row for customer profiles.
type profileRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	Tier              string          `db:"tier"`
	AccountValue      sql.NullFloat64 `db:"account_value"`
	TenureMonths      int             `db:"tenure_months"`
	PreviousSentiment sql.NullString  `db:"previous_sentiment"`
	TicketCount       int             `db:"ticket_count"`
	LastInteraction   sql.NullTime    `db:"last_interaction"`
}

func (r *profileRow) toDomain() *domain.CustomerProfile {
	profile := &domain.CustomerProfile{
		ID:           r.ID,
		Name:         r.Name,
		Tier:         domain.ParseTier(r.Tier),
		TenureMonths: r.TenureMonths,
		TicketCount:  r.TicketCount,
	}
	if r.AccountValue.Valid {
		profile.AccountValue = r.AccountValue.Float64
	}
	if r.PreviousSentiment.Valid {
		if s, ok := domain.ParseSentiment(r.PreviousSentiment.String); ok {
			profile.PreviousSentiment = s
		}
	}
	if r.LastInteraction.Valid {
		profile.LastInteraction = r.LastInteraction.Time
	}
	return profile
}

// GetByID returns the customer profile, or (nil, nil) when unknown.
func (a *ProfileAdapter) GetByID(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	query := `
		SELECT id, name, tier, account_value, tenure_months,
		       previous_sentiment, ticket_count, last_interaction
		FROM customer_profiles
		WHERE id = $1`

	var row profileRow
	if err := a.db.GetContext(ctx, &row, query, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.DatabaseError("get customer profile", err)
	}

	return row.toDomain(), nil
}
