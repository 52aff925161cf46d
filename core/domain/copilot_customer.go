package domain

import (
	"strings"
	"time"
)

// Tier represents the customer account class used to modulate SLA and
// escalation policy.
type Tier string

const (
	TierFree       Tier = "free"
	TierStandard   Tier = "standard"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// Rank returns the ordinal position of the tier (higher = more valuable).
func (t Tier) Rank() int {
	switch t {
	case TierFree:
		return 0
	case TierStandard:
		return 1
	case TierPremium:
		return 2
	case TierEnterprise:
		return 3
	default:
		return 1
	}
}

// IsHighValue reports whether the tier qualifies for priority handling.
func (t Tier) IsHighValue() bool {
	return t == TierPremium || t == TierEnterprise
}

// ParseTier normalizes a tier string. Unknown values map to Standard.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree
	case "standard", "basic":
		return TierStandard
	case "premium":
		return TierPremium
	case "enterprise":
		return TierEnterprise
	default:
		return TierStandard
	}
}

// CustomerProfile is the read-only customer context supplied per request.
type CustomerProfile struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Tier              Tier      `json:"tier"`
	AccountValue      float64   `json:"account_value"` // annual, USD
	TenureMonths      int       `json:"tenure_months"`
	PreviousSentiment Sentiment `json:"previous_sentiment,omitempty"`
	TicketCount       int       `json:"ticket_count"`
	LastInteraction   time.Time `json:"last_interaction,omitempty"`
}

// RelationshipStrength classifies how solid the customer relationship is.
type RelationshipStrength string

const (
	RelationshipStrong   RelationshipStrength = "strong"
	RelationshipModerate RelationshipStrength = "moderate"
	RelationshipWeak     RelationshipStrength = "weak"
)

// Relationship scores the profile on tenure, tier, prior sentiment and
// support history. Long-tenured, high-tier customers with few tickets and
// positive history score Strong.
func (p *CustomerProfile) Relationship() RelationshipStrength {
	if p == nil {
		return RelationshipWeak
	}

	score := 0

	switch {
	case p.TenureMonths > 24:
		score += 2
	case p.TenureMonths > 12:
		score++
	}

	switch p.Tier {
	case TierPremium, TierEnterprise:
		score += 2
	case TierStandard:
		score++
	}

	switch p.PreviousSentiment {
	case SentimentPositive:
		score += 2
	case SentimentNeutral:
		score++
	}

	if p.TicketCount < 3 {
		score++
	}

	switch {
	case score >= 6:
		return RelationshipStrong
	case score >= 4:
		return RelationshipModerate
	default:
		return RelationshipWeak
	}
}
