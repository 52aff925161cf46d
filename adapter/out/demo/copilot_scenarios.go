// Package demo ships fixed customer scenarios used for demos and local
// development. The store doubles as an in-memory ProfileRepository.
package demo

import (
	"context"
	"time"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
)

// Scenario is one canned triage case.
type Scenario struct {
	Key             string                  `json:"key"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	ExpectedOutcome string                  `json:"expected_outcome"`
	Message         *domain.IncomingMessage `json:"message"`
	Profile         *domain.CustomerProfile `json:"profile,omitempty"`
}

// Store holds the built-in scenarios and serves profile lookups for them.
type Store struct {
	scenarios []*Scenario
	profiles  map[string]*domain.CustomerProfile
}

var _ out.ProfileRepository = (*Store)(nil)

// NewStore builds the store with the built-in scenario set.
func NewStore() *Store {
	scenarios := builtinScenarios()
	profiles := make(map[string]*domain.CustomerProfile, len(scenarios))
	for _, s := range scenarios {
		if s.Profile != nil {
			profiles[s.Profile.ID] = s.Profile
		}
	}
	return &Store{scenarios: scenarios, profiles: profiles}
}

// List returns every scenario.
func (s *Store) List() []*Scenario {
	return s.scenarios
}

// Get returns the scenario with the given key, or nil.
func (s *Store) Get(key string) *Scenario {
	for _, sc := range s.scenarios {
		if sc.Key == key {
			return sc
		}
	}
	return nil
}

// GetByID implements ProfileRepository; unknown customers return (nil, nil).
func (s *Store) GetByID(_ context.Context, customerID string) (*domain.CustomerProfile, error) {
	return s.profiles[customerID], nil
}

func builtinScenarios() []*Scenario {
	sarah := &domain.CustomerProfile{
		ID:                "cust-sarah-johnson",
		Name:              "Sarah Johnson",
		Tier:              domain.TierPremium,
		AccountValue:      42000,
		TenureMonths:      36,
		PreviousSentiment: domain.SentimentPositive,
		TicketCount:       2,
		LastInteraction:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	mike := &domain.CustomerProfile{
		ID:                "cust-mike-chen",
		Name:              "Mike Chen",
		Tier:              domain.TierStandard,
		AccountValue:      9600,
		TenureMonths:      8,
		PreviousSentiment: domain.SentimentNeutral,
		TicketCount:       5,
		LastInteraction:   time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
	}
	alex := &domain.CustomerProfile{
		ID:                "cust-alex-rodriguez",
		Name:              "Alex Rodriguez",
		Tier:              domain.TierStandard,
		AccountValue:      3600,
		TenureMonths:      3,
		PreviousSentiment: domain.SentimentPositive,
		TicketCount:       1,
		LastInteraction:   time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC),
	}
	david := &domain.CustomerProfile{
		ID:                "cust-david-miller",
		Name:              "David Miller",
		Tier:              domain.TierPremium,
		AccountValue:      38000,
		TenureMonths:      18,
		PreviousSentiment: domain.SentimentNegative,
		TicketCount:       12,
		LastInteraction:   time.Date(2026, 7, 22, 0, 0, 0, 0, time.UTC),
	}

	return []*Scenario{
		{
			Key:             "frustrated_premium",
			Name:            "High-Priority Premium Customer",
			Description:     "Frustrated premium customer with urgent technical issue",
			ExpectedOutcome: "High urgency, escalation, technical support engaged",
			Profile:         sarah,
			Message: &domain.IncomingMessage{
				From:    "sarah.johnson@techcorp.example",
				Subject: "URGENT - Premium Features Not Working - Need Immediate Resolution",
				Body: `Hi Support Team,

I am extremely frustrated with the current state of your platform. As a Premium customer for over 3 years, I expect better service than what I'm receiving.

The advanced analytics dashboard that I pay extra for has been completely non-functional for the past week. When I try to generate reports, I get error messages, and the data export feature is completely broken.

This is affecting our quarterly business review with stakeholders, and frankly, if this isn't resolved by tomorrow, I'll have to seriously consider canceling our subscription and moving to a competitor.

I need someone senior to call me TODAY to discuss this. My direct number is 555-0123.

This is unacceptable for a Premium service.

Sarah Johnson
CFO, TechCorp Solutions`,
			},
		},
		{
			Key:             "billing_question",
			Name:            "Billing Inquiry with Churn Risk",
			Description:     "Cost-conscious customer questioning value, potential churn risk",
			ExpectedOutcome: "Medium urgency, retention opportunity, billing review",
			Profile:         mike,
			Message: &domain.IncomingMessage{
				From:    "mike.chen@smallbiz.example",
				Subject: "Question about Recent Billing Changes",
				Body: `Hello,

I noticed my bill increased by $200 last month, but I don't recall upgrading any services. Could someone help me understand what changed?

I've been comparing your service with competitors lately, and I want to make sure I'm getting good value. The extra cost is significant for our small business.

Also, I'd like to know if there are any discounts available for longer-term commitments. We're planning our budget for next year.

Please let me know what options I have.

Thanks,
Mike Chen
Operations Manager`,
			},
		},
		{
			Key:             "positive_feedback",
			Name:            "Positive Customer with Feature Request",
			Description:     "Happy customer providing feedback and requesting enhancements",
			ExpectedOutcome: "Low urgency, feature request logged, relationship building",
			Profile:         alex,
			Message: &domain.IncomingMessage{
				From:    "alex.rodriguez@projectco.example",
				Subject: "Great Experience with New Features!",
				Body: `Hi there!

I just wanted to reach out and say how impressed I am with the new automation features you rolled out last month. The workflow builder has saved our team hours of manual work each week.

The user interface is intuitive, and the tutorial videos were really helpful for getting our team up to speed quickly.

I do have one small suggestion - it would be great if we could set custom notifications for when automated workflows complete. Right now we have to check manually.

Also, are there any advanced training sessions available? We'd love to learn more about maximizing the platform's potential.

Keep up the excellent work!

Best regards,
Alex Rodriguez
Project Coordinator`,
			},
		},
		{
			Key:             "technical_integration",
			Name:            "Critical Technical Integration Issue",
			Description:     "Production system failure requiring immediate engineering support",
			ExpectedOutcome: "Critical urgency, engineering escalation, business impact",
			Profile:         nil, // new customer, no profile yet
			Message: &domain.IncomingMessage{
				From:    "jennifer.kim@newclient.example",
				Subject: "API Integration Issues - Production Environment",
				Body: `Support Team,

We're experiencing critical issues with the API integration in our production environment. The webhook endpoints are returning 500 errors intermittently, causing data sync failures between our systems.

This started happening after the maintenance window on Sunday night. Our development team has tried the standard troubleshooting steps, but we need help from your engineering team.

Error details:
- Endpoint: /api/v2/webhooks/data-sync
- Error: HTTP 500 - Internal Server Error
- Frequency: ~30% of requests
- Impact: Customer data not syncing to our CRM

This is affecting our sales team's ability to follow up with leads. Can someone from engineering review the logs and provide an update?

We need this resolved ASAP as it's impacting business operations.

Thanks,
Jennifer Kim
Lead Developer`,
			},
		},
		{
			Key:             "cancellation_threat",
			Name:            "Cancellation Threat - Executive Escalation",
			Description:     "Multiple issues leading to cancellation consideration",
			ExpectedOutcome: "Critical urgency, executive escalation, retention strategy",
			Profile:         david,
			Message: &domain.IncomingMessage{
				From:    "david.miller@opsfirm.example",
				Subject: "Considering Cancellation - Multiple Ongoing Issues",
				Body: `To Whom It May Concern,

I'm writing to express my disappointment with the service quality over the past few months. We've experienced multiple issues that haven't been adequately resolved:

1. Slow response times from support (3+ days for simple questions)
2. Platform downtime during our peak business hours
3. Missing features that were promised during the sales process
4. Billing errors that took weeks to correct

We've invested significant time and resources into your platform, but the return on investment is no longer justified. Our contract is up for renewal next month, and unless we see immediate improvements, we'll be moving to a competitor.

I'd like to speak with a manager about our options. If you can't provide the level of service we require, we need to know now so we can plan our transition accordingly.

Please have someone in leadership contact me within 48 hours.

David Miller
VP of Operations`,
			},
		},
	}
}
