package triage

import (
	"reflect"
	"testing"
	"time"

	"copilot_server/core/domain"
)

func standardProfile(tier domain.Tier) *domain.CustomerProfile {
	return &domain.CustomerProfile{
		ID:           "cust-001",
		Name:         "Jordan Lee",
		Tier:         tier,
		TenureMonths: 14,
		TicketCount:  2,
	}
}

func TestEvaluateEscalation(t *testing.T) {
	engine := NewRuleEngine(nil)

	tests := []struct {
		name     string
		analysis *domain.AnalysisResult
		profile  *domain.CustomerProfile
		escalate bool
	}{
		{
			name: "calm standard inquiry stays in queue",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentNeutral,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentGeneralInquiry},
			},
			profile:  standardProfile(domain.TierStandard),
			escalate: false,
		},
		{
			name: "critical urgency always escalates",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentNeutral,
				Urgency:   domain.UrgencyCritical,
				Intents:   []domain.IntentCategory{domain.IntentTechnicalIssue},
			},
			profile:  standardProfile(domain.TierFree),
			escalate: true,
		},
		{
			name: "frustrated premium customer escalates",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentFrustrated,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentBillingDispute},
			},
			profile:  standardProfile(domain.TierPremium),
			escalate: true,
		},
		{
			name: "frustrated free customer does not escalate on sentiment alone",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentFrustrated,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentBillingDispute},
			},
			profile:  standardProfile(domain.TierFree),
			escalate: false,
		},
		{
			name: "issue count above threshold escalates",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentNeutral,
				Urgency:   domain.UrgencyLow,
				Intents:   []domain.IntentCategory{domain.IntentTechnicalIssue},
				Issues:    []string{"export broken", "login slow", "sync fails", "report blank"},
			},
			profile:  standardProfile(domain.TierStandard),
			escalate: true,
		},
		{
			name: "trigger keyword escalates",
			analysis: &domain.AnalysisResult{
				Sentiment:         domain.SentimentNegative,
				Urgency:           domain.UrgencyMedium,
				Intents:           []domain.IntentCategory{domain.IntentComplaint},
				EscalationSignals: []string{"refund"},
			},
			profile:  standardProfile(domain.TierStandard),
			escalate: true,
		},
		{
			name: "nil profile is treated as unknown standard customer",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentFrustrated,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentComplaint},
			},
			profile:  nil,
			escalate: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := engine.Evaluate(tt.analysis, tt.profile)
			if decision.Escalate != tt.escalate {
				t.Errorf("Escalate = %v, want %v (reason %q)", decision.Escalate, tt.escalate, decision.EscalationReason)
			}
			if tt.escalate && decision.EscalationReason == "" {
				t.Error("escalated decision must carry a reason")
			}
			if !tt.escalate && decision.EscalationReason != "" {
				t.Errorf("non-escalated decision carries reason %q", decision.EscalationReason)
			}
			if decision.Resolution <= 0 {
				t.Errorf("Resolution = %v, want positive", decision.Resolution)
			}
			if len(decision.Actions) == 0 {
				t.Error("decision must recommend at least one action")
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := NewRuleEngine(nil)
	analysis := &domain.AnalysisResult{
		Sentiment:         domain.SentimentFrustrated,
		Confidence:        0.9,
		Urgency:           domain.UrgencyHigh,
		Intents:           []domain.IntentCategory{domain.IntentBillingDispute, domain.IntentCancellation},
		Issues:            []string{"double charge"},
		EscalationSignals: []string{"refund", "cancel"},
	}
	profile := standardProfile(domain.TierEnterprise)

	first := engine.Evaluate(analysis, profile)
	for i := 0; i < 10; i++ {
		next := engine.Evaluate(analysis, profile)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d: decision differs\nfirst: %+v\nnext:  %+v", i, first, next)
		}
	}
}

func TestResolutionScaling(t *testing.T) {
	engine := NewRuleEngine(nil)

	analysisAt := func(u domain.Urgency) *domain.AnalysisResult {
		return &domain.AnalysisResult{
			Sentiment: domain.SentimentNeutral,
			Urgency:   u,
			Intents:   []domain.IntentCategory{domain.IntentTechnicalIssue},
		}
	}
	profile := standardProfile(domain.TierStandard)

	// Higher urgency must never produce a slower target.
	order := []domain.Urgency{domain.UrgencyLow, domain.UrgencyMedium, domain.UrgencyHigh, domain.UrgencyCritical}
	prev := time.Duration(0)
	for i, u := range order {
		got := engine.Evaluate(analysisAt(u), profile).Resolution
		if i > 0 && got > prev {
			t.Errorf("resolution at %s (%v) slower than at %s (%v)", u, got, order[i-1], prev)
		}
		prev = got
	}

	// Medium urgency, standard tier resolves at the base table value.
	if got := engine.Evaluate(analysisAt(domain.UrgencyMedium), profile).Resolution; got != 24*time.Hour {
		t.Errorf("medium technical issue = %v, want 24h", got)
	}

	// Enterprise tier halves the target.
	if got := engine.Evaluate(analysisAt(domain.UrgencyMedium), standardProfile(domain.TierEnterprise)).Resolution; got != 12*time.Hour {
		t.Errorf("enterprise medium technical issue = %v, want 12h", got)
	}

	// Escalated runs are capped before the tier factor applies.
	critical := engine.Evaluate(analysisAt(domain.UrgencyCritical), profile)
	if !critical.Escalate {
		t.Fatal("critical urgency must escalate")
	}
	if critical.Resolution > 2*time.Hour {
		t.Errorf("escalated resolution = %v, want <= 2h", critical.Resolution)
	}
}

func TestResolutionUsesSlowestIntent(t *testing.T) {
	engine := NewRuleEngine(nil)
	analysis := &domain.AnalysisResult{
		Sentiment: domain.SentimentNeutral,
		Urgency:   domain.UrgencyMedium,
		Intents:   []domain.IntentCategory{domain.IntentGeneralInquiry, domain.IntentFeatureRequest},
	}
	got := engine.Evaluate(analysis, standardProfile(domain.TierStandard)).Resolution
	if got != 72*time.Hour {
		t.Errorf("resolution = %v, want 72h from feature_request", got)
	}
}

func TestActionsTable(t *testing.T) {
	engine := NewRuleEngine(nil)

	tests := []struct {
		name     string
		analysis *domain.AnalysisResult
		profile  *domain.CustomerProfile
		want     []string
		absent   []string
	}{
		{
			name: "escalated run leads with manager action",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentFrustrated,
				Urgency:   domain.UrgencyCritical,
				Intents:   []domain.IntentCategory{domain.IntentTechnicalIssue},
			},
			profile: standardProfile(domain.TierStandard),
			want:    []string{"Escalate to duty manager immediately", "Engage engineering team for technical review"},
		},
		{
			name: "billing dispute from enterprise gets retention offer",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentNegative,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentBillingDispute},
			},
			profile: standardProfile(domain.TierEnterprise),
			want:    []string{"Review billing history and usage", "Draft retention offer", "Apply priority support SLA"},
		},
		{
			name: "billing dispute from free tier gets no retention offer",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentNegative,
				Urgency:   domain.UrgencyMedium,
				Intents:   []domain.IntentCategory{domain.IntentBillingDispute},
			},
			profile: standardProfile(domain.TierFree),
			want:    []string{"Review billing history and usage"},
			absent:  []string{"Draft retention offer", "Apply priority support SLA"},
		},
		{
			name: "compliment with feature request is shared and logged",
			analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentPositive,
				Urgency:   domain.UrgencyLow,
				Intents:   []domain.IntentCategory{domain.IntentCompliment, domain.IntentFeatureRequest},
			},
			profile: standardProfile(domain.TierStandard),
			want:    []string{"Share feedback with the product team", "Log feature request in product backlog"},
			absent:  []string{"Escalate to duty manager immediately"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := engine.Evaluate(tt.analysis, tt.profile)
			got := make(map[string]bool, len(decision.Actions))
			for _, a := range decision.Actions {
				got[a] = true
			}
			for _, w := range tt.want {
				if !got[w] {
					t.Errorf("missing action %q in %v", w, decision.Actions)
				}
			}
			for _, a := range tt.absent {
				if got[a] {
					t.Errorf("unexpected action %q in %v", a, decision.Actions)
				}
			}
			if decision.Escalate && decision.Actions[0] != "Escalate to duty manager immediately" {
				t.Errorf("escalated run must lead with manager action, got %q", decision.Actions[0])
			}
		})
	}
}

func TestScanTriggers(t *testing.T) {
	engine := NewRuleEngine(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no triggers", "Thanks for the quick turnaround on our onboarding!", nil},
		{"single trigger", "I want a refund for last month.", []string{"refund"}},
		{"case insensitive", "This is UNACCEPTABLE. Let me speak to a MANAGER.", []string{"unacceptable", "manager"}},
		{"cancel matches cancellation too", "Please process my cancellation.", []string{"cancel", "cancellation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ScanTriggers(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanTriggers(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Minute, "30m"},
		{2 * time.Hour, "2h"},
		{36 * time.Hour, "36h"},
		{72 * time.Hour, "3d"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
