package domain

import "testing"

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		input string
		want  Sentiment
		known bool
	}{
		{"positive", SentimentPositive, true},
		{"  Neutral ", SentimentNeutral, true},
		{"NEGATIVE", SentimentNegative, true},
		{"frustrated", SentimentFrustrated, true},
		{"angry", SentimentFrustrated, true},
		{"ecstatic", DefaultSentiment, false},
		{"", DefaultSentiment, false},
	}

	for _, tt := range tests {
		got, known := ParseSentiment(tt.input)
		if got != tt.want || known != tt.known {
			t.Errorf("ParseSentiment(%q) = (%v, %v), want (%v, %v)", tt.input, got, known, tt.want, tt.known)
		}
	}
}

func TestParseUrgency(t *testing.T) {
	tests := []struct {
		input string
		want  Urgency
		known bool
	}{
		{"low", UrgencyLow, true},
		{"normal", UrgencyMedium, true},
		{"HIGH", UrgencyHigh, true},
		{"urgent", UrgencyCritical, true},
		{"critical", UrgencyCritical, true},
		{"whatever", DefaultUrgency, false},
	}

	for _, tt := range tests {
		got, known := ParseUrgency(tt.input)
		if got != tt.want || known != tt.known {
			t.Errorf("ParseUrgency(%q) = (%v, %v), want (%v, %v)", tt.input, got, known, tt.want, tt.known)
		}
	}
}

func TestNormalizeIntent(t *testing.T) {
	tests := []struct {
		input string
		want  IntentCategory
	}{
		{"Billing Dispute", IntentBillingDispute},
		{"technical-issue", IntentTechnicalIssue},
		{" cancellation_request ", IntentCancellation},
		{"weird new label", IntentCategory("weird_new_label")},
		{"", DefaultIntent},
	}

	for _, tt := range tests {
		if got := NormalizeIntent(tt.input); got != tt.want {
			t.Errorf("NormalizeIntent(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input string
		want  Tier
	}{
		{"free", TierFree},
		{"basic", TierStandard},
		{"Premium", TierPremium},
		{"ENTERPRISE", TierEnterprise},
		{"platinum", TierStandard},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.input); got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToneFor(t *testing.T) {
	tests := []struct {
		sentiment Sentiment
		urgency   Urgency
		want      Tone
	}{
		{SentimentFrustrated, UrgencyCritical, ToneEmpatheticFormal},
		{SentimentNegative, UrgencyHigh, ToneEmpatheticFormal},
		{SentimentFrustrated, UrgencyMedium, ToneEmpathetic},
		{SentimentNeutral, UrgencyHigh, ToneUrgentProfessional},
		{SentimentPositive, UrgencyLow, ToneFriendlyProfessional},
		{SentimentNeutral, UrgencyMedium, ToneFriendlyProfessional},
	}

	for _, tt := range tests {
		if got := ToneFor(tt.sentiment, tt.urgency); got != tt.want {
			t.Errorf("ToneFor(%v, %v) = %v, want %v", tt.sentiment, tt.urgency, got, tt.want)
		}
	}
}

func TestRelationship(t *testing.T) {
	tests := []struct {
		name    string
		profile *CustomerProfile
		want    RelationshipStrength
	}{
		{
			name: "long tenured premium with positive history",
			profile: &CustomerProfile{
				Tier:              TierPremium,
				TenureMonths:      36,
				PreviousSentiment: SentimentPositive,
				TicketCount:       1,
			},
			want: RelationshipStrong,
		},
		{
			name: "mid tenure standard",
			profile: &CustomerProfile{
				Tier:              TierStandard,
				TenureMonths:      14,
				PreviousSentiment: SentimentNeutral,
				TicketCount:       2,
			},
			want: RelationshipModerate,
		},
		{
			name: "new free account with ticket history",
			profile: &CustomerProfile{
				Tier:              TierFree,
				TenureMonths:      2,
				PreviousSentiment: SentimentNegative,
				TicketCount:       8,
			},
			want: RelationshipWeak,
		},
		{
			name:    "nil profile",
			profile: nil,
			want:    RelationshipWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Relationship(); got != tt.want {
				t.Errorf("Relationship() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{0.5, 0.5},
		{-0.2, 0},
		{1.7, 1},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		if got := ClampConfidence(tt.input); got != tt.want {
			t.Errorf("ClampConfidence(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPoliciesFor(t *testing.T) {
	k := DefaultKnowledge()

	billing := k.PoliciesFor([]IntentCategory{IntentBillingDispute})
	if len(billing) != len(k.BillingPolicies) {
		t.Errorf("expected %d billing policy lines, got %d", len(k.BillingPolicies), len(billing))
	}

	// Overlapping intents must not duplicate lines
	both := k.PoliciesFor([]IntentCategory{IntentTechnicalIssue, IntentComplaint})
	if len(both) != len(k.SupportCommitment) {
		t.Errorf("expected deduplicated support lines, got %d", len(both))
	}

	if got := k.PoliciesFor([]IntentCategory{IntentCompliment}); got != nil {
		t.Errorf("expected no policies for compliment, got %v", got)
	}

	var nilKnowledge *CompanyKnowledge
	if got := nilKnowledge.PoliciesFor([]IntentCategory{IntentBillingDispute}); got != nil {
		t.Errorf("nil knowledge should return nil, got %v", got)
	}
}
