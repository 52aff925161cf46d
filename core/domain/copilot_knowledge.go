package domain

// CompanyKnowledge is the static policy context woven into drafting prompts.
// A production deployment would load this from a knowledge base; the demo
// ships with fixed policy lines.
type CompanyKnowledge struct {
	BillingPolicies   []string
	SupportCommitment []string
	FallbackResponses map[IntentCategory]string
}

// DefaultKnowledge returns the built-in demo knowledge base.
func DefaultKnowledge() *CompanyKnowledge {
	return &CompanyKnowledge{
		BillingPolicies: []string{
			"Refunds available within 30 days of purchase",
			"Premium features include priority support and advanced analytics",
			"Billing cycles can be changed with 48 hours notice",
		},
		SupportCommitment: []string{
			"Premium and Enterprise accounts receive priority support",
			"Escalated issues are acknowledged within 2 hours",
		},
		FallbackResponses: map[IntentCategory]string{
			IntentBillingDispute: "I understand your concern about billing. Let me review your account and ensure everything is accurate.",
			IntentFeatureRequest: "Thank you for the suggestion! I'll make sure our product team sees this feedback.",
			IntentTechnicalIssue: "I apologize for the technical difficulties. Let me get our engineering team involved to resolve this quickly.",
		},
	}
}

// PoliciesFor returns the knowledge lines relevant to the given intents.
func (k *CompanyKnowledge) PoliciesFor(intents []IntentCategory) []string {
	if k == nil {
		return nil
	}

	var lines []string
	for _, intent := range intents {
		switch intent {
		case IntentBillingDispute, IntentCancellation:
			lines = append(lines, k.BillingPolicies...)
		case IntentTechnicalIssue, IntentIntegration, IntentComplaint:
			lines = append(lines, k.SupportCommitment...)
		}
	}
	return dedupeStrings(lines)
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
