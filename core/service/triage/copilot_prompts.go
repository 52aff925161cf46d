// Package triage implements the analysis-to-decision pipeline: prompt
// construction, structured parsing, rule-based decisions and reply drafting.
package triage

import (
	"fmt"
	"strings"

	"copilot_server/core/domain"
	"copilot_server/pkg/apperr"
)

// promptBodyLimit caps how much of the customer message is embedded in a
// prompt.
const promptBodyLimit = 4000

const sentimentSystemPrompt = `You are an expert customer success analyst. Analyze the customer message and respond with JSON only.

Respond with this exact JSON format:
{
  "sentiment": {
    "label": "positive|neutral|negative|frustrated",
    "confidence": 0.0-1.0,
    "key_indicators": ["specific phrases that indicate sentiment"]
  },
  "urgency": {
    "level": "low|medium|high|critical",
    "reasoning": "one sentence explaining the urgency level"
  }
}

Consider:
- Emotional language and tone
- Explicit urgency indicators ("urgent", "immediately", "ASAP")
- Business impact mentions
- Threat of cancellation or escalation`

const intentSystemPrompt = `You are an expert at classifying customer support intents. Respond with JSON only.

Intents (pick all that apply, most important first):
- billing_dispute: Questions or complaints about charges
- feature_request: Suggestions for new functionality
- technical_issue: Something is broken or erroring
- account_access: Login, password, permission problems
- cancellation_request: Wants to cancel or threatens to leave
- integration_support: API, webhook or third-party integration help
- training_request: Wants onboarding or training
- general_inquiry: Anything else informational
- complaint: General dissatisfaction
- compliment: Praise or positive feedback

Respond with this exact JSON format:
{"intents": ["intent_1", "intent_2"]}`

const issuesSystemPrompt = `You are an expert at identifying specific customer issues. Respond with JSON only.

Extract the concrete, actionable problems mentioned in the message:
- Specific features not working
- Billing discrepancies
- Access issues
- Integration failures

Respond with this exact JSON format:
{"issues": ["short issue description", "another issue"]}`

const draftSystemPrompt = `You are an expert customer success manager who writes empathetic, professional and effective customer replies.

The reply must:
1. Acknowledge the customer's concerns specifically
2. Address each key issue mentioned
3. Match the requested tone
4. Include next steps and the resolution timeline
5. Be personalized when customer context is provided
6. Be concise but complete

Only output the reply body, no subject line or signatures.`

// PromptBuilder constructs the four fixed prompts of the pipeline. Pure
// string construction, no side effects.
type PromptBuilder struct {
	knowledge *domain.CompanyKnowledge
}

// NewPromptBuilder creates a prompt builder. A nil knowledge base is allowed.
func NewPromptBuilder(knowledge *domain.CompanyKnowledge) *PromptBuilder {
	return &PromptBuilder{knowledge: knowledge}
}

// BuildSentimentPrompt returns the sentiment/urgency analysis prompt.
func (b *PromptBuilder) BuildSentimentPrompt(msg *domain.IncomingMessage, profile *domain.CustomerProfile) (system, user string, err error) {
	if err := msg.Validate(); err != nil {
		return "", "", err
	}
	return sentimentSystemPrompt, b.messageContext(msg, profile), nil
}

// BuildIntentPrompt returns the intent classification prompt.
func (b *PromptBuilder) BuildIntentPrompt(msg *domain.IncomingMessage) (system, user string, err error) {
	if err := msg.Validate(); err != nil {
		return "", "", err
	}
	return intentSystemPrompt, b.messageContext(msg, nil), nil
}

// BuildIssuesPrompt returns the issue extraction prompt.
func (b *PromptBuilder) BuildIssuesPrompt(msg *domain.IncomingMessage) (system, user string, err error) {
	if err := msg.Validate(); err != nil {
		return "", "", err
	}
	return issuesSystemPrompt, b.messageContext(msg, nil), nil
}

// BuildDraftPrompt returns the response drafting prompt, embedding the
// analysis, decision, customer context and relevant policy lines.
func (b *PromptBuilder) BuildDraftPrompt(
	msg *domain.IncomingMessage,
	profile *domain.CustomerProfile,
	analysis *domain.AnalysisResult,
	decision *domain.Decision,
	tone domain.Tone,
) (system, user string, err error) {
	if err := msg.Validate(); err != nil {
		return "", "", err
	}
	if analysis == nil || decision == nil {
		return "", "", apperr.MissingField("analysis")
	}

	var sb strings.Builder

	sb.WriteString("Customer analysis:\n")
	fmt.Fprintf(&sb, "- Sentiment: %s (confidence: %.2f)\n", analysis.Sentiment, analysis.Confidence)
	fmt.Fprintf(&sb, "- Urgency: %s\n", analysis.Urgency)
	fmt.Fprintf(&sb, "- Intents: %s\n", joinIntents(analysis.Intents))
	if len(analysis.Issues) > 0 {
		fmt.Fprintf(&sb, "- Key issues: %s\n", strings.Join(analysis.Issues, "; "))
	}
	fmt.Fprintf(&sb, "- Escalated: %t\n", decision.Escalate)
	fmt.Fprintf(&sb, "- Resolution target: %s\n", formatDuration(decision.Resolution))
	if len(decision.Actions) > 0 {
		fmt.Fprintf(&sb, "- Planned actions: %s\n", strings.Join(decision.Actions, "; "))
	}
	fmt.Fprintf(&sb, "- Requested tone: %s\n", tone)

	if profile != nil {
		sb.WriteString("\nCustomer context:\n")
		fmt.Fprintf(&sb, "- Name: %s\n", profile.Name)
		fmt.Fprintf(&sb, "- Tier: %s\n", profile.Tier)
		fmt.Fprintf(&sb, "- Tenure: %d months\n", profile.TenureMonths)
		fmt.Fprintf(&sb, "- Relationship: %s\n", profile.Relationship())
	}

	if policies := b.knowledge.PoliciesFor(analysis.Intents); len(policies) > 0 {
		sb.WriteString("\nRelevant company policies:\n")
		for _, p := range policies {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}

	fmt.Fprintf(&sb, "\nOriginal message:\n%s\n\nWrite the reply:", b.messageContext(msg, nil))

	return draftSystemPrompt, sb.String(), nil
}

// messageContext renders the message (and optional profile) block embedded
// in analysis prompts.
func (b *PromptBuilder) messageContext(msg *domain.IncomingMessage, profile *domain.CustomerProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\nSubject: %s\n", msg.From, msg.Subject)
	if profile != nil {
		fmt.Fprintf(&sb, "Customer tier: %s, account value: $%.0f/yr, tenure: %d months\n",
			profile.Tier, profile.AccountValue, profile.TenureMonths)
	}
	fmt.Fprintf(&sb, "\nBody:\n%s", truncateBody(msg.Body, promptBodyLimit))
	return sb.String()
}

func joinIntents(intents []domain.IntentCategory) string {
	if len(intents) == 0 {
		return string(domain.DefaultIntent)
	}
	parts := make([]string, len(intents))
	for i, intent := range intents {
		parts[i] = string(intent)
	}
	return strings.Join(parts, ", ")
}

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
