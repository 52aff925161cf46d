package triage

import (
	"context"
	"time"

	"copilot_server/core/agent/llm"
	"copilot_server/core/domain"
	"copilot_server/core/port/in"
	"copilot_server/core/port/out"
	"copilot_server/pkg/metrics"
)

// Params are the per-step model call settings.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Config wires the four pipeline steps to their models. Temperatures follow
// the split between deterministic analysis and free-form drafting.
type Config struct {
	Sentiment Params
	Intent    Params
	Issues    Params
	Draft     Params
}

// DefaultConfig uses one cheap model for the three analysis calls and a
// stronger one for drafting.
func DefaultConfig(analysisModel, draftModel string) Config {
	return Config{
		Sentiment: Params{Model: analysisModel, Temperature: 0.2, MaxTokens: 500},
		Intent:    Params{Model: analysisModel, Temperature: 0.1, MaxTokens: 200},
		Issues:    Params{Model: analysisModel, Temperature: 0.1, MaxTokens: 300},
		Draft:     Params{Model: draftModel, Temperature: 0.3, MaxTokens: 800},
	}
}

// Service runs the triage pipeline: analyze the message, decide handling by
// rule, then draft a reply. Model call failures abort the run; malformed
// model output degrades to defaults and the run continues.
type Service struct {
	completer out.TextCompleter
	prompts   *PromptBuilder
	rules     *RuleEngine
	cfg       Config
}

var _ in.TriageService = (*Service)(nil)

// NewService creates the triage service.
func NewService(completer out.TextCompleter, prompts *PromptBuilder, rules *RuleEngine, cfg Config) *Service {
	return &Service{
		completer: completer,
		prompts:   prompts,
		rules:     rules,
		cfg:       cfg,
	}
}

// ProcessMessage runs the full pipeline for one message. The returned error
// is always a typed apperr error; on error no partial result is returned.
func (s *Service) ProcessMessage(ctx context.Context, msg *domain.IncomingMessage, profile *domain.CustomerProfile) (*domain.TriageResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	analysis, warnings, err := s.analyze(ctx, msg, profile)
	if err != nil {
		return nil, err
	}

	decision := s.rules.Evaluate(analysis, profile)

	draft, err := s.draft(ctx, msg, profile, analysis, decision)
	if err != nil {
		return nil, err
	}

	return &domain.TriageResult{
		Analysis: analysis,
		Decision: decision,
		Draft:    draft,
		Warnings: warnings,
	}, nil
}

// analyze runs the three analysis calls in sequence and assembles the
// AnalysisResult. Any model error aborts; parse degradation only warns.
func (s *Service) analyze(ctx context.Context, msg *domain.IncomingMessage, profile *domain.CustomerProfile) (*domain.AnalysisResult, []string, error) {
	var warnings []string

	system, user, err := s.prompts.BuildSentimentPrompt(msg, profile)
	if err != nil {
		return nil, nil, err
	}
	completion, err := s.complete(ctx, "sentiment", system, user, s.cfg.Sentiment)
	if err != nil {
		return nil, nil, err
	}
	su, w := ParseSentimentUrgency(completion.Text)
	warnings = append(warnings, w...)

	system, user, err = s.prompts.BuildIntentPrompt(msg)
	if err != nil {
		return nil, nil, err
	}
	completion, err = s.complete(ctx, "intents", system, user, s.cfg.Intent)
	if err != nil {
		return nil, nil, err
	}
	intents, w := ParseIntents(completion.Text)
	warnings = append(warnings, w...)

	system, user, err = s.prompts.BuildIssuesPrompt(msg)
	if err != nil {
		return nil, nil, err
	}
	completion, err = s.complete(ctx, "issues", system, user, s.cfg.Issues)
	if err != nil {
		return nil, nil, err
	}
	issues, w := ParseIssues(completion.Text)
	warnings = append(warnings, w...)

	return &domain.AnalysisResult{
		Sentiment:         su.Sentiment,
		Confidence:        su.Confidence,
		SentimentSignals:  su.Signals,
		Urgency:           su.Urgency,
		UrgencyReason:     su.UrgencyReason,
		Intents:           intents,
		Issues:            issues,
		EscalationSignals: s.rules.ScanTriggers(msg.Subject + " " + msg.Body),
	}, warnings, nil
}

func (s *Service) draft(ctx context.Context, msg *domain.IncomingMessage, profile *domain.CustomerProfile, analysis *domain.AnalysisResult, decision *domain.Decision) (*domain.DraftResponse, error) {
	tone := domain.ToneFor(analysis.Sentiment, analysis.Urgency)

	system, user, err := s.prompts.BuildDraftPrompt(msg, profile, analysis, decision, tone)
	if err != nil {
		return nil, err
	}
	completion, err := s.complete(ctx, "draft", system, user, s.cfg.Draft)
	if err != nil {
		return nil, err
	}

	return &domain.DraftResponse{
		Body:       ParseDraft(completion.Text),
		Tone:       tone,
		TokensUsed: completion.TotalTokens(),
		CostUSD:    llm.CalculateCost(s.cfg.Draft.Model, completion.PromptTokens, completion.CompletionTokens),
	}, nil
}

func (s *Service) complete(ctx context.Context, stage, system, user string, p Params) (*out.Completion, error) {
	start := time.Now()
	completion, err := s.completer.Complete(ctx, out.CompletionRequest{
		System:      system,
		Prompt:      user,
		Model:       p.Model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	metrics.RecordLatency(stage, time.Since(start))
	return completion, err
}
