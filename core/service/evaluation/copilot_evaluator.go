// Package evaluation scores drafted replies asynchronously with an
// LLM-as-judge rubric and estimates the business impact of each assisted run.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
)

const judgeSystemPrompt = `You are an expert quality reviewer for customer support replies. Rate the drafted reply against the customer message on each dimension from 1 (poor) to 10 (excellent). Respond with JSON only.

Respond with this exact JSON format:
{
  "issue_coverage": 1-10,
  "tone": 1-10,
  "professionalism": 1-10,
  "empathy": 1-10,
  "actionability": 1-10,
  "personalization": 1-10
}`

// fallbackScore is used per dimension when the judge output is unusable.
const fallbackScore = 7.0

// Impact model constants. Demo-grade estimates, not billing data.
const (
	manualBaselineMinutes = 15.0 // typical hand-written reply effort
	baselineQuality       = 6.5  // typical hand-written reply score
	supportHourlyCost     = 45.0 // blended support cost, USD
)

// Params configure the judge model call.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// DefaultParams returns the judge call settings.
func DefaultParams(model string) Params {
	return Params{Model: model, Temperature: 0.1, MaxTokens: 400}
}

// Evaluator judges reply quality and derives impact estimates.
type Evaluator struct {
	completer out.TextCompleter
	params    Params
}

// NewEvaluator creates an evaluator.
func NewEvaluator(completer out.TextCompleter, params Params) *Evaluator {
	return &Evaluator{completer: completer, params: params}
}

type judgePayload struct {
	IssueCoverage   *float64 `json:"issue_coverage"`
	Tone            *float64 `json:"tone"`
	Professionalism *float64 `json:"professionalism"`
	Empathy         *float64 `json:"empathy"`
	Actionability   *float64 `json:"actionability"`
	Personalization *float64 `json:"personalization"`
}

// Judge scores one drafted reply. A failed or unparseable judge call falls
// back to neutral scores rather than erroring; evaluation must never be the
// reason a run's record stays unscored forever.
func (e *Evaluator) Judge(ctx context.Context, job *out.EvaluationJob) *domain.QualityScores {
	if job == nil || job.Result == nil || job.Result.Draft == nil {
		return fallbackScores()
	}

	completion, err := e.completer.Complete(ctx, out.CompletionRequest{
		System:      judgeSystemPrompt,
		Prompt:      e.judgePrompt(job),
		Model:       e.params.Model,
		Temperature: e.params.Temperature,
		MaxTokens:   e.params.MaxTokens,
	})
	if err != nil {
		return fallbackScores()
	}

	var payload judgePayload
	if err := json.Unmarshal([]byte(cleanJudgeJSON(completion.Text)), &payload); err != nil {
		return fallbackScores()
	}

	scores := &domain.QualityScores{
		IssueCoverage:   dimension(payload.IssueCoverage),
		Tone:            dimension(payload.Tone),
		Professionalism: dimension(payload.Professionalism),
		Empathy:         dimension(payload.Empathy),
		Actionability:   dimension(payload.Actionability),
		Personalization: dimension(payload.Personalization),
	}
	scores.Overall = (scores.IssueCoverage + scores.Tone + scores.Professionalism +
		scores.Empathy + scores.Actionability + scores.Personalization) / 6
	return scores
}

// Impact derives the business impact estimate from the run duration and the
// judged quality.
func (e *Evaluator) Impact(job *out.EvaluationJob, quality *domain.QualityScores) *domain.ImpactReport {
	durationMinutes := 0.0
	if job != nil {
		durationMinutes = job.DurationMS / 1000 / 60
	}
	timeSaved := manualBaselineMinutes - durationMinutes
	if timeSaved < 0 {
		timeSaved = 0
	}

	qualityImprovement := 0.0
	if quality != nil {
		qualityImprovement = quality.Overall - baselineQuality
	}

	// Rough mapping: each quality point above baseline moves satisfaction
	// by half a point on a 10-point scale.
	satisfactionDelta := qualityImprovement * 0.5

	return &domain.ImpactReport{
		TimeSavedMinutes:   timeSaved,
		QualityImprovement: qualityImprovement,
		SatisfactionDelta:  satisfactionDelta,
		BusinessValue:      timeSaved / 60 * supportHourlyCost,
	}
}

func (e *Evaluator) judgePrompt(job *out.EvaluationJob) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Customer message:\n%s\n\n", job.MessageBody)
	if job.Profile != nil {
		fmt.Fprintf(&sb, "Customer: %s (%s tier)\n\n", job.Profile.Name, job.Profile.Tier)
	}
	if a := job.Result.Analysis; a != nil {
		fmt.Fprintf(&sb, "Detected sentiment: %s, urgency: %s\n\n", a.Sentiment, a.Urgency)
	}
	fmt.Fprintf(&sb, "Drafted reply (requested tone %s):\n%s\n", job.Result.Draft.Tone, job.Result.Draft.Body)
	return sb.String()
}

// dimension clamps a judge score into [1,10], falling back when missing.
func dimension(v *float64) float64 {
	if v == nil {
		return fallbackScore
	}
	if *v < 1 {
		return 1
	}
	if *v > 10 {
		return 10
	}
	return *v
}

func fallbackScores() *domain.QualityScores {
	return &domain.QualityScores{
		IssueCoverage:   fallbackScore,
		Tone:            fallbackScore,
		Professionalism: fallbackScore,
		Empathy:         fallbackScore,
		Actionability:   fallbackScore,
		Personalization: fallbackScore,
		Overall:         fallbackScore,
	}
}

func cleanJudgeJSON(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}
