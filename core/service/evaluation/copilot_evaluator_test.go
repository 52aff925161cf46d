package evaluation

import (
	"context"
	"math"
	"testing"

	"copilot_server/core/domain"
	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"
)

type stubCompleter struct {
	text string
	err  error
}

func (s *stubCompleter) Complete(context.Context, out.CompletionRequest) (*out.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &out.Completion{Text: s.text, PromptTokens: 100, CompletionTokens: 50}, nil
}

func sampleJob() *out.EvaluationJob {
	return &out.EvaluationJob{
		RunID:       "run-123",
		MessageBody: "The export feature has been broken for days.",
		Result: &domain.TriageResult{
			Analysis: &domain.AnalysisResult{
				Sentiment: domain.SentimentFrustrated,
				Urgency:   domain.UrgencyHigh,
			},
			Draft: &domain.DraftResponse{
				Body: "Dear customer, I'm sorry about the export problems.",
				Tone: domain.ToneEmpatheticFormal,
			},
		},
		DurationMS: 12000,
	}
}

func TestJudgeParsesScores(t *testing.T) {
	completer := &stubCompleter{text: `{
		"issue_coverage": 8, "tone": 9, "professionalism": 9,
		"empathy": 8, "actionability": 7, "personalization": 7
	}`}
	e := NewEvaluator(completer, DefaultParams("gpt-4o"))

	scores := e.Judge(context.Background(), sampleJob())
	if scores.IssueCoverage != 8 || scores.Tone != 9 || scores.Actionability != 7 {
		t.Errorf("scores = %+v", scores)
	}
	want := (8.0 + 9 + 9 + 8 + 7 + 7) / 6
	if math.Abs(scores.Overall-want) > 1e-9 {
		t.Errorf("Overall = %v, want %v", scores.Overall, want)
	}
}

func TestJudgeFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{"judge call fails", &stubCompleter{err: apperr.ModelUnavailable("gpt-4o", nil)}},
		{"unparseable output", &stubCompleter{text: "these scores look fine to me"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.completer, DefaultParams("gpt-4o"))
			scores := e.Judge(context.Background(), sampleJob())
			if scores.Overall != fallbackScore {
				t.Errorf("Overall = %v, want fallback %v", scores.Overall, fallbackScore)
			}
		})
	}
}

func TestJudgeClampsAndDefaultsDimensions(t *testing.T) {
	completer := &stubCompleter{text: `{"issue_coverage": 15, "tone": 0, "professionalism": 8}`}
	e := NewEvaluator(completer, DefaultParams("gpt-4o"))

	scores := e.Judge(context.Background(), sampleJob())
	if scores.IssueCoverage != 10 {
		t.Errorf("IssueCoverage = %v, want clamped 10", scores.IssueCoverage)
	}
	if scores.Tone != 1 {
		t.Errorf("Tone = %v, want clamped 1", scores.Tone)
	}
	if scores.Empathy != fallbackScore {
		t.Errorf("Empathy = %v, want fallback for missing dimension", scores.Empathy)
	}
}

func TestImpact(t *testing.T) {
	e := NewEvaluator(&stubCompleter{}, DefaultParams("gpt-4o"))

	job := sampleJob() // 12s run
	quality := &domain.QualityScores{Overall: 8.5}

	impact := e.Impact(job, quality)
	if math.Abs(impact.TimeSavedMinutes-14.8) > 1e-9 {
		t.Errorf("TimeSavedMinutes = %v, want 14.8", impact.TimeSavedMinutes)
	}
	if math.Abs(impact.QualityImprovement-2.0) > 1e-9 {
		t.Errorf("QualityImprovement = %v, want 2.0", impact.QualityImprovement)
	}
	if math.Abs(impact.SatisfactionDelta-1.0) > 1e-9 {
		t.Errorf("SatisfactionDelta = %v, want 1.0", impact.SatisfactionDelta)
	}
	if impact.BusinessValue <= 0 {
		t.Errorf("BusinessValue = %v, want positive", impact.BusinessValue)
	}

	// A run slower than a human never reports negative savings.
	slow := sampleJob()
	slow.DurationMS = 20 * 60 * 1000
	if got := e.Impact(slow, quality).TimeSavedMinutes; got != 0 {
		t.Errorf("TimeSavedMinutes = %v, want 0 for slow run", got)
	}
}
