package llm

import (
	"context"
	"testing"

	"copilot_server/pkg/apperr"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		in, out  int
		expected float64
	}{
		{
			name:     "gpt-4 pricing",
			model:    "gpt-4",
			in:       1000,
			out:      1000,
			expected: 0.09,
		},
		{
			name:     "gpt-3.5-turbo pricing",
			model:    "gpt-3.5-turbo",
			in:       2000,
			out:      0,
			expected: 0.001,
		},
		{
			name:     "versioned model matches prefix",
			model:    "gpt-4o-mini-2024-07-18",
			in:       1000,
			out:      0,
			expected: 0.00015,
		},
		{
			name:     "unknown model uses default price",
			model:    "mystery-model",
			in:       1000,
			out:      1000,
			expected: 0.003,
		},
		{
			name:     "zero tokens",
			model:    "gpt-4",
			in:       0,
			out:      0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(tt.model, tt.in, tt.out)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCostTracker(t *testing.T) {
	tracker := NewCostTracker()

	tracker.Track("gpt-4", 1000, 1000)
	tracker.Track("gpt-3.5-turbo", 2000, 0)

	stats := tracker.GetStats()
	if stats.RequestCount != 2 {
		t.Errorf("expected 2 requests, got %d", stats.RequestCount)
	}
	if stats.TotalTokens != 4000 {
		t.Errorf("expected 4000 tokens, got %d", stats.TotalTokens)
	}
	if stats.AvgCostPerRequest <= 0 {
		t.Errorf("expected positive avg cost, got %v", stats.AvgCostPerRequest)
	}
	if stats.ModelUsage["gpt-4"] != 2000 {
		t.Errorf("expected 2000 gpt-4 tokens, got %d", stats.ModelUsage["gpt-4"])
	}
}

func TestMapModelError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "rate limited",
			err:      &openai.APIError{HTTPStatusCode: 429, Message: "rate limit"},
			wantCode: apperr.CodeRateLimited,
		},
		{
			name:     "server error",
			err:      &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"},
			wantCode: apperr.CodeModelUnavailable,
		},
		{
			name:     "request timeout status",
			err:      &openai.RequestError{HTTPStatusCode: 408, Err: context.DeadlineExceeded},
			wantCode: apperr.CodeTimeout,
		},
		{
			name:     "context deadline",
			err:      context.DeadlineExceeded,
			wantCode: apperr.CodeTimeout,
		},
		{
			name:     "breaker open",
			err:      gobreaker.ErrOpenState,
			wantCode: apperr.CodeModelUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapModelError("gpt-4", tt.err)
			if code := apperr.CodeOf(mapped); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}
