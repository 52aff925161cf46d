package out

import "context"

// CompletionRequest carries one prompt plus generation parameters to the
// hosted model service.
type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Completion is the raw model output with token accounting.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// TotalTokens returns the combined token count for cost estimation.
func (c *Completion) TotalTokens() int {
	return c.PromptTokens + c.CompletionTokens
}

// TextCompleter is the single external, non-deterministic dependency of the
// triage pipeline. Implementations must surface failures as typed apperr
// errors (MODEL_UNAVAILABLE, RATE_LIMITED, TIMEOUT) so callers can decide
// whether to retry; the core never retries.
type TextCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
