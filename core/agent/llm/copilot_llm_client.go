// Package llm adapts the hosted OpenAI completion service to the
// out.TextCompleter port.
package llm

import (
	"context"
	"errors"
	"time"

	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"
	"copilot_server/pkg/httputil"
	"copilot_server/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const DefaultModel = openai.GPT4oMini

// Client wraps the OpenAI API behind a circuit breaker. It performs the
// single external, potentially slow operation in the pipeline and does not
// retry; error kinds are surfaced so the caller can decide.
type Client struct {
	client  *openai.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	tracker *CostTracker
}

// ClientConfig holds connection settings for the model service.
type ClientConfig struct {
	APIKey     string
	BaseURL    string // optional, for compatible gateways
	TimeoutSec int
}

// NewClient creates a new model client.
func NewClient(cfg ClientConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = httputil.NewPooledClient(nil)

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	cbSettings := gobreaker.Settings{
		Name:     "openai",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &Client{
		client:  openai.NewClientWithConfig(apiCfg),
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		tracker: NewCostTracker(),
	}
}

// Tracker exposes the aggregate cost tracker.
func (c *Client) Tracker() *CostTracker {
	return c.tracker
}

// Complete sends one prompt to the model service and returns the raw
// completion text plus token usage.
func (c *Client) Complete(ctx context.Context, req out.CompletionRequest) (*out.Completion, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
	})
	if err != nil {
		return nil, mapModelError(model, err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, apperr.ModelUnavailable(model, errors.New("empty completion"))
	}

	c.tracker.Track(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return &out.Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// mapModelError translates transport and API failures into the typed error
// kinds the pipeline reports: RATE_LIMITED, TIMEOUT or MODEL_UNAVAILABLE.
func mapModelError(model string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.ModelUnavailable(model, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout("model completion").WithError(err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == 429:
		return apperr.RateLimited(model, err)
	case status == 408:
		return apperr.Timeout("model completion").WithError(err)
	default:
		return apperr.ModelUnavailable(model, err)
	}
}
