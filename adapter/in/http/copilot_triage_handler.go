// Package http contains the fiber handlers exposing the triage API.
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"copilot_server/core/agent/llm"
	"copilot_server/core/domain"
	"copilot_server/core/port/in"
	"copilot_server/core/port/out"
	"copilot_server/pkg/apperr"
	"copilot_server/pkg/logger"
	"copilot_server/pkg/metrics"
	"copilot_server/pkg/response"
)

// TriageHandler exposes the triage pipeline over HTTP.
type TriageHandler struct {
	triage   in.TriageService
	profiles out.ProfileRepository
	records  out.RecordRepository
	producer out.EvaluationProducer
	tracker  *llm.CostTracker
}

// NewTriageHandler creates a new triage handler. records and producer may be
// nil; triage then runs without history or async evaluation.
func NewTriageHandler(
	triage in.TriageService,
	profiles out.ProfileRepository,
	records out.RecordRepository,
	producer out.EvaluationProducer,
	tracker *llm.CostTracker,
) *TriageHandler {
	return &TriageHandler{
		triage:   triage,
		profiles: profiles,
		records:  records,
		producer: producer,
		tracker:  tracker,
	}
}

// Register mounts the triage routes.
func (h *TriageHandler) Register(api fiber.Router) {
	api.Post("/triage", h.Triage)
	api.Get("/triage/stats", h.Stats)
	api.Get("/triage/runs", h.ListRuns)
	api.Get("/triage/runs/:id", h.GetRun)
}

// triageRequest is the POST /triage body. A profile may be supplied inline or
// looked up by customer_id; inline wins when both are present.
type triageRequest struct {
	Message    *domain.IncomingMessage `json:"message"`
	CustomerID string                  `json:"customer_id,omitempty"`
	Profile    *domain.CustomerProfile `json:"profile,omitempty"`
}

type triageResponse struct {
	RunID  string               `json:"run_id"`
	Result *domain.TriageResult `json:"result"`
}

// Triage runs the pipeline for one message.
func (h *TriageHandler) Triage(c *fiber.Ctx) error {
	var req triageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.Message == nil {
		return apperr.MissingField("message")
	}
	if req.Message.ReceivedAt.IsZero() {
		req.Message.ReceivedAt = time.Now().UTC()
	}

	profile := req.Profile
	if profile == nil && req.CustomerID != "" {
		p, err := h.profiles.GetByID(c.Context(), req.CustomerID)
		if err != nil {
			return err
		}
		profile = p
	}

	runID := uuid.NewString()
	start := time.Now()

	result, err := h.triage.ProcessMessage(c.Context(), req.Message, profile)
	elapsed := time.Since(start)
	durationMS := float64(elapsed) / float64(time.Millisecond)
	metrics.RecordLatency("pipeline", elapsed)

	h.record(c, runID, req, profile, result, err, durationMS)

	if err != nil {
		return err
	}

	h.enqueueEvaluation(c, runID, req.Message, result, profile, durationMS)

	return response.OK(c, &triageResponse{RunID: runID, Result: result})
}

// record persists the run trace. Persistence failures are logged, never
// surfaced; tracing must not break triage.
func (h *TriageHandler) record(
	c *fiber.Ctx,
	runID string,
	req triageRequest,
	profile *domain.CustomerProfile,
	result *domain.TriageResult,
	runErr error,
	durationMS float64,
) {
	if h.records == nil {
		return
	}

	record := &domain.TriageRecord{
		RunID:      runID,
		Subject:    req.Message.Subject,
		From:       req.Message.From,
		Status:     domain.StatusCompleted,
		Result:     result,
		DurationMS: durationMS,
		CreatedAt:  time.Now().UTC(),
	}
	if profile != nil {
		record.CustomerID = profile.ID
		record.Tier = profile.Tier
	} else if req.CustomerID != "" {
		record.CustomerID = req.CustomerID
	}
	if runErr != nil {
		record.Status = domain.StatusFailed
		record.ErrorCode = apperr.CodeOf(runErr)
	}

	if err := h.records.Save(c.Context(), record); err != nil {
		logger.WithField("run_id", runID).WithError(err).Error("Failed to save triage record")
	}
}

// enqueueEvaluation publishes the run for async quality scoring, best-effort.
func (h *TriageHandler) enqueueEvaluation(
	c *fiber.Ctx,
	runID string,
	msg *domain.IncomingMessage,
	result *domain.TriageResult,
	profile *domain.CustomerProfile,
	durationMS float64,
) {
	if h.producer == nil {
		return
	}

	job := &out.EvaluationJob{
		RunID:       runID,
		MessageBody: msg.Body,
		Result:      result,
		Profile:     profile,
		DurationMS:  durationMS,
	}
	if err := h.producer.PublishEvaluation(c.Context(), job); err != nil {
		logger.WithField("run_id", runID).WithError(err).Warn("Failed to enqueue evaluation")
	}
}

// GetRun returns one run record.
func (h *TriageHandler) GetRun(c *fiber.Ctx) error {
	if h.records == nil {
		return apperr.NotFound("triage run")
	}

	record, err := h.records.GetByRunID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, record)
}

// ListRuns returns run records, newest first.
func (h *TriageHandler) ListRuns(c *fiber.Ctx) error {
	if h.records == nil {
		return response.OKWithMeta(c, []*domain.TriageRecord{}, &response.Meta{})
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, err := h.records.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return response.OKWithMeta(c, records, &response.Meta{
		Limit:   limit,
		Offset:  offset,
		HasMore: len(records) == limit,
	})
}

// Stats returns aggregate model usage, cost figures and stage latencies.
func (h *TriageHandler) Stats(c *fiber.Ctx) error {
	cost := llm.CostStats{}
	if h.tracker != nil {
		cost = h.tracker.GetStats()
	}
	return response.OK(c, fiber.Map{
		"cost":    cost,
		"latency": metrics.AllLatencyStats(),
	})
}
