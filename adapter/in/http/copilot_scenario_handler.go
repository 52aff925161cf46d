package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"copilot_server/adapter/out/demo"
	"copilot_server/core/port/in"
	"copilot_server/pkg/apperr"
	"copilot_server/pkg/response"
)

// ScenarioHandler exposes the built-in demo scenarios and lets them be run
// through the real pipeline.
type ScenarioHandler struct {
	store  *demo.Store
	triage in.TriageService
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(store *demo.Store, triage in.TriageService) *ScenarioHandler {
	return &ScenarioHandler{store: store, triage: triage}
}

// Register mounts the scenario routes.
func (h *ScenarioHandler) Register(api fiber.Router) {
	scenarios := api.Group("/scenarios")
	scenarios.Get("/", h.List)
	scenarios.Get("/:key", h.Get)
	scenarios.Post("/:key/run", h.Run)
}

// List returns every scenario.
func (h *ScenarioHandler) List(c *fiber.Ctx) error {
	return response.OK(c, h.store.List())
}

// Get returns one scenario by key.
func (h *ScenarioHandler) Get(c *fiber.Ctx) error {
	scenario := h.store.Get(c.Params("key"))
	if scenario == nil {
		return apperr.NotFound("scenario")
	}
	return response.OK(c, scenario)
}

// Run pushes the scenario through the live pipeline.
func (h *ScenarioHandler) Run(c *fiber.Ctx) error {
	scenario := h.store.Get(c.Params("key"))
	if scenario == nil {
		return apperr.NotFound("scenario")
	}

	msg := *scenario.Message
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}

	result, err := h.triage.ProcessMessage(c.Context(), &msg, scenario.Profile)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.Map{
		"run_id":           uuid.NewString(),
		"scenario":         scenario.Key,
		"expected_outcome": scenario.ExpectedOutcome,
		"result":           result,
	})
}
