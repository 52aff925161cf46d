package bootstrap

import (
	"strings"
	"time"

	"copilot_server/adapter/in/http"
	"copilot_server/config"
	"copilot_server/infra/middleware"
	"copilot_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewAPI builds the fiber app with the full middleware stack and routes.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "copilot-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             1 * 1024 * 1024, // messages, not attachments
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.ValidateContentType())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// CORS; credentials require explicit origins
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Probes (no auth)
	healthHandler := http.NewHealthHandlerWithDeps(deps.SQLDB, deps.Redis, deps.MongoDB)
	healthHandler.Register(app)

	// API routes
	api := app.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.RateLimitPerMin > 0 {
		api.Use(middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute).Handler())
	}

	triageHandler := http.NewTriageHandler(
		deps.TriageService,
		deps.ProfileRepo,
		deps.RecordRepo,
		deps.Producer,
		deps.LLMClient.Tracker(),
	)
	triageHandler.Register(api)

	if cfg.DemoEnabled {
		scenarioHandler := http.NewScenarioHandler(deps.DemoStore, deps.TriageService)
		scenarioHandler.Register(api)
		logger.Info("Demo scenario routes enabled")
	}

	return app, cleanup, nil
}
