// Package bootstrap assembles the application from config, adapters and
// services.
package bootstrap

import (
	"context"
	"time"

	"copilot_server/adapter/out/demo"
	"copilot_server/adapter/out/messaging"
	"copilot_server/adapter/out/mongodb"
	"copilot_server/adapter/out/persistence"
	"copilot_server/config"
	"copilot_server/core/agent/llm"
	"copilot_server/core/domain"
	"copilot_server/core/port/in"
	"copilot_server/core/port/out"
	"copilot_server/core/service/evaluation"
	"copilot_server/core/service/triage"
	"copilot_server/infra/database"
	"copilot_server/pkg/cache"
	"copilot_server/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds every wired component. Backends are optional: a missing
// DATABASE_URL, REDIS_URL or MONGODB_URL degrades the matching feature
// instead of refusing to boot.
type Dependencies struct {
	Config  *config.Config
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// LLM
	LLMClient *llm.Client

	// Repositories and messaging
	ProfileRepo out.ProfileRepository
	RecordRepo  out.RecordRepository
	Producer    out.EvaluationProducer

	// Services
	TriageService in.TriageService
	Evaluator     *evaluation.Evaluator
	Rules         *triage.RuleEngine

	// Demo
	DemoStore *demo.Store
}

// NewDependencies wires the dependency graph and returns a cleanup closing
// every connection in reverse order.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (customer profiles)
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Postgres connection failed, profiles fall back to demo data: %v", err)
		} else {
			deps.SQLDB = db
			cleanups = append(cleanups, func() { db.Close() })
		}
	}

	// Redis (cache + evaluation stream)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, running without cache and async evaluation: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
		}
	}

	// MongoDB (run history)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			logger.Warn("MongoDB connection failed, running without run history: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				_ = mongoClient.Disconnect(context.Background())
			})

			recordRepo := mongodb.NewRecordAdapter(mongoClient.Database(cfg.MongoDBName))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := recordRepo.EnsureIndexes(ctx); err != nil {
				logger.Warn("Failed to ensure MongoDB indexes: %v", err)
			}
			cancel()
			deps.RecordRepo = recordRepo
		}
	}

	// Demo scenarios; also the profile source of last resort.
	deps.DemoStore = demo.NewStore()

	// Profile repository: Postgres behind a Redis read-through cache when
	// both are up, demo store otherwise.
	switch {
	case deps.SQLDB != nil && deps.Redis != nil:
		deps.ProfileRepo = persistence.NewCachedProfileAdapter(
			persistence.NewProfileAdapter(deps.SQLDB),
			cache.NewRedisCache(deps.Redis),
		)
	case deps.SQLDB != nil:
		deps.ProfileRepo = persistence.NewProfileAdapter(deps.SQLDB)
	default:
		logger.Info("Using demo scenario profiles")
		deps.ProfileRepo = deps.DemoStore
	}

	// Evaluation producer
	if deps.Redis != nil {
		deps.Producer = messaging.NewRedisProducer(deps.Redis)
	}

	// LLM client
	deps.LLMClient = llm.NewClient(llm.ClientConfig{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		TimeoutSec: cfg.LLMTimeoutSec,
	})

	// Rule engine with config overrides
	rulesCfg := triage.DefaultRulesConfig()
	if cfg.IssueThreshold > 0 {
		rulesCfg.IssueThreshold = cfg.IssueThreshold
	}
	if cfg.EscalationTargetMin > 0 {
		rulesCfg.EscalationTarget = time.Duration(cfg.EscalationTargetMin) * time.Minute
	}
	if len(cfg.EscalationTriggers) > 0 {
		rulesCfg.EscalationTriggers = cfg.EscalationTriggers
	}
	deps.Rules = triage.NewRuleEngine(rulesCfg)

	// Triage pipeline
	deps.TriageService = triage.NewService(
		deps.LLMClient,
		triage.NewPromptBuilder(domain.DefaultKnowledge()),
		deps.Rules,
		triage.DefaultConfig(cfg.AnalysisModel, cfg.DraftModel),
	)

	// Evaluation judge
	deps.Evaluator = evaluation.NewEvaluator(deps.LLMClient, evaluation.DefaultParams(cfg.JudgeModel))

	return deps, cleanup, nil
}
