package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"copilot_server/adapter/in/worker"
	"copilot_server/adapter/out/messaging"
	"copilot_server/config"
	"copilot_server/pkg/logger"

	"github.com/rs/zerolog"
)

// Worker hosts the evaluation consumer. It reads judge jobs from the
// evaluation stream and writes quality and impact scores back onto the
// stored triage runs.
type Worker struct {
	consumer *messaging.Consumer
	deps     *Dependencies
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	zlog     zerolog.Logger
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "worker").Logger()

	if deps.Redis == nil {
		cleanup()
		return nil, nil, fmt.Errorf("evaluation worker requires REDIS_URL")
	}
	if deps.RecordRepo == nil {
		cleanup()
		return nil, nil, fmt.Errorf("evaluation worker requires MONGODB_URL to store scores")
	}

	processor := worker.NewEvaluationProcessor(deps.Evaluator, deps.RecordRepo)

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}

	w.consumer = messaging.NewConsumer(deps.Redis, &messaging.ConsumerConfig{
		Group:                cfg.ConsumerGroup,
		Consumer:             cfg.ConsumerID,
		Streams:              []string{messaging.StreamEvaluate},
		Handler:              processor,
		Logger:               zlog,
		MaxRetries:           cfg.ConsumerMaxRetries,
		PendingCheckInterval: time.Duration(cfg.ConsumerPendingCheckSec) * time.Second,
	})
	logger.Info("Evaluation consumer configured (group=%s consumer=%s)", cfg.ConsumerGroup, cfg.ConsumerID)

	return w, cleanup, nil
}

// Start runs the consumer until Stop is called.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.zlog.Info().Msg("starting evaluation consumer")
		if err := w.consumer.Run(w.ctx); err != nil && err != context.Canceled {
			w.zlog.Error().Err(err).Msg("evaluation consumer error")
		}
	}()

	<-w.ctx.Done()
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) Dependencies() *Dependencies {
	return w.deps
}
