// Package backend selects and wires the storage backend the server runs on.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanalover24/Expense-Tracker/internal/amqp"
	"github.com/sanalover24/Expense-Tracker/internal/config"
	"github.com/sanalover24/Expense-Tracker/internal/memory"
	"github.com/sanalover24/Expense-Tracker/internal/storage"
	"github.com/sanalover24/Expense-Tracker/internal/store"
)

// Result holds the wired backend and everything the caller must tear down.
type Result struct {
	Backend store.Backend
	Events  store.EventPublisher

	// ReadyCheck reports whether the backend can serve requests.
	ReadyCheck func(ctx context.Context) error

	closers []func() error
}

// Close releases backend resources in reverse acquisition order.
func (r *Result) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory builds backends from application configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create wires the backend named by cfg.DataBackend, plus the AMQP
// event publisher when an AMQP URL is configured.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	var result *Result
	var err error

	switch cfg.DataBackend {
	case "sqlite":
		result, err = f.createSQLite(cfg)
	case "memory":
		result, err = f.createMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			result.Events = client
			result.closers = append(result.closers, client.Close)
		}
	}

	return result, nil
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Backend:    repo,
		ReadyCheck: repo.Ping,
		closers:    []func() error{repo.Close},
	}, nil
}

func (f *Factory) createMemory(cfg *config.Config) (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Backend:    memory.New(),
		ReadyCheck: func(context.Context) error { return nil },
	}, nil
}
