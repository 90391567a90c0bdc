package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/auth"
	"github.com/sanalover24/Expense-Tracker/internal/backend"
	"github.com/sanalover24/Expense-Tracker/internal/cli"
	apphttp "github.com/sanalover24/Expense-Tracker/internal/http"
	"github.com/sanalover24/Expense-Tracker/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("expense-tracker")
	cfg := cli.LoadAndValidateConfig(logger)

	result, err := backend.NewFactory(logger).Create(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	stores := store.NewManager(result.Backend, result.Events)
	sessions := auth.NewManager(cfg.SessionTTL)

	if cfg.DemoUser != "" {
		if err := sessions.Register(cfg.DemoUser, cfg.DemoPassword); err != nil {
			logger.Error("Failed to register demo user", "error", err, "user", cfg.DemoUser)
			os.Exit(1)
		}
		logger.Info("Registered demo user", "user", cfg.DemoUser)
	}

	srv := apphttp.NewServer(":"+cfg.Port, stores, sessions, result.ReadyCheck)

	// Expired sessions are swept in the background so abandoned logins
	// do not accumulate for the whole process lifetime.
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					logger.Debug("Swept expired sessions", "removed", n)
				}
			case <-sweepStop:
				return
			}
		}
	}()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		close(sweepStop)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting expense-tracker server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events_enabled", result.Events != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
