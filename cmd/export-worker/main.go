package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/amqp"
	"github.com/sanalover24/Expense-Tracker/internal/cli"
	"github.com/sanalover24/Expense-Tracker/internal/export"
	"github.com/sanalover24/Expense-Tracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("export-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	exporter, err := export.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// Cancelling the context stops the consume loop; the deferred closes
	// run after Run returns so in-flight deliveries are not cut off.
	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Starting export worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	exportWorker := worker.NewExportWorker(repo, exporter)
	if err := exportWorker.Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Export worker stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Export worker stopped gracefully")
}
