// Package worker mirrors confirmed transactions from SQLite into a
// spreadsheet, driven by transaction events consumed from the message queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sanalover24/Expense-Tracker/internal/amqp"
	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/export"
)

// TransactionFetcher looks up the full transaction row for an event.
// *storage.SQLiteRepository satisfies it.
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, string, error)
}

type ExportWorker struct {
	storage  TransactionFetcher
	appender export.RowAppender
}

func NewExportWorker(storage TransactionFetcher, appender export.RowAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	switch msg.Op {
	case amqp.OpCreated:
		return w.handleCreated(ctx, msg)
	case amqp.OpDeleted:
		// Deletions are recorded but not propagated; the spreadsheet is an
		// append-only audit log.
		slog.InfoContext(ctx, "Transaction deleted",
			"id", msg.ID,
			"owner", msg.Owner,
			"timestamp", msg.Timestamp)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event op, skipping", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) handleCreated(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	t, owner, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	// The event carries the owner for traceability; the row in the database
	// is authoritative.
	if msg.Owner != "" && msg.Owner != owner {
		return fmt.Errorf("event owner %q does not match stored owner %q", msg.Owner, owner)
	}

	ref, err := w.appender.Append(ctx, owner, t)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", msg.ID,
		"owner", owner,
		"sheets_ref", ref,
		"amount_cents", t.Amount.Cents)
	return nil
}

// Run consumes events until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	err := client.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
