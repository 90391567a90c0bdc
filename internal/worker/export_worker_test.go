package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/amqp"
	"github.com/sanalover24/Expense-Tracker/internal/core"
)

type fakeFetcher struct {
	rows map[string]fetchedRow
}

type fetchedRow struct {
	tx    core.Transaction
	owner string
}

func (f *fakeFetcher) GetTransaction(ctx context.Context, id string) (core.Transaction, string, error) {
	row, ok := f.rows[id]
	if !ok {
		return core.Transaction{}, "", fmt.Errorf("get transaction %s: %w", id, sql.ErrNoRows)
	}
	return row.tx, row.owner, nil
}

type recordingAppender struct {
	appended []core.Transaction
	owners   []string
	err      error
}

func (a *recordingAppender) Append(ctx context.Context, owner string, t core.Transaction) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.appended = append(a.appended, t)
	a.owners = append(a.owners, owner)
	return "Transactions!A2:F2", nil
}

func sampleTransaction() core.Transaction {
	return core.Transaction{
		ID:       "tx-1",
		Kind:     core.Expense,
		Category: "Food",
		Amount:   core.Money{Cents: 4250},
		Date:     time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		Note:     "lunch",
	}
}

func TestHandleEventCreatedAppendsRow(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[string]fetchedRow{
		"tx-1": {tx: sampleTransaction(), owner: "alice"},
	}}
	appender := &recordingAppender{}
	w := NewExportWorker(fetcher, appender)

	msg := amqp.NewTransactionEventMessage(amqp.OpCreated, "alice", "tx-1")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(appender.appended) != 1 {
		t.Fatalf("appended %d rows, want 1", len(appender.appended))
	}
	if appender.appended[0].ID != "tx-1" || appender.owners[0] != "alice" {
		t.Errorf("appended (%s, %s), want (tx-1, alice)", appender.appended[0].ID, appender.owners[0])
	}
}

func TestHandleEventMissingTransactionFails(t *testing.T) {
	w := NewExportWorker(&fakeFetcher{rows: map[string]fetchedRow{}}, &recordingAppender{})

	msg := amqp.NewTransactionEventMessage(amqp.OpCreated, "alice", "missing")
	err := w.HandleEvent(context.Background(), msg)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("HandleEvent() error = %v, want sql.ErrNoRows", err)
	}
}

func TestHandleEventOwnerMismatchFails(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[string]fetchedRow{
		"tx-1": {tx: sampleTransaction(), owner: "alice"},
	}}
	w := NewExportWorker(fetcher, &recordingAppender{})

	msg := amqp.NewTransactionEventMessage(amqp.OpCreated, "bob", "tx-1")
	err := w.HandleEvent(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Errorf("HandleEvent() error = %v, want owner mismatch", err)
	}
}

func TestHandleEventAppendFailurePropagates(t *testing.T) {
	fetcher := &fakeFetcher{rows: map[string]fetchedRow{
		"tx-1": {tx: sampleTransaction(), owner: "alice"},
	}}
	appendErr := errors.New("quota exceeded")
	w := NewExportWorker(fetcher, &recordingAppender{err: appendErr})

	msg := amqp.NewTransactionEventMessage(amqp.OpCreated, "alice", "tx-1")
	if err := w.HandleEvent(context.Background(), msg); !errors.Is(err, appendErr) {
		t.Errorf("HandleEvent() error = %v, want %v", err, appendErr)
	}
}

func TestHandleEventDeletedIsNoOp(t *testing.T) {
	appender := &recordingAppender{}
	w := NewExportWorker(&fakeFetcher{rows: map[string]fetchedRow{}}, appender)

	msg := amqp.NewTransactionEventMessage(amqp.OpDeleted, "alice", "tx-1")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("deleted event appended %d rows, want 0", len(appender.appended))
	}
}

func TestHandleEventUnknownOpIsSkipped(t *testing.T) {
	w := NewExportWorker(&fakeFetcher{rows: map[string]fetchedRow{}}, &recordingAppender{})

	msg := amqp.NewTransactionEventMessage("mystery", "alice", "tx-1")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Errorf("HandleEvent() error = %v, want nil for unknown op", err)
	}
}
