// Package storage implements the backing-store port on SQLite. Transactions
// are persisted with a signed amount (negative cents = expense, matching the
// hosted-table encoding); the codec functions below are the only place the
// signed and typed representations meet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sanalover24/Expense-Tracker/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// encodeAmount folds the kind into the sign of the stored cents.
func encodeAmount(t core.Transaction) int64 {
	if t.Kind == core.Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

// decodeAmount recovers the typed representation from signed cents.
func decodeAmount(cents int64) (core.Kind, core.Money) {
	if cents < 0 {
		return core.Expense, core.Money{Cents: -cents}
	}
	return core.Income, core.Money{Cents: cents}
}

func (r *SQLiteRepository) Transactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, occurred_at, note
		FROM transactions
		WHERE owner_id = ?
		ORDER BY occurred_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t     core.Transaction
			cents int64
			at    time.Time
		)
		if err := rows.Scan(&t.ID, &cents, &t.Category, &at, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind, t.Amount = decodeAmount(cents)
		t.Date = at
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	slog.DebugContext(ctx, "Transactions loaded", "owner", owner, "count", len(out))
	return out, nil
}

func (r *SQLiteRepository) Categories(ctx context.Context, owner string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind
		FROM categories
		WHERE owner_id = ?
		ORDER BY name`, owner)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// GetTransaction returns a single transaction by ID regardless of owner.
// The export worker uses it to materialize event payloads.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, string, error) {
	var (
		t     core.Transaction
		owner string
		cents int64
		at    time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, amount_cents, category, occurred_at, note
		FROM transactions
		WHERE id = ?`, id).Scan(&t.ID, &owner, &cents, &t.Category, &at, &t.Note)
	if err != nil {
		return core.Transaction{}, "", fmt.Errorf("get transaction %s: %w", id, err)
	}
	t.Kind, t.Amount = decodeAmount(cents)
	t.Date = at
	return t, owner, nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, owner string, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, amount_cents, category, occurred_at, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, owner, encodeAmount(t), t.Category, t.Date.UTC(), t.Note)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"owner", owner,
		"amount_cents", t.Amount.Cents,
		"kind", t.Kind)
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, owner string, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, category = ?, occurred_at = ?, note = ?
		WHERE id = ? AND owner_id = ?`,
		encodeAmount(t), t.Category, t.Date.UTC(), t.Note, t.ID, owner)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction", t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction", id)
}

func (r *SQLiteRepository) InsertCategory(ctx context.Context, owner string, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, kind)
		VALUES (?, ?, ?, ?)`, c.ID, owner, c.Name, string(c.Kind))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// RenameCategory updates the category row and repoints every transaction
// referencing the old name inside one SQL transaction.
func (r *SQLiteRepository) RenameCategory(ctx context.Context, owner, id, oldName, newName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET name = ? WHERE id = ? AND owner_id = ?`,
		newName, id, owner)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if err := requireRow(res, "category", id); err != nil {
		return err
	}

	repointed, err := tx.ExecContext(ctx, `
		UPDATE transactions SET category = ? WHERE owner_id = ? AND category = ?`,
		newName, owner, oldName)
	if err != nil {
		return fmt.Errorf("repoint transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rename: %w", err)
	}

	n, _ := repointed.RowsAffected()
	slog.InfoContext(ctx, "Category renamed",
		"id", id, "old", oldName, "new", newName, "transactions_repointed", n)
	return nil
}

// DeleteCategory removes the category and cascades to referencing
// transactions in one SQL transaction.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, owner, id, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := requireRow(res, "category", id); err != nil {
		return err
	}

	cascaded, err := tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE owner_id = ? AND category = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("cascade delete transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	n, _ := cascaded.RowsAffected()
	slog.InfoContext(ctx, "Category deleted", "id", id, "name", name, "transactions_deleted", n)
	return nil
}

// Replace swaps both collections for the owner atomically.
func (r *SQLiteRepository) Replace(ctx context.Context, owner string, categories []core.Category, transactions []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE owner_id = ?`, owner); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE owner_id = ?`, owner); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, owner_id, name, kind) VALUES (?, ?, ?, ?)`,
			c.ID, owner, c.Name, string(c.Kind)); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	for _, t := range transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, owner_id, amount_cents, category, occurred_at, note)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, owner, encodeAmount(t), t.Category, t.Date.UTC(), t.Note); err != nil {
			return fmt.Errorf("seed transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Collections replaced",
		"owner", owner,
		"categories", len(categories),
		"transactions", len(transactions))
	return nil
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, sql.ErrNoRows)
	}
	return nil
}
