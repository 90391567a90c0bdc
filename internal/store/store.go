// Package store implements the authoritative client-facing copy of one
// identity's transactions and categories. The Store is the sole mutation
// gateway: every write goes to the backing store first and is applied to the
// in-memory collections only after the backing store confirms it, so a
// failed write never leaves partial state behind.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/seed"
)

var (
	ErrNotSignedIn           = errors.New("no identity loaded")
	ErrDuplicateCategory     = errors.New("category with this name and kind already exists")
	ErrNotFound              = errors.New("not found")
	ErrCategoryKindImmutable = errors.New("category kind cannot be changed")
)

// Store holds the in-memory collections for a single owner identity.
// Reads return snapshots; consumers never see the internal slices.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	events  EventPublisher // optional

	owner        string
	gen          uint64
	transactions []core.Transaction
	categories   []core.Category
}

// New creates a store bound to the backing store. events may be nil.
func New(backend Backend, events EventPublisher) *Store {
	return &Store{backend: backend, events: events}
}

// Load replaces the in-memory collections with the backing store's rows for
// owner. Both collections are fetched concurrently. A load that loses the
// race against a newer Load (rapid identity change) discards its rows
// instead of applying them, so data from two identities is never mixed.
func (s *Store) Load(ctx context.Context, owner string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.owner = owner
	s.transactions = nil
	s.categories = nil
	s.mu.Unlock()

	if owner == "" {
		return nil
	}

	var (
		txs  []core.Transaction
		cats []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.backend.Transactions(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.backend.Categories(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return storageErr("load", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		slog.DebugContext(ctx, "Discarding stale load result", "owner", owner, "gen", gen)
		return nil
	}
	s.transactions = txs
	s.categories = cats
	return nil
}

// Owner returns the identity the store is currently loaded for.
func (s *Store) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Transactions returns a snapshot of the transaction collection.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Categories returns a snapshot of the category collection.
func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddTransaction validates the draft, assigns an identity, and persists it.
// The in-memory collection picks it up only after the backing store confirms
// the write; on failure the collections are left unchanged.
func (s *Store) AddTransaction(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	s.mu.RUnlock()
	if owner == "" {
		return core.Transaction{}, ErrNotSignedIn
	}

	draft.ID = uuid.NewString()
	draft.Category = strings.TrimSpace(draft.Category)
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.backend.InsertTransaction(ctx, owner, draft); err != nil {
		return core.Transaction{}, storageErr("insert transaction", err)
	}
	s.apply(gen, func() {
		s.transactions = append([]core.Transaction{draft}, s.transactions...)
	})

	s.publish(ctx, func(p EventPublisher) error {
		return p.TransactionCreated(ctx, owner, draft.ID)
	}, "transaction:created", draft.ID)

	slog.InfoContext(ctx, "Transaction added",
		"id", draft.ID,
		"kind", draft.Kind,
		"category", draft.Category,
		"amount_cents", draft.Amount.Cents)
	return draft, nil
}

// UpdateTransaction replaces the stored transaction with the same ID.
func (s *Store) UpdateTransaction(ctx context.Context, updated core.Transaction) error {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	idx := s.findTransaction(updated.ID)
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotSignedIn
	}
	if idx < 0 {
		return fmt.Errorf("transaction %s: %w", updated.ID, ErrNotFound)
	}
	updated.Category = strings.TrimSpace(updated.Category)
	if err := updated.Validate(); err != nil {
		return err
	}

	if err := s.backend.UpdateTransaction(ctx, owner, updated); err != nil {
		return storageErr("update transaction", err)
	}
	s.apply(gen, func() {
		if i := s.findTransaction(updated.ID); i >= 0 {
			s.transactions[i] = updated
		}
	})
	return nil
}

// DeleteTransaction removes the transaction with the given ID.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	idx := s.findTransaction(id)
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotSignedIn
	}
	if idx < 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	if err := s.backend.DeleteTransaction(ctx, owner, id); err != nil {
		return storageErr("delete transaction", err)
	}
	s.apply(gen, func() {
		if i := s.findTransaction(id); i >= 0 {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
		}
	})

	s.publish(ctx, func(p EventPublisher) error {
		return p.TransactionDeleted(ctx, owner, id)
	}, "transaction:deleted", id)
	return nil
}

// AddCategory persists a new category. A category whose name (compared
// case-insensitively) and kind collide with an existing one is rejected
// before any backing-store call.
func (s *Store) AddCategory(ctx context.Context, draft core.Category) (core.Category, error) {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	dup := false
	for _, c := range s.categories {
		if c.SameName(draft.Name) && c.Kind == draft.Kind {
			dup = true
			break
		}
	}
	s.mu.RUnlock()
	if owner == "" {
		return core.Category{}, ErrNotSignedIn
	}

	draft.ID = uuid.NewString()
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return core.Category{}, err
	}
	if dup {
		return core.Category{}, ErrDuplicateCategory
	}

	if err := s.backend.InsertCategory(ctx, owner, draft); err != nil {
		return core.Category{}, storageErr("insert category", err)
	}
	s.apply(gen, func() {
		s.categories = append(s.categories, draft)
	})
	slog.InfoContext(ctx, "Category added", "id", draft.ID, "name", draft.Name, "kind", draft.Kind)
	return draft, nil
}

// UpdateCategory renames a category. The kind is fixed after creation.
// Every transaction referencing the old name is repointed to the new name as
// part of the same operation: readers observe either the old state or the
// fully renamed one, never a mix.
func (s *Store) UpdateCategory(ctx context.Context, updated core.Category) error {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	var current *core.Category
	for i := range s.categories {
		if s.categories[i].ID == updated.ID {
			c := s.categories[i]
			current = &c
			break
		}
	}
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotSignedIn
	}
	if current == nil {
		return fmt.Errorf("category %s: %w", updated.ID, ErrNotFound)
	}
	if updated.Kind != "" && updated.Kind != current.Kind {
		return ErrCategoryKindImmutable
	}
	updated.Kind = current.Kind
	updated.Name = strings.TrimSpace(updated.Name)
	if err := updated.Validate(); err != nil {
		return err
	}
	if updated.Name == current.Name {
		return nil
	}

	oldName := current.Name
	if err := s.backend.RenameCategory(ctx, owner, updated.ID, oldName, updated.Name); err != nil {
		return storageErr("rename category", err)
	}
	s.apply(gen, func() {
		for i := range s.categories {
			if s.categories[i].ID == updated.ID {
				s.categories[i] = updated
			}
		}
		for i := range s.transactions {
			if s.transactions[i].Category == oldName {
				s.transactions[i].Category = updated.Name
			}
		}
	})
	slog.InfoContext(ctx, "Category renamed", "id", updated.ID, "old", oldName, "new", updated.Name)
	return nil
}

// DeleteCategory removes the category and cascades deletion to every
// transaction referencing it by name. Deleting a category nothing references
// is not an error.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	var name string
	found := false
	for _, c := range s.categories {
		if c.ID == id {
			name = c.Name
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotSignedIn
	}
	if !found {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	if err := s.backend.DeleteCategory(ctx, owner, id, name); err != nil {
		return storageErr("delete category", err)
	}
	s.apply(gen, func() {
		kept := s.categories[:0]
		for _, c := range s.categories {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.categories = kept

		keptTx := s.transactions[:0]
		for _, t := range s.transactions {
			if t.Category != name {
				keptTx = append(keptTx, t)
			}
		}
		s.transactions = keptTx
	})
	slog.InfoContext(ctx, "Category deleted with cascade", "id", id, "name", name)
	return nil
}

// ResetToDefaults replaces both collections with the seed dataset. The typed
// confirmation phrase is the presentation layer's concern, not enforced here.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	s.mu.RLock()
	owner := s.owner
	gen := s.gen
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotSignedIn
	}

	cats := seed.Categories()
	txs := seed.Transactions(time.Now())
	if err := s.backend.Replace(ctx, owner, cats, txs); err != nil {
		return storageErr("reset", err)
	}
	s.apply(gen, func() {
		s.categories = cats
		s.transactions = txs
	})
	slog.InfoContext(ctx, "Store reset to defaults", "owner", owner)
	return nil
}

// apply runs fn under the write lock unless a newer Load superseded the
// generation the caller observed, in which case the confirmed write will be
// picked up by that load's fetch instead.
func (s *Store) apply(gen uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	fn()
}

// findTransaction must be called with at least the read lock held.
func (s *Store) findTransaction(id string) int {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publish(ctx context.Context, fn func(EventPublisher) error, event, id string) {
	if s.events == nil {
		return
	}
	if err := fn(s.events); err != nil {
		// Export is best-effort: the local write already succeeded.
		slog.WarnContext(ctx, "Event publish failed", "event", event, "id", id, "error", err)
	}
}
