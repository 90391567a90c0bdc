// Package memory implements the backing-store port on in-process maps.
// It is the default backend for local development and the fallback when no
// database is configured; a new owner starts with the seed dataset.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/seed"
)

type ownerData struct {
	transactions []core.Transaction
	categories   []core.Category
}

type Backend struct {
	mu       sync.Mutex
	owners   map[string]*ownerData
	seedFunc func() ([]core.Category, []core.Transaction)
}

// New returns a backend that seeds each new owner with the default dataset.
func New() *Backend {
	return &Backend{
		owners: make(map[string]*ownerData),
		seedFunc: func() ([]core.Category, []core.Transaction) {
			return seed.Categories(), seed.Transactions(time.Now())
		},
	}
}

// NewEmpty returns a backend whose owners start with no data. Tests use this
// to exercise the empty-collection paths.
func NewEmpty() *Backend {
	return &Backend{
		owners: make(map[string]*ownerData),
		seedFunc: func() ([]core.Category, []core.Transaction) {
			return nil, nil
		},
	}
}

func (b *Backend) data(owner string) *ownerData {
	d, ok := b.owners[owner]
	if !ok {
		cats, txs := b.seedFunc()
		d = &ownerData{transactions: txs, categories: cats}
		b.owners[owner] = d
	}
	return d
}

func (b *Backend) Transactions(_ context.Context, owner string) ([]core.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	out := make([]core.Transaction, len(d.transactions))
	copy(out, d.transactions)
	return out, nil
}

func (b *Backend) Categories(_ context.Context, owner string) ([]core.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	out := make([]core.Category, len(d.categories))
	copy(out, d.categories)
	return out, nil
}

func (b *Backend) InsertTransaction(_ context.Context, owner string, t core.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	for _, existing := range d.transactions {
		if existing.ID == t.ID {
			return fmt.Errorf("transaction %s already exists", t.ID)
		}
	}
	d.transactions = append(d.transactions, t)
	return nil
}

func (b *Backend) UpdateTransaction(_ context.Context, owner string, t core.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	for i := range d.transactions {
		if d.transactions[i].ID == t.ID {
			d.transactions[i] = t
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", t.ID)
}

func (b *Backend) DeleteTransaction(_ context.Context, owner, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	for i := range d.transactions {
		if d.transactions[i].ID == id {
			d.transactions = append(d.transactions[:i], d.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", id)
}

func (b *Backend) InsertCategory(_ context.Context, owner string, c core.Category) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	for _, existing := range d.categories {
		if existing.ID == c.ID {
			return fmt.Errorf("category %s already exists", c.ID)
		}
	}
	d.categories = append(d.categories, c)
	return nil
}

func (b *Backend) RenameCategory(_ context.Context, owner, id, oldName, newName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	found := false
	for i := range d.categories {
		if d.categories[i].ID == id {
			d.categories[i].Name = newName
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("category %s not found", id)
	}
	for i := range d.transactions {
		if d.transactions[i].Category == oldName {
			d.transactions[i].Category = newName
		}
	}
	return nil
}

func (b *Backend) DeleteCategory(_ context.Context, owner, id, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	found := false
	for i := range d.categories {
		if d.categories[i].ID == id {
			d.categories = append(d.categories[:i], d.categories[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("category %s not found", id)
	}
	kept := d.transactions[:0]
	for _, t := range d.transactions {
		if t.Category != name {
			kept = append(kept, t)
		}
	}
	d.transactions = kept
	return nil
}

func (b *Backend) Replace(_ context.Context, owner string, categories []core.Category, transactions []core.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data(owner)
	d.categories = append([]core.Category(nil), categories...)
	d.transactions = append([]core.Transaction(nil), transactions...)
	return nil
}
