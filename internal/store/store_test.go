package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/memory"
)

const owner = "user-1"

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := New(memory.NewEmpty(), nil)
	if err := s.Load(context.Background(), owner); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func mustAddCategory(t *testing.T, s *Store, name string, kind core.Kind) core.Category {
	t.Helper()
	c, err := s.AddCategory(context.Background(), core.Category{Name: name, Kind: kind})
	if err != nil {
		t.Fatalf("add category %s: %v", name, err)
	}
	return c
}

func mustAddTransaction(t *testing.T, s *Store, category string, kind core.Kind, cents int64) core.Transaction {
	t.Helper()
	tr, err := s.AddTransaction(context.Background(), core.Transaction{
		Kind:     kind,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Date:     time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	return tr
}

func TestAddTransactionVisibleAfterReload(t *testing.T) {
	backend := memory.NewEmpty()
	s := New(backend, nil)
	ctx := context.Background()
	if err := s.Load(ctx, owner); err != nil {
		t.Fatalf("load: %v", err)
	}

	mustAddCategory(t, s, "Food", core.Expense)
	added := mustAddTransaction(t, s, "Food", core.Expense, 1200)

	// A fresh load from the same backend yields the record exactly once.
	fresh := New(backend, nil)
	if err := fresh.Load(ctx, owner); err != nil {
		t.Fatalf("reload: %v", err)
	}
	count := 0
	for _, tr := range fresh.Transactions() {
		if tr.ID == added.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("want record exactly once after reload, got %d", count)
	}
}

func TestAddTransactionRequiresIdentity(t *testing.T) {
	s := New(memory.NewEmpty(), nil)
	_, err := s.AddTransaction(context.Background(), core.Transaction{
		Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: 1}, Date: time.Now(),
	})
	if !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("want ErrNotSignedIn, got %v", err)
	}
}

func TestAddTransactionValidationBeforeBackend(t *testing.T) {
	s := loadedStore(t)
	_, err := s.AddTransaction(context.Background(), core.Transaction{
		Kind: core.Expense, Category: "", Amount: core.Money{Cents: 1}, Date: time.Now(),
	})
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatalf("collection mutated on validation failure")
	}
}

func TestDuplicateCategoryRejected(t *testing.T) {
	s := loadedStore(t)
	mustAddCategory(t, s, "Food", core.Expense)

	before := len(s.Categories())
	_, err := s.AddCategory(context.Background(), core.Category{Name: "food", Kind: core.Expense})
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("want ErrDuplicateCategory, got %v", err)
	}
	if len(s.Categories()) != before {
		t.Fatalf("collection length changed on rejected add")
	}

	// Same name with the other kind is a different category.
	if _, err := s.AddCategory(context.Background(), core.Category{Name: "Food", Kind: core.Income}); err != nil {
		t.Fatalf("name collision across kinds should be allowed: %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := loadedStore(t)
	food := mustAddCategory(t, s, "Food", core.Expense)
	mustAddCategory(t, s, "Rent", core.Expense)
	mustAddTransaction(t, s, "Food", core.Expense, 100)
	mustAddTransaction(t, s, "Food", core.Expense, 200)
	rentTx := mustAddTransaction(t, s, "Rent", core.Expense, 300)

	if err := s.DeleteCategory(context.Background(), food.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, tr := range s.Transactions() {
		if tr.Category == "Food" {
			t.Fatalf("cascade left transaction %s behind", tr.ID)
		}
	}
	if got := s.Transactions(); len(got) != 1 || got[0].ID != rentTx.ID {
		t.Fatalf("unrelated transactions must survive, got %+v", got)
	}

	// Deleting a category with zero references is not an error.
	empty := mustAddCategory(t, s, "Gifts", core.Income)
	if err := s.DeleteCategory(context.Background(), empty.ID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
}

func TestRenameCategoryRepointsTransactions(t *testing.T) {
	s := loadedStore(t)
	food := mustAddCategory(t, s, "Food", core.Expense)
	mustAddTransaction(t, s, "Food", core.Expense, 100)
	mustAddTransaction(t, s, "Food", core.Expense, 200)
	mustAddTransaction(t, s, "Other", core.Expense, 300)

	food.Name = "Groceries"
	if err := s.UpdateCategory(context.Background(), food); err != nil {
		t.Fatalf("rename: %v", err)
	}

	var oldCount, newCount int
	for _, tr := range s.Transactions() {
		switch tr.Category {
		case "Food":
			oldCount++
		case "Groceries":
			newCount++
		}
	}
	if oldCount != 0 || newCount != 2 {
		t.Fatalf("repoint mismatch: old=%d new=%d", oldCount, newCount)
	}
}

func TestUpdateCategoryKindImmutable(t *testing.T) {
	s := loadedStore(t)
	food := mustAddCategory(t, s, "Food", core.Expense)
	food.Kind = core.Income
	if err := s.UpdateCategory(context.Background(), food); !errors.Is(err, ErrCategoryKindImmutable) {
		t.Fatalf("want ErrCategoryKindImmutable, got %v", err)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	s := loadedStore(t)
	mustAddCategory(t, s, "Food", core.Expense)
	tr := mustAddTransaction(t, s, "Food", core.Expense, 100)

	tr.Note = "edited"
	tr.Amount = core.Money{Cents: 250}
	if err := s.UpdateTransaction(context.Background(), tr); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := s.Transactions()
	if len(got) != 1 || got[0].Note != "edited" || got[0].Amount.Cents != 250 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(context.Background(), tr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatalf("delete not applied")
	}

	if err := s.DeleteTransaction(context.Background(), tr.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestResetToDefaults(t *testing.T) {
	s := loadedStore(t)
	mustAddCategory(t, s, "Custom", core.Expense)

	if err := s.ResetToDefaults(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	cats := s.Categories()
	if len(cats) != 9 {
		t.Fatalf("want 9 seed categories, got %d", len(cats))
	}
	for _, c := range cats {
		if c.Name == "Custom" {
			t.Fatalf("custom category survived reset")
		}
	}
	if len(s.Transactions()) != 10 {
		t.Fatalf("want 10 seed transactions, got %d", len(s.Transactions()))
	}
}

func TestLoadSeparatesIdentities(t *testing.T) {
	backend := memory.NewEmpty()
	ctx := context.Background()

	first := New(backend, nil)
	if err := first.Load(ctx, "alice"); err != nil {
		t.Fatalf("load alice: %v", err)
	}
	if _, err := first.AddCategory(ctx, core.Category{Name: "Food", Kind: core.Expense}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Switching identity replaces the collections wholesale.
	if err := first.Load(ctx, "bob"); err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if len(first.Categories()) != 0 {
		t.Fatalf("bob sees alice's categories")
	}

	// A mutation confirmed against the old generation is not applied to the
	// new identity's collections.
	stale := New(backend, nil)
	if err := stale.Load(ctx, "alice"); err != nil {
		t.Fatalf("reload alice: %v", err)
	}
	if len(stale.Categories()) != 1 {
		t.Fatalf("alice's data should persist in the backend")
	}
}

// failingBackend rejects all writes after arming, simulating network loss or
// a constraint violation in the backing store.
type failingBackend struct {
	*memory.Backend
	fail bool
}

var errBackendDown = errors.New("backing store unreachable")

func (f *failingBackend) InsertTransaction(ctx context.Context, owner string, tr core.Transaction) error {
	if f.fail {
		return errBackendDown
	}
	return f.Backend.InsertTransaction(ctx, owner, tr)
}

func (f *failingBackend) DeleteCategory(ctx context.Context, owner, id, name string) error {
	if f.fail {
		return errBackendDown
	}
	return f.Backend.DeleteCategory(ctx, owner, id, name)
}

func TestBackendFailureLeavesMemoryUntouched(t *testing.T) {
	backend := &failingBackend{Backend: memory.NewEmpty()}
	s := New(backend, nil)
	ctx := context.Background()
	if err := s.Load(ctx, owner); err != nil {
		t.Fatalf("load: %v", err)
	}
	food := mustAddCategory(t, s, "Food", core.Expense)
	mustAddTransaction(t, s, "Food", core.Expense, 100)

	backend.fail = true

	_, err := s.AddTransaction(ctx, core.Transaction{
		Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: 5}, Date: time.Now(),
	})
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("want StorageError, got %v", err)
	}
	if len(s.Transactions()) != 1 {
		t.Fatalf("optimistic insert applied despite backend failure")
	}

	if err := s.DeleteCategory(ctx, food.ID); err == nil {
		t.Fatalf("expected cascade delete to fail")
	}
	if len(s.Categories()) != 1 || len(s.Transactions()) != 1 {
		t.Fatalf("partial state after failed cascade")
	}
}

func TestManagerScopesStoresByIdentity(t *testing.T) {
	m := NewManager(memory.NewEmpty(), nil)
	ctx := context.Background()

	alice, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get alice: %v", err)
	}
	if _, err := alice.AddCategory(ctx, core.Category{Name: "Food", Kind: core.Expense}); err != nil {
		t.Fatalf("add: %v", err)
	}

	bob, err := m.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("get bob: %v", err)
	}
	if len(bob.Categories()) != 0 {
		t.Fatalf("identities must not share collections")
	}

	again, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get alice again: %v", err)
	}
	if again != alice {
		t.Fatalf("same identity should reuse the loaded store")
	}

	m.Drop("alice")
	dropped, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get after drop: %v", err)
	}
	if dropped == alice {
		t.Fatalf("dropped identity should get a fresh store")
	}
	if _, err := m.Get(ctx, ""); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("empty identity: want ErrNotSignedIn, got %v", err)
	}
}
