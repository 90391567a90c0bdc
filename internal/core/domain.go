package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind classifies a transaction or category as income or expense.
	Kind string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event.
	// Amount is always a positive magnitude; Kind carries the sign.
	Transaction struct {
		ID       string
		Kind     Kind
		Category string // category name reference
		Amount   Money
		Date     time.Time
		Note     string
	}

	// Category is a named bucket of a fixed kind used to classify
	// transactions. Kind never changes after creation.
	Category struct {
		ID   string
		Name string
		Kind Kind
	}

	User struct {
		ID    string
		Name  string
		Email string
	}
)

// UncategorizedLabel is the fallback shown for transactions whose category
// reference no longer resolves.
const UncategorizedLabel = "Uncategorized"

var (
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrEmptyName     = errors.New("empty name")
	ErrNoteTooLong   = errors.New("note too long (max 500 characters)")
	ErrNameTooLong   = errors.New("name too long (max 100 characters)")
)

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(t.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	return c.Kind.Validate()
}

// SameName reports whether the category name matches, ignoring case.
// Duplicate detection uses this comparison; rename repointing matches the
// stored name exactly.
func (c Category) SameName(name string) bool {
	return strings.EqualFold(c.Name, name)
}
