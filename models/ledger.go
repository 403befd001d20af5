package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells income from expense.
type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// ParseTransactionKind decodes a stored or submitted kind. Matching is case-insensitive.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch k := TransactionKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindIncome, KindExpense:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

func (k TransactionKind) String() string {
	return string(k)
}

// LedgerEntry is a single income or expense record.
type LedgerEntry struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// LedgerSummary holds the headline figures of the ledger.
type LedgerSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Amount is submitted as text so unparsable input can be reported separately
// from non-positive input.
type CreateLedgerEntryRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Amount      string `json:"amount" validate:"required,decimal,positive"`
	Kind        string `json:"kind" validate:"required,txkind"`
	Category    string `json:"category" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateLedgerEntryRequest = CreateLedgerEntryRequest

// CategorySuggestions are the categories offered per kind. The store does
// not enforce them; an entry may carry any category text.
type CategorySuggestions struct {
	Income  []string `json:"income" yaml:"income"`
	Expense []string `json:"expense" yaml:"expense"`
}

// DefaultCategories is used when no categories file is configured.
var DefaultCategories = CategorySuggestions{
	Income:  []string{"Salary", "Freelance", "Investment", "Gift", "Bonus", "Sales", "Other"},
	Expense: []string{"Food", "Transport", "Shopping", "Entertainment", "Bills", "Health", "Education", "Investment", "Other"},
}

// For returns the suggestions of one kind, or nil for an unknown kind.
func (c CategorySuggestions) For(kind TransactionKind) []string {
	switch kind {
	case KindIncome:
		return c.Income
	case KindExpense:
		return c.Expense
	default:
		return nil
	}
}
