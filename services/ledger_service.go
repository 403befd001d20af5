package services

import (
	"catatin/database"
	"catatin/live"
	"catatin/models"
	"context"
	"fmt"
)

// LedgerService handles reads, writes and totals for the income/expense ledger
type LedgerService struct {
	repo       LedgerRepository
	changes    live.Source
	writes     *Queue
	categories models.CategorySuggestions
	watch      []live.Option
}

func NewLedgerService(repo LedgerRepository, changes live.Source, writes *Queue, categories models.CategorySuggestions, opts ...live.Option) *LedgerService {
	if writes == nil {
		writes = NewQueue()
	}
	return &LedgerService{
		repo:       repo,
		changes:    changes,
		writes:     writes,
		categories: categories,
		watch:      opts,
	}
}

// Watch observes entries of one kind, or all entries for an empty kind.
func (ls *LedgerService) Watch(ctx context.Context, kind models.TransactionKind) (*live.Subscription[[]models.LedgerEntry], error) {
	filter := database.LedgerFilter{Kind: kind}
	return live.Watch(ctx, ls.changes, database.TableLedger, func(ctx context.Context) ([]models.LedgerEntry, error) {
		return ls.repo.ListLedgerEntries(ctx, filter)
	}, ls.watch...)
}

func (ls *LedgerService) WatchEntry(ctx context.Context, id int64) (*live.Subscription[*models.LedgerEntry], error) {
	return live.Watch(ctx, ls.changes, database.TableLedger, func(ctx context.Context) (*models.LedgerEntry, error) {
		return ls.repo.GetLedgerEntry(ctx, id)
	}, ls.watch...)
}

// WatchSummary observes income, expense and balance.
func (ls *LedgerService) WatchSummary(ctx context.Context) (*live.Subscription[models.LedgerSummary], error) {
	return live.Watch(ctx, ls.changes, database.TableLedger, ls.Summary, ls.watch...)
}

// WatchCategoryTotals observes per-category totals of one kind.
func (ls *LedgerService) WatchCategoryTotals(ctx context.Context, kind models.TransactionKind) (*live.Subscription[[]models.CategoryTotal], error) {
	return live.Watch(ctx, ls.changes, database.TableLedger, func(ctx context.Context) ([]models.CategoryTotal, error) {
		return ls.repo.CategoryTotals(ctx, kind)
	}, ls.watch...)
}

func (ls *LedgerService) List(ctx context.Context, kind models.TransactionKind) ([]models.LedgerEntry, error) {
	return ls.repo.ListLedgerEntries(ctx, database.LedgerFilter{Kind: kind})
}

func (ls *LedgerService) Get(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	entry, err := ls.repo.GetLedgerEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// Summary returns total income, total expense and their difference.
func (ls *LedgerService) Summary(ctx context.Context) (models.LedgerSummary, error) {
	income, err := ls.repo.SumByKind(ctx, models.KindIncome)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("failed to sum income: %w", err)
	}
	expense, err := ls.repo.SumByKind(ctx, models.KindExpense)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("failed to sum expense: %w", err)
	}
	return models.LedgerSummary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}

func (ls *LedgerService) CategoryTotals(ctx context.Context, kind models.TransactionKind) ([]models.CategoryTotal, error) {
	return ls.repo.CategoryTotals(ctx, kind)
}

// Categories returns the suggested categories for kind.
func (ls *LedgerService) Categories(kind models.TransactionKind) []string {
	return ls.categories.For(kind)
}

// Create stores entry. Amount positivity is checked by the caller.
func (ls *LedgerService) Create(ctx context.Context, entry models.LedgerEntry) *Job[models.LedgerEntry] {
	return mutate(ls.writes, ctx, "ledger", "insert", func(ctx context.Context) (models.LedgerEntry, error) {
		if _, err := ls.repo.InsertLedgerEntry(ctx, &entry); err != nil {
			return models.LedgerEntry{}, err
		}
		return entry, nil
	})
}

// Update edits an entry in place.
func (ls *LedgerService) Update(ctx context.Context, entry models.LedgerEntry) *Job[models.LedgerEntry] {
	return mutate(ls.writes, ctx, "ledger", "update", func(ctx context.Context) (models.LedgerEntry, error) {
		if err := ls.repo.UpdateLedgerEntry(ctx, &entry); err != nil {
			return models.LedgerEntry{}, notFound(err, ErrEntryNotFound)
		}
		return entry, nil
	})
}

func (ls *LedgerService) Delete(ctx context.Context, id int64) *Job[Done] {
	return mutate(ls.writes, ctx, "ledger", "delete", func(ctx context.Context) (Done, error) {
		return Done{}, ls.repo.DeleteLedgerEntry(ctx, id)
	})
}
