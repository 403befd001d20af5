package database

import (
	"catatin/models"
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ==================== LEDGER OPERATIONS ====================

// LedgerFilter narrows ListLedgerEntries. An empty Kind lists everything.
type LedgerFilter struct {
	Kind models.TransactionKind
}

const ledgerColumns = `id, title, amount, kind, category, description, created_at`

// ListLedgerEntries returns entries newest first, ties in insertion order.
func (r *Repository) ListLedgerEntries(ctx context.Context, filter LedgerFilter) ([]models.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	var args []any
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, filter.Kind.String())
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

// GetLedgerEntry returns nil, nil when the id does not exist.
func (r *Repository) GetLedgerEntry(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = ?`, id)
	entry, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// InsertLedgerEntry stores a new entry, sets entry.ID and returns it.
func (r *Repository) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		return 0, ErrMissingTimestamp
	}

	res, err := r.exec(ctx, TableLedger, `
		INSERT INTO ledger_entries (title, amount, kind, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.Title, entry.Amount.String(), entry.Kind.String(),
		entry.Category, entry.Description, toMillis(entry.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	entry.ID = id
	entry.CreatedAt = stored(entry.CreatedAt)
	return id, nil
}

// UpdateLedgerEntry replaces every mutable field; created_at is never rewritten.
func (r *Repository) UpdateLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.execExisting(ctx, TableLedger, `
		UPDATE ledger_entries SET
			title = ?,
			amount = ?,
			kind = ?,
			category = ?,
			description = ?
		WHERE id = ?
	`,
		entry.Title, entry.Amount.String(), entry.Kind.String(),
		entry.Category, entry.Description, entry.ID,
	)
}

// DeleteLedgerEntry removes an entry. A missing id is a no-op.
func (r *Repository) DeleteLedgerEntry(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, TableLedger, id)
}

// ==================== LEDGER AGGREGATES ====================

// SumByKind adds up every amount of one kind. Sums are computed with
// decimal arithmetic, so they are exact; an empty ledger sums to zero.
func (r *Repository) SumByKind(ctx context.Context, kind models.TransactionKind) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT amount FROM ledger_entries WHERE kind = ?`, kind.String())
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}

	return total, rows.Err()
}

// CategoryTotals sums one kind per category, largest total first and
// ties by category name.
func (r *Repository) CategoryTotals(ctx context.Context, kind models.TransactionKind) ([]models.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, amount
		FROM ledger_entries
		WHERE kind = ?
	`, kind.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]int)
	totals := make([]models.CategoryTotal, 0)
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, err
		}
		i, ok := index[category]
		if !ok {
			i = len(totals)
			index[category] = i
			totals = append(totals, models.CategoryTotal{Category: category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(totals, func(a, b models.CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return totals, nil
}

func scanLedgerEntry(row rowScanner) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var kind string
	var createdAt int64
	if err := row.Scan(
		&entry.ID, &entry.Title, &entry.Amount, &kind,
		&entry.Category, &entry.Description, &createdAt,
	); err != nil {
		return nil, err
	}

	k, err := models.ParseTransactionKind(kind)
	if err != nil {
		return nil, fmt.Errorf("ledger entry %d: %w", entry.ID, err)
	}

	entry.Kind = k
	entry.CreatedAt = fromMillis(createdAt)
	return &entry, nil
}
