package database

import (
	"context"
	"database/sql"
	"time"
)

// Repository is the query gateway over the store. It performs no domain
// validation: whatever well-typed row it is given is persisted.
type Repository struct {
	db  *DB
	hub *Hub
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db, hub: NewHub()}
}

// Changes exposes the hub that announces committed writes per table.
func (r *Repository) Changes() *Hub {
	return r.hub
}

// exec runs a single-statement write and announces the table on success.
func (r *Repository) exec(ctx context.Context, table, query string, args ...any) (sql.Result, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	r.hub.Publish(table)
	return res, nil
}

// execExisting is exec for statements keyed by id that must hit a row.
func (r *Repository) execExisting(ctx context.Context, table, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	r.hub.Publish(table)
	return nil
}

// deleteByID removes one row; a missing id is a silent no-op and announces nothing.
func (r *Repository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.hub.Publish(table)
	}
	return nil
}

// Timestamps are stored as unix milliseconds and read back in UTC.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// stored is t as a later read returns it.
func stored(t time.Time) time.Time {
	return fromMillis(toMillis(t))
}

func storedPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	s := stored(*t)
	return &s
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func timeFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}
