package services

import (
	"catatin/database"
	"catatin/models"
	"context"

	"github.com/shopspring/decimal"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	ListNotes(ctx context.Context, filter database.NoteFilter) ([]models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	InsertNote(ctx context.Context, note *models.Note) (int64, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	ListTasks(ctx context.Context, filter database.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	InsertTask(ctx context.Context, task *models.Task) (int64, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error
	DeleteTask(ctx context.Context, id int64) error
}

// LedgerRepository defines the interface for ledger data access
type LedgerRepository interface {
	ListLedgerEntries(ctx context.Context, filter database.LedgerFilter) ([]models.LedgerEntry, error)
	GetLedgerEntry(ctx context.Context, id int64) (*models.LedgerEntry, error)
	InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) (int64, error)
	UpdateLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	DeleteLedgerEntry(ctx context.Context, id int64) error
	SumByKind(ctx context.Context, kind models.TransactionKind) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context, kind models.TransactionKind) ([]models.CategoryTotal, error)
}

var (
	_ NoteRepository   = (*database.Repository)(nil)
	_ TaskRepository   = (*database.Repository)(nil)
	_ LedgerRepository = (*database.Repository)(nil)
)
