package database

import (
	"catatin/models"
	"context"
	"database/sql"
	"fmt"
)

// ==================== NOTE OPERATIONS ====================

// NoteFilter narrows ListNotes. The zero value lists every note.
type NoteFilter struct {
	VoiceOnly bool
}

const noteColumns = `id, title, body, created_at, is_voice`

// ListNotes returns notes newest first, ties in insertion order.
func (r *Repository) ListNotes(ctx context.Context, filter NoteFilter) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes`
	if filter.VoiceOnly {
		query += ` WHERE is_voice = 1`
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	notes := make([]models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

// GetNote returns nil, nil when the id does not exist.
func (r *Repository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// InsertNote stores a new note, sets note.ID and returns it. note.CreatedAt
// is rewritten to the stored millisecond UTC value.
func (r *Repository) InsertNote(ctx context.Context, note *models.Note) (int64, error) {
	if note.CreatedAt.IsZero() {
		return 0, ErrMissingTimestamp
	}

	res, err := r.exec(ctx, TableNotes, `
		INSERT INTO notes (title, body, created_at, is_voice)
		VALUES (?, ?, ?, ?)
	`, note.Title, note.Body, toMillis(note.CreatedAt), note.IsVoice)
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	note.ID = id
	note.CreatedAt = stored(note.CreatedAt)
	return id, nil
}

// UpdateNote replaces every mutable field; created_at is never rewritten.
func (r *Repository) UpdateNote(ctx context.Context, note *models.Note) error {
	return r.execExisting(ctx, TableNotes, `
		UPDATE notes SET
			title = ?,
			body = ?,
			is_voice = ?
		WHERE id = ?
	`, note.Title, note.Body, note.IsVoice, note.ID)
}

// DeleteNote removes a note. A missing id is a no-op.
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, TableNotes, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var createdAt int64
	if err := row.Scan(&note.ID, &note.Title, &note.Body, &createdAt, &note.IsVoice); err != nil {
		return nil, err
	}
	note.CreatedAt = fromMillis(createdAt)
	return &note, nil
}
