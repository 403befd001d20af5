package services

import (
	"catatin/database"
	"catatin/live"
	"catatin/models"
	"context"
	"errors"
	"fmt"
)

// NoteService handles reads and writes for notes
type NoteService struct {
	repo    NoteRepository
	changes live.Source
	writes  *Queue
	watch   []live.Option
}

// NewNoteService creates a new note service. Services that share a queue
// apply their writes in one global order. opts apply to every subscription
// the service opens.
func NewNoteService(repo NoteRepository, changes live.Source, writes *Queue, opts ...live.Option) *NoteService {
	if writes == nil {
		writes = NewQueue()
	}
	return &NoteService{
		repo:    repo,
		changes: changes,
		writes:  writes,
		watch:   opts,
	}
}

// Watch observes the notes matching filter, newest first.
func (ns *NoteService) Watch(ctx context.Context, filter database.NoteFilter) (*live.Subscription[[]models.Note], error) {
	return live.Watch(ctx, ns.changes, database.TableNotes, func(ctx context.Context) ([]models.Note, error) {
		return ns.repo.ListNotes(ctx, filter)
	}, ns.watch...)
}

// WatchNote observes a single note. The snapshot is nil while the note
// does not exist.
func (ns *NoteService) WatchNote(ctx context.Context, id int64) (*live.Subscription[*models.Note], error) {
	return live.Watch(ctx, ns.changes, database.TableNotes, func(ctx context.Context) (*models.Note, error) {
		return ns.repo.GetNote(ctx, id)
	}, ns.watch...)
}

// List returns the notes matching filter once.
func (ns *NoteService) List(ctx context.Context, filter database.NoteFilter) ([]models.Note, error) {
	return ns.repo.ListNotes(ctx, filter)
}

// Get retrieves a note by id
func (ns *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := ns.repo.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Create stores note. CreatedAt must already be stamped by the caller.
// The job yields the note with its assigned id.
func (ns *NoteService) Create(ctx context.Context, note models.Note) *Job[models.Note] {
	return mutate(ns.writes, ctx, "note", "insert", func(ctx context.Context) (models.Note, error) {
		if _, err := ns.repo.InsertNote(ctx, &note); err != nil {
			return models.Note{}, err
		}
		return note, nil
	})
}

// Update replaces the note with note.ID.
func (ns *NoteService) Update(ctx context.Context, note models.Note) *Job[models.Note] {
	return mutate(ns.writes, ctx, "note", "update", func(ctx context.Context) (models.Note, error) {
		if err := ns.repo.UpdateNote(ctx, &note); err != nil {
			return models.Note{}, notFound(err, ErrNoteNotFound)
		}
		return note, nil
	})
}

// Delete removes a note. Deleting a missing note succeeds.
func (ns *NoteService) Delete(ctx context.Context, id int64) *Job[Done] {
	return mutate(ns.writes, ctx, "note", "delete", func(ctx context.Context) (Done, error) {
		return Done{}, ns.repo.DeleteNote(ctx, id)
	})
}

// notFound reports a gateway miss as the entity's own error while keeping
// the original in the chain.
func notFound(err, target error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %w", target, err)
	}
	return err
}
