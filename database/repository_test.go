package database

import (
	"catatin/models"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "catatin-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(DriverPureGo, dbPath)
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

// baseTime is millisecond-aligned UTC so values survive the storage round trip.
var baseTime = time.Date(2025, 10, 17, 9, 30, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func TestMigrate(t *testing.T) {
	t.Run("Is idempotent and stamps the schema version", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		require.NoError(t, repo.db.Migrate())

		var version int
		require.NoError(t, repo.db.QueryRow("PRAGMA user_version").Scan(&version))
		assert.Equal(t, SchemaVersion, version)
	})

	t.Run("Refuses a newer schema", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.db.Exec("PRAGMA user_version = 2")
		require.NoError(t, err)

		err = repo.db.Migrate()
		assert.ErrorIs(t, err, ErrSchemaVersion)
	})

	t.Run("Rejects unknown driver", func(t *testing.T) {
		_, err := New("postgres", filepath.Join(t.TempDir(), "x.db"))
		assert.Error(t, err)
	})
}

func TestNoteOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert then list returns the note with a fresh id", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		note := &models.Note{Title: "Shopping", Body: "milk, eggs", CreatedAt: at(0), IsVoice: false}
		id, err := repo.InsertNote(ctx, note)
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, id, note.ID)

		notes, err := repo.ListNotes(ctx, NoteFilter{})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, id, notes[0].ID)
		assert.Equal(t, "Shopping", notes[0].Title)
		assert.Equal(t, "milk, eggs", notes[0].Body)
	})

	t.Run("Get after insert equals the input except for id", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		input := models.Note{Title: "Idea", Body: "voice memo", CreatedAt: at(5), IsVoice: true}
		stored := input
		id, err := repo.InsertNote(ctx, &stored)
		require.NoError(t, err)

		got, err := repo.GetNote(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)

		input.ID = id
		assert.Equal(t, input, *got)
	})

	t.Run("Get of a missing id is nil without error", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		got, err := repo.GetNote(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Insert without timestamp is rejected", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.InsertNote(ctx, &models.Note{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, ErrMissingTimestamp)
	})

	t.Run("Newest first, voice filter keeps order, ties by insertion", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		first := &models.Note{Title: "first", Body: "b", CreatedAt: at(1), IsVoice: true}
		tieA := &models.Note{Title: "tie-a", Body: "b", CreatedAt: at(2)}
		tieB := &models.Note{Title: "tie-b", Body: "b", CreatedAt: at(2), IsVoice: true}
		latest := &models.Note{Title: "latest", Body: "b", CreatedAt: at(3), IsVoice: true}
		for _, n := range []*models.Note{first, tieA, tieB, latest} {
			_, err := repo.InsertNote(ctx, n)
			require.NoError(t, err)
		}

		all, err := repo.ListNotes(ctx, NoteFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"latest", "tie-a", "tie-b", "first"}, noteTitles(all))

		voice, err := repo.ListNotes(ctx, NoteFilter{VoiceOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"latest", "tie-b", "first"}, noteTitles(voice))
	})

	t.Run("Update replaces fields but keeps the creation timestamp", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		note := &models.Note{Title: "draft", Body: "v1", CreatedAt: at(0)}
		_, err := repo.InsertNote(ctx, note)
		require.NoError(t, err)

		changed := *note
		changed.Title = "final"
		changed.Body = "v2"
		changed.CreatedAt = at(60)
		require.NoError(t, repo.UpdateNote(ctx, &changed))

		got, err := repo.GetNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.Equal(t, "v2", got.Body)
		assert.Equal(t, at(0), got.CreatedAt)
	})

	t.Run("Update of a missing id reports not found", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		err := repo.UpdateNote(ctx, &models.Note{ID: 42, Title: "x", Body: "y", CreatedAt: at(0)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete of a missing id changes nothing", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.InsertNote(ctx, &models.Note{Title: "keep", Body: "me", CreatedAt: at(0)})
		require.NoError(t, err)

		before, err := repo.ListNotes(ctx, NoteFilter{})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteNote(ctx, 12345))

		after, err := repo.ListNotes(ctx, NoteFilter{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Delete removes the row", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		note := &models.Note{Title: "gone", Body: "soon", CreatedAt: at(0)}
		_, err := repo.InsertNote(ctx, note)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteNote(ctx, note.ID))

		got, err := repo.GetNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestTaskOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("URGENT surfaces before LOW with equal due dates", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		due := at(24 * 60)
		low := &models.Task{Title: "low", CreatedAt: at(5), DueAt: &due, Priority: models.PriorityLow}
		urgent := &models.Task{Title: "urgent", CreatedAt: at(1), DueAt: &due, Priority: models.PriorityUrgent}
		for _, task := range []*models.Task{low, urgent} {
			_, err := repo.InsertTask(ctx, task)
			require.NoError(t, err)
		}

		tasks, err := repo.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"urgent", "low"}, taskTitles(tasks))
	})

	t.Run("Priority ranks by severity not by name", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		for i, p := range []models.Priority{models.PriorityHigh, models.PriorityLow, models.PriorityUrgent, models.PriorityNormal} {
			_, err := repo.InsertTask(ctx, &models.Task{Title: string(p), CreatedAt: at(i), Priority: p})
			require.NoError(t, err)
		}

		tasks, err := repo.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"URGENT", "HIGH", "NORMAL", "LOW"}, taskTitles(tasks))
	})

	t.Run("Same priority orders newest first then insertion", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		for _, task := range []*models.Task{
			{Title: "old", CreatedAt: at(1), Priority: models.PriorityHigh},
			{Title: "tie-a", CreatedAt: at(2), Priority: models.PriorityHigh},
			{Title: "tie-b", CreatedAt: at(2), Priority: models.PriorityHigh},
		} {
			_, err := repo.InsertTask(ctx, task)
			require.NoError(t, err)
		}

		tasks, err := repo.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"tie-a", "tie-b", "old"}, taskTitles(tasks))
	})

	t.Run("Zero priority is stored as NORMAL", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		task := &models.Task{Title: "default", CreatedAt: at(0)}
		_, err := repo.InsertTask(ctx, task)
		require.NoError(t, err)

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PriorityNormal, got.Priority)
		assert.Nil(t, got.DueAt)
	})

	t.Run("Active and completed partition the full list", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		for i := 0; i < 6; i++ {
			task := &models.Task{
				Title:     "task",
				CreatedAt: at(i),
				Priority:  models.Priorities[i%len(models.Priorities)],
				Completed: i%2 == 0,
			}
			_, err := repo.InsertTask(ctx, task)
			require.NoError(t, err)
		}

		all, err := repo.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		active, err := repo.ListTasks(ctx, TaskFilter{Status: models.TaskStatusActive})
		require.NoError(t, err)
		completed, err := repo.ListTasks(ctx, TaskFilter{Status: models.TaskStatusCompleted})
		require.NoError(t, err)

		seen := make(map[int64]bool)
		for _, task := range append(active, completed...) {
			assert.False(t, seen[task.ID], "task %d listed twice", task.ID)
			seen[task.ID] = true
		}
		assert.Len(t, seen, len(all))
		for _, task := range all {
			assert.True(t, seen[task.ID])
		}
		for _, task := range active {
			assert.False(t, task.Completed)
		}
		for _, task := range completed {
			assert.True(t, task.Completed)
		}
	})

	t.Run("Unknown status is an error", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.ListTasks(ctx, TaskFilter{Status: "archived"})
		assert.Error(t, err)
	})

	t.Run("Completion toggle leaves every other field untouched", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		due := at(90)
		task := &models.Task{
			Title:       "file taxes",
			Description: "before the deadline",
			CreatedAt:   at(0),
			DueAt:       &due,
			Priority:    models.PriorityHigh,
		}
		_, err := repo.InsertTask(ctx, task)
		require.NoError(t, err)

		before, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)

		require.NoError(t, repo.SetTaskCompleted(ctx, task.ID, true))

		after, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, after.Completed)

		after.Completed = before.Completed
		assert.Equal(t, *before, *after)
	})

	t.Run("Completion toggle of a missing id reports not found", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		assert.ErrorIs(t, repo.SetTaskCompleted(ctx, 77, true), ErrNotFound)
	})

	t.Run("Update replaces fields, clears due date, keeps creation time", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		due := at(30)
		task := &models.Task{Title: "a", CreatedAt: at(0), DueAt: &due, Priority: models.PriorityLow}
		_, err := repo.InsertTask(ctx, task)
		require.NoError(t, err)

		changed := models.Task{ID: task.ID, Title: "b", Description: "d", Completed: true, CreatedAt: at(99), Priority: models.PriorityUrgent}
		require.NoError(t, repo.UpdateTask(ctx, &changed))

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Title)
		assert.Equal(t, "d", got.Description)
		assert.True(t, got.Completed)
		assert.Nil(t, got.DueAt)
		assert.Equal(t, models.PriorityUrgent, got.Priority)
		assert.Equal(t, at(0), got.CreatedAt)
	})

	t.Run("Delete of a missing id is a no-op", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.InsertTask(ctx, &models.Task{Title: "keep", CreatedAt: at(0)})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteTask(ctx, 404))

		tasks, err := repo.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
}

func TestLedgerOperations(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, repo *Repository) []models.LedgerEntry {
		t.Helper()
		entries := []models.LedgerEntry{
			{Title: "salary", Amount: decimal.RequireFromString("5000000"), Kind: models.KindIncome, Category: "Salary", CreatedAt: at(0)},
			{Title: "lunch", Amount: decimal.RequireFromString("25000.50"), Kind: models.KindExpense, Category: "Food", CreatedAt: at(1)},
			{Title: "bus", Amount: decimal.RequireFromString("3500"), Kind: models.KindExpense, Category: "Transport", CreatedAt: at(2)},
			{Title: "dinner", Amount: decimal.RequireFromString("40000.25"), Kind: models.KindExpense, Category: "Food", CreatedAt: at(3)},
			{Title: "gig", Amount: decimal.RequireFromString("750000.10"), Kind: models.KindIncome, Category: "Freelance", CreatedAt: at(4)},
			{Title: "tip", Amount: decimal.RequireFromString("0.1"), Kind: models.KindIncome, Category: "Gift", CreatedAt: at(5)},
		}
		for i := range entries {
			_, err := repo.InsertLedgerEntry(ctx, &entries[i])
			require.NoError(t, err)
		}
		return entries
	}

	t.Run("Get after insert equals the input except for id", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		input := models.LedgerEntry{
			Title:       "coffee",
			Amount:      decimal.RequireFromString("18500.75"),
			Kind:        models.KindExpense,
			Category:    "Food",
			Description: "with team",
			CreatedAt:   at(0),
		}
		stored := input
		id, err := repo.InsertLedgerEntry(ctx, &stored)
		require.NoError(t, err)

		got, err := repo.GetLedgerEntry(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, input.Title, got.Title)
		assert.True(t, input.Amount.Equal(got.Amount), "amount %s != %s", input.Amount, got.Amount)
		assert.Equal(t, input.Kind, got.Kind)
		assert.Equal(t, input.Category, got.Category)
		assert.Equal(t, input.Description, got.Description)
		assert.Equal(t, input.CreatedAt, got.CreatedAt)
	})

	t.Run("Kind filter keeps newest first", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seed(t, repo)

		income, err := repo.ListLedgerEntries(ctx, LedgerFilter{Kind: models.KindIncome})
		require.NoError(t, err)
		assert.Equal(t, []string{"tip", "gig", "salary"}, entryTitles(income))

		expense, err := repo.ListLedgerEntries(ctx, LedgerFilter{Kind: models.KindExpense})
		require.NoError(t, err)
		assert.Equal(t, []string{"dinner", "bus", "lunch"}, entryTitles(expense))
	})

	t.Run("Aggregate balance matches client-side sum", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seed(t, repo)

		income, err := repo.SumByKind(ctx, models.KindIncome)
		require.NoError(t, err)
		expense, err := repo.SumByKind(ctx, models.KindExpense)
		require.NoError(t, err)

		all, err := repo.ListLedgerEntries(ctx, LedgerFilter{})
		require.NoError(t, err)

		clientSide := decimal.Zero
		for _, e := range all {
			if e.Kind == models.KindIncome {
				clientSide = clientSide.Add(e.Amount)
			} else {
				clientSide = clientSide.Sub(e.Amount)
			}
		}

		assert.True(t, income.Sub(expense).Equal(clientSide), "%s - %s != %s", income, expense, clientSide)
		assert.Equal(t, "5750000.2", income.String())
		assert.Equal(t, "68500.75", expense.String())
	})

	t.Run("Sums of an empty ledger are zero", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		total, err := repo.SumByKind(ctx, models.KindIncome)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("Category totals are ordered by sum descending", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seed(t, repo)

		totals, err := repo.CategoryTotals(ctx, models.KindExpense)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "Food", totals[0].Category)
		assert.Equal(t, "65000.75", totals[0].Total.String())
		assert.Equal(t, "Transport", totals[1].Category)
		assert.Equal(t, "3500", totals[1].Total.String())
	})

	t.Run("Category totals break ties by name", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		for i, category := range []string{"Zakat", "Bills"} {
			_, err := repo.InsertLedgerEntry(ctx, &models.LedgerEntry{
				Title: category, Amount: decimal.NewFromInt(10), Kind: models.KindExpense,
				Category: category, CreatedAt: at(i),
			})
			require.NoError(t, err)
		}

		totals, err := repo.CategoryTotals(ctx, models.KindExpense)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "Bills", totals[0].Category)
		assert.Equal(t, "Zakat", totals[1].Category)
	})

	t.Run("Edit in place replaces fields and keeps creation time", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		entries := seed(t, repo)

		edited := entries[1]
		edited.Amount = decimal.RequireFromString("30000")
		edited.Category = "Snacks"
		edited.CreatedAt = at(500)
		require.NoError(t, repo.UpdateLedgerEntry(ctx, &edited))

		got, err := repo.GetLedgerEntry(ctx, edited.ID)
		require.NoError(t, err)
		assert.Equal(t, "30000", got.Amount.String())
		assert.Equal(t, "Snacks", got.Category)
		assert.Equal(t, at(1), got.CreatedAt)
	})

	t.Run("Update of a missing id reports not found", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		err := repo.UpdateLedgerEntry(ctx, &models.LedgerEntry{ID: 9, Title: "x", Amount: decimal.NewFromInt(1), Kind: models.KindIncome})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete of a missing id is a no-op", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seed(t, repo)

		before, err := repo.ListLedgerEntries(ctx, LedgerFilter{})
		require.NoError(t, err)
		require.NoError(t, repo.DeleteLedgerEntry(ctx, 1000))
		after, err := repo.ListLedgerEntries(ctx, LedgerFilter{})
		require.NoError(t, err)
		assert.Equal(t, len(before), len(after))
		assert.Equal(t, entryTitles(before), entryTitles(after))
	})
}

func TestChangeAnnouncements(t *testing.T) {
	ctx := context.Background()

	expectSignal := func(t *testing.T, ch <-chan struct{}) {
		t.Helper()
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("expected change signal")
		}
	}
	expectNone := func(t *testing.T, ch <-chan struct{}) {
		t.Helper()
		select {
		case <-ch:
			t.Fatal("unexpected change signal")
		default:
		}
	}

	t.Run("Writes announce only their own table", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		notes, stopNotes := repo.Changes().Subscribe(TableNotes)
		defer stopNotes()
		tasks, stopTasks := repo.Changes().Subscribe(TableTasks)
		defer stopTasks()

		_, err := repo.InsertNote(ctx, &models.Note{Title: "a", Body: "b", CreatedAt: at(0)})
		require.NoError(t, err)

		expectSignal(t, notes)
		expectNone(t, tasks)
	})

	t.Run("Failed and no-op writes announce nothing", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		tasks, stop := repo.Changes().Subscribe(TableTasks)
		defer stop()

		assert.ErrorIs(t, repo.SetTaskCompleted(ctx, 1, true), ErrNotFound)
		require.NoError(t, repo.DeleteTask(ctx, 1))
		expectNone(t, tasks)
	})

	t.Run("Signals coalesce for a slow reader", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		ledger, stop := repo.Changes().Subscribe(TableLedger)
		defer stop()

		for i := 0; i < 3; i++ {
			_, err := repo.InsertLedgerEntry(ctx, &models.LedgerEntry{
				Title: "x", Amount: decimal.NewFromInt(1), Kind: models.KindIncome, Category: "Other", CreatedAt: at(i),
			})
			require.NoError(t, err)
		}

		expectSignal(t, ledger)
		expectNone(t, ledger)
	})

	t.Run("Unsubscribe removes the subscriber", func(t *testing.T) {
		hub := NewHub()
		_, stop := hub.Subscribe(TableNotes)
		assert.Equal(t, 1, hub.Subscribers(TableNotes))
		stop()
		stop()
		assert.Equal(t, 0, hub.Subscribers(TableNotes))
	})
}

func TestStoredTimestamps(t *testing.T) {
	ctx := context.Background()
	jakarta := time.FixedZone("WIB", 7*60*60)

	t.Run("Inserted note equals its read back", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		note := &models.Note{
			Title:     "precise",
			Body:      "b",
			CreatedAt: time.Date(2025, 10, 17, 9, 30, 0, 123456789, time.UTC),
		}
		id, err := repo.InsertNote(ctx, note)
		require.NoError(t, err)

		got, err := repo.GetNote(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, *note, *got)
		assert.Equal(t, 123000000, got.CreatedAt.Nanosecond())
	})

	t.Run("Inserted task keeps the instant of a zoned due date", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		due := time.Date(2025, 10, 20, 10, 0, 0, 0, jakarta)
		task := &models.Task{
			Title:     "zoned",
			CreatedAt: time.Date(2025, 10, 17, 16, 45, 0, 999999, jakarta),
			DueAt:     &due,
			Priority:  models.PriorityHigh,
		}
		id, err := repo.InsertTask(ctx, task)
		require.NoError(t, err)

		got, err := repo.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, *task, *got)
		assert.True(t, got.DueAt.Equal(due))
		assert.Equal(t, time.UTC, got.DueAt.Location())
	})

	t.Run("Updated task due date equals its read back", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		task := &models.Task{Title: "t", CreatedAt: at(0), Priority: models.PriorityLow}
		_, err := repo.InsertTask(ctx, task)
		require.NoError(t, err)

		due := time.Date(2025, 11, 1, 8, 15, 30, 500600700, jakarta)
		task.DueAt = &due
		require.NoError(t, repo.UpdateTask(ctx, task))

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.DueAt, got.DueAt)
	})

	t.Run("Inserted ledger entry keeps the stored creation time", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		entry := &models.LedgerEntry{
			Title: "coffee", Amount: decimal.NewFromInt(25000), Kind: models.KindExpense,
			Category: "Food", CreatedAt: time.Date(2025, 10, 17, 7, 0, 0, 42, jakarta),
		}
		id, err := repo.InsertLedgerEntry(ctx, entry)
		require.NoError(t, err)

		got, err := repo.GetLedgerEntry(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entry.CreatedAt, got.CreatedAt)
	})
}

func TestWatchFile(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, repo.WatchFile(ctx, logger))

	subs := make(map[string]<-chan struct{})
	for _, table := range Tables {
		ch, stop := repo.Changes().Subscribe(table)
		defer stop()
		subs[table] = ch
	}

	// A second handle stands in for another process writing the same file.
	other, err := New(DriverPureGo, repo.db.path)
	require.NoError(t, err)
	defer other.Close()

	_, err = NewRepository(other).InsertNote(context.Background(), &models.Note{Title: "external", CreatedAt: at(0)})
	require.NoError(t, err)

	for _, table := range Tables {
		select {
		case <-subs[table]:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %s to be announced after an external write", table)
		}
	}
}

func noteTitles(notes []models.Note) []string {
	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	return titles
}

func taskTitles(tasks []models.Task) []string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}

func entryTitles(entries []models.LedgerEntry) []string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	return titles
}
