package database

import (
	"catatin/models"
	"context"
	"database/sql"
	"fmt"
)

// ==================== TASK OPERATIONS ====================

// TaskFilter narrows ListTasks by completion state.
type TaskFilter struct {
	Status models.TaskStatus
}

const taskColumns = `id, title, description, completed, created_at, due_at, priority`

// priorityRank orders by rank rather than by the stored name.
const priorityRank = `CASE priority
			WHEN 'URGENT' THEN 3
			WHEN 'HIGH' THEN 2
			WHEN 'NORMAL' THEN 1
			ELSE 0
		END`

// ListTasks returns tasks by priority (URGENT first), then newest first,
// ties in insertion order.
func (r *Repository) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	switch filter.Status {
	case models.TaskStatusActive:
		query += ` WHERE completed = 0`
	case models.TaskStatusCompleted:
		query += ` WHERE completed = 1`
	case models.TaskStatusAll:
	default:
		return nil, fmt.Errorf("unknown task status %q", filter.Status)
	}
	query += ` ORDER BY ` + priorityRank + ` DESC, created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// GetTask returns nil, nil when the id does not exist.
func (r *Repository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// InsertTask stores a new task, sets task.ID and returns it. Timestamps on
// task are rewritten to their stored millisecond UTC values.
func (r *Repository) InsertTask(ctx context.Context, task *models.Task) (int64, error) {
	if task.CreatedAt.IsZero() {
		return 0, ErrMissingTimestamp
	}

	res, err := r.exec(ctx, TableTasks, `
		INSERT INTO tasks (title, description, completed, created_at, due_at, priority)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		task.Title, task.Description, task.Completed,
		toMillis(task.CreatedAt), nullMillis(task.DueAt), encodePriority(task.Priority),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	task.ID = id
	task.CreatedAt = stored(task.CreatedAt)
	task.DueAt = storedPtr(task.DueAt)
	return id, nil
}

// UpdateTask replaces every mutable field; created_at is never rewritten.
func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) error {
	err := r.execExisting(ctx, TableTasks, `
		UPDATE tasks SET
			title = ?,
			description = ?,
			completed = ?,
			due_at = ?,
			priority = ?
		WHERE id = ?
	`,
		task.Title, task.Description, task.Completed,
		nullMillis(task.DueAt), encodePriority(task.Priority), task.ID,
	)
	if err != nil {
		return err
	}
	task.DueAt = storedPtr(task.DueAt)
	return nil
}

// SetTaskCompleted is the only partial update: it writes the completed flag
// and nothing else.
func (r *Repository) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	return r.execExisting(ctx, TableTasks, `UPDATE tasks SET completed = ? WHERE id = ?`, completed, id)
}

// DeleteTask removes a task. A missing id is a no-op.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, TableTasks, id)
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var createdAt int64
	var dueAt sql.NullInt64
	var priority string
	if err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Completed,
		&createdAt, &dueAt, &priority,
	); err != nil {
		return nil, err
	}

	p, err := models.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", task.ID, err)
	}

	task.Priority = p
	task.CreatedAt = fromMillis(createdAt)
	task.DueAt = timeFromNull(dueAt)
	return &task, nil
}

// encodePriority stores the zero value as NORMAL, the column default.
func encodePriority(p models.Priority) string {
	if p == "" {
		return string(models.PriorityNormal)
	}
	return p.String()
}
