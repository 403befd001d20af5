package services

import (
	"catatin/database"
	"catatin/live"
	"catatin/models"
	"context"
)

// TaskService handles reads and writes for tasks
type TaskService struct {
	repo    TaskRepository
	changes live.Source
	writes  *Queue
	watch   []live.Option
}

func NewTaskService(repo TaskRepository, changes live.Source, writes *Queue, opts ...live.Option) *TaskService {
	if writes == nil {
		writes = NewQueue()
	}
	return &TaskService{
		repo:    repo,
		changes: changes,
		writes:  writes,
		watch:   opts,
	}
}

// Watch observes the tasks with the given status, most urgent first.
func (ts *TaskService) Watch(ctx context.Context, status models.TaskStatus) (*live.Subscription[[]models.Task], error) {
	filter := database.TaskFilter{Status: status}
	return live.Watch(ctx, ts.changes, database.TableTasks, func(ctx context.Context) ([]models.Task, error) {
		return ts.repo.ListTasks(ctx, filter)
	}, ts.watch...)
}

// WatchTask observes a single task; the snapshot is nil while it does not exist.
func (ts *TaskService) WatchTask(ctx context.Context, id int64) (*live.Subscription[*models.Task], error) {
	return live.Watch(ctx, ts.changes, database.TableTasks, func(ctx context.Context) (*models.Task, error) {
		return ts.repo.GetTask(ctx, id)
	}, ts.watch...)
}

func (ts *TaskService) List(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return ts.repo.ListTasks(ctx, database.TaskFilter{Status: status})
}

func (ts *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := ts.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Create stores task with its caller-stamped CreatedAt.
func (ts *TaskService) Create(ctx context.Context, task models.Task) *Job[models.Task] {
	return mutate(ts.writes, ctx, "task", "insert", func(ctx context.Context) (models.Task, error) {
		if _, err := ts.repo.InsertTask(ctx, &task); err != nil {
			return models.Task{}, err
		}
		return task, nil
	})
}

func (ts *TaskService) Update(ctx context.Context, task models.Task) *Job[models.Task] {
	return mutate(ts.writes, ctx, "task", "update", func(ctx context.Context) (models.Task, error) {
		if err := ts.repo.UpdateTask(ctx, &task); err != nil {
			return models.Task{}, notFound(err, ErrTaskNotFound)
		}
		return task, nil
	})
}

// SetCompleted flips only the completion flag of a task.
func (ts *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) *Job[Done] {
	return mutate(ts.writes, ctx, "task", "complete", func(ctx context.Context) (Done, error) {
		return Done{}, notFound(ts.repo.SetTaskCompleted(ctx, id, completed), ErrTaskNotFound)
	})
}

func (ts *TaskService) Delete(ctx context.Context, id int64) *Job[Done] {
	return mutate(ts.writes, ctx, "task", "delete", func(ctx context.Context) (Done, error) {
		return Done{}, ts.repo.DeleteTask(ctx, id)
	})
}
