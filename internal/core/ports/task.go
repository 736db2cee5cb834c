package ports

import (
	"context"

	"timemaster/internal/core/domain"
)

// TaskRepository is the durable keyed store of task records. It is the only
// component that performs I/O.
type TaskRepository interface {
	// Create persists a new record and returns its id, assigning one when the
	// record has none.
	Create(ctx context.Context, task domain.Task) (string, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	// List returns tasks most recently updated first, optionally filtered by status.
	List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error)
	// Update fully replaces the record with the same id.
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

type TaskService interface {
	ListTasks(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, input domain.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	IncreaseTaskProgress(ctx context.Context, id string) (domain.Task, error)
	ArchiveTask(ctx context.Context, id string) (domain.Task, error)
	ReopenTask(ctx context.Context, id string) (domain.Task, error)
}
