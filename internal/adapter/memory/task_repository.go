package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
)

// TaskRepository keeps tasks in process memory. Records are stored and returned
// as deep copies so readers never observe a record while it is being replaced.
type TaskRepository struct {
	mu         sync.RWMutex
	tasks      map[string]domain.Task
	tombstones map[string]struct{}
	closed     bool
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks:      make(map[string]domain.Task),
		tombstones: make(map[string]struct{}),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewStorageError("create", err)
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := task.Validate(); err != nil {
		return "", domain.NewStorageError("create", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", domain.NewStorageError("create", errClosed)
	}
	if _, ok := r.tasks[task.ID]; ok {
		return "", domain.NewStorageError("create", fmt.Errorf("%w: %s", domain.ErrTaskIDUnavailable, task.ID))
	}
	if _, ok := r.tombstones[task.ID]; ok {
		return "", domain.NewStorageError("create", fmt.Errorf("%w: %s", domain.ErrTaskIDUnavailable, task.ID))
	}

	r.tasks[task.ID] = task.Clone()
	return task.ID, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, domain.NewStorageError("get", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return domain.Task{}, domain.NewStorageError("get", errClosed)
	}
	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return task.Clone(), nil
}

func (r *TaskRepository) List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("list", err)
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, domain.NewStorageError("list", errClosed)
	}
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if status != nil && task.Status != *status {
			continue
		}
		tasks = append(tasks, task.Clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(tasks, func(a, b domain.Task) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("update", err)
	}
	if err := task.Validate(); err != nil {
		return domain.NewStorageError("update", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.NewStorageError("update", errClosed)
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, task.ID)
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.NewStorageError("delete", errClosed)
	}
	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	delete(r.tasks, id)
	r.tombstones[id] = struct{}{}
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("ping", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errClosed
	}
	return nil
}

func (r *TaskRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

var errClosed = errors.New("memory store is closed")
