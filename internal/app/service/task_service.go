package service

import (
	"context"
	"strings"
	"time"

	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
)

// TaskService is the lifecycle engine. Every mutating command runs under a lock
// scoped to the task id for the whole load, compute and persist sequence.
type TaskService struct {
	taskRepository ports.TaskRepository
	locks          *keyLock
	now            func() time.Time
}

type Option func(*TaskService)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(taskRepository ports.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		taskRepository: taskRepository,
		locks:          newKeyLock(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) ListTasks(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	if status != nil && !status.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "must be one of active, completed, archived"}
	}
	return s.taskRepository.List(ctx, status)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (domain.Task, error) {
	if err := requireID(id); err != nil {
		return domain.Task{}, err
	}
	return s.taskRepository.Get(ctx, id)
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	task, err := domain.NewTask(input, s.timestamp())
	if err != nil {
		return domain.Task{}, err
	}

	id, err := s.taskRepository.Create(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = id
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, input domain.UpdateTaskInput) (domain.Task, error) {
	return s.mutate(ctx, input.ID, func(current domain.Task, now time.Time) (domain.Task, bool, error) {
		next, err := current.Edit(input, now)
		return next, err == nil, err
	})
}

func (s *TaskService) IncreaseTaskProgress(ctx context.Context, id string) (domain.Task, error) {
	return s.mutate(ctx, id, func(current domain.Task, now time.Time) (domain.Task, bool, error) {
		return current.IncreaseProgress(now)
	})
}

func (s *TaskService) ArchiveTask(ctx context.Context, id string) (domain.Task, error) {
	return s.mutate(ctx, id, func(current domain.Task, now time.Time) (domain.Task, bool, error) {
		next, err := current.Archive(now)
		return next, err == nil, err
	})
}

func (s *TaskService) ReopenTask(ctx context.Context, id string) (domain.Task, error) {
	return s.mutate(ctx, id, func(current domain.Task, now time.Time) (domain.Task, bool, error) {
		next, err := current.Reopen(now)
		return next, err == nil, err
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	return s.taskRepository.Delete(ctx, id)
}

type transition func(current domain.Task, now time.Time) (next domain.Task, changed bool, err error)

func (s *TaskService) mutate(ctx context.Context, id string, apply transition) (domain.Task, error) {
	if err := requireID(id); err != nil {
		return domain.Task{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	next, changed, err := apply(current, s.timestamp())
	if err != nil {
		return domain.Task{}, err
	}
	if !changed {
		return current, nil
	}

	if err := s.taskRepository.Update(ctx, next); err != nil {
		return domain.Task{}, err
	}
	return next, nil
}

func (s *TaskService) timestamp() time.Time {
	return s.now().UTC()
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return nil
}

var _ ports.TaskService = (*TaskService)(nil)
