package domain

import (
	"strings"
	"time"
)

// Lifecycle methods never modify the receiver. Each returns the next record so a
// rejected command leaves the caller's copy exactly as it was.

// NewTask builds a fresh task from a create command. The id is left empty for
// the store to assign.
func NewTask(in CreateTaskInput, now time.Time) (Task, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return Task{}, err
	}

	target := DefaultTarget
	if in.Target != nil {
		if *in.Target < 1 {
			return Task{}, &ValidationError{Field: "target", Reason: "must be at least 1"}
		}
		target = *in.Target
	}

	progress := 0
	if in.Progress != nil {
		progress = clampProgress(*in.Progress, target)
	}

	repeat, start, end, err := normalizeSchedule(in.Kind, in.RepeatRule, in.DateRange)
	if err != nil {
		return Task{}, err
	}

	task := Task{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Kind:        in.Kind,
		Progress:    progress,
		Target:      target,
		RepeatRule:  repeat,
		StartDate:   start,
		EndDate:     end,
		Status:      deriveStatus(progress, target),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Edit replaces the editable fields. Lowering the target below the current
// progress clamps progress and re-derives completion; an archived task stays
// archived.
func (t Task) Edit(in UpdateTaskInput, now time.Time) (Task, error) {
	if in.ID != "" && in.ID != t.ID {
		return Task{}, &ImmutableFieldError{Field: "id"}
	}
	if in.Kind != "" && in.Kind != t.Kind {
		return Task{}, &ImmutableFieldError{Field: "kind"}
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return Task{}, err
	}

	next := t.Clone()
	next.Name = name
	next.Description = strings.TrimSpace(in.Description)

	if in.Target != nil {
		if *in.Target < 1 {
			return Task{}, &ValidationError{Field: "target", Reason: "must be at least 1"}
		}
		next.Target = *in.Target
	}

	repeat, start, end, err := normalizeSchedule(t.Kind, in.RepeatRule, in.DateRange)
	if err != nil {
		return Task{}, err
	}
	next.RepeatRule = repeat
	next.StartDate = start
	next.EndDate = end

	next.Progress = clampProgress(next.Progress, next.Target)
	if next.Status != TaskStatusArchived {
		next.Status = deriveStatus(next.Progress, next.Target)
	}
	next.UpdatedAt = now

	if err := next.Validate(); err != nil {
		return Task{}, err
	}
	return next, nil
}

// IncreaseProgress advances progress by one, never past target. The boolean is
// false when the command changed nothing, which is the case once a completed
// task has reached its target.
func (t Task) IncreaseProgress(now time.Time) (Task, bool, error) {
	if t.Status == TaskStatusArchived {
		return Task{}, false, &TransitionError{Command: "increase progress on", From: t.Status}
	}

	next := t.Clone()
	if next.Progress < next.Target {
		next.Progress++
	}
	next.Status = deriveStatus(next.Progress, next.Target)

	if next.Progress == t.Progress && next.Status == t.Status {
		return t, false, nil
	}
	next.UpdatedAt = now
	return next, true, nil
}

// Archive moves the task out of the active list. Progress is kept as is.
func (t Task) Archive(now time.Time) (Task, error) {
	if t.Status == TaskStatusArchived {
		return Task{}, &TransitionError{Command: "archive", From: t.Status}
	}

	next := t.Clone()
	next.Status = TaskStatusArchived
	next.UpdatedAt = now
	return next, nil
}

// Reopen brings an archived task back to active. A cycle task starts a new
// cycle at zero; once and long_term tasks resume where they stopped.
func (t Task) Reopen(now time.Time) (Task, error) {
	if t.Status != TaskStatusArchived {
		return Task{}, &TransitionError{Command: "reopen", From: t.Status}
	}

	next := t.Clone()
	next.Status = TaskStatusActive
	if next.Kind == TaskKindCycle {
		next.Progress = 0
	}
	next.UpdatedAt = now
	return next, nil
}

func deriveStatus(progress, target int) TaskStatus {
	if progress >= target {
		return TaskStatusCompleted
	}
	return TaskStatusActive
}

func clampProgress(progress, target int) int {
	if progress < 0 {
		return 0
	}
	if progress > target {
		return target
	}
	return progress
}
