package domain

import "time"

type TaskKind string

const (
	TaskKindOnce     TaskKind = "once"
	TaskKindCycle    TaskKind = "cycle"
	TaskKindLongTerm TaskKind = "long_term"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

type RepeatRule string

const (
	RepeatRuleDaily   RepeatRule = "daily"
	RepeatRuleWeekly  RepeatRule = "weekly"
	RepeatRuleMonthly RepeatRule = "monthly"
)

const (
	MaxNameLength        = 40
	MaxDescriptionLength = 120
	DefaultTarget        = 1
	DateLayout           = "2006-01-02"
)

// Task is the single tracked record. Status is derived from Progress and Target
// by the lifecycle methods and must not be assigned directly by callers.
type Task struct {
	ID          string
	Name        string      `validate:"required,max=40"`
	Description string      `validate:"max=120"`
	Kind        TaskKind    `validate:"required,oneof=once cycle long_term"`
	Progress    int         `validate:"gte=0,ltefield=Target"`
	Target      int         `validate:"gte=1"`
	RepeatRule  *RepeatRule `validate:"omitempty,oneof=daily weekly monthly"`
	StartDate   *time.Time
	EndDate     *time.Time
	Status      TaskStatus `validate:"required,oneof=active completed archived"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DateRange bounds a long_term task. Both ends are calendar dates in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type CreateTaskInput struct {
	Name        string
	Description string
	Kind        TaskKind
	Target      *int
	Progress    *int
	RepeatRule  *RepeatRule
	DateRange   *DateRange
}

// UpdateTaskInput replaces the editable fields of a task. An empty Kind keeps the
// current kind; a nil Target keeps the current target.
type UpdateTaskInput struct {
	ID          string
	Name        string
	Description string
	Kind        TaskKind
	Target      *int
	RepeatRule  *RepeatRule
	DateRange   *DateRange
}

func (k TaskKind) IsValid() bool {
	switch k {
	case TaskKindOnce, TaskKindCycle, TaskKindLongTerm:
		return true
	}
	return false
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusActive, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

func (r RepeatRule) IsValid() bool {
	switch r {
	case RepeatRuleDaily, RepeatRuleWeekly, RepeatRuleMonthly:
		return true
	}
	return false
}

// Clone returns a deep copy so callers never share the optional fields.
func (t Task) Clone() Task {
	if t.RepeatRule != nil {
		value := *t.RepeatRule
		t.RepeatRule = &value
	}
	if t.StartDate != nil {
		value := *t.StartDate
		t.StartDate = &value
	}
	if t.EndDate != nil {
		value := *t.EndDate
		t.EndDate = &value
	}
	return t
}

// CalendarDate truncates a time to its UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(parsed), nil
}
