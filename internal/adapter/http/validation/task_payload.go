package validation

import (
	"encoding/json"
	"errors"
	"strings"

	"timemaster/internal/adapter/http/dto"
	"timemaster/internal/core/domain"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrTaskIDMismatch     = errors.New("task id in body does not match path")
)

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if hasJSONField(raw, "target") && req.Target == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "status") {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "progress") && req.Progress == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	dateRange, err := parseDateRange(req.DateRange)
	if err != nil {
		return domain.CreateTaskInput{}, err
	}

	return domain.CreateTaskInput{
		Name:        name,
		Description: valueOrEmpty(req.Description),
		Kind:        domain.TaskKind(req.Kind),
		Target:      req.Target,
		Progress:    req.Progress,
		RepeatRule:  parseRepeatRule(req.RepeatRule),
		DateRange:   dateRange,
	}, nil
}

func BuildUpdateTaskInput(id string, req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if req.ID != nil && *req.ID != id {
		return domain.UpdateTaskInput{}, ErrTaskIDMismatch
	}
	if hasJSONField(raw, "target") && req.Target == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "status") {
		// Status is derived by the lifecycle commands and is never editable.
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	dateRange, err := parseDateRange(req.DateRange)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}

	return domain.UpdateTaskInput{
		ID:          id,
		Name:        name,
		Description: valueOrEmpty(req.Description),
		Kind:        domain.TaskKind(req.Kind),
		Target:      req.Target,
		RepeatRule:  parseRepeatRule(req.RepeatRule),
		DateRange:   dateRange,
	}, nil
}

// ParseStatusFilter turns the optional status query value into a filter.
func ParseStatusFilter(value string) (*domain.TaskStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	status := domain.TaskStatus(value)
	if !status.IsValid() {
		return nil, ErrInvalidTaskStatus
	}
	return &status, nil
}

func parseDateRange(values []string) (*domain.DateRange, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != 2 {
		return nil, ErrInvalidTaskPayload
	}

	start, err := domain.ParseDate(values[0])
	if err != nil {
		return nil, ErrInvalidTaskPayload
	}
	end, err := domain.ParseDate(values[1])
	if err != nil {
		return nil, ErrInvalidTaskPayload
	}

	return &domain.DateRange{Start: start, End: end}, nil
}

func parseRepeatRule(value *string) *domain.RepeatRule {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	rule := domain.RepeatRule(strings.TrimSpace(*value))
	return &rule
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}
