package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldNames = map[string]string{
	"ID":          "id",
	"Name":        "name",
	"Description": "description",
	"Kind":        "kind",
	"Progress":    "progress",
	"Target":      "target",
	"RepeatRule":  "repeat_rule",
	"StartDate":   "start_date",
	"EndDate":     "end_date",
	"Status":      "status",
}

// Validate checks the record against the data model: field bounds through the
// struct tags, then the schedule fields each kind requires.
func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return toValidationError(err)
	}
	return validateSchedule(t)
}

func validateSchedule(t Task) error {
	switch t.Kind {
	case TaskKindCycle:
		if t.RepeatRule == nil {
			return &ValidationError{Field: "repeat_rule", Reason: "is required for cycle tasks"}
		}
		if t.StartDate != nil || t.EndDate != nil {
			return &ValidationError{Field: "date_range", Reason: "is only allowed for long_term tasks"}
		}
	case TaskKindLongTerm:
		if t.StartDate == nil || t.EndDate == nil {
			return &ValidationError{Field: "date_range", Reason: "is required for long_term tasks"}
		}
		if t.StartDate.After(*t.EndDate) {
			return &ValidationError{Field: "date_range", Reason: "start date must not be after end date"}
		}
		if t.RepeatRule != nil {
			return &ValidationError{Field: "repeat_rule", Reason: "is only allowed for cycle tasks"}
		}
	default:
		if t.RepeatRule != nil {
			return &ValidationError{Field: "repeat_rule", Reason: "is only allowed for cycle tasks"}
		}
		if t.StartDate != nil || t.EndDate != nil {
			return &ValidationError{Field: "date_range", Reason: "is only allowed for long_term tasks"}
		}
	}
	return nil
}

func toValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrors[0]
	return &ValidationError{Field: fieldName(fe.StructField()), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "ltefield":
		return "must not exceed " + fieldName(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func fieldName(structField string) string {
	if name, ok := fieldNames[structField]; ok {
		return name
	}
	return strings.ToLower(structField)
}

// normalizeSchedule keeps only the schedule fields meaningful for kind and
// rejects the ones that are missing.
func normalizeSchedule(kind TaskKind, repeat *RepeatRule, dates *DateRange) (*RepeatRule, *time.Time, *time.Time, error) {
	switch kind {
	case TaskKindCycle:
		if repeat == nil || *repeat == "" {
			return nil, nil, nil, &ValidationError{Field: "repeat_rule", Reason: "is required for cycle tasks"}
		}
		if !repeat.IsValid() {
			return nil, nil, nil, &ValidationError{Field: "repeat_rule", Reason: "must be one of daily, weekly, monthly"}
		}
		rule := *repeat
		return &rule, nil, nil, nil
	case TaskKindLongTerm:
		if dates == nil {
			return nil, nil, nil, &ValidationError{Field: "date_range", Reason: "is required for long_term tasks"}
		}
		start := CalendarDate(dates.Start)
		end := CalendarDate(dates.End)
		if start.After(end) {
			return nil, nil, nil, &ValidationError{Field: "date_range", Reason: "start date must not be after end date"}
		}
		return nil, &start, &end, nil
	case TaskKindOnce:
		return nil, nil, nil, nil
	default:
		return nil, nil, nil, &ValidationError{Field: "kind", Reason: "must be one of once, cycle, long_term"}
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "is required"}
	}
	return name, nil
}
