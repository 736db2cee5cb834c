package mapper

import (
	"time"

	"timemaster/internal/adapter/http/dto"
	"timemaster/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Kind:        string(task.Kind),
		Progress:    task.Progress,
		Target:      task.Target,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	if task.RepeatRule != nil {
		value := string(*task.RepeatRule)
		item.RepeatRule = &value
	}

	if task.StartDate != nil {
		value := task.StartDate.Format(domain.DateLayout)
		item.StartDate = &value
	}

	if task.EndDate != nil {
		value := task.EndDate.Format(domain.DateLayout)
		item.EndDate = &value
	}

	return item
}
