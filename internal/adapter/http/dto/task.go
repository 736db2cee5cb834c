package dto

type TaskItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	Progress    int     `json:"progress"`
	Target      int     `json:"target"`
	RepeatRule  *string `json:"repeat_rule"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CreateTaskRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1024"`
	Kind        string   `json:"kind" binding:"required,oneof=once cycle long_term"`
	Target      *int     `json:"target" binding:"omitempty,gte=1"`
	Progress    *int     `json:"progress"`
	RepeatRule  *string  `json:"repeat_rule" binding:"omitempty,oneof=daily weekly monthly"`
	DateRange   []string `json:"date_range" binding:"omitempty,len=2,dive,datetime=2006-01-02"`
}

// UpdateTaskRequest carries the full editable state of a task. The id is taken
// from the path; a body id, when present, must match it.
type UpdateTaskRequest struct {
	ID          *string  `json:"id"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1024"`
	Kind        string   `json:"kind" binding:"required,oneof=once cycle long_term"`
	Target      *int     `json:"target" binding:"omitempty,gte=1"`
	RepeatRule  *string  `json:"repeat_rule" binding:"omitempty,oneof=daily weekly monthly"`
	DateRange   []string `json:"date_range" binding:"omitempty,len=2,dive,datetime=2006-01-02"`
}
