package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"timemaster/internal/core/domain"
	"timemaster/internal/core/ports"
)

const (
	timestampLayout     = "2006-01-02T15:04:05.000000000Z"
	mysqlDuplicateEntry = 1062
)

const taskColumns = `id, name, description, kind, progress, target, repeat_rule, start_date, end_date, status, created_at, updated_at`

const (
	getTaskQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	listTasksQuery = `SELECT ` + taskColumns + ` FROM tasks
ORDER BY updated_at DESC, created_at DESC, id ASC`

	listTasksByStatusQuery = `SELECT ` + taskColumns + ` FROM tasks
WHERE status = ?
ORDER BY updated_at DESC, created_at DESC, id ASC`

	// The insert is skipped when the id is live or tombstoned. MySQL needs an
	// explicit FROM DUAL before WHERE, sqlite rejects it.
	insertTaskQueryFormat = `INSERT INTO tasks (` + taskColumns + `)
SELECT :id, :name, :description, :kind, :progress, :target, :repeat_rule, :start_date, :end_date, :status, :created_at, :updated_at%s
WHERE NOT EXISTS (SELECT 1 FROM tasks WHERE id = :id)
  AND NOT EXISTS (SELECT 1 FROM task_tombstones WHERE id = :id)`

	updateTaskQuery = `UPDATE tasks SET
  name = :name,
  description = :description,
  kind = :kind,
  progress = :progress,
  target = :target,
  repeat_rule = :repeat_rule,
  start_date = :start_date,
  end_date = :end_date,
  status = :status,
  created_at = :created_at,
  updated_at = :updated_at
WHERE id = :id`

	deleteTaskQuery      = `DELETE FROM tasks WHERE id = ?`
	insertTombstoneQuery = `INSERT INTO task_tombstones (id, deleted_at) VALUES (?, ?)`
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Kind        string         `db:"kind"`
	Progress    int            `db:"progress"`
	Target      int            `db:"target"`
	RepeatRule  sql.NullString `db:"repeat_rule"`
	StartDate   sql.NullString `db:"start_date"`
	EndDate     sql.NullString `db:"end_date"`
	Status      string         `db:"status"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := task.Validate(); err != nil {
		return "", domain.NewStorageError("create", err)
	}

	result, err := r.db.NamedExecContext(ctx, r.insertTaskQuery(), mapDomainTaskToTaskRow(task))
	if err != nil {
		if isDuplicateKey(err) {
			return "", domain.NewStorageError("create", fmt.Errorf("%w: %s", domain.ErrTaskIDUnavailable, task.ID))
		}
		return "", domain.NewStorageError("create", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", domain.NewStorageError("create", err)
	}
	if affected == 0 {
		return "", domain.NewStorageError("create", fmt.Errorf("%w: %s", domain.ErrTaskIDUnavailable, task.ID))
	}

	return task.ID, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return domain.Task{}, domain.NewStorageError("get", err)
	}

	task, err := mapTaskRowToDomainTask(row)
	if err != nil {
		return domain.Task{}, domain.NewStorageError("get", err)
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context, status *domain.TaskStatus) ([]domain.Task, error) {
	var rows []taskRow
	var err error
	if status != nil {
		err = r.db.SelectContext(ctx, &rows, listTasksByStatusQuery, string(*status))
	} else {
		err = r.db.SelectContext(ctx, &rows, listTasksQuery)
	}
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, domain.NewStorageError("list", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	if err := task.Validate(); err != nil {
		return domain.NewStorageError("update", err)
	}

	result, err := r.db.NamedExecContext(ctx, updateTaskQuery, mapDomainTaskToTaskRow(task))
	if err != nil {
		return domain.NewStorageError("update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("update", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, task.ID)
	}
	return nil
}

// Delete removes the record and leaves a tombstone in the same transaction so
// the id can never be handed out again.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	deletedAt := time.Now().UTC().Format(timestampLayout)
	if _, err := tx.ExecContext(ctx, insertTombstoneQuery, id, deletedAt); err != nil {
		return domain.NewStorageError("delete", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("delete", err)
	}
	return nil
}

func (r *TaskRepository) insertTaskQuery() string {
	if r.db.DriverName() == "mysql" {
		return fmt.Sprintf(insertTaskQueryFormat, " FROM DUAL")
	}
	return fmt.Sprintf(insertTaskQueryFormat, "")
}

// isDuplicateKey reports a primary key collision from either driver. It only
// happens when two creates race on the same explicit id.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *TaskRepository) Close() error {
	return r.db.Close()
}

func mapDomainTaskToTaskRow(task domain.Task) taskRow {
	row := taskRow{
		ID:          task.ID,
		Name:        task.Name,
		Description: sql.NullString{String: task.Description, Valid: true},
		Kind:        string(task.Kind),
		Progress:    task.Progress,
		Target:      task.Target,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:   task.UpdatedAt.UTC().Format(timestampLayout),
	}

	if task.RepeatRule != nil {
		row.RepeatRule = sql.NullString{String: string(*task.RepeatRule), Valid: true}
	}

	if task.StartDate != nil {
		row.StartDate = sql.NullString{String: task.StartDate.Format(domain.DateLayout), Valid: true}
	}

	if task.EndDate != nil {
		row.EndDate = sql.NullString{String: task.EndDate.Format(domain.DateLayout), Valid: true}
	}

	return row
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	createdAt, err := time.Parse(timestampLayout, row.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("decode created_at of task %s: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(timestampLayout, row.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("decode updated_at of task %s: %w", row.ID, err)
	}

	task := domain.Task{
		ID:        row.ID,
		Name:      row.Name,
		Kind:      domain.TaskKind(row.Kind),
		Progress:  row.Progress,
		Target:    row.Target,
		Status:    domain.TaskStatus(row.Status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if row.Description.Valid {
		task.Description = row.Description.String
	}

	if row.RepeatRule.Valid {
		value := domain.RepeatRule(row.RepeatRule.String)
		task.RepeatRule = &value
	}

	if row.StartDate.Valid {
		value, err := domain.ParseDate(row.StartDate.String)
		if err != nil {
			return domain.Task{}, fmt.Errorf("decode start_date of task %s: %w", row.ID, err)
		}
		task.StartDate = &value
	}

	if row.EndDate.Valid {
		value, err := domain.ParseDate(row.EndDate.String)
		if err != nil {
			return domain.Task{}, fmt.Errorf("decode end_date of task %s: %w", row.ID, err)
		}
		task.EndDate = &value
	}

	return task, nil
}
