package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Timestamps are stored as fixed-width UTC text so ORDER BY on the column is
// chronological on both sqlite and mysql.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		kind TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		target INTEGER NOT NULL DEFAULT 1,
		repeat_rule TEXT,
		start_date TEXT,
		end_date TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_updated_at ON tasks(updated_at)`,
	`CREATE TABLE IF NOT EXISTS task_tombstones (
		id TEXT PRIMARY KEY,
		deleted_at TEXT NOT NULL
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(160) NOT NULL,
		description VARCHAR(480) NULL,
		kind VARCHAR(16) NOT NULL,
		progress INT NOT NULL DEFAULT 0,
		target INT NOT NULL DEFAULT 1,
		repeat_rule VARCHAR(16) NULL,
		start_date CHAR(10) NULL,
		end_date CHAR(10) NULL,
		status VARCHAR(16) NOT NULL,
		created_at CHAR(30) NOT NULL,
		updated_at CHAR(30) NOT NULL,
		INDEX idx_tasks_status (status),
		INDEX idx_tasks_updated_at (updated_at)
	) CHARACTER SET utf8mb4`,
	`CREATE TABLE IF NOT EXISTS task_tombstones (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		deleted_at CHAR(30) NOT NULL
	)`,
}

// Migrate creates the task tables when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == "mysql" {
		statements = mysqlSchema
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate %s schema: %w", db.DriverName(), err)
		}
	}
	return nil
}
