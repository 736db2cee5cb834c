package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"timemaster/internal/adapter/memory"
	"timemaster/internal/config"
	"timemaster/internal/core/ports"
)

const (
	sqliteMemoryPath = ":memory:"
	sqlitePragmas    = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	mysqlClientFoundRows = "clientFoundRows=true"
)

// ConnectDB opens the SQL database selected by conf.StoreDriver.
func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	switch conf.StoreDriver {
	case config.StoreDriverMySQL:
		return connectMySQL(conf)
	case config.StoreDriverSQLite, "":
		return ConnectSQLite(conf.SqlitePath)
	default:
		return nil, fmt.Errorf("store driver %q has no sql connection", conf.StoreDriver)
	}
}

// ConnectSQLite opens an embedded database file, creating its directory.
func ConnectSQLite(path string) (*sqlx.DB, error) {
	if path == "" {
		path = sqliteMemoryPath
	}

	dsn := sqliteMemoryPath
	if path != sqliteMemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory %s: %w", dir, err)
			}
		}
		dsn = "file:" + path + "?" + sqlitePragmas
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == sqliteMemoryPath {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func connectMySQL(conf *config.Config) (*sqlx.DB, error) {
	params := MySQLParams(conf.DbParams)

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// MySQLParams forces clientFoundRows=true onto the DSN parameters, so an
// UPDATE that rewrites identical values still reports the matched row.
func MySQLParams(params string) string {
	kept := make([]string, 0, 4)
	for _, param := range strings.Split(params, "&") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		if strings.EqualFold(param, mysqlClientFoundRows) {
			return strings.Trim(strings.TrimSpace(params), "&")
		}
		if strings.HasPrefix(strings.ToLower(param), "clientfoundrows=") {
			continue
		}
		kept = append(kept, param)
	}
	return strings.Join(append(kept, mysqlClientFoundRows), "&")
}

// OpenTaskRepository builds the task store for the configured driver and makes
// sure its schema exists.
func OpenTaskRepository(ctx context.Context, conf *config.Config) (ports.TaskRepository, error) {
	if conf.StoreDriver == config.StoreDriverMemory {
		return memory.NewTaskRepository(), nil
	}

	db, err := ConnectDB(conf)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewTaskRepository(db), nil
}
