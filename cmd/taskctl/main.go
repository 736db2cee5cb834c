package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	dbadapter "timemaster/internal/adapter/db"
	"timemaster/internal/app/service"
	"timemaster/internal/cli"
	"timemaster/internal/config"
	"timemaster/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}

	// The CLI prints results on stdout; only warnings and errors are logged.
	logger, err := logging.NewLogger("warn")
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	taskRepository, err := dbadapter.OpenTaskRepository(ctx, cfg)
	if err != nil {
		logger.Error("failed to open task store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return 1
	}
	defer func() {
		if err := taskRepository.Close(); err != nil {
			logger.Warn("failed to close task store", zap.Error(err))
		}
	}()

	root := cli.NewRootCommand(service.NewTaskService(taskRepository))
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
