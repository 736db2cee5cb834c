package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"timemaster/pkg/translator"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "timemaster/internal/adapter/db"
	httpadapter "timemaster/internal/adapter/http"
	"timemaster/internal/adapter/http/handlers"
	"timemaster/internal/app/service"
	"timemaster/internal/config"
	"timemaster/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	ctx := context.Background()
	taskRepository, err := dbadapter.OpenTaskRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open task store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	taskService := service.NewTaskService(taskRepository)
	healthHandler := handlers.NewHealthHandler(taskRepository, handlers.HealthInfo{
		AppName:     cfg.AppName,
		AppVersion:  cfg.AppVersion,
		StoreDriver: cfg.StoreDriver,
	})
	taskHandler := handlers.NewTaskHandler(taskService)

	gin.SetMode(gin.ReleaseMode)
	r, err := httpadapter.NewRouter(logger, cfg.TrustedProxies, healthHandler, taskHandler)
	if err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("trusted_proxies", cfg.TrustedProxies), zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store_driver", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			logger.Info("shutting down server")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			// The store closes only after in-flight requests have drained.
			return taskRepository.Close()
		},
	})

	exitCode := <-wait
	logger.Info("server exited", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}
