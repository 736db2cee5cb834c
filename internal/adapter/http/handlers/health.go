package handlers

import (
	"context"
	"net/http"
	"time"

	"timemaster/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	StatusOk           = "ok"
	StatusDown         = "down"
	healthStoreTimeout = 2 * time.Second
)

// StorePinger is the part of the task store the health checks need.
type StorePinger interface {
	Ping(ctx context.Context) error
}

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Store       string `json:"store"`
	StoreDriver string `json:"store_driver"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
}

type HealthInfo struct {
	AppName     string
	AppVersion  string
	StoreDriver string
}

type HealthHandler struct {
	store StorePinger
	info  HealthInfo
}

func NewHealthHandler(store StorePinger, info HealthInfo) *HealthHandler {
	if info.AppVersion == "" {
		info.AppVersion = "dev"
	}
	return &HealthHandler{store: store, info: info}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk

	if !h.checkStore(c.Request.Context()) {
		statusCode = http.StatusInternalServerError
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           h.info.AppName,
		AppVersion:        h.info.AppVersion,
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	storeStatus := StatusDown
	if h.checkStore(c.Request.Context()) {
		storeStatus = StatusOk
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           h.info.AppName,
		AppVersion:        h.info.AppVersion,
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		Status: HealthServices{
			Store:       storeStatus,
			StoreDriver: h.info.StoreDriver,
		},
	})
}

func (h *HealthHandler) checkStore(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	// Avoid hanging health checks if the store stalls.
	timeoutCtx, cancel := context.WithTimeout(ctx, healthStoreTimeout)
	defer cancel()
	return h.store.Ping(timeoutCtx) == nil
}
