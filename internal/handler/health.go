package handler

import (
	"net/http"

	"github.com/campusshare/campusshare/internal/service"
)

type HealthHandler struct {
	healthService *service.HealthService
}

func NewHealthHandler(healthService *service.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

func (h *HealthHandler) CheckDB(w http.ResponseWriter, r *http.Request) {
	writeCheck(w, h.healthService.CheckDB(r.Context()))
}

func (h *HealthHandler) CheckStorage(w http.ResponseWriter, r *http.Request) {
	writeCheck(w, h.healthService.CheckStorage(r.Context()))
}

func writeCheck(w http.ResponseWriter, result service.CheckResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}
