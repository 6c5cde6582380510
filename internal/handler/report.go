package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.reportService.Submit(ctx, ctxkeys.UserID(ctx), service.ReportInput{
		ResourceID:  r.FormValue("resource_id"),
		ReviewID:    r.FormValue("review_id"),
		Reason:      r.FormValue("reason"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, map[string]string{"id": report.ID})
}

// AdminPage lists pending reports. Non-admins get a plain 404.
func (h *ReportHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.reportService.Pending(ctx, ctxkeys.Profile(ctx))
	if errors.Is(err, service.ErrNotAuthenticated) || errors.Is(err, service.ErrNotAuthorized) {
		renderError(w, r, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		slog.Error("failed to load reports", "error", err, "user_id", ctxkeys.UserID(ctx))
		renderError(w, r, http.StatusInternalServerError, genericError)
		return
	}

	ui.Render(w, r, pages.AdminReports(pages.NewView(ctx, "Reports"), pages.AdminReportsData{
		Reports: reports,
	}))
}
