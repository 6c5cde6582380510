package handler

import (
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

const homeRecentLimit = 6

type HomeHandler struct {
	catalogService     *service.CatalogService
	leaderboardService *service.LeaderboardService
}

func NewHomeHandler(catalogService *service.CatalogService, leaderboardService *service.LeaderboardService) *HomeHandler {
	return &HomeHandler{
		catalogService:     catalogService,
		leaderboardService: leaderboardService,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recent := h.catalogService.Resources(ctx, ctxkeys.UserID(ctx), model.ResourceFilter{SortBy: model.SortNewest})
	if len(recent) > homeRecentLimit {
		recent = recent[:homeRecentLimit]
	}

	ui.Render(w, r, pages.Home(pages.NewView(ctx, ""), pages.HomeData{
		Recent:  recent,
		Leaders: h.leaderboardService.Top(ctx, 5),
	}))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page not found")
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	ui.RenderStatus(w, r, status, pages.Error(pages.NewView(r.Context(), http.StatusText(status)), pages.ErrorData{
		Status:  status,
		Message: message,
	}))
}
