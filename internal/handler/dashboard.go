package handler

import (
	"log/slog"
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

type DashboardHandler struct {
	catalogService     *service.CatalogService
	leaderboardService *service.LeaderboardService
}

func NewDashboardHandler(catalogService *service.CatalogService, leaderboardService *service.LeaderboardService) *DashboardHandler {
	return &DashboardHandler{
		catalogService:     catalogService,
		leaderboardService: leaderboardService,
	}
}

// DashboardPage expects RequireProfile in front of it.
func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := ctxkeys.Profile(ctx)

	uploads, err := h.catalogService.Uploads(ctx, profile.ID)
	if err != nil {
		slog.Error("failed to load uploads", "error", err, "user_id", profile.ID)
	}

	data := pages.DashboardData{
		Profile: profile,
		Uploads: uploads,
		Rank:    h.leaderboardService.Rank(ctx, profile.ID),
	}
	if next, ok := model.NextTier(profile.Points); ok {
		data.NextTier = &next
	}

	ui.Render(w, r, pages.Dashboard(pages.NewView(ctx, "Dashboard"), data))
}
