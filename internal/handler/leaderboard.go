package handler

import (
	"net/http"
	"strconv"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

// maxLeaderboardLimit caps ?limit= on the API.
const maxLeaderboardLimit = 100

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

func (h *LeaderboardHandler) LeaderboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ui.Render(w, r, pages.Leaderboard(pages.NewView(ctx, "Leaderboard"), pages.LeaderboardData{
		Entries: h.leaderboardService.Top(ctx, 0),
		Rank:    h.leaderboardService.Rank(ctx, ctxkeys.UserID(ctx)),
	}))
}

// Top serves GET /api/leaderboard?limit=N.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	writeOK(w, h.leaderboardService.Top(r.Context(), limit))
}

// Me serves GET /api/leaderboard/me.
func (h *LeaderboardHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := ctxkeys.UserID(ctx)
	if userID == "" {
		writeActionError(w, r, service.ErrNotAuthenticated)
		return
	}
	if ctxkeys.Profile(ctx) == nil {
		writeActionError(w, r, service.ErrProfileRequired)
		return
	}

	rank := h.leaderboardService.Rank(ctx, userID)
	if rank == nil {
		writeActionError(w, r, service.ErrNotFound)
		return
	}

	writeOK(w, rank)
}
