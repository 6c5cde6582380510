package handler

import (
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
)

type SeedHandler struct {
	seedService *service.SeedService
}

func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{
		seedService: seedService,
	}
}

func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.seedService.SeedDemo(ctx, ctxkeys.UserID(ctx))
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, map[string]int{"inserted": n})
}
