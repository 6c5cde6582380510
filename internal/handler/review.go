package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An unparsable rating stays 0 and fails validation.
	rating, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))

	review, err := h.reviewService.Submit(ctx, ctxkeys.UserID(ctx), service.ReviewInput{
		ResourceID: r.PathValue("id"),
		Rating:     rating,
		Comment:    r.FormValue("comment"),
	})
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, review)
}
