package handler

import (
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) CompleteProfilePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ui.Render(w, r, pages.CompleteProfile(pages.NewView(ctx, "Your profile"), pages.ProfileFormData{
		Profile: ctxkeys.Profile(ctx),
	}))
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.profileService.Upsert(ctx, ctxkeys.UserID(ctx), service.ProfileInput{
		FullName:    r.FormValue("full_name"),
		CollegeName: r.FormValue("college_name"),
		Branch:      r.FormValue("branch"),
		Semester:    r.FormValue("semester"),
	})
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, profile)
}
