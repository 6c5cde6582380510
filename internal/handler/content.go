package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

func (h *ContentHandler) GuidelinesPage(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "guidelines")
}

func (h *ContentHandler) LegalPage(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "legal/"+r.PathValue("page"))
}

func (h *ContentHandler) show(w http.ResponseWriter, r *http.Request, slug string) {
	page, err := h.contentService.Page(slug)
	if errors.Is(err, service.ErrPageNotFound) {
		renderError(w, r, http.StatusNotFound, "Page not found")
		return
	}
	if err != nil {
		slog.Error("failed to load page", "error", err, "slug", slug)
		renderError(w, r, http.StatusInternalServerError, genericError)
		return
	}

	ui.Render(w, r, pages.Content(pages.NewView(r.Context(), page.Title), pages.ContentData{
		Page: page,
		Body: template.HTML(page.Content),
	}))
}
