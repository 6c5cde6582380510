package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
	"github.com/campusshare/campusshare/internal/validation"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

type ResourceHandler struct {
	catalogService  *service.CatalogService
	resourceService *service.ResourceService
	reviewService   *service.ReviewService
	contentService  *service.ContentService
}

func NewResourceHandler(
	catalogService *service.CatalogService,
	resourceService *service.ResourceService,
	reviewService *service.ReviewService,
	contentService *service.ContentService,
) *ResourceHandler {
	return &ResourceHandler{
		catalogService:  catalogService,
		resourceService: resourceService,
		reviewService:   reviewService,
		contentService:  contentService,
	}
}

func filterFromQuery(r *http.Request) model.ResourceFilter {
	q := r.URL.Query()
	return model.ResourceFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		Semester:     q.Get("semester"),
		Branch:       q.Get("branch"),
		ResourceType: q.Get("resource_type"),
		SortBy:       q.Get("sort_by"),
	}
}

func (h *ResourceHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := filterFromQuery(r)

	ui.Render(w, r, pages.Resources(pages.NewView(ctx, "Resources"), pages.ResourcesData{
		Resources: h.catalogService.Resources(ctx, ctxkeys.UserID(ctx), filter),
		Filter:    filter,
	}))
}

func (h *ResourceHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctxkeys.UserID(ctx)

	resource, err := h.catalogService.Resource(ctx, userID, r.PathValue("id"))
	if errors.Is(err, service.ErrNotFound) {
		renderError(w, r, http.StatusNotFound, "This resource does not exist or is not shared with you.")
		return
	}
	if err != nil {
		slog.Error("failed to load resource", "error", err, "resource_id", r.PathValue("id"))
		renderError(w, r, http.StatusInternalServerError, genericError)
		return
	}

	reviews := h.reviewService.ResourceReviews(ctx, resource.ID)
	resource.AvgRating = reviews.AvgRating
	resource.TotalReviews = reviews.TotalReviews

	ui.Render(w, r, pages.Resource(pages.NewView(ctx, resource.Title), pages.ResourceData{
		Resource:      resource,
		Description:   template.HTML(h.contentService.RenderUserText(resource.Description)),
		Reviews:       reviews,
		IsOwner:       userID != "" && resource.UploaderID == userID,
		ReportReasons: model.ReportReasons,
	}))
}

func (h *ResourceHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	constraints := h.resourceService.Constraints()

	exts := make([]string, 0, len(constraints.Extensions))
	for ext := range constraints.Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	ui.Render(w, r, pages.Upload(pages.NewView(r.Context(), "Upload"), pages.UploadData{
		Accept: strings.Join(exts, ","),
		MaxMB:  constraints.MaxSize / (1000 * 1000),
	}))
}

// Upload accepts a multipart form with the resource fields and a "file"
// part.
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	constraints := h.resourceService.Constraints()
	r.Body = http.MaxBytesReader(w, r.Body, constraints.MaxSize+multipartMemory)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		slog.Warn("failed to parse upload form", "error", err, "user_id", userID)
		writeActionError(w, r, &service.ValidationError{Reason: "upload is too large or malformed"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := service.UploadInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		ResourceType: r.FormValue("resource_type"),
		Subject:      r.FormValue("subject"),
		Semester:     r.FormValue("semester"),
		Branch:       r.FormValue("branch"),
		YearBatch:    r.FormValue("year_batch"),
		Privacy:      r.FormValue("privacy"),
	}

	var upload service.UploadFile
	file, header, err := r.FormFile("file")
	if err == nil {
		defer func() { _ = file.Close() }()

		upload, err = uploadFile(file, header, constraints)
		if err != nil {
			writeActionError(w, r, err)
			return
		}
	}

	resource, err := h.resourceService.Upload(ctx, userID, in, upload)
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, map[string]string{"id": resource.ID, "file_url": resource.FileURL})
}

func uploadFile(file multipart.File, header *multipart.FileHeader, constraints validation.FileConstraints) (service.UploadFile, error) {
	contentType, err := validation.ValidateFile(header, constraints)
	if err != nil {
		return service.UploadFile{}, &service.ValidationError{Reason: err.Error()}
	}

	return service.UploadFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Body:        file,
	}, nil
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.resourceService.Delete(ctx, ctxkeys.UserID(ctx), r.PathValue("id"))
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	writeOK(w, nil)
}
