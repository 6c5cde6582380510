package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/campusshare/campusshare/internal/metrics"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/storage"
	"github.com/campusshare/campusshare/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UploadInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ResourceType string `json:"resource_type" validate:"required,resource_type"`
	Subject      string `json:"subject" validate:"required,max=100"`
	Semester     string `json:"semester" validate:"required,max=50"`
	Branch       string `json:"branch" validate:"required,max=100"`
	YearBatch    string `json:"year_batch" validate:"max=50"`
	Privacy      string `json:"privacy" validate:"required,privacy"`
}

// UploadFile is an already content-checked file. Callers validate the
// payload (validation.ValidateFile) before handing it over.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

type ResourceService struct {
	resources   repository.ResourceRepository
	profiles    repository.ProfileRepository
	storage     storage.Storage
	points      *PointsService
	validate    *validator.Validate
	constraints validation.FileConstraints
}

func NewResourceService(
	resources repository.ResourceRepository,
	profiles repository.ProfileRepository,
	store storage.Storage,
	points *PointsService,
	validate *validator.Validate,
	maxUploadSize int64,
) *ResourceService {
	if validate == nil {
		validate = validation.New()
	}
	return &ResourceService{
		resources:   resources,
		profiles:    profiles,
		storage:     store,
		points:      points,
		validate:    validate,
		constraints: validation.ResourceConstraints(maxUploadSize),
	}
}

func (s *ResourceService) Constraints() validation.FileConstraints {
	return s.constraints
}

// Upload stores the file under the user's prefix, records the resource and
// awards upload points. Steps run in order; a failed insert removes the
// stored object, a failed award does not undo the upload.
func (s *ResourceService) Upload(ctx context.Context, userID string, in UploadInput, file UploadFile) (*model.Resource, error) {
	resource, err := s.upload(ctx, userID, in, file)
	metrics.Uploads.WithLabelValues(metrics.Outcome(err)).Inc()
	return resource, err
}

func (s *ResourceService) upload(ctx context.Context, userID string, in UploadInput, file UploadFile) (*model.Resource, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	_, err := s.profiles.ByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	err = s.validate.Struct(in)
	if err != nil {
		return nil, invalid(validation.Message(err))
	}

	ext, err := s.checkFile(file)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s.%s", userID, uuid.New().String(), ext)
	err = s.storage.Save(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload storage failed: %w", err)
	}

	resource := &model.Resource{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		ResourceType: in.ResourceType,
		Subject:      in.Subject,
		Semester:     in.Semester,
		Branch:       in.Branch,
		YearBatch:    in.YearBatch,
		FileURL:      s.storage.PublicURL(key),
		Privacy:      in.Privacy,
		UploaderID:   userID,
		CreatedAt:    time.Now(),
	}

	err = s.resources.Create(ctx, resource)
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete orphaned upload", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to save resource metadata: %w", err)
	}

	slog.Info("resource uploaded", "user_id", userID, "resource_id", resource.ID, "privacy", resource.Privacy)

	s.points.Award(ctx, userID, PointsUpload, AwardUpload)
	return resource, nil
}

func (s *ResourceService) checkFile(file UploadFile) (string, error) {
	if file.Body == nil || file.Size == 0 {
		return "", invalid("no file uploaded")
	}
	if file.Size > s.constraints.MaxSize {
		return "", invalid(fmt.Sprintf("file too large: maximum size is %d MB", s.constraints.MaxSize/(1000*1000)))
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if _, ok := s.constraints.Extensions[ext]; !ok {
		return "", invalid(fmt.Sprintf("unsupported file type %q", ext))
	}
	return strings.TrimPrefix(ext, "."), nil
}

// Delete removes a resource owned by userID. The stored object is removed
// best effort before the row; the row deletion decides the outcome.
func (s *ResourceService) Delete(ctx context.Context, userID, resourceID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	resource, err := s.resources.ByID(ctx, resourceID)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get resource: %w", err)
	}

	if resource.UploaderID != userID {
		return ErrNotAuthorized
	}

	key, ok := storage.KeyFromURL(resource.FileURL, s.storage.Bucket())
	if ok {
		err = s.storage.Delete(ctx, key)
		if err != nil {
			slog.Error("failed to delete resource file", "error", err, "key", key, "resource_id", resourceID)
		}
	} else {
		slog.Warn("resource file is outside the bucket, skipping storage delete", "resource_id", resourceID, "file_url", resource.FileURL)
	}

	err = s.resources.Delete(ctx, resourceID)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete resource record: %w", err)
	}

	slog.Info("resource deleted", "user_id", userID, "resource_id", resourceID)
	return nil
}
