package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campusshare/campusshare/internal/metrics"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReportInput struct {
	ResourceID  string `json:"resource_id" validate:"required_without=ReviewID,excluded_with=ReviewID"`
	ReviewID    string `json:"review_id" validate:"required_without=ResourceID"`
	Reason      string `json:"reason" validate:"required,report_reason"`
	Description string `json:"description" validate:"max=1000"`
}

const pendingReportsLimit = 100

type ReportService struct {
	reports   repository.ReportRepository
	resources repository.ResourceRepository
	reviews   repository.ReviewRepository
	profiles  repository.ProfileRepository
	email     *EmailService
	validate  *validator.Validate
}

func NewReportService(
	reports repository.ReportRepository,
	resources repository.ResourceRepository,
	reviews repository.ReviewRepository,
	profiles repository.ProfileRepository,
	email *EmailService,
	validate *validator.Validate,
) *ReportService {
	if validate == nil {
		validate = validation.New()
	}
	return &ReportService{
		reports:   reports,
		resources: resources,
		reviews:   reviews,
		profiles:  profiles,
		email:     email,
		validate:  validate,
	}
}

// Submit appends a pending report against exactly one resource or review.
// The target must exist and be visible to the reporter.
func (s *ReportService) Submit(ctx context.Context, userID string, in ReportInput) (*model.Report, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	in.ResourceID = strings.TrimSpace(in.ResourceID)
	in.ReviewID = strings.TrimSpace(in.ReviewID)
	in.Description = strings.TrimSpace(in.Description)

	err := s.validate.Struct(in)
	if err != nil {
		return nil, invalid(reportMessage(err))
	}

	report := &model.Report{
		ID:          uuid.New().String(),
		ReporterID:  userID,
		Reason:      in.Reason,
		Description: in.Description,
		Status:      model.ReportStatusPending,
		CreatedAt:   time.Now(),
	}

	target, targetID := "resource", in.ResourceID
	if in.ResourceID != "" {
		report.ResourceID = &in.ResourceID
	} else {
		report.ReviewID = &in.ReviewID
		target, targetID = "review", in.ReviewID
	}

	err = s.checkTarget(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	err = s.reports.Create(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}

	metrics.Reports.WithLabelValues(report.Reason).Inc()
	slog.Info("report submitted", "reporter_id", userID, "target", target, "target_id", targetID, "reason", report.Reason)

	if s.email != nil {
		err = s.email.SendReportNotification(ctx, target, targetID, report.Reason, report.Description)
		if err != nil {
			slog.Warn("failed to send report notification", "error", err, "report_id", report.ID)
		}
	}

	return report, nil
}

// Pending lists the moderation queue for admins, oldest first. The admin
// flag is read from the caller's profile on every call.
func (s *ReportService) Pending(ctx context.Context, viewer *model.Profile) ([]*model.Report, error) {
	if viewer == nil {
		return nil, ErrNotAuthenticated
	}
	if !viewer.IsAdmin {
		return nil, ErrNotAuthorized
	}

	reports, err := s.reports.Pending(ctx, pendingReportsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) checkTarget(ctx context.Context, userID string, in ReportInput) error {
	resourceID := in.ResourceID
	if in.ReviewID != "" {
		review, err := s.reviews.ByID(ctx, in.ReviewID)
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get review: %w", err)
		}
		resourceID = review.ResourceID
	}

	resource, err := s.resources.ByID(ctx, resourceID)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get resource: %w", err)
	}
	if !resource.IsPrivate() {
		return nil
	}

	var college string
	profile, err := s.profiles.ByID(ctx, userID)
	switch {
	case err == nil:
		college = profile.CollegeName
	case !errors.Is(err, repository.ErrProfileNotFound):
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if !CanView(resource, college) {
		return ErrNotFound
	}
	return nil
}

func reportMessage(err error) string {
	msg := validation.Message(err)
	if strings.Contains(msg, "resource_id") || strings.Contains(msg, "review_id") {
		return "report exactly one resource or review"
	}
	return msg
}
