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

type ReviewInput struct {
	ResourceID string `json:"resource_id" validate:"required"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

// ReviewSummary is the detail-page view of a resource's reviews.
type ReviewSummary struct {
	Reviews      []*model.Review `json:"reviews"`
	AvgRating    float64         `json:"avg_rating"`
	TotalReviews int             `json:"total_reviews"`
}

type ReviewService struct {
	reviews   repository.ReviewRepository
	resources repository.ResourceRepository
	profiles  repository.ProfileRepository
	points    *PointsService
	validate  *validator.Validate
}

func NewReviewService(
	reviews repository.ReviewRepository,
	resources repository.ResourceRepository,
	profiles repository.ProfileRepository,
	points *PointsService,
	validate *validator.Validate,
) *ReviewService {
	if validate == nil {
		validate = validation.New()
	}
	return &ReviewService{
		reviews:   reviews,
		resources: resources,
		profiles:  profiles,
		points:    points,
		validate:  validate,
	}
}

// Submit creates or replaces the user's review of a resource, then awards
// the reviewer and, for a helpful rating, the uploader.
func (s *ReviewService) Submit(ctx context.Context, userID string, in ReviewInput) (*model.Review, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	in.Comment = strings.TrimSpace(in.Comment)
	err := s.validate.Struct(in)
	if err != nil {
		return nil, invalid(validation.Message(err))
	}

	profile, err := s.profiles.ByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	resource, err := s.resources.ByID(ctx, in.ResourceID)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if !CanView(resource, profile.CollegeName) {
		return nil, ErrNotFound
	}

	review := &model.Review{
		ID:         uuid.New().String(),
		ResourceID: resource.ID,
		UserID:     userID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now(),
	}

	err = s.reviews.Upsert(ctx, review)
	metrics.Reviews.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	slog.Info("review submitted", "user_id", userID, "resource_id", resource.ID, "rating", in.Rating)

	s.points.Award(ctx, userID, PointsReview, AwardReview)
	if in.Rating >= HelpfulRating && resource.UploaderID != "" {
		s.points.Award(ctx, resource.UploaderID, PointsHelpfulReview, AwardHelpfulReview)
	}

	return review, nil
}

// ResourceReviews returns the reviews of a resource newest first with the
// same average used by catalog listings. A store failure yields an empty
// summary.
func (s *ReviewService) ResourceReviews(ctx context.Context, resourceID string) *ReviewSummary {
	reviews, err := s.reviews.ByResource(ctx, resourceID)
	if err != nil {
		slog.Error("failed to fetch reviews", "error", err, "resource_id", resourceID)
		reviews = nil
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}

	return &ReviewSummary{
		Reviews:      reviews,
		AvgRating:    model.AverageRating(model.ReviewRatings(reviews)),
		TotalReviews: len(reviews),
	}
}
