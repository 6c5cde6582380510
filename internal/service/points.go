package service

import (
	"context"
	"log/slog"

	"github.com/campusshare/campusshare/internal/metrics"
	"github.com/campusshare/campusshare/internal/repository"
)

const (
	PointsUpload        = 10
	PointsReview        = 2
	PointsHelpfulReview = 5

	// HelpfulRating is the lowest rating that rewards the uploader.
	HelpfulRating = 4
)

// Award reasons, used as metric labels and in logs.
const (
	AwardUpload        = "upload"
	AwardReview        = "review"
	AwardHelpfulReview = "helpful_review"
)

// LeaderboardInvalidator drops cached rankings after points change.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

type PointsService struct {
	profiles    repository.ProfileRepository
	invalidator LeaderboardInvalidator
}

// NewPointsService creates the service. invalidator may be nil.
func NewPointsService(profiles repository.ProfileRepository, invalidator LeaderboardInvalidator) *PointsService {
	return &PointsService{
		profiles:    profiles,
		invalidator: invalidator,
	}
}

// Award adds amount to the user's points. It is best effort: failures are
// logged and counted, never returned, and never undo the triggering action.
func (s *PointsService) Award(ctx context.Context, userID string, amount int, reason string) {
	err := s.profiles.IncrementPoints(ctx, userID, amount)
	metrics.PointAwards.WithLabelValues(reason, metrics.Outcome(err)).Inc()
	if err != nil {
		slog.Error("failed to award points", "error", err, "user_id", userID, "amount", amount, "reason", reason)
		return
	}

	slog.Debug("points awarded", "user_id", userID, "amount", amount, "reason", reason)

	if s.invalidator != nil {
		err = s.invalidator.Invalidate(ctx)
		if err != nil {
			slog.Warn("failed to invalidate leaderboard cache", "error", err)
		}
	}
}
