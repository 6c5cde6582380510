package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/validation"
	"github.com/go-playground/validator/v10"
)

type ProfileInput struct {
	FullName    string `json:"full_name" validate:"required,max=100"`
	CollegeName string `json:"college_name" validate:"required,max=100"`
	Branch      string `json:"branch" validate:"required,max=100"`
	Semester    string `json:"semester" validate:"required,max=50"`
}

type ProfileService struct {
	profiles    repository.ProfileRepository
	users       repository.UserRepository
	leaderboard LeaderboardInvalidator
	email       *EmailService
	validate    *validator.Validate
}

// NewProfileService creates the service. leaderboard may be nil.
func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	leaderboard LeaderboardInvalidator,
	email *EmailService,
	validate *validator.Validate,
) *ProfileService {
	if validate == nil {
		validate = validation.New()
	}
	return &ProfileService{
		profiles:    profiles,
		users:       users,
		leaderboard: leaderboard,
		email:       email,
		validate:    validate,
	}
}

// ByUserID returns the user's profile or ErrProfileRequired.
func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.ByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, ErrProfileRequired
	}
	return profile, err
}

// Upsert creates the profile on first submission and updates its editable
// fields afterwards. The first creation sends a welcome email.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.CollegeName = strings.TrimSpace(in.CollegeName)
	in.Branch = strings.TrimSpace(in.Branch)
	in.Semester = strings.TrimSpace(in.Semester)

	err := validation.ValidateName("full_name", in.FullName)
	if err != nil {
		return nil, invalid(err.Error())
	}
	err = validation.ValidateName("college_name", in.CollegeName)
	if err != nil {
		return nil, invalid(err.Error())
	}
	err = s.validate.Struct(in)
	if err != nil {
		return nil, invalid(validation.Message(err))
	}

	existing, err := s.profiles.ByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	isNew := existing == nil

	profile := &model.Profile{
		ID:          userID,
		FullName:    in.FullName,
		CollegeName: in.CollegeName,
		Branch:      in.Branch,
		Semester:    in.Semester,
	}
	if existing != nil {
		profile.Points = existing.Points
		profile.IsAdmin = existing.IsAdmin
		profile.CreatedAt = existing.CreatedAt
	}

	err = s.profiles.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// Leaderboard rows carry name and college.
	if s.leaderboard != nil {
		err = s.leaderboard.Invalidate(ctx)
		if err != nil {
			slog.Warn("failed to invalidate leaderboard cache", "error", err, "user_id", userID)
		}
	}

	if isNew {
		slog.Info("profile created", "user_id", userID, "college", profile.CollegeName)
		s.sendWelcome(ctx, userID, profile.FullName)
	}

	return profile, nil
}

func (s *ProfileService) sendWelcome(ctx context.Context, userID, name string) {
	if s.email == nil || s.users == nil {
		return
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load user for welcome email", "error", err, "user_id", userID)
		return
	}

	err = s.email.SendWelcomeEmail(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", userID)
	}
}
