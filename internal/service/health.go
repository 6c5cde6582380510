package service

import (
	"context"
	"time"

	"github.com/campusshare/campusshare/internal/repository"
)

// CheckResult is the JSON shape of the connectivity endpoints.
type CheckResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// BucketChecker is the storage side of the health checks.
type BucketChecker interface {
	CheckBucket(ctx context.Context) error
	Bucket() string
}

type HealthService struct {
	db       Pinger
	profiles repository.ProfileRepository
	storage  BucketChecker
}

func NewHealthService(db Pinger, profiles repository.ProfileRepository, storage BucketChecker) *HealthService {
	return &HealthService{
		db:       db,
		profiles: profiles,
		storage:  storage,
	}
}

// CheckDB pings the database and counts profiles, which also proves the
// schema is migrated.
func (s *HealthService) CheckDB(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return CheckResult{
			Message: "Database connection failed.",
			Error:   err.Error(),
			Hint:    "Check DB_DRIVER and DB_CONNECTION.",
		}
	}

	count, err := s.profiles.Count(ctx)
	if err != nil {
		return CheckResult{
			Message: "Connected, but the profiles table could not be read.",
			Error:   err.Error(),
			Hint:    "Run the migrations: campusctl migrate up",
		}
	}

	return CheckResult{
		Success: true,
		Message: "Successfully connected to the database.",
		Data:    map[string]int{"profiles": count},
	}
}

// CheckStorage verifies the upload bucket is reachable.
func (s *HealthService) CheckStorage(ctx context.Context) CheckResult {
	if s.storage == nil {
		return CheckResult{
			Message: "Storage is not configured.",
			Hint:    "Set S3_BUCKET and credentials.",
		}
	}

	if err := s.storage.CheckBucket(ctx); err != nil {
		return CheckResult{
			Message: "Storage bucket check failed.",
			Error:   err.Error(),
			Hint:    "Create bucket " + s.storage.Bucket() + " or check S3_ENDPOINT and credentials.",
		}
	}

	return CheckResult{
		Success: true,
		Message: "Storage bucket " + s.storage.Bucket() + " is reachable.",
	}
}
