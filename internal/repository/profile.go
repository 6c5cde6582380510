package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/jmoiron/sqlx"
)

type ProfileRepository interface {
	ByID(ctx context.Context, id string) (*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
	IncrementPoints(ctx context.Context, id string, amount int) error
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	Standings(ctx context.Context) ([]model.PointStanding, error)
	Count(ctx context.Context) (int, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, full_name, college_name, branch, semester, points, is_admin, created_at, updated_at`

// leaderboardOrder is the single ordering used for both top-N and rank so
// ties resolve identically in both.
const leaderboardOrder = `ORDER BY points DESC, created_at ASC, id ASC`

func (r *profileRepository) ByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the profile or updates its editable fields. Points and the
// admin flag are never touched by an upsert.
func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, college_name, branch, semester, points, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, FALSE, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			college_name = excluded.college_name,
			branch = excluded.branch,
			semester = excluded.semester,
			updated_at = excluded.updated_at
	`, profile.ID, profile.FullName, profile.CollegeName, profile.Branch, profile.Semester, profile.CreatedAt, profile.UpdatedAt)

	return err
}

// IncrementPoints adds amount server-side in a single statement, so
// concurrent awards never lose updates.
func (r *profileRepository) IncrementPoints(ctx context.Context, id string, amount int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET points = points + $1, updated_at = $2
		WHERE id = $3
	`, amount, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	var entries []*model.LeaderboardEntry
	query := `SELECT id, full_name, college_name, branch, points FROM profiles ` + leaderboardOrder + ` LIMIT $1`

	err := r.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Standings returns every profile's points in leaderboard order.
func (r *profileRepository) Standings(ctx context.Context) ([]model.PointStanding, error) {
	var standings []model.PointStanding
	err := r.db.SelectContext(ctx, &standings, `SELECT id, points FROM profiles `+leaderboardOrder)
	if err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}
