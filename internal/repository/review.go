package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/jmoiron/sqlx"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, review *model.Review) error
	ByID(ctx context.Context, id string) (*model.Review, error)
	ByResource(ctx context.Context, resourceID string) ([]*model.Review, error)
	Ratings(ctx context.Context, resourceIDs []string) ([]model.ResourceRating, error)
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert keeps at most one review per (user, resource). A second submission
// replaces rating, comment and created_at, so an edited review lists as
// new; the original id is kept and written back.
func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, resource_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, resource_id) DO UPDATE SET
			rating = excluded.rating,
			comment = excluded.comment,
			created_at = excluded.created_at
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		review.ID,
		review.ResourceID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID)
}

func (r *reviewRepository) ByID(ctx context.Context, id string) (*model.Review, error) {
	review := &model.Review{}
	query := `SELECT id, resource_id, user_id, rating, comment, created_at FROM reviews WHERE id = $1`

	err := r.db.GetContext(ctx, review, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) ByResource(ctx context.Context, resourceID string) ([]*model.Review, error) {
	var reviews []*model.Review
	query := `SELECT rv.id, rv.resource_id, rv.user_id, rv.rating, rv.comment, rv.created_at,
		p.full_name AS reviewer_full_name
		FROM reviews rv
		LEFT JOIN profiles p ON p.id = rv.user_id
		WHERE rv.resource_id = $1
		ORDER BY rv.created_at DESC`

	err := r.db.SelectContext(ctx, &reviews, query, resourceID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Ratings returns every (resource_id, rating) pair for the given resources.
func (r *reviewRepository) Ratings(ctx context.Context, resourceIDs []string) ([]model.ResourceRating, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT resource_id, rating FROM reviews WHERE resource_id IN (?)`, resourceIDs)
	if err != nil {
		return nil, err
	}

	var ratings []model.ResourceRating
	err = r.db.SelectContext(ctx, &ratings, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
