package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string    `db:"id" json:"id"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	ReviewerName *string `db:"reviewer_full_name" json:"reviewer_name,omitempty"`
}

// ResourceRating is one joined (resource_id, rating) row used for listing
// aggregation.
type ResourceRating struct {
	ResourceID string `db:"resource_id"`
	Rating     int    `db:"rating"`
}
