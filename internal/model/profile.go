package model

import "time"

// Profile is a user's academic identity. ID equals the user ID.
type Profile struct {
	ID          string    `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"full_name"`
	CollegeName string    `db:"college_name" json:"college_name"`
	Branch      string    `db:"branch" json:"branch"`
	Semester    string    `db:"semester" json:"semester"`
	Points      int       `db:"points" json:"points"`
	IsAdmin     bool      `db:"is_admin" json:"is_admin"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) Tier() Tier {
	return TierFor(p.Points)
}
