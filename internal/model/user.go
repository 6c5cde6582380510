package model

import (
	"time"
)

// User mirrors an identity provider account. Identity is owned by the
// provider; this row only anchors the session and the profile foreign key.
type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Provider  string    `db:"provider"`
	CreatedAt time.Time `db:"created_at"`
}
