package model

// LeaderboardEntry is a public projection of a profile for rankings.
type LeaderboardEntry struct {
	ID          string `db:"id" json:"id"`
	FullName    string `db:"full_name" json:"full_name"`
	CollegeName string `db:"college_name" json:"college_name"`
	Branch      string `db:"branch" json:"branch"`
	Points      int    `db:"points" json:"points"`
}

func (e *LeaderboardEntry) Tier() Tier {
	return TierFor(e.Points)
}

// RankInfo is a single user's standing.
type RankInfo struct {
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

// PointStanding is the minimal (id, points) row used for rank computation.
type PointStanding struct {
	ID     string `db:"id"`
	Points int    `db:"points"`
}
