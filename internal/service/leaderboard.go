package service

import (
	"context"
	"log/slog"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
)

const DefaultLeaderboardSize = 20

// LeaderboardCache holds top-N snapshots between points or profile
// changes. Top calls load on a miss.
type LeaderboardCache interface {
	LeaderboardInvalidator
	Top(
		ctx context.Context,
		limit int,
		load func(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error),
	) ([]*model.LeaderboardEntry, error)
}

type LeaderboardService struct {
	profiles repository.ProfileRepository
	cache    LeaderboardCache
	size     int
}

// NewLeaderboardService creates the service. cache may be nil.
func NewLeaderboardService(profiles repository.ProfileRepository, cache LeaderboardCache, size int) *LeaderboardService {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	return &LeaderboardService{
		profiles: profiles,
		cache:    cache,
		size:     size,
	}
}

func (s *LeaderboardService) Size() int {
	return s.size
}

// Top returns the highest-scoring profiles, ties in table order. limit <= 0
// uses the configured size. Failures yield an empty list.
func (s *LeaderboardService) Top(ctx context.Context, limit int) []*model.LeaderboardEntry {
	if limit <= 0 {
		limit = s.size
	}

	var entries []*model.LeaderboardEntry
	var err error
	if s.cache != nil {
		entries, err = s.cache.Top(ctx, limit, s.profiles.Leaderboard)
	} else {
		entries, err = s.profiles.Leaderboard(ctx, limit)
	}
	if err != nil {
		slog.Error("failed to fetch leaderboard", "error", err)
		return []*model.LeaderboardEntry{}
	}
	if entries == nil {
		entries = []*model.LeaderboardEntry{}
	}
	return entries
}

// Rank returns the user's standing, or nil when the user has no profile or
// the lookup fails.
func (s *LeaderboardService) Rank(ctx context.Context, userID string) *model.RankInfo {
	if userID == "" {
		return nil
	}

	standings, err := s.profiles.Standings(ctx)
	if err != nil {
		slog.Error("failed to fetch standings", "error", err, "user_id", userID)
		return nil
	}
	return RankOf(standings, userID)
}

// RankOf is 1 + the number of profiles with strictly more points, so tied
// profiles share a rank.
func RankOf(standings []model.PointStanding, userID string) *model.RankInfo {
	idx := -1
	for i, st := range standings {
		if st.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	points := standings[idx].Points
	ahead := 0
	for _, st := range standings {
		if st.Points > points {
			ahead++
		}
	}
	return &model.RankInfo{Rank: ahead + 1, Points: points}
}
