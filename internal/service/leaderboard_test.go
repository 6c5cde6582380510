package service

import (
	"context"
	"testing"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLeaderboardCache struct {
	countingInvalidator
	entries map[int][]*model.LeaderboardEntry
	sets    int
}

func (c *memLeaderboardCache) Top(
	ctx context.Context,
	limit int,
	load func(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error),
) ([]*model.LeaderboardEntry, error) {
	if entries, ok := c.entries[limit]; ok {
		return entries, nil
	}
	entries, err := load(ctx, limit)
	if err != nil {
		return nil, err
	}
	if c.entries == nil {
		c.entries = make(map[int][]*model.LeaderboardEntry)
	}
	c.entries[limit] = entries
	c.sets++
	return entries, nil
}

func standingsFixture() *memProfiles {
	return newMemProfiles(
		&model.Profile{ID: "novice", Points: 10},
		&model.Profile{ID: "second-a", Points: 200},
		&model.Profile{ID: "legend", Points: 500},
		&model.Profile{ID: "second-b", Points: 200},
	)
}

func entryIDs(entries []*model.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestLeaderboardRankCountsStrictlyGreater(t *testing.T) {
	svc := NewLeaderboardService(standingsFixture(), nil, 0)
	ctx := context.Background()

	rank := svc.Rank(ctx, "novice")
	require.NotNil(t, rank)
	assert.Equal(t, 4, rank.Rank)
	assert.Equal(t, 10, rank.Points)

	assert.Equal(t, 2, svc.Rank(ctx, "second-a").Rank)
	assert.Equal(t, 2, svc.Rank(ctx, "second-b").Rank)
	assert.Equal(t, 1, svc.Rank(ctx, "legend").Rank)

	assert.Nil(t, svc.Rank(ctx, "nobody"))
	assert.Nil(t, svc.Rank(ctx, ""))
}

func TestLeaderboardTopKeepsTieOrder(t *testing.T) {
	svc := NewLeaderboardService(standingsFixture(), nil, 0)

	top := svc.Top(context.Background(), 3)
	assert.Equal(t, []string{"legend", "second-a", "second-b"}, entryIDs(top))
	assert.Equal(t, DefaultLeaderboardSize, svc.Size())
}

func TestLeaderboardTopUsesCache(t *testing.T) {
	profiles := standingsFixture()
	cache := &memLeaderboardCache{}
	svc := NewLeaderboardService(profiles, cache, 3)
	ctx := context.Background()

	first := svc.Top(ctx, 0)
	require.Len(t, first, 3)
	assert.Equal(t, 1, cache.sets)

	// Served from the cache even though the table changed.
	profiles.byID["novice"].Points = 1000
	second := svc.Top(ctx, 0)
	assert.Equal(t, entryIDs(first), entryIDs(second))
	assert.Equal(t, 1, cache.sets)
}

func TestLeaderboardEmptyTable(t *testing.T) {
	svc := NewLeaderboardService(newMemProfiles(), nil, 5)

	top := svc.Top(context.Background(), 0)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestRankOf(t *testing.T) {
	standings := []model.PointStanding{{ID: "a", Points: 500}, {ID: "b", Points: 200}, {ID: "c", Points: 200}, {ID: "d", Points: 10}}

	assert.Equal(t, &model.RankInfo{Rank: 4, Points: 10}, RankOf(standings, "d"))
	assert.Equal(t, &model.RankInfo{Rank: 2, Points: 200}, RankOf(standings, "c"))
	assert.Nil(t, RankOf(standings, "z"))
}
