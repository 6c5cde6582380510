package service

import (
	"context"
	"testing"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewFixture() (*ReviewService, *memProfiles, *memReviews) {
	profiles, resources, reviews := campusFixture()
	svc := NewReviewService(reviews, resources, profiles, NewPointsService(profiles, nil), nil)
	return svc, profiles, reviews
}

func TestReviewHelpfulRatingRewardsUploader(t *testing.T) {
	svc, profiles, _ := newReviewFixture()

	_, err := svc.Submit(context.Background(), "carol", ReviewInput{ResourceID: "pub-bob", Rating: 5, Comment: "Saved my midterm"})
	require.NoError(t, err)

	assert.Equal(t, PointsReview, profiles.points("carol"))
	assert.Equal(t, PointsHelpfulReview, profiles.points("bob"))
}

func TestReviewLowRatingOnlyRewardsReviewer(t *testing.T) {
	svc, profiles, _ := newReviewFixture()

	_, err := svc.Submit(context.Background(), "carol", ReviewInput{ResourceID: "pub-bob", Rating: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, profiles.points("carol"))
	assert.Equal(t, 0, profiles.points("bob"))
}

func TestReviewResubmitReplacesAndAwardsAgain(t *testing.T) {
	svc, profiles, reviews := newReviewFixture()
	ctx := context.Background()

	first, err := svc.Submit(ctx, "carol", ReviewInput{ResourceID: "pub-bob", Rating: 3})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "carol", ReviewInput{ResourceID: "pub-bob", Rating: 4})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, reviews.rows, 1)
	assert.Equal(t, 4, reviews.rows[0].Rating)
	assert.Equal(t, 2*PointsReview, profiles.points("carol"))
	assert.Equal(t, PointsHelpfulReview, profiles.points("bob"))
}

func TestReviewRejections(t *testing.T) {
	svc, _, reviews := newReviewFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, "", ReviewInput{ResourceID: "pub-bob", Rating: 5})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Submit(ctx, "carol", ReviewInput{ResourceID: "pub-bob", Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "rating must be at most 5")

	_, err = svc.Submit(ctx, "carol", ReviewInput{ResourceID: "pub-bob", Rating: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Submit(ctx, "newcomer", ReviewInput{ResourceID: "pub-bob", Rating: 5})
	assert.ErrorIs(t, err, ErrProfileRequired)

	_, err = svc.Submit(ctx, "carol", ReviewInput{ResourceID: "missing", Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)

	// private to Stanford, carol is at MIT
	_, err = svc.Submit(ctx, "carol", ReviewInput{ResourceID: "stanford-bob", Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, reviews.rows)
}

func TestReviewAwardFailureKeepsReview(t *testing.T) {
	svc, profiles, reviews := newReviewFixture()
	profiles.failIncr = true

	_, err := svc.Submit(context.Background(), "carol", ReviewInput{ResourceID: "pub-bob", Rating: 5})
	require.NoError(t, err)
	assert.Len(t, reviews.rows, 1)
}

func TestResourceReviewsDegradesToEmpty(t *testing.T) {
	svc, _, reviews := newReviewFixture()
	reviews.failList = true

	summary := svc.ResourceReviews(context.Background(), "pub-bob")
	assert.Equal(t, &ReviewSummary{Reviews: []*model.Review{}}, summary)
}
