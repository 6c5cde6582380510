package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var resourceColumns = []string{
	"id", "title", "description", "resource_type", "subject", "semester", "branch",
	"year_batch", "file_url", "privacy", "uploader_id", "created_at",
	"uploader_full_name", "uploader_college_name",
}

func TestProfileRepositoryIncrementPoints(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(`UPDATE profiles\s+SET points = points \+ \$1`).
		WithArgs(10, sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementPoints(context.Background(), "user-1", 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryIncrementPointsMissingProfile(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(`UPDATE profiles`).
		WithArgs(5, sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementPoints(context.Background(), "ghost", 5)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepositoryLeaderboardOrdering(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "college_name", "branch", "points"}).
		AddRow("a", "Asha", "MIT", "CS", 500).
		AddRow("b", "Ben", "MIT", "EE", 200)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY points DESC, created_at ASC, id ASC LIMIT $1")).
		WithArgs(10).
		WillReturnRows(rows)

	entries, err := repo.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Asha", entries[0].FullName)
	assert.Equal(t, 200, entries[1].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryUpsertLeavesPointsAlone(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO profiles.*ON CONFLICT \(id\) DO UPDATE SET`).
		WithArgs("user-1", "Asha", "MIT", "CS", "Sem 3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &model.Profile{ID: "user-1", FullName: "Asha", CollegeName: "MIT", Branch: "CS", Semester: "Sem 3"}
	require.NoError(t, repo.Upsert(context.Background(), profile))
	assert.False(t, profile.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryListUsesBuiltQuery(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(resourceColumns).
		AddRow("r1", "DBMS Notes", "", "Note", "DBMS", "Sem 3", "CS", "2024", "https://x/f.pdf", "private", "u1", now, "Asha", "MIT").
		AddRow("r2", "OS Paper", "", "Question Paper", "OS", "Sem 4", "CS", "2024", "https://x/g.pdf", "private", "u2", now, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("p.college_name = $2")).
		WithArgs("private", "MIT", 100).
		WillReturnRows(rows)

	resources, err := repo.List(context.Background(), ResourceQuery{Privacy: model.PrivacyPrivate, College: "MIT", Limit: 100})
	require.NoError(t, err)
	require.Len(t, resources, 2)
	require.NotNil(t, resources[0].UploaderCollege)
	assert.Equal(t, "MIT", *resources[0].UploaderCollege)
	assert.Nil(t, resources[1].UploaderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryCreateManyRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resources").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO resources").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.CreateMany(context.Background(), []*model.Resource{
		{ID: "r1", Title: "One", Privacy: model.PrivacyPublic},
		{ID: "r2", Title: "Two", Privacy: model.PrivacyPublic},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryCreateManyCommits(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resources").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateMany(context.Background(), []*model.Resource{{ID: "r1", Title: "One"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM resources WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), ErrResourceNotFound)
}

func TestReviewRepositoryUpsertReturnsExistingID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO reviews.*ON CONFLICT \(user_id, resource_id\) DO UPDATE SET`).
		WithArgs("new-id", "r1", "u1", 4, "solid", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))

	review := &model.Review{ID: "new-id", ResourceID: "r1", UserID: "u1", Rating: 4, Comment: "solid", CreatedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), review))
	assert.Equal(t, "existing-id", review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryRatingsExpandsIDs(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"resource_id", "rating"}).
		AddRow("r1", 4).
		AddRow("r1", 5).
		AddRow("r2", 3)
	mock.ExpectQuery(`SELECT resource_id, rating FROM reviews WHERE resource_id IN`).
		WithArgs("r1", "r2").
		WillReturnRows(rows)

	ratings, err := repo.Ratings(context.Background(), []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Len(t, ratings, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryRatingsEmptyInput(t *testing.T) {
	db, _, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	ratings, err := repo.Ratings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestReportRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReportRepository(db)

	resourceID := "r1"
	mock.ExpectExec("INSERT INTO reports").
		WithArgs("rep-1", "u1", "r1", nil, model.ReportReasonSpam, "", model.ReportStatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &model.Report{
		ID:         "rep-1",
		ReporterID: "u1",
		ResourceID: &resourceID,
		Reason:     model.ReportReasonSpam,
		Status:     model.ReportStatusPending,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
