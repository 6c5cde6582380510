package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resourceFixture struct {
	svc       *ResourceService
	profiles  *memProfiles
	resources *memResources
	storage   *memStorage
	cache     *countingInvalidator
}

func newResourceFixture() *resourceFixture {
	profiles, resources, _ := campusFixture()
	store := newMemStorage()
	cache := &countingInvalidator{}
	svc := NewResourceService(resources, profiles, store, NewPointsService(profiles, cache), nil, 1000*1000)
	return &resourceFixture{svc: svc, profiles: profiles, resources: resources, storage: store, cache: cache}
}

func validUpload() UploadInput {
	return UploadInput{
		Title:        "  Operating Systems Notes ",
		ResourceType: model.ResourceTypeNote,
		Subject:      "OS",
		Semester:     "4",
		Branch:       "CSE",
		Privacy:      model.PrivacyPrivate,
	}
}

func pdfFile(name string) UploadFile {
	body := []byte("%PDF-1.7 demo")
	return UploadFile{Name: name, Size: int64(len(body)), ContentType: "application/pdf", Body: bytes.NewReader(body)}
}

func TestUploadStoresFileAndAwardsPoints(t *testing.T) {
	f := newResourceFixture()

	res, err := f.svc.Upload(context.Background(), "alice", validUpload(), pdfFile("os.PDF"))
	require.NoError(t, err)

	assert.Equal(t, "Operating Systems Notes", res.Title)
	assert.Equal(t, "alice", res.UploaderID)
	assert.Equal(t, model.PrivacyPrivate, res.Privacy)
	assert.True(t, strings.HasPrefix(res.FileURL, "https://files.example.com/academic-resources/alice/"))
	assert.True(t, strings.HasSuffix(res.FileURL, ".pdf"))
	assert.Len(t, f.storage.objects, 1)
	assert.Equal(t, 4, f.resources.count())

	assert.Equal(t, PointsUpload, f.profiles.points("alice"))
	assert.Equal(t, 1, f.cache.calls)
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		input  func() UploadInput
		file   UploadFile
		want   error
	}{
		{"anonymous", "", validUpload, pdfFile("a.pdf"), ErrNotAuthenticated},
		{"no profile", "newcomer", validUpload, pdfFile("a.pdf"), ErrProfileRequired},
		{"missing title", "alice", func() UploadInput { in := validUpload(); in.Title = " "; return in }, pdfFile("a.pdf"), ErrValidation},
		{"bad type", "alice", func() UploadInput { in := validUpload(); in.ResourceType = "Essay"; return in }, pdfFile("a.pdf"), ErrValidation},
		{"bad privacy", "alice", func() UploadInput { in := validUpload(); in.Privacy = "friends"; return in }, pdfFile("a.pdf"), ErrValidation},
		{"no file", "alice", validUpload, UploadFile{}, ErrValidation},
		{"bad extension", "alice", validUpload, pdfFile("a.exe"), ErrValidation},
		{"too large", "alice", validUpload, UploadFile{Name: "a.pdf", Size: 2 * 1000 * 1000, Body: strings.NewReader("x")}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResourceFixture()

			_, err := f.svc.Upload(context.Background(), tt.userID, tt.input(), tt.file)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.storage.objects)
			assert.Equal(t, 3, f.resources.count())
		})
	}
}

func TestUploadMetadataFailureRemovesObject(t *testing.T) {
	f := newResourceFixture()
	f.resources.failCreate = true

	_, err := f.svc.Upload(context.Background(), "alice", validUpload(), pdfFile("a.pdf"))
	require.Error(t, err)

	assert.Empty(t, f.storage.objects)
	assert.Len(t, f.storage.deleted, 1)
	assert.Equal(t, 0, f.profiles.points("alice"))
}

func TestUploadStorageFailureWritesNothing(t *testing.T) {
	f := newResourceFixture()
	f.storage.failSave = true

	_, err := f.svc.Upload(context.Background(), "alice", validUpload(), pdfFile("a.pdf"))
	require.Error(t, err)
	assert.Equal(t, 3, f.resources.count())
}

func TestDeleteChecksOwnership(t *testing.T) {
	f := newResourceFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, "", "mit-alice"), ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.Delete(ctx, "carol", "mit-alice"), ErrNotAuthorized)
	assert.ErrorIs(t, f.svc.Delete(ctx, "alice", "missing"), ErrNotFound)
	assert.Equal(t, 3, f.resources.count())
}

func TestDeleteRemovesFileAndRow(t *testing.T) {
	f := newResourceFixture()
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "alice", validUpload(), pdfFile("a.pdf"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, "alice", res.ID))

	assert.Empty(t, f.storage.objects)
	require.Len(t, f.storage.deleted, 1)
	assert.True(t, strings.HasPrefix(f.storage.deleted[0], "alice/"))
	assert.Equal(t, 3, f.resources.count())
}

func TestDeleteStorageFailureStillRemovesRow(t *testing.T) {
	f := newResourceFixture()
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "alice", validUpload(), pdfFile("a.pdf"))
	require.NoError(t, err)
	f.storage.failDelete = true

	require.NoError(t, f.svc.Delete(ctx, "alice", res.ID))
	assert.Equal(t, 3, f.resources.count())
}

func TestDeleteSkipsStorageForForeignURL(t *testing.T) {
	f := newResourceFixture()
	f.resources.rows = append(f.resources.rows, &model.Resource{ID: "demo", UploaderID: "alice", FileURL: DemoFileURL, Privacy: model.PrivacyPublic})

	require.NoError(t, f.svc.Delete(context.Background(), "alice", "demo"))
	assert.Empty(t, f.storage.deleted)
	assert.Equal(t, 3, f.resources.count())
}
