package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
)

var errStore = errors.New("store unavailable")

type memProfiles struct {
	mu       sync.Mutex
	byID     map[string]*model.Profile
	order    []string
	failIncr bool
}

func newMemProfiles(profiles ...*model.Profile) *memProfiles {
	m := &memProfiles{byID: make(map[string]*model.Profile)}
	for _, p := range profiles {
		m.byID[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *memProfiles) ByID(_ context.Context, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Upsert(_ context.Context, profile *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[profile.ID]
	if !ok {
		cp := *profile
		cp.Points = 0
		cp.IsAdmin = false
		m.byID[profile.ID] = &cp
		m.order = append(m.order, profile.ID)
		return nil
	}
	existing.FullName = profile.FullName
	existing.CollegeName = profile.CollegeName
	existing.Branch = profile.Branch
	existing.Semester = profile.Semester
	return nil
}

func (m *memProfiles) IncrementPoints(_ context.Context, id string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncr {
		return errStore
	}
	p, ok := m.byID[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	p.Points += amount
	return nil
}

// ordered returns profiles by points desc, ties in insertion order.
func (m *memProfiles) ordered() []*model.Profile {
	out := make([]*model.Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

func (m *memProfiles) Leaderboard(_ context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []*model.LeaderboardEntry
	for _, p := range m.ordered() {
		if len(entries) == limit {
			break
		}
		entries = append(entries, &model.LeaderboardEntry{ID: p.ID, FullName: p.FullName, CollegeName: p.CollegeName, Branch: p.Branch, Points: p.Points})
	}
	return entries, nil
}

func (m *memProfiles) Standings(_ context.Context) ([]model.PointStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PointStanding
	for _, p := range m.ordered() {
		out = append(out, model.PointStanding{ID: p.ID, Points: p.Points})
	}
	return out, nil
}

func (m *memProfiles) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memProfiles) points(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Points
}

type memResources struct {
	mu         sync.Mutex
	rows       []*model.Resource
	profiles   *memProfiles
	failCreate bool
	failList   bool
	queries    []repository.ResourceQuery
}

func newMemResources(profiles *memProfiles, rows ...*model.Resource) *memResources {
	return &memResources{rows: rows, profiles: profiles}
}

func (m *memResources) withUploader(r *model.Resource) *model.Resource {
	cp := *r
	if p, ok := m.profiles.byID[r.UploaderID]; ok {
		name, college := p.FullName, p.CollegeName
		cp.UploaderName = &name
		cp.UploaderCollege = &college
	}
	return &cp
}

func (m *memResources) Create(_ context.Context, r *model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errStore
	}
	m.rows = append(m.rows, r)
	return nil
}

func (m *memResources) CreateMany(ctx context.Context, rs []*model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errStore
	}
	m.rows = append(m.rows, rs...)
	return nil
}

func (m *memResources) ByID(_ context.Context, id string) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return m.withUploader(r), nil
		}
	}
	return nil, repository.ErrResourceNotFound
}

func matches(value, want string) bool {
	return want == "" || want == model.FilterAll || value == want
}

func (m *memResources) List(_ context.Context, q repository.ResourceQuery) ([]*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.failList {
		return nil, errStore
	}

	search := strings.ToLower(strings.TrimSpace(q.Filter.Search))
	var out []*model.Resource
	for _, r := range m.rows {
		row := m.withUploader(r)
		if q.Privacy != "" && row.Privacy != q.Privacy {
			continue
		}
		if q.College != "" && (row.UploaderCollege == nil || *row.UploaderCollege != q.College) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Title+" "+row.Subject+" "+row.Description), search) {
			continue
		}
		if !matches(row.Semester, q.Filter.Semester) || !matches(row.Branch, q.Filter.Branch) || !matches(row.ResourceType, q.Filter.ResourceType) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Filter.Ascending() {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memResources) ByUploader(_ context.Context, uploaderID string) ([]*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Resource
	for _, r := range m.rows {
		if r.UploaderID == uploaderID {
			out = append(out, m.withUploader(r))
		}
	}
	return out, nil
}

func (m *memResources) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrResourceNotFound
}

func (m *memResources) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memReviews struct {
	mu          sync.Mutex
	rows        []*model.Review
	failRatings bool
	failList    bool
}

func (m *memReviews) Upsert(_ context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == review.UserID && r.ResourceID == review.ResourceID {
			r.Rating = review.Rating
			r.Comment = review.Comment
			r.CreatedAt = review.CreatedAt
			review.ID = r.ID
			return nil
		}
	}
	cp := *review
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memReviews) ByID(_ context.Context, id string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

func (m *memReviews) ByResource(_ context.Context, resourceID string) ([]*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStore
	}
	var out []*model.Review
	for _, r := range m.rows {
		if r.ResourceID == resourceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviews) Ratings(_ context.Context, ids []string) ([]model.ResourceRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRatings {
		return nil, errStore
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.ResourceRating
	for _, r := range m.rows {
		if want[r.ResourceID] {
			out = append(out, model.ResourceRating{ResourceID: r.ResourceID, Rating: r.Rating})
		}
	}
	return out, nil
}

type memReports struct {
	mu   sync.Mutex
	rows []*model.Report
}

func (m *memReports) Create(_ context.Context, report *model.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, report)
	return nil
}

func (m *memReports) Pending(_ context.Context, limit int) ([]*model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Report
	for _, r := range m.rows {
		if r.Status == model.ReportStatusPending && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{byID: make(map[string]*model.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) ByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memStorage struct {
	mu         sync.Mutex
	bucket     string
	objects    map[string][]byte
	deleted    []string
	failSave   bool
	failDelete bool
	checkErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{bucket: "academic-resources", objects: make(map[string][]byte)}
}

func (m *memStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errStore
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if m.failDelete {
		return errStore
	}
	delete(m.objects, key)
	return nil
}

func (m *memStorage) PublicURL(key string) string {
	return "https://files.example.com/" + m.bucket + "/" + key
}

func (m *memStorage) Bucket() string {
	return m.bucket
}

func (m *memStorage) CheckBucket(_ context.Context) error {
	return m.checkErr
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}
