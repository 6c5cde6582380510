package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/campusshare/campusshare/internal/metrics"
	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
)

// CatalogSourceLimit caps each privacy tier's query. There is no
// pagination, so hitting the cap truncates the listing; it is logged.
const CatalogSourceLimit = 100

type CatalogService struct {
	resources repository.ResourceRepository
	reviews   repository.ReviewRepository
	profiles  repository.ProfileRepository
}

func NewCatalogService(
	resources repository.ResourceRepository,
	reviews repository.ReviewRepository,
	profiles repository.ProfileRepository,
) *CatalogService {
	return &CatalogService{
		resources: resources,
		reviews:   reviews,
		profiles:  profiles,
	}
}

// Resources lists what viewerID may see: every public resource plus, when
// the viewer has a college, private resources uploaded from that college.
// viewerID may be empty for anonymous visitors. Store failures are logged
// and degrade the listing instead of failing it.
func (s *CatalogService) Resources(ctx context.Context, viewerID string, filter model.ResourceFilter) []*model.Resource {
	college := s.viewerCollege(ctx, viewerID)

	public, err := s.resources.List(ctx, repository.ResourceQuery{
		Filter:  filter,
		Privacy: model.PrivacyPublic,
		Limit:   CatalogSourceLimit,
	})
	if err != nil {
		slog.Error("failed to fetch public resources", "error", err)
		return []*model.Resource{}
	}
	warnIfTruncated(model.PrivacyPublic, len(public))

	var private []*model.Resource
	if college != "" {
		private, err = s.resources.List(ctx, repository.ResourceQuery{
			Filter:  filter,
			Privacy: model.PrivacyPrivate,
			College: college,
			Limit:   CatalogSourceLimit,
		})
		if err != nil {
			slog.Error("failed to fetch private resources", "error", err, "college", college)
			private = nil
		}
		warnIfTruncated(model.PrivacyPrivate, len(private))
	}

	merged := MergeResources(public, private)

	err = s.annotateRatings(ctx, merged)
	if err != nil {
		slog.Error("failed to fetch resource ratings", "error", err)
		return []*model.Resource{}
	}

	SortByCreatedAt(merged, filter.Ascending())
	return merged
}

// Resource returns one resource if viewerID may see it. Private resources
// outside the viewer's college are reported as not found.
func (s *CatalogService) Resource(ctx context.Context, viewerID, id string) (*model.Resource, error) {
	resource, err := s.resources.ByID(ctx, id)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanView(resource, s.viewerCollege(ctx, viewerID)) {
		return nil, ErrNotFound
	}
	return resource, nil
}

// Uploads lists the resources uploaded by userID, newest first, with ratings.
func (s *CatalogService) Uploads(ctx context.Context, userID string) ([]*model.Resource, error) {
	resources, err := s.resources.ByUploader(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.annotateRatings(ctx, resources)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (s *CatalogService) viewerCollege(ctx context.Context, viewerID string) string {
	if viewerID == "" {
		return ""
	}

	profile, err := s.profiles.ByID(ctx, viewerID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			slog.Error("failed to fetch viewer profile", "error", err, "user_id", viewerID)
		}
		return ""
	}
	return profile.CollegeName
}

func (s *CatalogService) annotateRatings(ctx context.Context, resources []*model.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	ids := make([]string, len(resources))
	for i, r := range resources {
		ids[i] = r.ID
	}

	ratings, err := s.reviews.Ratings(ctx, ids)
	if err != nil {
		return err
	}

	ApplyRatings(resources, ratings)
	return nil
}

func warnIfTruncated(tier string, n int) {
	if n < CatalogSourceLimit {
		return
	}
	metrics.CatalogTruncations.WithLabelValues(tier).Inc()
	slog.Warn("catalog query hit row cap, listing is truncated", "tier", tier, "limit", CatalogSourceLimit)
}

// CanView reports whether a viewer from viewerCollege may see resource.
// Private resources follow the same rule as the catalog listing: the
// viewer's college must equal the uploader's, and an empty college sees
// none. Uploaders reach their own files through Uploads.
func CanView(resource *model.Resource, viewerCollege string) bool {
	if !resource.IsPrivate() {
		return true
	}
	if viewerCollege == "" || resource.UploaderCollege == nil {
		return false
	}
	return *resource.UploaderCollege == viewerCollege
}

// MergeResources concatenates the sources and drops repeated ids, keeping
// the first occurrence.
func MergeResources(sources ...[]*model.Resource) []*model.Resource {
	seen := make(map[string]struct{})
	merged := make([]*model.Resource, 0)

	for _, source := range sources {
		for _, r := range source {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}

// ApplyRatings sets AvgRating and TotalReviews on each resource from the
// joined rating rows. Resources without rows get 0.
func ApplyRatings(resources []*model.Resource, ratings []model.ResourceRating) {
	byResource := make(map[string][]int)
	for _, r := range ratings {
		byResource[r.ResourceID] = append(byResource[r.ResourceID], r.Rating)
	}

	for _, r := range resources {
		values := byResource[r.ID]
		r.AvgRating = model.AverageRating(values)
		r.TotalReviews = len(values)
	}
}

// SortByCreatedAt orders resources by creation time, oldest first when
// ascending. Equal timestamps keep their relative order.
func SortByCreatedAt(resources []*model.Resource, ascending bool) {
	sort.SliceStable(resources, func(i, j int) bool {
		if ascending {
			return resources[i].CreatedAt.Before(resources[j].CreatedAt)
		}
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})
}
