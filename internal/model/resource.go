package model

import (
	"time"
)

const (
	ResourceTypeNote          = "Note"
	ResourceTypeQuestionPaper = "Question Paper"
	ResourceTypeSolution      = "Solution"
	ResourceTypeProjectReport = "Project Report"
	ResourceTypeOther         = "Other"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// FilterAll is the sentinel a filter select sends for "no restriction".
const FilterAll = "all"

var ResourceTypes = []string{
	ResourceTypeNote,
	ResourceTypeQuestionPaper,
	ResourceTypeSolution,
	ResourceTypeProjectReport,
	ResourceTypeOther,
}

type Resource struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description,omitempty"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	Subject      string    `db:"subject" json:"subject"`
	Semester     string    `db:"semester" json:"semester"`
	Branch       string    `db:"branch" json:"branch"`
	YearBatch    string    `db:"year_batch" json:"year_batch"`
	FileURL      string    `db:"file_url" json:"file_url"`
	Privacy      string    `db:"privacy" json:"privacy"`
	UploaderID   string    `db:"uploader_id" json:"uploader_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Joined from the uploader's profile; nil when the profile is gone.
	UploaderName    *string `db:"uploader_full_name" json:"uploader_name,omitempty"`
	UploaderCollege *string `db:"uploader_college_name" json:"uploader_college,omitempty"`

	// Computed fields (not in database)
	AvgRating    float64 `db:"-" json:"avg_rating"`
	TotalReviews int     `db:"-" json:"total_reviews"`
}

func (r *Resource) IsPrivate() bool {
	return r.Privacy == PrivacyPrivate
}

// ResourceFilter narrows a catalog listing. Empty fields and FilterAll
// apply no restriction.
type ResourceFilter struct {
	Search       string `json:"search,omitempty"`
	Semester     string `json:"semester,omitempty"`
	Branch       string `json:"branch,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	SortBy       string `json:"sort_by,omitempty"`
}

func (f ResourceFilter) Ascending() bool {
	return f.SortBy == SortOldest
}

func IsValidResourceType(t string) bool {
	for _, rt := range ResourceTypes {
		if rt == t {
			return true
		}
	}
	return false
}
