package model

import "time"

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

const (
	ReportReasonSpam          = "Spam"
	ReportReasonInappropriate = "Inappropriate Content"
	ReportReasonHarassment    = "Harassment"
	ReportReasonCopyright     = "Copyright Violation"
	ReportReasonWrongSubject  = "Wrong Subject"
)

var ReportReasons = []string{
	ReportReasonSpam,
	ReportReasonInappropriate,
	ReportReasonHarassment,
	ReportReasonCopyright,
	ReportReasonWrongSubject,
}

// Report flags either a resource or a review, never both.
type Report struct {
	ID          string    `db:"id" json:"id"`
	ReporterID  string    `db:"reporter_id" json:"reporter_id"`
	ResourceID  *string   `db:"resource_id" json:"resource_id,omitempty"`
	ReviewID    *string   `db:"review_id" json:"review_id,omitempty"`
	Reason      string    `db:"reason" json:"reason"`
	Description string    `db:"description" json:"description,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func IsValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}
