package service

import (
	"context"
	"testing"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*resend.SendEmailRequest
}

func (r *recordingSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	r.sent = append(r.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func newReportFixture(email *EmailService) (*ReportService, *memReports) {
	profiles, resources, reviews := campusFixture()
	reviews.rows = append(reviews.rows,
		&model.Review{ID: "rv1", ResourceID: "pub-bob", UserID: "alice", Rating: 1},
		&model.Review{ID: "rv-stanford", ResourceID: "stanford-bob", UserID: "bob", Rating: 5},
	)
	reports := &memReports{}
	return NewReportService(reports, resources, reviews, profiles, email, nil), reports
}

func TestReportExactlyOneTarget(t *testing.T) {
	svc, reports := newReportFixture(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ReportInput
		ok    bool
	}{
		{"resource only", ReportInput{ResourceID: "pub-bob", Reason: model.ReportReasonSpam}, true},
		{"review only", ReportInput{ReviewID: "rv1", Reason: model.ReportReasonHarassment}, true},
		{"both", ReportInput{ResourceID: "pub-bob", ReviewID: "rv1", Reason: model.ReportReasonSpam}, false},
		{"neither", ReportInput{Reason: model.ReportReasonSpam}, false},
		{"blank ids", ReportInput{ResourceID: " ", ReviewID: " ", Reason: model.ReportReasonSpam}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Submit(ctx, "carol", tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrValidation)
				assert.EqualError(t, err, "report exactly one resource or review")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.ReportStatusPending, report.Status)
			assert.True(t, (report.ResourceID == nil) != (report.ReviewID == nil))
		})
	}

	assert.Len(t, reports.rows, 2)
}

func TestReportRejectsUnknownReason(t *testing.T) {
	svc, _ := newReportFixture(nil)

	_, err := svc.Submit(context.Background(), "carol", ReportInput{ResourceID: "pub-bob", Reason: "Boring"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "reason must be one of")

	_, err = svc.Submit(context.Background(), "", ReportInput{ResourceID: "pub-bob", Reason: model.ReportReasonSpam})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestReportNotifiesModerators(t *testing.T) {
	sender := &recordingSender{}
	email := NewEmailService("", "noreply@example.com", "mods@example.com", "https://campus.example.com", "CampusShare", false).WithSender(sender)
	svc, _ := newReportFixture(email)

	_, err := svc.Submit(context.Background(), "carol", ReportInput{ReviewID: "rv1", Reason: model.ReportReasonCopyright, Description: "copied from a textbook"})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"mods@example.com"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "rv1")
}

func TestReportTargetMustExistAndBeVisible(t *testing.T) {
	svc, reports := newReportFixture(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		input  ReportInput
	}{
		{"missing resource", "carol", ReportInput{ResourceID: "does-not-exist", Reason: model.ReportReasonSpam}},
		{"missing review", "carol", ReportInput{ReviewID: "does-not-exist", Reason: model.ReportReasonSpam}},
		{"private resource of another college", "carol", ReportInput{ResourceID: "stanford-bob", Reason: model.ReportReasonSpam}},
		{"review on a hidden resource", "carol", ReportInput{ReviewID: "rv-stanford", Reason: model.ReportReasonHarassment}},
		{"private resource without profile", "newcomer", ReportInput{ResourceID: "mit-alice", Reason: model.ReportReasonSpam}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.userID, tt.input)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
	assert.Empty(t, reports.rows)

	_, err := svc.Submit(ctx, "carol", ReportInput{ResourceID: "mit-alice", Reason: model.ReportReasonWrongSubject})
	require.NoError(t, err)
	assert.Len(t, reports.rows, 1)
}

func TestPendingRequiresAdmin(t *testing.T) {
	svc, reports := newReportFixture(nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "carol", ReportInput{ResourceID: "pub-bob", Reason: model.ReportReasonSpam})
	require.NoError(t, err)
	reports.rows = append(reports.rows, &model.Report{ID: "done", Status: model.ReportStatusResolved})

	_, err = svc.Pending(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Pending(ctx, &model.Profile{ID: "carol"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	pending, err := svc.Pending(ctx, &model.Profile{ID: "root", IsAdmin: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pub-bob", *pending[0].ResourceID)
}
