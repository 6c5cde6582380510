package repository

import (
	"context"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/jmoiron/sqlx"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Pending(ctx context.Context, limit int) ([]*model.Report, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, resource_id, review_id, reason, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.ReporterID,
		report.ResourceID,
		report.ReviewID,
		report.Reason,
		report.Description,
		report.Status,
		report.CreatedAt,
	)
	return err
}

func (r *reportRepository) Pending(ctx context.Context, limit int) ([]*model.Report, error) {
	var reports []*model.Report
	query := `SELECT id, reporter_id, resource_id, review_id, reason, description, status, created_at
		FROM reports WHERE status = $1 ORDER BY created_at ASC LIMIT $2`

	err := r.db.SelectContext(ctx, &reports, query, model.ReportStatusPending, limit)
	if err != nil {
		return nil, err
	}
	return reports, nil
}
