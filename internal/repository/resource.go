package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/jmoiron/sqlx"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	CreateMany(ctx context.Context, resources []*model.Resource) error
	ByID(ctx context.Context, id string) (*model.Resource, error)
	List(ctx context.Context, q ResourceQuery) ([]*model.Resource, error)
	ByUploader(ctx context.Context, uploaderID string) ([]*model.Resource, error)
	Delete(ctx context.Context, id string) error
}

type resourceRepository struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

const insertResource = `INSERT INTO resources (id, title, description, resource_type, subject, semester, branch, year_batch, file_url, privacy, uploader_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func resourceArgs(res *model.Resource) []any {
	return []any{
		res.ID,
		res.Title,
		res.Description,
		res.ResourceType,
		res.Subject,
		res.Semester,
		res.Branch,
		res.YearBatch,
		res.FileURL,
		res.Privacy,
		res.UploaderID,
		res.CreatedAt,
	}
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	_, err := r.db.ExecContext(ctx, insertResource, resourceArgs(resource)...)
	return err
}

// CreateMany inserts all resources or none.
func (r *resourceRepository) CreateMany(ctx context.Context, resources []*model.Resource) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, res := range resources {
		_, err = tx.ExecContext(ctx, insertResource, resourceArgs(res)...)
		if err != nil {
			return fmt.Errorf("failed to insert resource %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *resourceRepository) ByID(ctx context.Context, id string) (*model.Resource, error) {
	resource := &model.Resource{}
	query := resourceSelect + ` LEFT JOIN profiles p ON p.id = r.uploader_id WHERE r.id = $1`

	err := r.db.GetContext(ctx, resource, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (r *resourceRepository) List(ctx context.Context, q ResourceQuery) ([]*model.Resource, error) {
	query, args := buildResourceQuery(q)

	var resources []*model.Resource
	err := r.db.SelectContext(ctx, &resources, query, args...)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) ByUploader(ctx context.Context, uploaderID string) ([]*model.Resource, error) {
	var resources []*model.Resource
	query := resourceSelect + ` LEFT JOIN profiles p ON p.id = r.uploader_id WHERE r.uploader_id = $1 ORDER BY r.created_at DESC`

	err := r.db.SelectContext(ctx, &resources, query, uploaderID)
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrResourceNotFound
	}
	return nil
}
