package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// ApplicationRepository implements port.ApplicationRepository
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) port.ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (
			id, job_id, seeker_id, company_id, stage, sub_stage,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.SeekerID,
		app.CompanyID,
		app.Stage,
		app.SubStage,
		app.Version,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create application", zap.String("id", app.ID), zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	query := `
		SELECT id, job_id, seeker_id, company_id, stage, sub_stage,
			version, created_at, updated_at
		FROM applications
		WHERE id = ?
	`

	var app entity.Application
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&app.ID,
		&app.JobID,
		&app.SeekerID,
		&app.CompanyID,
		&app.Stage,
		&app.SubStage,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// UpdateStage writes the stage and sub-stage guarded by the version the
// caller read. A row that moved in the meantime leaves zero rows
// affected, which surfaces as ErrConflict.
func (r *ApplicationRepository) UpdateStage(ctx context.Context, id, stage, subStage string, version int64) error {
	query := `
		UPDATE applications
		SET stage = ?, sub_stage = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, stage, subStage, time.Now(), id, version)
	if err != nil {
		r.logger.Error("Failed to update application stage", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update application stage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: application %s", pipeline.ErrNotFound, id)
		}
		return fmt.Errorf("%w: application %s moved from version %d", pipeline.ErrConflict, id, version)
	}
	return nil
}

// ListByJobID retrieves applications for a job, newest first
func (r *ApplicationRepository) ListByJobID(ctx context.Context, jobID string, limit, offset int) ([]*entity.Application, error) {
	query := `
		SELECT id, job_id, seeker_id, company_id, stage, sub_stage,
			version, created_at, updated_at
		FROM applications
		WHERE job_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, jobID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.String("job_id", jobID), zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		var app entity.Application
		if err := rows.Scan(
			&app.ID,
			&app.JobID,
			&app.SeekerID,
			&app.CompanyID,
			&app.Stage,
			&app.SubStage,
			&app.Version,
			&app.CreatedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, &app)
	}
	return apps, rows.Err()
}

// Verify interface compliance
var _ port.ApplicationRepository = (*ApplicationRepository)(nil)
