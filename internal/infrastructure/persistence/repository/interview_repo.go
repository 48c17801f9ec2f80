package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
)

// InterviewRepository implements port.InterviewRepository
type InterviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *sql.DB, logger *zap.Logger) port.InterviewRepository {
	return &InterviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new interview round
func (r *InterviewRepository) Create(ctx context.Context, iv *entity.Interview) error {
	query := `
		INSERT INTO interviews (
			id, application_id, scheduled_at, type, meeting_link,
			location, status, rating, feedback, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		iv.ID,
		iv.ApplicationID,
		iv.ScheduledAt,
		iv.Type,
		iv.MeetingLink,
		iv.Location,
		iv.Status,
		iv.Rating,
		iv.Feedback,
		iv.CreatedAt,
		iv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create interview", zap.String("id", iv.ID), zap.Error(err))
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetByID retrieves an interview by ID
func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*entity.Interview, error) {
	query := selectInterview + ` WHERE id = ?`

	iv, err := scanInterview(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get interview", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// GetByApplicationID retrieves all interview rounds for an application
func (r *InterviewRepository) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Interview, error) {
	query := selectInterview + ` WHERE application_id = ? ORDER BY scheduled_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list interviews", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var out []*entity.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// UpdateStatus updates the status of an interview round
func (r *InterviewRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE interviews SET status = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update interview status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update interview status: %w", err)
	}
	return nil
}

// SetFeedback records the rating and feedback on a round
func (r *InterviewRepository) SetFeedback(ctx context.Context, id string, rating int, feedback string) error {
	query := `UPDATE interviews SET rating = ?, feedback = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, rating, feedback, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set interview feedback", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set interview feedback: %w", err)
	}
	return nil
}

const selectInterview = `
	SELECT id, application_id, scheduled_at, type, meeting_link,
		location, status, rating, feedback, created_at, updated_at
	FROM interviews`

func scanInterview(row rowScanner) (*entity.Interview, error) {
	var iv entity.Interview
	err := row.Scan(
		&iv.ID,
		&iv.ApplicationID,
		&iv.ScheduledAt,
		&iv.Type,
		&iv.MeetingLink,
		&iv.Location,
		&iv.Status,
		&iv.Rating,
		&iv.Feedback,
		&iv.CreatedAt,
		&iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Verify interface compliance
var _ port.InterviewRepository = (*InterviewRepository)(nil)
