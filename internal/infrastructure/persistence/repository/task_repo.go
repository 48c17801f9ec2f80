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

// TaskRepository implements port.TaskRepository
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new technical task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) port.TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new technical task
func (r *TaskRepository) Create(ctx context.Context, task *entity.TechnicalTask) error {
	query := `
		INSERT INTO technical_tasks (
			id, application_id, title, description, deadline, document_url,
			status, submission_url, submission_note, submitted_at,
			rating, feedback, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		task.ID,
		task.ApplicationID,
		task.Title,
		task.Description,
		task.Deadline,
		task.DocumentURL,
		task.Status,
		task.SubmissionURL,
		task.SubmissionNote,
		task.SubmittedAt,
		task.Rating,
		task.Feedback,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.String("id", task.ID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.TechnicalTask, error) {
	query := selectTask + ` WHERE id = ?`

	task, err := scanTask(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetByApplicationID retrieves all tasks for an application
func (r *TaskRepository) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.TechnicalTask, error) {
	query := selectTask + ` WHERE application_id = ? ORDER BY created_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []*entity.TechnicalTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// GetActive retrieves the task that is neither completed nor cancelled,
// or nil when none exists
func (r *TaskRepository) GetActive(ctx context.Context, applicationID string) (*entity.TechnicalTask, error) {
	query := selectTask + ` WHERE application_id = ? AND status NOT IN (?, ?) LIMIT 1`

	task, err := scanTask(getExecutor(ctx, r.db).QueryRowContext(ctx, query,
		applicationID, entity.TaskStatusCompleted, entity.TaskStatusCancelled))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get active task", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to get active task: %w", err)
	}
	return task, nil
}

// UpdateStatus updates the status of a task
func (r *TaskRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE technical_tasks SET status = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update task status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

// SetSubmission records the candidate's submission and marks the task
// submitted
func (r *TaskRepository) SetSubmission(ctx context.Context, id, submissionURL, note string, at time.Time) error {
	query := `
		UPDATE technical_tasks
		SET status = ?, submission_url = ?, submission_note = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.TaskStatusSubmitted, submissionURL, note, at, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to record task submission", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to record task submission: %w", err)
	}
	return nil
}

// Complete closes the task with its review outcome
func (r *TaskRepository) Complete(ctx context.Context, id string, rating int, feedback string) error {
	query := `
		UPDATE technical_tasks
		SET status = ?, rating = ?, feedback = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.TaskStatusCompleted, rating, feedback, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to complete task", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

const selectTask = `
	SELECT id, application_id, title, description, deadline, document_url,
		status, submission_url, submission_note, submitted_at,
		rating, feedback, created_at, updated_at
	FROM technical_tasks`

func scanTask(row rowScanner) (*entity.TechnicalTask, error) {
	var task entity.TechnicalTask
	var submittedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.ApplicationID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.DocumentURL,
		&task.Status,
		&task.SubmissionURL,
		&task.SubmissionNote,
		&submittedAt,
		&task.Rating,
		&task.Feedback,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if submittedAt.Valid {
		task.SubmittedAt = &submittedAt.Time
	}
	return &task, nil
}

// Verify interface compliance
var _ port.TaskRepository = (*TaskRepository)(nil)
