package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
)

// CommentRepository implements port.CommentRepository. The comments
// table is append-only; there are no update or delete operations.
type CommentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *sql.DB, logger *zap.Logger) port.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a comment to the timeline
func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (
			id, application_id, stage, sub_stage, author, text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		comment.ID,
		comment.ApplicationID,
		comment.Stage,
		comment.SubStage,
		comment.Author,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create comment", zap.String("id", comment.ID), zap.Error(err))
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByApplicationID retrieves the full timeline, oldest first
func (r *CommentRepository) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Comment, error) {
	query := selectComment + ` WHERE application_id = ? ORDER BY created_at ASC`

	return r.list(ctx, query, applicationID)
}

// GetByStage retrieves the timeline entries recorded at a stage
func (r *CommentRepository) GetByStage(ctx context.Context, applicationID, stage string) ([]*entity.Comment, error) {
	query := selectComment + ` WHERE application_id = ? AND stage = ? ORDER BY created_at ASC`

	return r.list(ctx, query, applicationID, stage)
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Comment, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list comments", zap.Error(err))
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(
			&c.ID,
			&c.ApplicationID,
			&c.Stage,
			&c.SubStage,
			&c.Author,
			&c.Text,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

const selectComment = `
	SELECT id, application_id, stage, sub_stage, author, text, created_at
	FROM comments`

// Verify interface compliance
var _ port.CommentRepository = (*CommentRepository)(nil)
