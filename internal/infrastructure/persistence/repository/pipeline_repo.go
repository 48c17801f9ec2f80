package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// JobPipelineRepository implements port.JobPipelineRepository. The
// enabled stage sequence is stored as a JSON array of stage names.
type JobPipelineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewJobPipelineRepository creates a new job pipeline repository
func NewJobPipelineRepository(db *sql.DB, logger *zap.Logger) port.JobPipelineRepository {
	return &JobPipelineRepository{
		db:     db,
		logger: logger,
	}
}

// PipelineConfig retrieves the stage sequence configured for a job
func (r *JobPipelineRepository) PipelineConfig(ctx context.Context, jobID string) (*pipeline.Config, error) {
	query := `SELECT enabled_stages FROM job_pipelines WHERE job_id = ?`

	var raw string
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, jobID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get pipeline config", zap.String("job_id", jobID), zap.Error(err))
		return nil, fmt.Errorf("failed to get pipeline config: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("corrupt enabled_stages for job %s: %w", jobID, err)
	}

	stages := make([]pipeline.Stage, 0, len(names))
	for _, name := range names {
		stage, err := pipeline.ParseStage(name)
		if err != nil {
			return nil, fmt.Errorf("corrupt enabled_stages for job %s: %w", jobID, err)
		}
		stages = append(stages, stage)
	}

	return &pipeline.Config{JobID: jobID, EnabledStages: stages}, nil
}

// Save upserts the stage sequence for a job
func (r *JobPipelineRepository) Save(ctx context.Context, cfg *pipeline.Config) error {
	names := make([]string, 0, len(cfg.EnabledStages))
	for _, stage := range cfg.EnabledStages {
		names = append(names, stage.String())
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal enabled stages: %w", err)
	}

	query := `
		INSERT INTO job_pipelines (job_id, enabled_stages, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET enabled_stages = excluded.enabled_stages, updated_at = excluded.updated_at
	`

	now := time.Now()
	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query, cfg.JobID, string(raw), now, now)
	if err != nil {
		r.logger.Error("Failed to save pipeline config", zap.String("job_id", cfg.JobID), zap.Error(err))
		return fmt.Errorf("failed to save pipeline config: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.JobPipelineRepository = (*JobPipelineRepository)(nil)
