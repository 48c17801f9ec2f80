package port

import (
	"context"

	"github.com/hirestack/ats/internal/domain/pipeline"
)

// PipelineConfigProvider supplies the per-job stage sequence. The engine
// only ever reads job configuration; it never mutates it. Keeping this a
// collaborator interface keeps the engine testable in isolation from the
// job aggregate.
type PipelineConfigProvider interface {
	PipelineConfig(ctx context.Context, jobID string) (*pipeline.Config, error)
}

// JobPipelineRepository persists per-job stage configuration. Save
// upserts; validation happens before the write.
type JobPipelineRepository interface {
	PipelineConfigProvider
	Save(ctx context.Context, cfg *pipeline.Config) error
}
