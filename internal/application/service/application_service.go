package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hirestack/ats/internal/application/dispatcher"
	"github.com/hirestack/ats/internal/application/engine"
	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
	"github.com/hirestack/ats/internal/domain/event"
	"github.com/hirestack/ats/internal/domain/pipeline"
	"github.com/hirestack/ats/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitApplicationInput carries the fields needed to open an application.
type SubmitApplicationInput struct {
	JobID     string `validate:"required"`
	SeekerID  string `validate:"required"`
	CompanyID string `validate:"required"`
}

// ApplicationService manages the application lifecycle and its timeline.
type ApplicationService interface {
	// ConfigurePipeline validates and stores the stage sequence for a
	// job. IN_REVIEW and the terminal stages are implicit and must not
	// appear in stages.
	ConfigurePipeline(ctx context.Context, jobID string, stages []pipeline.Stage) (*pipeline.Config, error)

	Submit(ctx context.Context, input SubmitApplicationInput) (*entity.Application, error)
	Get(ctx context.Context, id string) (*entity.Application, error)
	ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.Application, error)

	// MoveToStage advances the application to the target stage at its
	// initial sub-stage as an explicit recruiter action.
	MoveToStage(ctx context.Context, id string, target pipeline.Stage, actor, note string) error

	Hire(ctx context.Context, id, actor, note string) error
	Reject(ctx context.Context, id, actor, note string) error

	// AddComment appends a free-form note to the timeline. Comments stay
	// writable after the application reaches a terminal stage.
	AddComment(ctx context.Context, applicationID, author, text string) (*entity.Comment, error)
	ListComments(ctx context.Context, applicationID string) ([]*entity.Comment, error)
	StageComments(ctx context.Context, applicationID string, stage pipeline.Stage) ([]*entity.Comment, error)

	// InterviewSummary reports interview progress without gating any
	// transition on it.
	InterviewSummary(ctx context.Context, applicationID string) (*pipeline.InterviewSummary, error)
}

type applicationServiceImpl struct {
	apps       port.ApplicationRepository
	interviews port.InterviewRepository
	comments   port.CommentRepository
	pipelines  port.JobPipelineRepository
	engine     engine.Engine
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	apps port.ApplicationRepository,
	interviews port.InterviewRepository,
	comments port.CommentRepository,
	pipelines port.JobPipelineRepository,
	eng engine.Engine,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) ApplicationService {
	return &applicationServiceImpl{
		apps:       apps,
		interviews: interviews,
		comments:   comments,
		pipelines:  pipelines,
		engine:     eng,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *applicationServiceImpl) ConfigurePipeline(ctx context.Context, jobID string, stages []pipeline.Stage) (*pipeline.Config, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", pipeline.ErrValidation)
	}
	cfg := &pipeline.Config{JobID: jobID, EnabledStages: stages}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.pipelines.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save pipeline config: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Pipeline configured", "job_id", jobID, "stages", len(stages))
	}
	return cfg, nil
}

func (s *applicationServiceImpl) Submit(ctx context.Context, input SubmitApplicationInput) (*entity.Application, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}

	cfg, err := s.pipelines.PipelineConfig(ctx, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: job %s has no pipeline configuration", pipeline.ErrNotFound, input.JobID)
	}

	now := time.Now()
	app := &entity.Application{
		ID:        uuid.NewString(),
		JobID:     input.JobID,
		SeekerID:  input.SeekerID,
		CompanyID: input.CompanyID,
		Stage:     pipeline.StageInReview.String(),
		SubStage:  "",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	opening := &entity.Comment{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		Stage:         app.Stage,
		Author:        entity.SystemAuthor,
		Text:          "Application submitted",
		CreatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.apps.Create(txCtx, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		if err := s.comments.Create(txCtx, opening); err != nil {
			return fmt.Errorf("failed to create opening comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Application submitted",
			"application_id", app.ID, "job_id", app.JobID, "seeker_id", app.SeekerID)
	}
	return app, nil
}

func (s *applicationServiceImpl) Get(ctx context.Context, id string) (*entity.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %s", pipeline.ErrNotFound, id)
	}
	return app, nil
}

func (s *applicationServiceImpl) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.apps.ListByJobID(ctx, jobID, limit, offset)
}

func (s *applicationServiceImpl) MoveToStage(ctx context.Context, id string, target pipeline.Stage, actor, note string) error {
	return s.engine.Advance(ctx, id, target, pipeline.InitialSubStage(target), actor, note)
}

func (s *applicationServiceImpl) Hire(ctx context.Context, id, actor, note string) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Hire(ctx, id, actor, note); err != nil {
		return err
	}
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeApplicationHired, id, app.JobID, map[string]any{
			"actor": actor,
		}))
	}
	return nil
}

func (s *applicationServiceImpl) Reject(ctx context.Context, id, actor, note string) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Reject(ctx, id, actor, note); err != nil {
		return err
	}
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeApplicationRejected, id, app.JobID, map[string]any{
			"actor": actor,
		}))
	}
	return nil
}

func (s *applicationServiceImpl) AddComment(ctx context.Context, applicationID, author, text string) (*entity.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", pipeline.ErrValidation)
	}
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if author == "" {
		author = entity.SystemAuthor
	}
	comment := &entity.Comment{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		Stage:         app.Stage,
		SubStage:      app.SubStage,
		Author:        author,
		Text:          text,
		CreatedAt:     time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeCommentAdded, app.ID, app.JobID, map[string]any{
			"author": author,
			"stage":  app.Stage,
		}))
	}
	return comment, nil
}

func (s *applicationServiceImpl) ListComments(ctx context.Context, applicationID string) ([]*entity.Comment, error) {
	if _, err := s.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.comments.GetByApplicationID(ctx, applicationID)
}

func (s *applicationServiceImpl) StageComments(ctx context.Context, applicationID string, stage pipeline.Stage) ([]*entity.Comment, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage %q", pipeline.ErrValidation, stage)
	}
	if _, err := s.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.comments.GetByStage(ctx, applicationID, stage.String())
}

func (s *applicationServiceImpl) InterviewSummary(ctx context.Context, applicationID string) (*pipeline.InterviewSummary, error) {
	if _, err := s.Get(ctx, applicationID); err != nil {
		return nil, err
	}
	ivs, err := s.interviews.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interviews: %w", err)
	}
	summary := pipeline.SummarizeInterviews(ivs)
	return &summary, nil
}
