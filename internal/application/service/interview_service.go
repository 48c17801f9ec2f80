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

// ScheduleInterviewInput carries the fields needed to schedule a round.
type ScheduleInterviewInput struct {
	ApplicationID string    `validate:"required"`
	ScheduledAt   time.Time `validate:"required"`
	Type          string    `validate:"required,oneof=online offline"`
	MeetingLink   string
	Location      string
}

// InterviewService manages interview rounds. The INTERVIEW sub-stage is
// never written directly; every mutation here recomputes it from the
// rounds on record.
type InterviewService interface {
	Schedule(ctx context.Context, input ScheduleInterviewInput, actor string) (*entity.Interview, error)

	// Reschedule cancels the round and books a replacement at the new
	// time, keeping both on the record.
	Reschedule(ctx context.Context, id string, newTime time.Time, actor string) (*entity.Interview, error)

	Complete(ctx context.Context, id, actor string) error
	Cancel(ctx context.Context, id, actor string) error

	// SubmitFeedback records rating and notes on a completed round.
	// Feedback is informational and gates no transition.
	SubmitFeedback(ctx context.Context, id string, rating int, feedback, actor string) error

	Get(ctx context.Context, id string) (*entity.Interview, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*entity.Interview, error)
}

type interviewServiceImpl struct {
	apps       port.ApplicationRepository
	interviews port.InterviewRepository
	engine     engine.Engine
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewInterviewService creates a new InterviewService
func NewInterviewService(
	apps port.ApplicationRepository,
	interviews port.InterviewRepository,
	eng engine.Engine,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) InterviewService {
	return &interviewServiceImpl{
		apps:       apps,
		interviews: interviews,
		engine:     eng,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *interviewServiceImpl) Schedule(ctx context.Context, input ScheduleInterviewInput, actor string) (*entity.Interview, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	iv := &entity.Interview{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		ScheduledAt:   input.ScheduledAt,
		Type:          input.Type,
		MeetingLink:   input.MeetingLink,
		Location:      input.Location,
		Status:        entity.InterviewStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.interviews.Create(txCtx, iv); err != nil {
			return fmt.Errorf("failed to create interview: %w", err)
		}
		if app.Stage != pipeline.StageInterview.String() {
			return s.engine.Advance(txCtx, app.ID, pipeline.StageInterview, pipeline.SubScheduled, actor, "")
		}
		return s.recompute(txCtx, app.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeInterviewScheduled, app.ID, app.JobID, map[string]any{
			"interview_id": iv.ID,
			"scheduled_at": iv.ScheduledAt.Format(time.RFC3339),
			"type":         iv.Type,
			"actor":        actor,
		}))
	}
	return iv, nil
}

func (s *interviewServiceImpl) Reschedule(ctx context.Context, id string, newTime time.Time, actor string) (*entity.Interview, error) {
	if newTime.IsZero() {
		return nil, fmt.Errorf("%w: new interview time is required", pipeline.ErrValidation)
	}

	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadApplication(ctx, old.ApplicationID); err != nil {
		return nil, err
	}
	if old.Status != entity.InterviewStatusScheduled {
		return nil, fmt.Errorf("%w: interview %s is %s, only scheduled interviews can be rescheduled", pipeline.ErrPrecondition, id, old.Status)
	}

	now := time.Now()
	replacement := &entity.Interview{
		ID:            uuid.NewString(),
		ApplicationID: old.ApplicationID,
		ScheduledAt:   newTime,
		Type:          old.Type,
		MeetingLink:   old.MeetingLink,
		Location:      old.Location,
		Status:        entity.InterviewStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.interviews.UpdateStatus(txCtx, old.ID, entity.InterviewStatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel interview: %w", err)
		}
		if err := s.interviews.Create(txCtx, replacement); err != nil {
			return fmt.Errorf("failed to create replacement interview: %w", err)
		}
		return s.recompute(txCtx, old.ApplicationID)
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

func (s *interviewServiceImpl) Complete(ctx context.Context, id, actor string) error {
	iv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, iv.ApplicationID); err != nil {
		return err
	}
	if iv.Status != entity.InterviewStatusScheduled {
		return fmt.Errorf("%w: interview %s is %s, only scheduled interviews can be completed", pipeline.ErrPrecondition, id, iv.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.interviews.UpdateStatus(txCtx, id, entity.InterviewStatusCompleted); err != nil {
			return fmt.Errorf("failed to complete interview: %w", err)
		}
		return s.recompute(txCtx, iv.ApplicationID)
	})
}

func (s *interviewServiceImpl) Cancel(ctx context.Context, id, actor string) error {
	iv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, iv.ApplicationID); err != nil {
		return err
	}
	if iv.Status != entity.InterviewStatusScheduled {
		return fmt.Errorf("%w: interview %s is %s, only scheduled interviews can be cancelled", pipeline.ErrPrecondition, id, iv.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.interviews.UpdateStatus(txCtx, id, entity.InterviewStatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel interview: %w", err)
		}
		return s.recompute(txCtx, iv.ApplicationID)
	})
}

func (s *interviewServiceImpl) SubmitFeedback(ctx context.Context, id string, rating int, feedback, actor string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", pipeline.ErrValidation)
	}
	iv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, iv.ApplicationID); err != nil {
		return err
	}
	if iv.Status != entity.InterviewStatusCompleted {
		return fmt.Errorf("%w: interview %s is %s, feedback requires a completed interview", pipeline.ErrPrecondition, id, iv.Status)
	}
	if err := s.interviews.SetFeedback(ctx, id, rating, feedback); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Interview feedback recorded", "interview_id", id, "rating", rating, "actor", actor)
	}
	return nil
}

func (s *interviewServiceImpl) Get(ctx context.Context, id string) (*entity.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if iv == nil {
		return nil, fmt.Errorf("%w: interview %s", pipeline.ErrNotFound, id)
	}
	return iv, nil
}

func (s *interviewServiceImpl) ListByApplication(ctx context.Context, applicationID string) ([]*entity.Interview, error) {
	return s.interviews.GetByApplicationID(ctx, applicationID)
}

// loadApplication fetches the application and rejects mutations on
// terminal ones.
func (s *interviewServiceImpl) loadApplication(ctx context.Context, id string) (*entity.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %s", pipeline.ErrNotFound, id)
	}
	if pipeline.Stage(app.Stage).IsTerminal() {
		return nil, fmt.Errorf("%w: application %s is %s", pipeline.ErrTerminalState, app.ID, app.Stage)
	}
	return app, nil
}

// recompute re-derives the INTERVIEW sub-stage from the rounds on
// record. Applications outside INTERVIEW are left untouched.
func (s *interviewServiceImpl) recompute(ctx context.Context, applicationID string) error {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil || app.Stage != pipeline.StageInterview.String() {
		return nil
	}
	ivs, err := s.interviews.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to load interviews: %w", err)
	}
	sub, ok := pipeline.DeriveInterviewSubStage(ivs)
	if !ok {
		return nil
	}
	return s.engine.Derive(ctx, applicationID, pipeline.StageInterview, sub)
}
