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

// AssignTaskInput carries the fields needed to hand out a technical task.
type AssignTaskInput struct {
	ApplicationID string    `validate:"required"`
	Title         string    `validate:"required"`
	Description   string    `validate:"required"`
	Deadline      time.Time `validate:"required"`
	DocumentURL   string
}

// TaskService manages technical task assignments. One task is active per
// application at a time; the TECHNICAL_TASK sub-stage is recomputed from
// the task record after every mutation.
type TaskService interface {
	// Assign hands out a task. A second assignment while one is still
	// active fails with a conflict; revoke the active task first.
	Assign(ctx context.Context, input AssignTaskInput, actor string) (*entity.TechnicalTask, error)

	// Submit records the candidate's submission on an assigned task.
	Submit(ctx context.Context, id, submissionURL, note, actor string) error

	// StartReview moves a submitted task under review.
	StartReview(ctx context.Context, id, actor string) error

	// Complete closes the task with a rating and feedback.
	Complete(ctx context.Context, id string, rating int, feedback, actor string) error

	// Revoke cancels the active task so a fresh one can be assigned.
	Revoke(ctx context.Context, id, actor string) error

	Get(ctx context.Context, id string) (*entity.TechnicalTask, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*entity.TechnicalTask, error)
}

type taskServiceImpl struct {
	apps       port.ApplicationRepository
	tasks      port.TaskRepository
	engine     engine.Engine
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	apps port.ApplicationRepository,
	tasks port.TaskRepository,
	eng engine.Engine,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) TaskService {
	return &taskServiceImpl{
		apps:       apps,
		tasks:      tasks,
		engine:     eng,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *taskServiceImpl) Assign(ctx context.Context, input AssignTaskInput, actor string) (*entity.TechnicalTask, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	active, err := s.tasks.GetActive(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active task: %w", err)
	}
	if active != nil {
		return nil, fmt.Errorf("%w: application %s already has active task %s", pipeline.ErrConflict, app.ID, active.ID)
	}

	now := time.Now()
	task := &entity.TechnicalTask{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		Title:         input.Title,
		Description:   input.Description,
		Deadline:      input.Deadline,
		DocumentURL:   input.DocumentURL,
		Status:        entity.TaskStatusAssigned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tasks.Create(txCtx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		// Assigning from the previous stage enters TECHNICAL_TASK
		// directly at ASSIGNED.
		if app.Stage != pipeline.StageTechnicalTask.String() {
			return s.engine.Advance(txCtx, app.ID, pipeline.StageTechnicalTask, pipeline.SubAssigned, actor, "")
		}
		return s.recompute(txCtx, app.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeTaskAssigned, app.ID, app.JobID, map[string]any{
			"task_id":  task.ID,
			"title":    task.Title,
			"deadline": task.Deadline.Format(time.RFC3339),
			"actor":    actor,
		}))
	}
	return task, nil
}

func (s *taskServiceImpl) Submit(ctx context.Context, id, submissionURL, note, actor string) error {
	if submissionURL == "" {
		return fmt.Errorf("%w: submission URL is required", pipeline.ErrValidation)
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, task.ApplicationID); err != nil {
		return err
	}
	if task.Status != entity.TaskStatusAssigned {
		return fmt.Errorf("%w: task %s is %s, only assigned tasks accept submissions", pipeline.ErrPrecondition, id, task.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tasks.SetSubmission(txCtx, id, submissionURL, note, time.Now()); err != nil {
			return fmt.Errorf("failed to record submission: %w", err)
		}
		return s.recompute(txCtx, task.ApplicationID)
	})
}

func (s *taskServiceImpl) StartReview(ctx context.Context, id, actor string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, task.ApplicationID); err != nil {
		return err
	}
	if task.Status != entity.TaskStatusSubmitted {
		return fmt.Errorf("%w: task %s is %s, review requires a submitted task", pipeline.ErrPrecondition, id, task.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tasks.UpdateStatus(txCtx, id, entity.TaskStatusUnderReview); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		return s.recompute(txCtx, task.ApplicationID)
	})
}

func (s *taskServiceImpl) Complete(ctx context.Context, id string, rating int, feedback, actor string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", pipeline.ErrValidation)
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, task.ApplicationID); err != nil {
		return err
	}
	if task.Status != entity.TaskStatusSubmitted && task.Status != entity.TaskStatusUnderReview {
		return fmt.Errorf("%w: task %s is %s, completion requires a submitted or reviewed task", pipeline.ErrPrecondition, id, task.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tasks.Complete(txCtx, id, rating, feedback); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		return s.recompute(txCtx, task.ApplicationID)
	})
}

func (s *taskServiceImpl) Revoke(ctx context.Context, id, actor string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.loadApplication(ctx, task.ApplicationID); err != nil {
		return err
	}
	if !task.IsActive() {
		return fmt.Errorf("%w: task %s is %s and cannot be revoked", pipeline.ErrPrecondition, id, task.Status)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tasks.UpdateStatus(txCtx, id, entity.TaskStatusCancelled); err != nil {
			return fmt.Errorf("failed to revoke task: %w", err)
		}
		return s.recompute(txCtx, task.ApplicationID)
	})
}

func (s *taskServiceImpl) Get(ctx context.Context, id string) (*entity.TechnicalTask, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", pipeline.ErrNotFound, id)
	}
	return task, nil
}

func (s *taskServiceImpl) ListByApplication(ctx context.Context, applicationID string) ([]*entity.TechnicalTask, error) {
	return s.tasks.GetByApplicationID(ctx, applicationID)
}

// loadApplication fetches the application and rejects mutations on
// terminal ones.
func (s *taskServiceImpl) loadApplication(ctx context.Context, id string) (*entity.Application, error) {
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

// recompute re-derives the TECHNICAL_TASK sub-stage from the task record.
// Applications outside TECHNICAL_TASK are left untouched.
func (s *taskServiceImpl) recompute(ctx context.Context, applicationID string) error {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil || app.Stage != pipeline.StageTechnicalTask.String() {
		return nil
	}
	tasks, err := s.tasks.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	sub, ok := pipeline.DeriveTaskSubStage(tasks)
	if !ok {
		return nil
	}
	return s.engine.Derive(ctx, applicationID, pipeline.StageTechnicalTask, sub)
}
