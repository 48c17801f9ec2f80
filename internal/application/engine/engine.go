// Package engine implements the single choke point for pipeline state
// changes. Every stage or sub-stage write on an application goes through
// Apply, which validates the move, performs the guarded write, and appends
// the audit comment in one transaction.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hirestack/ats/internal/application/dispatcher"
	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
	"github.com/hirestack/ats/internal/domain/event"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// Kind classifies a transition request and selects which validation rules
// Apply enforces.
type Kind string

const (
	// KindAdvance is an explicit recruiter move: forward along the job's
	// configured stage order, or one step forward within a stage machine.
	KindAdvance Kind = "ADVANCE"

	// KindDerived is a recomputed sub-stage for INTERVIEW or
	// TECHNICAL_TASK. Derived moves may go backward within the stage;
	// they never change the stage itself.
	KindDerived Kind = "DERIVED"

	// KindDecision is a jump to HIRED or REJECTED from any non-terminal
	// stage, bypassing the configured order.
	KindDecision Kind = "DECISION"
)

// Request describes a single desired transition.
type Request struct {
	ApplicationID string
	Stage         pipeline.Stage
	SubStage      pipeline.SubStage
	Kind          Kind
	Actor         string
	Note          string
}

// Engine applies pipeline transitions.
type Engine interface {
	// Apply validates and executes the requested transition. Requests
	// that match the application's current (stage, sub-stage) are
	// idempotent no-ops: no write, no comment, nil error.
	Apply(ctx context.Context, req Request) error

	// Advance moves the application to the target stage and sub-stage as
	// an explicit recruiter action.
	Advance(ctx context.Context, applicationID string, stage pipeline.Stage, subStage pipeline.SubStage, actor, note string) error

	// Derive records a recomputed sub-stage for a derived stage.
	Derive(ctx context.Context, applicationID string, stage pipeline.Stage, subStage pipeline.SubStage) error

	// Hire moves the application to HIRED.
	Hire(ctx context.Context, applicationID, actor, note string) error

	// Reject moves the application to REJECTED.
	Reject(ctx context.Context, applicationID, actor, note string) error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type engineImpl struct {
	apps       port.ApplicationRepository
	comments   port.CommentRepository
	pipelines  port.PipelineConfigProvider
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// New creates a transition engine. The dispatcher may be nil, in which
// case no events are emitted.
func New(
	apps port.ApplicationRepository,
	comments port.CommentRepository,
	pipelines port.PipelineConfigProvider,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) Engine {
	return &engineImpl{
		apps:       apps,
		comments:   comments,
		pipelines:  pipelines,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

func (e *engineImpl) Apply(ctx context.Context, req Request) error {
	if !req.Stage.IsValid() {
		return fmt.Errorf("%w: unknown stage %q", pipeline.ErrValidation, req.Stage)
	}
	switch req.Kind {
	case KindAdvance, KindDerived, KindDecision:
	default:
		return fmt.Errorf("%w: unknown transition kind %q", pipeline.ErrValidation, req.Kind)
	}
	if !pipeline.MemberOf(req.Stage, req.SubStage) {
		return fmt.Errorf("%w: sub-stage %q does not belong to stage %s", pipeline.ErrValidation, req.SubStage, req.Stage)
	}

	var (
		jobID     string
		prevStage string
		prevSub   string
		changed   bool
	)

	err := e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		app, err := e.apps.GetByID(txCtx, req.ApplicationID)
		if err != nil {
			return fmt.Errorf("failed to load application: %w", err)
		}
		if app == nil {
			return fmt.Errorf("%w: application %s", pipeline.ErrNotFound, req.ApplicationID)
		}

		current, err := pipeline.ParseStage(app.Stage)
		if err != nil {
			return fmt.Errorf("application %s has corrupt stage %q: %w", app.ID, app.Stage, err)
		}
		currentSub := pipeline.SubStage(app.SubStage)

		// Replayed request: target already holds. Nothing to write and
		// nothing to log.
		if current == req.Stage && currentSub == req.SubStage {
			return nil
		}

		if current.IsTerminal() {
			return fmt.Errorf("%w: application %s is %s", pipeline.ErrTerminalState, app.ID, current)
		}

		if err := e.validate(txCtx, app, current, currentSub, req); err != nil {
			return err
		}

		if err := e.apps.UpdateStage(txCtx, app.ID, req.Stage.String(), req.SubStage.String(), app.Version); err != nil {
			return fmt.Errorf("failed to update stage: %w", err)
		}

		author := req.Actor
		if author == "" {
			author = entity.SystemAuthor
		}
		text := req.Note
		if text == "" {
			text = transitionText(current, currentSub, req.Stage, req.SubStage)
		}
		comment := &entity.Comment{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			Stage:         req.Stage.String(),
			SubStage:      req.SubStage.String(),
			Author:        author,
			Text:          text,
			CreatedAt:     time.Now(),
		}
		if err := e.comments.Create(txCtx, comment); err != nil {
			return fmt.Errorf("failed to record transition comment: %w", err)
		}

		jobID = app.JobID
		prevStage = current.String()
		prevSub = currentSub.String()
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		// When Apply runs inside a caller's transaction the observable
		// side effects wait for the outermost commit; a rollback after
		// this point must not have announced a transition that never
		// happened.
		e.txManager.AfterCommit(ctx, func() {
			if e.logger != nil {
				e.logger.Info("Application stage changed",
					"application_id", req.ApplicationID,
					"from_stage", prevStage,
					"from_sub_stage", prevSub,
					"to_stage", req.Stage,
					"to_sub_stage", req.SubStage,
					"kind", req.Kind,
				)
			}
			if e.dispatcher != nil {
				e.dispatcher.DispatchAsync(ctx, event.New(event.TypeStageChanged, req.ApplicationID, jobID, map[string]any{
					"from_stage":     prevStage,
					"from_sub_stage": prevSub,
					"to_stage":       req.Stage.String(),
					"to_sub_stage":   req.SubStage.String(),
					"kind":           string(req.Kind),
					"actor":          req.Actor,
				}))
			}
		})
	}
	return nil
}

// validate enforces the per-kind transition rules against the state read
// inside the transaction.
func (e *engineImpl) validate(ctx context.Context, app *entity.Application, current pipeline.Stage, currentSub pipeline.SubStage, req Request) error {
	switch req.Kind {
	case KindDecision:
		if req.Stage != pipeline.StageHired && req.Stage != pipeline.StageRejected {
			return fmt.Errorf("%w: %s transition must target a terminal stage, got %s", pipeline.ErrValidation, req.Kind, req.Stage)
		}
		return nil

	case KindDerived:
		if req.Stage != current {
			return fmt.Errorf("%w: derived transition cannot change stage (%s -> %s)", pipeline.ErrInvalidTransition, current, req.Stage)
		}
		if req.Stage != pipeline.StageInterview && req.Stage != pipeline.StageTechnicalTask {
			return fmt.Errorf("%w: stage %s has no derived sub-stage", pipeline.ErrInvalidTransition, req.Stage)
		}
		return nil

	case KindAdvance:
		if req.Stage == current {
			if !pipeline.CanStep(current, currentSub, req.SubStage) {
				return fmt.Errorf("%w: %s does not follow %s in stage %s", pipeline.ErrInvalidTransition, req.SubStage, currentSub, current)
			}
			return nil
		}

		cfg, err := e.pipelines.PipelineConfig(ctx, app.JobID)
		if err != nil {
			return fmt.Errorf("failed to load pipeline config for job %s: %w", app.JobID, err)
		}
		next, ok := cfg.NextStage(current)
		if !ok {
			return fmt.Errorf("%w: no stage follows %s for job %s", pipeline.ErrInvalidTransition, current, app.JobID)
		}
		if req.Stage != next {
			return fmt.Errorf("%w: next stage after %s is %s, not %s", pipeline.ErrInvalidTransition, current, next, req.Stage)
		}
		// Entering a stage lands on its initial sub-stage, or one step
		// past it when the action itself completes the first step.
		initial := pipeline.InitialSubStage(req.Stage)
		if req.SubStage != initial && !pipeline.CanStep(req.Stage, initial, req.SubStage) {
			return fmt.Errorf("%w: cannot enter %s at %s", pipeline.ErrInvalidTransition, req.Stage, req.SubStage)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown transition kind %q", pipeline.ErrValidation, req.Kind)
}

func (e *engineImpl) Advance(ctx context.Context, applicationID string, stage pipeline.Stage, subStage pipeline.SubStage, actor, note string) error {
	return e.Apply(ctx, Request{
		ApplicationID: applicationID,
		Stage:         stage,
		SubStage:      subStage,
		Kind:          KindAdvance,
		Actor:         actor,
		Note:          note,
	})
}

func (e *engineImpl) Derive(ctx context.Context, applicationID string, stage pipeline.Stage, subStage pipeline.SubStage) error {
	return e.Apply(ctx, Request{
		ApplicationID: applicationID,
		Stage:         stage,
		SubStage:      subStage,
		Kind:          KindDerived,
	})
}

func (e *engineImpl) Hire(ctx context.Context, applicationID, actor, note string) error {
	return e.Apply(ctx, Request{
		ApplicationID: applicationID,
		Stage:         pipeline.StageHired,
		Kind:          KindDecision,
		Actor:         actor,
		Note:          note,
	})
}

func (e *engineImpl) Reject(ctx context.Context, applicationID, actor, note string) error {
	return e.Apply(ctx, Request{
		ApplicationID: applicationID,
		Stage:         pipeline.StageRejected,
		Kind:          KindDecision,
		Actor:         actor,
		Note:          note,
	})
}

// transitionText builds the default audit text when the caller gives none.
func transitionText(fromStage pipeline.Stage, fromSub pipeline.SubStage, toStage pipeline.Stage, toSub pipeline.SubStage) string {
	from := fromStage.String()
	if fromSub != pipeline.SubNone {
		from = fmt.Sprintf("%s/%s", fromStage, fromSub)
	}
	to := toStage.String()
	if toSub != pipeline.SubNone {
		to = fmt.Sprintf("%s/%s", toStage, toSub)
	}
	return fmt.Sprintf("Moved from %s to %s", from, to)
}
