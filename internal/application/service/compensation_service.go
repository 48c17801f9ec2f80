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

// InitiateCompensationInput opens the negotiation record.
type InitiateCompensationInput struct {
	ApplicationID     string  `validate:"required"`
	CandidateExpected float64 `validate:"gt=0"`
	Notes             string
}

// UpdateCompensationInput carries negotiation terms. Zero-value fields
// keep their stored value.
type UpdateCompensationInput struct {
	CompanyProposed float64
	FinalAgreed     float64
	Benefits        []string
	ExpectedJoining *time.Time
	Notes           string
}

// ScheduleCompensationMeetingInput books a negotiation meeting.
type ScheduleCompensationMeetingInput struct {
	ApplicationID string    `validate:"required"`
	Type          string    `validate:"required,oneof=call online in_person"`
	ScheduledAt   time.Time `validate:"required"`
	Location      string
	MeetingLink   string
}

// CompensationService manages the negotiation record and its meetings.
// Unlike INTERVIEW and TECHNICAL_TASK, the COMPENSATION sub-stage is
// stored: each operation here advances it explicitly.
type CompensationService interface {
	// Initiate creates the negotiation record and moves the application
	// to COMPENSATION at INITIATED. One record per application.
	Initiate(ctx context.Context, input InitiateCompensationInput, actor string) (*entity.CompensationRecord, error)

	// Update revises the terms. The first revision after initiation moves
	// the sub-stage to NEGOTIATION_ONGOING. Approved records are frozen.
	Update(ctx context.Context, applicationID string, input UpdateCompensationInput, actor string) (*entity.CompensationRecord, error)

	// Approve locks the agreed terms. Requires active negotiation.
	Approve(ctx context.Context, applicationID, approvedBy string) error

	Get(ctx context.Context, applicationID string) (*entity.CompensationRecord, error)

	ScheduleMeeting(ctx context.Context, input ScheduleCompensationMeetingInput, actor string) (*entity.CompensationMeeting, error)
	CompleteMeeting(ctx context.Context, meetingID, notes string) error
	CancelMeeting(ctx context.Context, meetingID string) error
	ListMeetings(ctx context.Context, applicationID string) ([]*entity.CompensationMeeting, error)
}

type compensationServiceImpl struct {
	apps          port.ApplicationRepository
	compensations port.CompensationRepository
	engine        engine.Engine
	txManager     port.TransactionManager
	dispatcher    dispatcher.Dispatcher
	logger        Logger
}

// NewCompensationService creates a new CompensationService
func NewCompensationService(
	apps port.ApplicationRepository,
	compensations port.CompensationRepository,
	eng engine.Engine,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) CompensationService {
	return &compensationServiceImpl{
		apps:          apps,
		compensations: compensations,
		engine:        eng,
		txManager:     txManager,
		dispatcher:    d,
		logger:        logger,
	}
}

func (s *compensationServiceImpl) Initiate(ctx context.Context, input InitiateCompensationInput, actor string) (*entity.CompensationRecord, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.compensations.GetByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check compensation record: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: application %s already has a compensation record", pipeline.ErrConflict, app.ID)
	}

	now := time.Now()
	rec := &entity.CompensationRecord{
		ID:                uuid.NewString(),
		ApplicationID:     app.ID,
		CandidateExpected: input.CandidateExpected,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.compensations.Create(txCtx, rec); err != nil {
			return fmt.Errorf("failed to create compensation record: %w", err)
		}
		// Covers both entering COMPENSATION from the previous stage and
		// stepping NOT_INITIATED -> INITIATED within it.
		return s.engine.Advance(txCtx, app.ID, pipeline.StageCompensation, pipeline.SubInitiated, actor, "")
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *compensationServiceImpl) Update(ctx context.Context, applicationID string, input UpdateCompensationInput, actor string) (*entity.CompensationRecord, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if rec.IsApproved() {
		return nil, fmt.Errorf("%w: compensation for application %s is approved and frozen", pipeline.ErrPrecondition, applicationID)
	}

	// The first proposal is still part of initiation; negotiation opens on
	// the touch after a proposal already exists.
	hadProposal := rec.CompanyProposed > 0

	if input.CompanyProposed > 0 {
		rec.CompanyProposed = input.CompanyProposed
	}
	if input.FinalAgreed > 0 {
		rec.FinalAgreed = input.FinalAgreed
	}
	if input.Benefits != nil {
		rec.Benefits = input.Benefits
	}
	if input.ExpectedJoining != nil {
		rec.ExpectedJoining = input.ExpectedJoining
	}
	if input.Notes != "" {
		rec.Notes = input.Notes
	}
	rec.UpdatedAt = time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.compensations.Update(txCtx, rec); err != nil {
			return fmt.Errorf("failed to update compensation record: %w", err)
		}
		if hadProposal &&
			app.Stage == pipeline.StageCompensation.String() &&
			app.SubStage == pipeline.SubInitiated.String() {
			return s.engine.Advance(txCtx, app.ID, pipeline.StageCompensation, pipeline.SubNegotiationOngoing, actor, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *compensationServiceImpl) Approve(ctx context.Context, applicationID, approvedBy string) error {
	if approvedBy == "" {
		return fmt.Errorf("%w: approver is required", pipeline.ErrValidation)
	}
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	rec, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if rec.IsApproved() {
		return fmt.Errorf("%w: compensation for application %s is already approved", pipeline.ErrPrecondition, applicationID)
	}
	if app.Stage != pipeline.StageCompensation.String() || app.SubStage != pipeline.SubNegotiationOngoing.String() {
		return fmt.Errorf("%w: approval requires active negotiation, application is %s/%s", pipeline.ErrPrecondition, app.Stage, app.SubStage)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.compensations.Approve(txCtx, rec.ID, approvedBy, time.Now()); err != nil {
			return fmt.Errorf("failed to approve compensation: %w", err)
		}
		return s.engine.Advance(txCtx, app.ID, pipeline.StageCompensation, pipeline.SubApproved, approvedBy, "")
	})
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeCompensationApproved, app.ID, app.JobID, map[string]any{
			"compensation_id": rec.ID,
			"final_agreed":    rec.FinalAgreed,
			"approved_by":     approvedBy,
		}))
	}
	return nil
}

func (s *compensationServiceImpl) Get(ctx context.Context, applicationID string) (*entity.CompensationRecord, error) {
	rec, err := s.compensations.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load compensation record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: no compensation record for application %s", pipeline.ErrNotFound, applicationID)
	}
	return rec, nil
}

func (s *compensationServiceImpl) ScheduleMeeting(ctx context.Context, input ScheduleCompensationMeetingInput, actor string) (*entity.CompensationMeeting, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}
	rec, err := s.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	meeting := &entity.CompensationMeeting{
		ID:             uuid.NewString(),
		CompensationID: rec.ID,
		Type:           input.Type,
		ScheduledAt:    input.ScheduledAt,
		Location:       input.Location,
		MeetingLink:    input.MeetingLink,
		Status:         entity.MeetingStatusScheduled,
		CreatedAt:      time.Now(),
	}
	if err := s.compensations.CreateMeeting(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return meeting, nil
}

func (s *compensationServiceImpl) CompleteMeeting(ctx context.Context, meetingID, notes string) error {
	meeting, err := s.getMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Status != entity.MeetingStatusScheduled {
		return fmt.Errorf("%w: meeting %s is %s, only scheduled meetings can be completed", pipeline.ErrPrecondition, meetingID, meeting.Status)
	}
	now := time.Now()
	return s.compensations.UpdateMeetingStatus(ctx, meetingID, entity.MeetingStatusCompleted, notes, &now)
}

func (s *compensationServiceImpl) CancelMeeting(ctx context.Context, meetingID string) error {
	meeting, err := s.getMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.Status != entity.MeetingStatusScheduled {
		return fmt.Errorf("%w: meeting %s is %s, only scheduled meetings can be cancelled", pipeline.ErrPrecondition, meetingID, meeting.Status)
	}
	return s.compensations.UpdateMeetingStatus(ctx, meetingID, entity.MeetingStatusCancelled, "", nil)
}

func (s *compensationServiceImpl) ListMeetings(ctx context.Context, applicationID string) ([]*entity.CompensationMeeting, error) {
	rec, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return s.compensations.GetMeetings(ctx, rec.ID)
}

func (s *compensationServiceImpl) getMeeting(ctx context.Context, id string) (*entity.CompensationMeeting, error) {
	meeting, err := s.compensations.GetMeeting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, fmt.Errorf("%w: meeting %s", pipeline.ErrNotFound, id)
	}
	return meeting, nil
}

func (s *compensationServiceImpl) loadApplication(ctx context.Context, id string) (*entity.Application, error) {
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
