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

// CreateOfferInput carries the fields needed to send an offer.
type CreateOfferInput struct {
	ApplicationID string  `validate:"required"`
	OfferAmount   float64 `validate:"gt=0"`
	DocumentURL   string  `validate:"required,url"`
}

// OfferService manages offer documents. Sending an offer requires the
// document upload up front; only one offer may be outstanding at a time.
type OfferService interface {
	// Create sends an offer. Fails while a previous offer is still
	// outstanding; conclude it first via Decline or Withdraw.
	Create(ctx context.Context, input CreateOfferInput, actor string) (*entity.OfferDocument, error)

	// AcceptWithSignedDocument records the candidate's acceptance. The
	// signed document upload is mandatory.
	AcceptWithSignedDocument(ctx context.Context, id, signedDocumentURL, actor string) error

	// Decline records the candidate turning the offer down. The optional
	// reason lands in the timeline, not in the withdrawal field.
	Decline(ctx context.Context, id, reason, actor string) error

	// Withdraw pulls the offer back on the company side. A reason is
	// mandatory and lands in the record.
	Withdraw(ctx context.Context, id, reason, actor string) error

	Get(ctx context.Context, id string) (*entity.OfferDocument, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*entity.OfferDocument, error)
}

type offerServiceImpl struct {
	apps       port.ApplicationRepository
	offers     port.OfferRepository
	engine     engine.Engine
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewOfferService creates a new OfferService
func NewOfferService(
	apps port.ApplicationRepository,
	offers port.OfferRepository,
	eng engine.Engine,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) OfferService {
	return &offerServiceImpl{
		apps:       apps,
		offers:     offers,
		engine:     eng,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

func (s *offerServiceImpl) Create(ctx context.Context, input CreateOfferInput, actor string) (*entity.OfferDocument, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrValidation, err)
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.offers.GetOutstanding(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check outstanding offer: %w", err)
	}
	if outstanding != nil {
		return nil, fmt.Errorf("%w: offer %s is still outstanding for application %s", pipeline.ErrConflict, outstanding.ID, app.ID)
	}

	now := time.Now()
	offer := &entity.OfferDocument{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		OfferAmount:   input.OfferAmount,
		DocumentURL:   input.DocumentURL,
		Status:        entity.OfferStatusSent,
		SentAt:        &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.offers.Create(txCtx, offer); err != nil {
			return fmt.Errorf("failed to create offer: %w", err)
		}
		// Covers both entering OFFER from the previous stage and
		// stepping NOT_SENT -> OFFER_SENT within it.
		return s.engine.Advance(txCtx, app.ID, pipeline.StageOffer, pipeline.SubOfferSent, actor, "")
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeOfferSent, app.ID, app.JobID, map[string]any{
			"offer_id":     offer.ID,
			"offer_amount": offer.OfferAmount,
			"actor":        actor,
		}))
	}
	return offer, nil
}

func (s *offerServiceImpl) AcceptWithSignedDocument(ctx context.Context, id, signedDocumentURL, actor string) error {
	if signedDocumentURL == "" {
		return fmt.Errorf("%w: signed document URL is required", pipeline.ErrValidation)
	}
	offer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if offer.Status != entity.OfferStatusSent {
		return fmt.Errorf("%w: offer %s is %s, only sent offers can be accepted", pipeline.ErrPrecondition, id, offer.Status)
	}
	app, err := s.loadApplication(ctx, offer.ApplicationID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.offers.MarkSigned(txCtx, id, signedDocumentURL, time.Now()); err != nil {
			return fmt.Errorf("failed to mark offer signed: %w", err)
		}
		return s.engine.Advance(txCtx, app.ID, pipeline.StageOffer, pipeline.SubOfferAccepted, actor, "")
	})
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeOfferSigned, app.ID, app.JobID, map[string]any{
			"offer_id": offer.ID,
			"actor":    actor,
		}))
	}
	return nil
}

func (s *offerServiceImpl) Decline(ctx context.Context, id, reason, actor string) error {
	return s.conclude(ctx, id, "", reason, actor)
}

func (s *offerServiceImpl) Withdraw(ctx context.Context, id, reason, actor string) error {
	if reason == "" {
		return fmt.Errorf("%w: withdrawal reason is required", pipeline.ErrValidation)
	}
	return s.conclude(ctx, id, reason, "", actor)
}

// conclude closes a sent offer as declined. The withdrawal reason is set
// only on the company side; a candidate's decline reason goes into the
// transition note instead.
func (s *offerServiceImpl) conclude(ctx context.Context, id, withdrawalReason, note, actor string) error {
	offer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if offer.Status != entity.OfferStatusSent {
		return fmt.Errorf("%w: offer %s is %s, only sent offers can be concluded", pipeline.ErrPrecondition, id, offer.Status)
	}
	app, err := s.loadApplication(ctx, offer.ApplicationID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.offers.MarkDeclined(txCtx, id, withdrawalReason, time.Now()); err != nil {
			return fmt.Errorf("failed to mark offer declined: %w", err)
		}
		return s.engine.Advance(txCtx, app.ID, pipeline.StageOffer, pipeline.SubOfferDeclined, actor, note)
	})
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.New(event.TypeOfferDeclined, app.ID, app.JobID, map[string]any{
			"offer_id":          offer.ID,
			"withdrawal_reason": withdrawalReason,
			"actor":             actor,
		}))
	}
	return nil
}

func (s *offerServiceImpl) Get(ctx context.Context, id string) (*entity.OfferDocument, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	if offer == nil {
		return nil, fmt.Errorf("%w: offer %s", pipeline.ErrNotFound, id)
	}
	return offer, nil
}

func (s *offerServiceImpl) ListByApplication(ctx context.Context, applicationID string) ([]*entity.OfferDocument, error) {
	return s.offers.GetByApplicationID(ctx, applicationID)
}

func (s *offerServiceImpl) loadApplication(ctx context.Context, id string) (*entity.Application, error) {
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
