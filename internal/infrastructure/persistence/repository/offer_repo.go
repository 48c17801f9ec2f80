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

// OfferRepository implements port.OfferRepository
type OfferRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *sql.DB, logger *zap.Logger) port.OfferRepository {
	return &OfferRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new offer document
func (r *OfferRepository) Create(ctx context.Context, offer *entity.OfferDocument) error {
	query := `
		INSERT INTO offer_documents (
			id, application_id, offer_amount, document_url, status,
			sent_at, signed_at, declined_at, signed_document_url,
			withdrawal_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		offer.ID,
		offer.ApplicationID,
		offer.OfferAmount,
		offer.DocumentURL,
		offer.Status,
		offer.SentAt,
		offer.SignedAt,
		offer.DeclinedAt,
		offer.SignedDocumentURL,
		offer.WithdrawalReason,
		offer.CreatedAt,
		offer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create offer", zap.String("id", offer.ID), zap.Error(err))
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID retrieves an offer by ID
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*entity.OfferDocument, error) {
	query := selectOffer + ` WHERE id = ?`

	offer, err := scanOffer(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get offer", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return offer, nil
}

// GetByApplicationID retrieves every offer sent on an application
func (r *OfferRepository) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.OfferDocument, error) {
	query := selectOffer + ` WHERE application_id = ? ORDER BY created_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list offers", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var out []*entity.OfferDocument
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		out = append(out, offer)
	}
	return out, rows.Err()
}

// GetOutstanding retrieves the offer still in sent status, or nil
func (r *OfferRepository) GetOutstanding(ctx context.Context, applicationID string) (*entity.OfferDocument, error) {
	query := selectOffer + ` WHERE application_id = ? AND status = ? LIMIT 1`

	offer, err := scanOffer(getExecutor(ctx, r.db).QueryRowContext(ctx, query, applicationID, entity.OfferStatusSent))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get outstanding offer", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to get outstanding offer: %w", err)
	}
	return offer, nil
}

// MarkSigned concludes the offer as accepted with the signed document
func (r *OfferRepository) MarkSigned(ctx context.Context, id, signedDocumentURL string, at time.Time) error {
	query := `
		UPDATE offer_documents
		SET status = ?, signed_document_url = ?, signed_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.OfferStatusSigned, signedDocumentURL, at, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark offer signed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark offer signed: %w", err)
	}
	return nil
}

// MarkDeclined concludes the offer as declined or withdrawn
func (r *OfferRepository) MarkDeclined(ctx context.Context, id, withdrawalReason string, at time.Time) error {
	query := `
		UPDATE offer_documents
		SET status = ?, withdrawal_reason = ?, declined_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.OfferStatusDeclined, withdrawalReason, at, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark offer declined", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark offer declined: %w", err)
	}
	return nil
}

const selectOffer = `
	SELECT id, application_id, offer_amount, document_url, status,
		sent_at, signed_at, declined_at, signed_document_url,
		withdrawal_reason, created_at, updated_at
	FROM offer_documents`

func scanOffer(row rowScanner) (*entity.OfferDocument, error) {
	var offer entity.OfferDocument
	var sentAt, signedAt, declinedAt sql.NullTime

	err := row.Scan(
		&offer.ID,
		&offer.ApplicationID,
		&offer.OfferAmount,
		&offer.DocumentURL,
		&offer.Status,
		&sentAt,
		&signedAt,
		&declinedAt,
		&offer.SignedDocumentURL,
		&offer.WithdrawalReason,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		offer.SentAt = &sentAt.Time
	}
	if signedAt.Valid {
		offer.SignedAt = &signedAt.Time
	}
	if declinedAt.Valid {
		offer.DeclinedAt = &declinedAt.Time
	}
	return &offer, nil
}

// Verify interface compliance
var _ port.OfferRepository = (*OfferRepository)(nil)
