// Package port defines the persistence and collaborator interfaces the
// application layer depends on.
package port

import (
	"context"
	"time"

	"github.com/hirestack/ats/internal/domain/entity"
)

// ApplicationRepository defines persistence operations for Application.
// Implementations return (nil, nil) when a record does not exist.
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	GetByID(ctx context.Context, id string) (*entity.Application, error)

	// UpdateStage writes (stage, subStage) guarded by the version the
	// caller read; a stale version yields pipeline.ErrConflict.
	UpdateStage(ctx context.Context, id, stage, subStage string, version int64) error

	ListByJobID(ctx context.Context, jobID string, limit, offset int) ([]*entity.Application, error)
}

// InterviewRepository defines persistence operations for Interview.
type InterviewRepository interface {
	Create(ctx context.Context, iv *entity.Interview) error
	GetByID(ctx context.Context, id string) (*entity.Interview, error)
	GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Interview, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetFeedback(ctx context.Context, id string, rating int, feedback string) error
}

// TaskRepository defines persistence operations for TechnicalTask.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.TechnicalTask) error
	GetByID(ctx context.Context, id string) (*entity.TechnicalTask, error)
	GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.TechnicalTask, error)

	// GetActive returns the single task that is neither completed nor
	// cancelled, or nil when none exists.
	GetActive(ctx context.Context, applicationID string) (*entity.TechnicalTask, error)

	UpdateStatus(ctx context.Context, id, status string) error
	SetSubmission(ctx context.Context, id, submissionURL, note string, at time.Time) error
	Complete(ctx context.Context, id string, rating int, feedback string) error
}

// CompensationRepository defines persistence operations for
// CompensationRecord and its meetings.
type CompensationRepository interface {
	Create(ctx context.Context, rec *entity.CompensationRecord) error
	GetByApplicationID(ctx context.Context, applicationID string) (*entity.CompensationRecord, error)
	Update(ctx context.Context, rec *entity.CompensationRecord) error
	Approve(ctx context.Context, id, approvedBy string, at time.Time) error

	CreateMeeting(ctx context.Context, meeting *entity.CompensationMeeting) error
	GetMeeting(ctx context.Context, id string) (*entity.CompensationMeeting, error)
	GetMeetings(ctx context.Context, compensationID string) ([]*entity.CompensationMeeting, error)
	UpdateMeetingStatus(ctx context.Context, id, status, notes string, completedAt *time.Time) error
}

// OfferRepository defines persistence operations for OfferDocument.
type OfferRepository interface {
	Create(ctx context.Context, offer *entity.OfferDocument) error
	GetByID(ctx context.Context, id string) (*entity.OfferDocument, error)
	GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.OfferDocument, error)

	// GetOutstanding returns the offer still in `sent` status, or nil.
	GetOutstanding(ctx context.Context, applicationID string) (*entity.OfferDocument, error)

	MarkSigned(ctx context.Context, id, signedDocumentURL string, at time.Time) error

	// MarkDeclined concludes the offer cycle. withdrawalReason is empty for
	// a candidate decline and set for a company withdrawal.
	MarkDeclined(ctx context.Context, id, withdrawalReason string, at time.Time) error
}

// CommentRepository defines persistence operations for the append-only
// application timeline.
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Comment, error)
	GetByStage(ctx context.Context, applicationID, stage string) ([]*entity.Comment, error)
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// AfterCommit schedules fn to run once the outermost transaction on
	// ctx commits. Rolled-back transactions discard their hooks. Outside
	// a transaction fn runs immediately.
	AfterCommit(ctx context.Context, fn func())
}
