package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/port"
	"github.com/hirestack/ats/internal/domain/entity"
)

// CompensationRepository implements port.CompensationRepository
type CompensationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCompensationRepository creates a new compensation repository
func NewCompensationRepository(db *sql.DB, logger *zap.Logger) port.CompensationRepository {
	return &CompensationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the negotiation record
func (r *CompensationRepository) Create(ctx context.Context, rec *entity.CompensationRecord) error {
	benefits, err := json.Marshal(rec.Benefits)
	if err != nil {
		return fmt.Errorf("failed to marshal benefits: %w", err)
	}

	query := `
		INSERT INTO compensation_records (
			id, application_id, candidate_expected, company_proposed,
			final_agreed, benefits, expected_joining, notes,
			approved_at, approved_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		rec.ID,
		rec.ApplicationID,
		rec.CandidateExpected,
		rec.CompanyProposed,
		rec.FinalAgreed,
		string(benefits),
		rec.ExpectedJoining,
		rec.Notes,
		rec.ApprovedAt,
		rec.ApprovedBy,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create compensation record", zap.String("id", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to create compensation record: %w", err)
	}
	return nil
}

// GetByApplicationID retrieves the negotiation record for an application
func (r *CompensationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*entity.CompensationRecord, error) {
	query := `
		SELECT id, application_id, candidate_expected, company_proposed,
			final_agreed, benefits, expected_joining, notes,
			approved_at, approved_by, created_at, updated_at
		FROM compensation_records
		WHERE application_id = ?
	`

	var rec entity.CompensationRecord
	var benefits string
	var expectedJoining, approvedAt sql.NullTime

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, applicationID).Scan(
		&rec.ID,
		&rec.ApplicationID,
		&rec.CandidateExpected,
		&rec.CompanyProposed,
		&rec.FinalAgreed,
		&benefits,
		&expectedJoining,
		&rec.Notes,
		&approvedAt,
		&rec.ApprovedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get compensation record", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to get compensation record: %w", err)
	}

	if benefits != "" {
		if err := json.Unmarshal([]byte(benefits), &rec.Benefits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal benefits: %w", err)
		}
	}
	if expectedJoining.Valid {
		rec.ExpectedJoining = &expectedJoining.Time
	}
	if approvedAt.Valid {
		rec.ApprovedAt = &approvedAt.Time
	}
	return &rec, nil
}

// Update rewrites the negotiable fields of the record
func (r *CompensationRepository) Update(ctx context.Context, rec *entity.CompensationRecord) error {
	benefits, err := json.Marshal(rec.Benefits)
	if err != nil {
		return fmt.Errorf("failed to marshal benefits: %w", err)
	}

	query := `
		UPDATE compensation_records
		SET candidate_expected = ?, company_proposed = ?, final_agreed = ?,
			benefits = ?, expected_joining = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		rec.CandidateExpected,
		rec.CompanyProposed,
		rec.FinalAgreed,
		string(benefits),
		rec.ExpectedJoining,
		rec.Notes,
		time.Now(),
		rec.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update compensation record", zap.String("id", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to update compensation record: %w", err)
	}
	return nil
}

// Approve stamps the record with the approver and approval time
func (r *CompensationRepository) Approve(ctx context.Context, id, approvedBy string, at time.Time) error {
	query := `
		UPDATE compensation_records
		SET approved_at = ?, approved_by = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, at, approvedBy, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to approve compensation record", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to approve compensation record: %w", err)
	}
	return nil
}

// CreateMeeting inserts a negotiation meeting
func (r *CompensationRepository) CreateMeeting(ctx context.Context, meeting *entity.CompensationMeeting) error {
	query := `
		INSERT INTO compensation_meetings (
			id, compensation_id, type, scheduled_at, location,
			meeting_link, status, notes, completed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		meeting.ID,
		meeting.CompensationID,
		meeting.Type,
		meeting.ScheduledAt,
		meeting.Location,
		meeting.MeetingLink,
		meeting.Status,
		meeting.Notes,
		meeting.CompletedAt,
		meeting.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create meeting", zap.String("id", meeting.ID), zap.Error(err))
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// GetMeeting retrieves a meeting by ID
func (r *CompensationRepository) GetMeeting(ctx context.Context, id string) (*entity.CompensationMeeting, error) {
	query := selectMeeting + ` WHERE id = ?`

	meeting, err := scanMeeting(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get meeting", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// GetMeetings retrieves all meetings of a negotiation record
func (r *CompensationRepository) GetMeetings(ctx context.Context, compensationID string) ([]*entity.CompensationMeeting, error) {
	query := selectMeeting + ` WHERE compensation_id = ? ORDER BY scheduled_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, compensationID)
	if err != nil {
		r.logger.Error("Failed to list meetings", zap.String("compensation_id", compensationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var out []*entity.CompensationMeeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		out = append(out, meeting)
	}
	return out, rows.Err()
}

// UpdateMeetingStatus updates a meeting's status, notes and completion time
func (r *CompensationRepository) UpdateMeetingStatus(ctx context.Context, id, status, notes string, completedAt *time.Time) error {
	query := `
		UPDATE compensation_meetings
		SET status = ?, notes = CASE WHEN ? != '' THEN ? ELSE notes END, completed_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, notes, notes, completedAt, id)
	if err != nil {
		r.logger.Error("Failed to update meeting status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update meeting status: %w", err)
	}
	return nil
}

const selectMeeting = `
	SELECT id, compensation_id, type, scheduled_at, location,
		meeting_link, status, notes, completed_at, created_at
	FROM compensation_meetings`

func scanMeeting(row rowScanner) (*entity.CompensationMeeting, error) {
	var meeting entity.CompensationMeeting
	var completedAt sql.NullTime

	err := row.Scan(
		&meeting.ID,
		&meeting.CompensationID,
		&meeting.Type,
		&meeting.ScheduledAt,
		&meeting.Location,
		&meeting.MeetingLink,
		&meeting.Status,
		&meeting.Notes,
		&completedAt,
		&meeting.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		meeting.CompletedAt = &completedAt.Time
	}
	return &meeting, nil
}

// Verify interface compliance
var _ port.CompensationRepository = (*CompensationRepository)(nil)
