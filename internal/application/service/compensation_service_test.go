package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/ats/internal/domain/pipeline"
)

func TestCompensationService_NegotiationFlow(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageTechnicalTask, pipeline.SubCompleted)

	rec, err := f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID:     "app-1",
		CandidateExpected: 95000,
		Notes:             "Candidate expectation from screening call",
	}, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	stage, sub := f.stageOf("app-1")
	assert.Equal(t, "COMPENSATION", stage)
	assert.Equal(t, "INITIATED", sub)

	// A duplicate record is refused.
	_, err = f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID:     "app-1",
		CandidateExpected: 90000,
	}, "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrConflict)

	// The first company proposal is still part of initiation.
	joining := time.Now().Add(30 * 24 * time.Hour)
	rec, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{
		CompanyProposed: 88000,
		Benefits:        []string{"health insurance", "remote fridays"},
		ExpectedJoining: &joining,
	}, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, float64(88000), rec.CompanyProposed)
	assert.Equal(t, float64(95000), rec.CandidateExpected)

	_, sub = f.stageOf("app-1")
	assert.Equal(t, "INITIATED", sub)

	// The second touch, with a proposal already on record, opens negotiation.
	rec, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{
		CompanyProposed: 90000,
	}, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, float64(90000), rec.CompanyProposed)

	_, sub = f.stageOf("app-1")
	assert.Equal(t, "NEGOTIATION_ONGOING", sub)

	// Further revisions keep negotiating without another sub-stage move.
	rec, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{
		FinalAgreed: 91000,
	}, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, float64(91000), rec.FinalAgreed)

	_, sub = f.stageOf("app-1")
	assert.Equal(t, "NEGOTIATION_ONGOING", sub)

	require.NoError(t, f.compensationSvc.Approve(context.Background(), "app-1", "hiring-manager"))

	_, sub = f.stageOf("app-1")
	assert.Equal(t, "APPROVED", sub)

	stored, err := f.compensationSvc.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.True(t, stored.IsApproved())
	assert.Equal(t, "hiring-manager", stored.ApprovedBy)
}

func TestCompensationService_ApprovedRecordIsFrozen(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageTechnicalTask, pipeline.SubCompleted)

	_, err := f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID:     "app-1",
		CandidateExpected: 80000,
	}, "rec-1")
	require.NoError(t, err)
	_, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{CompanyProposed: 78000}, "rec-1")
	require.NoError(t, err)
	_, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{FinalAgreed: 82000}, "rec-1")
	require.NoError(t, err)
	require.NoError(t, f.compensationSvc.Approve(context.Background(), "app-1", "hiring-manager"))

	_, err = f.compensationSvc.Update(context.Background(), "app-1", UpdateCompensationInput{FinalAgreed: 70000}, "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrPrecondition)

	err = f.compensationSvc.Approve(context.Background(), "app-1", "hiring-manager")
	assert.ErrorIs(t, err, pipeline.ErrPrecondition)
}

func TestCompensationService_ApproveRequiresNegotiation(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageTechnicalTask, pipeline.SubCompleted)

	_, err := f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID:     "app-1",
		CandidateExpected: 80000,
	}, "rec-1")
	require.NoError(t, err)

	// Approval straight from INITIATED is refused.
	err = f.compensationSvc.Approve(context.Background(), "app-1", "hiring-manager")
	assert.ErrorIs(t, err, pipeline.ErrPrecondition)
}

func TestCompensationService_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID: "app-1",
	}, "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrValidation)

	err = f.compensationSvc.Approve(context.Background(), "app-1", "")
	assert.ErrorIs(t, err, pipeline.ErrValidation)
}

func TestCompensationService_Meetings(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageTechnicalTask, pipeline.SubCompleted)

	_, err := f.compensationSvc.Initiate(context.Background(), InitiateCompensationInput{
		ApplicationID:     "app-1",
		CandidateExpected: 80000,
	}, "rec-1")
	require.NoError(t, err)

	meeting, err := f.compensationSvc.ScheduleMeeting(context.Background(), ScheduleCompensationMeetingInput{
		ApplicationID: "app-1",
		Type:          "call",
		ScheduledAt:   time.Now().Add(24 * time.Hour),
	}, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "scheduled", meeting.Status)

	// Meetings never move the pipeline.
	_, sub := f.stageOf("app-1")
	assert.Equal(t, "INITIATED", sub)

	require.NoError(t, f.compensationSvc.CompleteMeeting(context.Background(), meeting.ID, "Agreed on base, benefits open"))

	err = f.compensationSvc.CancelMeeting(context.Background(), meeting.ID)
	assert.ErrorIs(t, err, pipeline.ErrPrecondition)

	meetings, err := f.compensationSvc.ListMeetings(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Len(t, meetings, 1)
}
