package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/ats/internal/domain/pipeline"
)

func offerInput(appID string) CreateOfferInput {
	return CreateOfferInput{
		ApplicationID: appID,
		OfferAmount:   91000,
		DocumentURL:   "https://files.example.com/offer.pdf",
	}
}

func TestOfferService_CreateRequiresDocument(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	_, err := f.offerSvc.Create(context.Background(), CreateOfferInput{
		ApplicationID: "app-1",
		OfferAmount:   91000,
	}, "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrValidation)
}

func TestOfferService_CreateSendsOffer(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	offer, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "sent", offer.Status)
	require.NotNil(t, offer.SentAt)

	stage, sub := f.stageOf("app-1")
	assert.Equal(t, "OFFER", stage)
	assert.Equal(t, "OFFER_SENT", sub)

	// One outstanding offer at a time.
	_, err = f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrConflict)
}

func TestOfferService_Accept(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	offer, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)

	err = f.offerSvc.AcceptWithSignedDocument(context.Background(), offer.ID, "", "seeker-1")
	assert.ErrorIs(t, err, pipeline.ErrValidation)

	require.NoError(t, f.offerSvc.AcceptWithSignedDocument(context.Background(), offer.ID, "https://files.example.com/offer-signed.pdf", "seeker-1"))

	_, sub := f.stageOf("app-1")
	assert.Equal(t, "OFFER_ACCEPTED", sub)

	stored, err := f.offerSvc.Get(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "signed", stored.Status)
	assert.NotNil(t, stored.SignedAt)

	// A concluded offer cannot be declined.
	err = f.offerSvc.Decline(context.Background(), offer.ID, "", "seeker-1")
	assert.ErrorIs(t, err, pipeline.ErrPrecondition)
}

func TestOfferService_WithdrawAndResend(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	offer, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)

	err = f.offerSvc.Withdraw(context.Background(), offer.ID, "", "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrValidation)

	require.NoError(t, f.offerSvc.Withdraw(context.Background(), offer.ID, "Budget revision for the role", "rec-1"))

	_, sub := f.stageOf("app-1")
	assert.Equal(t, "OFFER_DECLINED", sub)

	stored, err := f.offerSvc.Get(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "declined", stored.Status)
	assert.Equal(t, "Budget revision for the role", stored.WithdrawalReason)

	// The slot is free again; a renewed offer goes out.
	second, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)

	_, sub = f.stageOf("app-1")
	assert.Equal(t, "OFFER_SENT", sub)

	history, err := f.offerSvc.ListByApplication(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.NotEqual(t, offer.ID, second.ID)
}

func TestOfferService_Decline(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	offer, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)

	require.NoError(t, f.offerSvc.Decline(context.Background(), offer.ID, "Accepted another position", "seeker-1"))

	stored, err := f.offerSvc.Get(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "declined", stored.Status)
	assert.Empty(t, stored.WithdrawalReason)

	// The decline reason lands in the timeline, not in the record.
	comments, err := f.applicationSvc.ListComments(context.Background(), "app-1")
	require.NoError(t, err)
	require.NotEmpty(t, comments)
	last := comments[len(comments)-1]
	assert.Equal(t, "Accepted another position", last.Text)
	assert.Equal(t, "seeker-1", last.Author)
}

func TestOfferService_DeclineWithoutReason(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageCompensation, pipeline.SubApproved)

	offer, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	require.NoError(t, err)

	require.NoError(t, f.offerSvc.Decline(context.Background(), offer.ID, "", "seeker-1"))

	stored, err := f.offerSvc.Get(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "declined", stored.Status)
	assert.Empty(t, stored.WithdrawalReason)
}

func TestOfferService_TerminalApplication(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageHired, pipeline.SubNone)

	_, err := f.offerSvc.Create(context.Background(), offerInput("app-1"), "rec-1")
	assert.ErrorIs(t, err, pipeline.ErrTerminalState)
}
