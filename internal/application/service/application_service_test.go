package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hirestack/ats/internal/application/engine"
	"github.com/hirestack/ats/internal/domain/entity"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// spyTxManager records whether repository writes land inside a
// transaction.
type spyTxManager struct {
	inTx  bool
	calls int
}

func (m *spyTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(ctx)
}

func (m *spyTxManager) AfterCommit(ctx context.Context, fn func()) {
	fn()
}

type txTrackingAppRepo struct {
	*memAppRepo
	tx          *spyTxManager
	createdInTx bool
}

func (r *txTrackingAppRepo) Create(ctx context.Context, app *entity.Application) error {
	r.createdInTx = r.tx.inTx
	return r.memAppRepo.Create(ctx, app)
}

type txTrackingCommentRepo struct {
	memCommentRepo
	tx          *spyTxManager
	createdInTx bool
}

func (r *txTrackingCommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	r.createdInTx = r.tx.inTx
	return r.memCommentRepo.Create(ctx, c)
}

func TestApplicationService_ConfigurePipeline(t *testing.T) {
	f := newFixture()

	cfg, err := f.applicationSvc.ConfigurePipeline(context.Background(), "job-2", []pipeline.Stage{
		pipeline.StageShortlisted,
		pipeline.StageOffer,
	})
	if err != nil {
		t.Fatalf("ConfigurePipeline() failed: %v", err)
	}
	if len(cfg.EnabledStages) != 2 {
		t.Errorf("stored %d stages, want 2", len(cfg.EnabledStages))
	}

	// Terminal stages are implicit and cannot be configured.
	_, err = f.applicationSvc.ConfigurePipeline(context.Background(), "job-2", []pipeline.Stage{
		pipeline.StageShortlisted,
		pipeline.StageHired,
	})
	if !errors.Is(err, pipeline.ErrValidation) {
		t.Errorf("ConfigurePipeline() with terminal stage error = %v, want ErrValidation", err)
	}
}

func TestApplicationService_Submit(t *testing.T) {
	f := newFixture()

	app, err := f.applicationSvc.Submit(context.Background(), SubmitApplicationInput{
		JobID:     "job-1",
		SeekerID:  "seeker-1",
		CompanyID: "company-1",
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if app.Stage != "IN_REVIEW" || app.SubStage != "" {
		t.Errorf("new application at %s/%s, want IN_REVIEW/\"\"", app.Stage, app.SubStage)
	}
	if app.Version != 1 {
		t.Errorf("new application version = %d, want 1", app.Version)
	}

	comments, _ := f.comments.GetByApplicationID(context.Background(), app.ID)
	if len(comments) != 1 || comments[0].Text != "Application submitted" {
		t.Errorf("expected the opening audit comment, got %+v", comments)
	}
}

func TestApplicationService_SubmitWritesAtomically(t *testing.T) {
	tx := &spyTxManager{}
	apps := &txTrackingAppRepo{memAppRepo: newMemAppRepo(), tx: tx}
	comments := &txTrackingCommentRepo{tx: tx}
	provider := &staticConfigProvider{cfg: &pipeline.Config{
		JobID:         "job-1",
		EnabledStages: []pipeline.Stage{pipeline.StageShortlisted},
	}}
	eng := engine.New(apps, comments, provider, tx, nil, nil)
	svc := NewApplicationService(apps, newMemInterviewRepo(), comments, provider, eng, tx, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitApplicationInput{
		JobID:     "job-1",
		SeekerID:  "seeker-1",
		CompanyID: "company-1",
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if tx.calls != 1 {
		t.Errorf("Submit() opened %d transactions, want 1", tx.calls)
	}
	if !apps.createdInTx {
		t.Error("application row written outside the transaction")
	}
	if !comments.createdInTx {
		t.Error("opening comment written outside the transaction")
	}
}

func TestApplicationService_Submit_MissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.applicationSvc.Submit(context.Background(), SubmitApplicationInput{JobID: "job-1"})
	if !errors.Is(err, pipeline.ErrValidation) {
		t.Errorf("Submit() error = %v, want ErrValidation", err)
	}
}

func TestApplicationService_MoveToStage(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageInReview, pipeline.SubNone)

	if err := f.applicationSvc.MoveToStage(context.Background(), "app-1", pipeline.StageShortlisted, "rec-1", "Strong CV"); err != nil {
		t.Fatalf("MoveToStage() failed: %v", err)
	}
	stage, sub := f.stageOf("app-1")
	if stage != "SHORTLISTED" || sub != "READY_FOR_INTERVIEW" {
		t.Errorf("application at %s/%s, want SHORTLISTED/READY_FOR_INTERVIEW", stage, sub)
	}

	comments, _ := f.comments.GetByApplicationID(context.Background(), "app-1")
	if len(comments) != 1 || comments[0].Text != "Strong CV" {
		t.Errorf("expected one comment with the recruiter note, got %+v", comments)
	}
}

func TestApplicationService_MoveToStage_SkipsStage(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageInReview, pipeline.SubNone)

	err := f.applicationSvc.MoveToStage(context.Background(), "app-1", pipeline.StageOffer, "rec-1", "")
	if !errors.Is(err, pipeline.ErrInvalidTransition) {
		t.Errorf("MoveToStage() error = %v, want ErrInvalidTransition", err)
	}
}

func TestApplicationService_MoveToStage_HonorsJobConfig(t *testing.T) {
	// Job without TECHNICAL_TASK and COMPENSATION.
	f := newFixture(pipeline.StageShortlisted, pipeline.StageInterview, pipeline.StageOffer)
	f.seedApplication("app-1", pipeline.StageInterview, pipeline.SubEvaluationPending)

	if err := f.applicationSvc.MoveToStage(context.Background(), "app-1", pipeline.StageOffer, "rec-1", ""); err != nil {
		t.Fatalf("MoveToStage() to the configured next stage failed: %v", err)
	}
	stage, sub := f.stageOf("app-1")
	if stage != "OFFER" || sub != "NOT_SENT" {
		t.Errorf("application at %s/%s, want OFFER/NOT_SENT", stage, sub)
	}
}

func TestApplicationService_RejectThenMutate(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageInterview, pipeline.SubScheduled)

	if err := f.applicationSvc.Reject(context.Background(), "app-1", "rec-1", "Position filled"); err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}
	stage, _ := f.stageOf("app-1")
	if stage != "REJECTED" {
		t.Fatalf("application at %s, want REJECTED", stage)
	}

	err := f.applicationSvc.MoveToStage(context.Background(), "app-1", pipeline.StageTechnicalTask, "rec-1", "")
	if !errors.Is(err, pipeline.ErrTerminalState) {
		t.Errorf("MoveToStage() after rejection error = %v, want ErrTerminalState", err)
	}

	// The timeline stays writable after the decision.
	if _, err := f.applicationSvc.AddComment(context.Background(), "app-1", "rec-1", "Keep on file for next opening"); err != nil {
		t.Errorf("AddComment() on rejected application failed: %v", err)
	}
}

func TestApplicationService_Hire(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageOffer, pipeline.SubOfferAccepted)

	if err := f.applicationSvc.Hire(context.Background(), "app-1", "rec-1", ""); err != nil {
		t.Fatalf("Hire() failed: %v", err)
	}
	stage, sub := f.stageOf("app-1")
	if stage != "HIRED" || sub != "" {
		t.Errorf("application at %s/%s, want HIRED/\"\"", stage, sub)
	}
}

func TestApplicationService_AddComment_Validation(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageInReview, pipeline.SubNone)

	if _, err := f.applicationSvc.AddComment(context.Background(), "app-1", "rec-1", ""); !errors.Is(err, pipeline.ErrValidation) {
		t.Errorf("empty comment error = %v, want ErrValidation", err)
	}
	if _, err := f.applicationSvc.AddComment(context.Background(), "missing", "rec-1", "hello"); !errors.Is(err, pipeline.ErrNotFound) {
		t.Errorf("unknown application error = %v, want ErrNotFound", err)
	}
}

func TestApplicationService_InterviewSummary(t *testing.T) {
	f := newFixture()
	f.seedApplication("app-1", pipeline.StageInterview, pipeline.SubScheduled)

	summary, err := f.applicationSvc.InterviewSummary(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("InterviewSummary() failed: %v", err)
	}
	if summary.InterviewsConducted != 0 {
		t.Errorf("InterviewsConducted = %d, want 0", summary.InterviewsConducted)
	}
}
