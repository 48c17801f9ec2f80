package service

import (
	"context"
	"time"

	"github.com/hirestack/ats/internal/application/engine"
	"github.com/hirestack/ats/internal/domain/entity"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// In-memory repositories backing the service tests. UpdateStage applies
// the same version guard the SQL implementation does, so the full
// service -> engine -> repository path is exercised.

type memAppRepo struct {
	apps map[string]*entity.Application
}

func newMemAppRepo() *memAppRepo {
	return &memAppRepo{apps: make(map[string]*entity.Application)}
}

func (r *memAppRepo) Create(ctx context.Context, app *entity.Application) error {
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *memAppRepo) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (r *memAppRepo) UpdateStage(ctx context.Context, id, stage, subStage string, version int64) error {
	app, ok := r.apps[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	if app.Version != version {
		return pipeline.ErrConflict
	}
	app.Stage = stage
	app.SubStage = subStage
	app.Version++
	app.UpdatedAt = time.Now()
	return nil
}

func (r *memAppRepo) ListByJobID(ctx context.Context, jobID string, limit, offset int) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memInterviewRepo struct {
	interviews map[string]*entity.Interview
	order      []string
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{interviews: make(map[string]*entity.Interview)}
}

func (r *memInterviewRepo) Create(ctx context.Context, iv *entity.Interview) error {
	r.interviews[iv.ID] = iv
	r.order = append(r.order, iv.ID)
	return nil
}

func (r *memInterviewRepo) GetByID(ctx context.Context, id string) (*entity.Interview, error) {
	return r.interviews[id], nil
}

func (r *memInterviewRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Interview, error) {
	var out []*entity.Interview
	for _, id := range r.order {
		if iv := r.interviews[id]; iv.ApplicationID == applicationID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *memInterviewRepo) UpdateStatus(ctx context.Context, id, status string) error {
	iv, ok := r.interviews[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	iv.Status = status
	iv.UpdatedAt = time.Now()
	return nil
}

func (r *memInterviewRepo) SetFeedback(ctx context.Context, id string, rating int, feedback string) error {
	iv, ok := r.interviews[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	iv.Rating = rating
	iv.Feedback = feedback
	iv.UpdatedAt = time.Now()
	return nil
}

type memTaskRepo struct {
	tasks map[string]*entity.TechnicalTask
	order []string
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*entity.TechnicalTask)}
}

func (r *memTaskRepo) Create(ctx context.Context, task *entity.TechnicalTask) error {
	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)
	return nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id string) (*entity.TechnicalTask, error) {
	return r.tasks[id], nil
}

func (r *memTaskRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.TechnicalTask, error) {
	var out []*entity.TechnicalTask
	for _, id := range r.order {
		if task := r.tasks[id]; task.ApplicationID == applicationID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *memTaskRepo) GetActive(ctx context.Context, applicationID string) (*entity.TechnicalTask, error) {
	for _, id := range r.order {
		task := r.tasks[id]
		if task.ApplicationID == applicationID && task.IsActive() {
			return task, nil
		}
	}
	return nil, nil
}

func (r *memTaskRepo) UpdateStatus(ctx context.Context, id, status string) error {
	task, ok := r.tasks[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

func (r *memTaskRepo) SetSubmission(ctx context.Context, id, submissionURL, note string, at time.Time) error {
	task, ok := r.tasks[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	task.Status = entity.TaskStatusSubmitted
	task.SubmissionURL = submissionURL
	task.SubmissionNote = note
	task.SubmittedAt = &at
	task.UpdatedAt = time.Now()
	return nil
}

func (r *memTaskRepo) Complete(ctx context.Context, id string, rating int, feedback string) error {
	task, ok := r.tasks[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	task.Status = entity.TaskStatusCompleted
	task.Rating = rating
	task.Feedback = feedback
	task.UpdatedAt = time.Now()
	return nil
}

type memCompensationRepo struct {
	records  map[string]*entity.CompensationRecord // keyed by application ID
	meetings map[string]*entity.CompensationMeeting
}

func newMemCompensationRepo() *memCompensationRepo {
	return &memCompensationRepo{
		records:  make(map[string]*entity.CompensationRecord),
		meetings: make(map[string]*entity.CompensationMeeting),
	}
}

func (r *memCompensationRepo) Create(ctx context.Context, rec *entity.CompensationRecord) error {
	cp := *rec
	r.records[rec.ApplicationID] = &cp
	return nil
}

func (r *memCompensationRepo) GetByApplicationID(ctx context.Context, applicationID string) (*entity.CompensationRecord, error) {
	rec, ok := r.records[applicationID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memCompensationRepo) Update(ctx context.Context, rec *entity.CompensationRecord) error {
	cp := *rec
	r.records[rec.ApplicationID] = &cp
	return nil
}

func (r *memCompensationRepo) Approve(ctx context.Context, id, approvedBy string, at time.Time) error {
	for _, rec := range r.records {
		if rec.ID == id {
			rec.ApprovedAt = &at
			rec.ApprovedBy = approvedBy
			rec.UpdatedAt = time.Now()
			return nil
		}
	}
	return pipeline.ErrNotFound
}

func (r *memCompensationRepo) CreateMeeting(ctx context.Context, meeting *entity.CompensationMeeting) error {
	r.meetings[meeting.ID] = meeting
	return nil
}

func (r *memCompensationRepo) GetMeeting(ctx context.Context, id string) (*entity.CompensationMeeting, error) {
	return r.meetings[id], nil
}

func (r *memCompensationRepo) GetMeetings(ctx context.Context, compensationID string) ([]*entity.CompensationMeeting, error) {
	var out []*entity.CompensationMeeting
	for _, m := range r.meetings {
		if m.CompensationID == compensationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memCompensationRepo) UpdateMeetingStatus(ctx context.Context, id, status, notes string, completedAt *time.Time) error {
	m, ok := r.meetings[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	m.Status = status
	if notes != "" {
		m.Notes = notes
	}
	m.CompletedAt = completedAt
	return nil
}

type memOfferRepo struct {
	offers map[string]*entity.OfferDocument
	order  []string
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[string]*entity.OfferDocument)}
}

func (r *memOfferRepo) Create(ctx context.Context, offer *entity.OfferDocument) error {
	r.offers[offer.ID] = offer
	r.order = append(r.order, offer.ID)
	return nil
}

func (r *memOfferRepo) GetByID(ctx context.Context, id string) (*entity.OfferDocument, error) {
	return r.offers[id], nil
}

func (r *memOfferRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.OfferDocument, error) {
	var out []*entity.OfferDocument
	for _, id := range r.order {
		if offer := r.offers[id]; offer.ApplicationID == applicationID {
			out = append(out, offer)
		}
	}
	return out, nil
}

func (r *memOfferRepo) GetOutstanding(ctx context.Context, applicationID string) (*entity.OfferDocument, error) {
	for _, id := range r.order {
		offer := r.offers[id]
		if offer.ApplicationID == applicationID && offer.Status == entity.OfferStatusSent {
			return offer, nil
		}
	}
	return nil, nil
}

func (r *memOfferRepo) MarkSigned(ctx context.Context, id, signedDocumentURL string, at time.Time) error {
	offer, ok := r.offers[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	offer.Status = entity.OfferStatusSigned
	offer.SignedDocumentURL = signedDocumentURL
	offer.SignedAt = &at
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *memOfferRepo) MarkDeclined(ctx context.Context, id, withdrawalReason string, at time.Time) error {
	offer, ok := r.offers[id]
	if !ok {
		return pipeline.ErrNotFound
	}
	offer.Status = entity.OfferStatusDeclined
	offer.WithdrawalReason = withdrawalReason
	offer.DeclinedAt = &at
	offer.UpdatedAt = time.Now()
	return nil
}

type memCommentRepo struct {
	comments []*entity.Comment
}

func (r *memCommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	r.comments = append(r.comments, c)
	return nil
}

func (r *memCommentRepo) GetByApplicationID(ctx context.Context, applicationID string) ([]*entity.Comment, error) {
	var out []*entity.Comment
	for _, c := range r.comments {
		if c.ApplicationID == applicationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) GetByStage(ctx context.Context, applicationID, stage string) ([]*entity.Comment, error) {
	var out []*entity.Comment
	for _, c := range r.comments {
		if c.ApplicationID == applicationID && c.Stage == stage {
			out = append(out, c)
		}
	}
	return out, nil
}

type staticConfigProvider struct {
	cfg *pipeline.Config
}

func (p *staticConfigProvider) PipelineConfig(ctx context.Context, jobID string) (*pipeline.Config, error) {
	return p.cfg, nil
}

func (p *staticConfigProvider) Save(ctx context.Context, cfg *pipeline.Config) error {
	p.cfg = cfg
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) AfterCommit(ctx context.Context, fn func()) {
	fn()
}

// fixture wires real services and a real engine over in-memory storage.
type fixture struct {
	apps          *memAppRepo
	interviews    *memInterviewRepo
	tasks         *memTaskRepo
	compensations *memCompensationRepo
	offers        *memOfferRepo
	comments      *memCommentRepo

	engine engine.Engine

	applicationSvc  ApplicationService
	interviewSvc    InterviewService
	taskSvc         TaskService
	compensationSvc CompensationService
	offerSvc        OfferService
}

func newFixture(stages ...pipeline.Stage) *fixture {
	if len(stages) == 0 {
		stages = []pipeline.Stage{
			pipeline.StageShortlisted,
			pipeline.StageInterview,
			pipeline.StageTechnicalTask,
			pipeline.StageCompensation,
			pipeline.StageOffer,
		}
	}

	f := &fixture{
		apps:          newMemAppRepo(),
		interviews:    newMemInterviewRepo(),
		tasks:         newMemTaskRepo(),
		compensations: newMemCompensationRepo(),
		offers:        newMemOfferRepo(),
		comments:      &memCommentRepo{},
	}

	provider := &staticConfigProvider{cfg: &pipeline.Config{JobID: "job-1", EnabledStages: stages}}
	tx := passthroughTxManager{}

	f.engine = engine.New(f.apps, f.comments, provider, tx, nil, nil)
	f.applicationSvc = NewApplicationService(f.apps, f.interviews, f.comments, provider, f.engine, tx, nil, nil)
	f.interviewSvc = NewInterviewService(f.apps, f.interviews, f.engine, tx, nil, nil)
	f.taskSvc = NewTaskService(f.apps, f.tasks, f.engine, tx, nil, nil)
	f.compensationSvc = NewCompensationService(f.apps, f.compensations, f.engine, tx, nil, nil)
	f.offerSvc = NewOfferService(f.apps, f.offers, f.engine, tx, nil, nil)

	return f
}

// seedApplication stores an application directly at the given position.
func (f *fixture) seedApplication(id string, stage pipeline.Stage, sub pipeline.SubStage) *entity.Application {
	now := time.Now()
	app := &entity.Application{
		ID:        id,
		JobID:     "job-1",
		SeekerID:  "seeker-1",
		CompanyID: "company-1",
		Stage:     stage.String(),
		SubStage:  sub.String(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.apps.apps[id] = app
	return app
}

// stageOf reads the stored stage and sub-stage back.
func (f *fixture) stageOf(id string) (string, string) {
	app := f.apps.apps[id]
	if app == nil {
		return "", ""
	}
	return app.Stage, app.SubStage
}
