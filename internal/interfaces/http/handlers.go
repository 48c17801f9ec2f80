package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/ats/internal/application/service"
	"github.com/hirestack/ats/internal/domain/pipeline"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	applications  service.ApplicationService
	interviews    service.InterviewService
	tasks         service.TaskService
	compensations service.CompensationService
	offers        service.OfferService
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	applications service.ApplicationService,
	interviews service.InterviewService,
	tasks service.TaskService,
	compensations service.CompensationService,
	offers service.OfferService,
	logger Logger,
) *Handlers {
	return &Handlers{
		applications:  applications,
		interviews:    interviews,
		tasks:         tasks,
		compensations: compensations,
		offers:        offers,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrConflict),
		errors.Is(err, pipeline.ErrInvalidTransition),
		errors.Is(err, pipeline.ErrTerminalState):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrPrecondition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		msg = "internal error"
	}
	c.JSON(status, Response{Success: false, Error: msg})
}

func (h *Handlers) respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// actor reads the acting user from the X-Actor-ID header. Empty means
// system-authored audit entries.
func actor(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.respond(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ConfigurePipelineRequest carries the stage sequence for a job.
type ConfigurePipelineRequest struct {
	Stages []string `json:"stages" binding:"required,min=1"`
}

// ConfigurePipeline handles PUT /api/jobs/:jobID/pipeline
func (h *Handlers) ConfigurePipeline(c *gin.Context) {
	var req ConfigurePipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	stages := make([]pipeline.Stage, 0, len(req.Stages))
	for _, name := range req.Stages {
		stage, err := pipeline.ParseStage(name)
		if err != nil {
			h.respondError(c, err)
			return
		}
		stages = append(stages, stage)
	}

	cfg, err := h.applications.ConfigurePipeline(c.Request.Context(), c.Param("jobID"), stages)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, cfg)
}

// SubmitApplicationRequest opens an application against a job.
type SubmitApplicationRequest struct {
	JobID     string `json:"job_id" binding:"required"`
	SeekerID  string `json:"seeker_id" binding:"required"`
	CompanyID string `json:"company_id" binding:"required"`
}

// SubmitApplication handles POST /api/applications
func (h *Handlers) SubmitApplication(c *gin.Context) {
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), service.SubmitApplicationInput{
		JobID:     req.JobID,
		SeekerID:  req.SeekerID,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, app)
}

// GetApplication handles GET /api/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	app, err := h.applications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, app)
}

// ListApplicationsRequest represents query parameters for listing.
type ListApplicationsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ListApplications handles GET /api/jobs/:jobID/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	var req ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	apps, err := h.applications.ListByJob(c.Request.Context(), c.Param("jobID"), req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, apps)
}

// MoveToStageRequest names the target stage of an explicit advance.
type MoveToStageRequest struct {
	Stage string `json:"stage" binding:"required"`
	Note  string `json:"note"`
}

// MoveToStage handles POST /api/applications/:id/stage
func (h *Handlers) MoveToStage(c *gin.Context) {
	var req MoveToStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	stage, err := pipeline.ParseStage(req.Stage)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.applications.MoveToStage(c.Request.Context(), c.Param("id"), stage, actor(c), req.Note); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// DecisionRequest carries the optional note of a hire/reject decision.
type DecisionRequest struct {
	Note string `json:"note"`
}

// Hire handles POST /api/applications/:id/hire
func (h *Handlers) Hire(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.applications.Hire(c.Request.Context(), c.Param("id"), actor(c), req.Note); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// Reject handles POST /api/applications/:id/reject
func (h *Handlers) Reject(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.applications.Reject(c.Request.Context(), c.Param("id"), actor(c), req.Note); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// AddCommentRequest appends a note to the timeline.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment handles POST /api/applications/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	comment, err := h.applications.AddComment(c.Request.Context(), c.Param("id"), actor(c), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, comment)
}

// ListComments handles GET /api/applications/:id/comments?stage=
func (h *Handlers) ListComments(c *gin.Context) {
	id := c.Param("id")
	if stageName := c.Query("stage"); stageName != "" {
		stage, err := pipeline.ParseStage(stageName)
		if err != nil {
			h.respondError(c, err)
			return
		}
		comments, err := h.applications.StageComments(c.Request.Context(), id, stage)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respond(c, http.StatusOK, comments)
		return
	}

	comments, err := h.applications.ListComments(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, comments)
}

// InterviewSummary handles GET /api/applications/:id/interview-summary
func (h *Handlers) InterviewSummary(c *gin.Context) {
	summary, err := h.applications.InterviewSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, summary)
}

// ScheduleInterviewRequest books an interview round.
type ScheduleInterviewRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=online offline"`
	MeetingLink string    `json:"meeting_link"`
	Location    string    `json:"location"`
}

// ScheduleInterview handles POST /api/applications/:id/interviews
func (h *Handlers) ScheduleInterview(c *gin.Context) {
	var req ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	iv, err := h.interviews.Schedule(c.Request.Context(), service.ScheduleInterviewInput{
		ApplicationID: c.Param("id"),
		ScheduledAt:   req.ScheduledAt,
		Type:          req.Type,
		MeetingLink:   req.MeetingLink,
		Location:      req.Location,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, iv)
}

// ListInterviews handles GET /api/applications/:id/interviews
func (h *Handlers) ListInterviews(c *gin.Context) {
	ivs, err := h.interviews.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, ivs)
}

// RescheduleInterviewRequest carries the replacement time.
type RescheduleInterviewRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// RescheduleInterview handles POST /api/interviews/:id/reschedule
func (h *Handlers) RescheduleInterview(c *gin.Context) {
	var req RescheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	iv, err := h.interviews.Reschedule(c.Request.Context(), c.Param("id"), req.ScheduledAt, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, iv)
}

// CompleteInterview handles POST /api/interviews/:id/complete
func (h *Handlers) CompleteInterview(c *gin.Context) {
	if err := h.interviews.Complete(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// CancelInterview handles POST /api/interviews/:id/cancel
func (h *Handlers) CancelInterview(c *gin.Context) {
	if err := h.interviews.Cancel(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// FeedbackRequest records the outcome of a completed round or task.
type FeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// InterviewFeedback handles POST /api/interviews/:id/feedback
func (h *Handlers) InterviewFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.interviews.SubmitFeedback(c.Request.Context(), c.Param("id"), req.Rating, req.Feedback, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// AssignTaskRequest hands out a technical task.
type AssignTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	DocumentURL string    `json:"document_url"`
}

// AssignTask handles POST /api/applications/:id/tasks
func (h *Handlers) AssignTask(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), service.AssignTaskInput{
		ApplicationID: c.Param("id"),
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		DocumentURL:   req.DocumentURL,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, task)
}

// ListTasks handles GET /api/applications/:id/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, tasks)
}

// SubmitTaskRequest records the candidate's solution.
type SubmitTaskRequest struct {
	SubmissionURL string `json:"submission_url" binding:"required"`
	Note          string `json:"note"`
}

// SubmitTask handles POST /api/tasks/:id/submit
func (h *Handlers) SubmitTask(c *gin.Context) {
	var req SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.tasks.Submit(c.Request.Context(), c.Param("id"), req.SubmissionURL, req.Note, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// StartTaskReview handles POST /api/tasks/:id/review
func (h *Handlers) StartTaskReview(c *gin.Context) {
	if err := h.tasks.StartReview(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// CompleteTask handles POST /api/tasks/:id/complete
func (h *Handlers) CompleteTask(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.tasks.Complete(c.Request.Context(), c.Param("id"), req.Rating, req.Feedback, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// RevokeTask handles POST /api/tasks/:id/revoke
func (h *Handlers) RevokeTask(c *gin.Context) {
	if err := h.tasks.Revoke(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// InitiateCompensationRequest opens the negotiation record.
type InitiateCompensationRequest struct {
	CandidateExpected float64 `json:"candidate_expected" binding:"required,gt=0"`
	Notes             string  `json:"notes"`
}

// InitiateCompensation handles POST /api/applications/:id/compensation
func (h *Handlers) InitiateCompensation(c *gin.Context) {
	var req InitiateCompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	rec, err := h.compensations.Initiate(c.Request.Context(), service.InitiateCompensationInput{
		ApplicationID:     c.Param("id"),
		CandidateExpected: req.CandidateExpected,
		Notes:             req.Notes,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, rec)
}

// GetCompensation handles GET /api/applications/:id/compensation
func (h *Handlers) GetCompensation(c *gin.Context) {
	rec, err := h.compensations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, rec)
}

// UpdateCompensationRequest revises the negotiation terms.
type UpdateCompensationRequest struct {
	CompanyProposed float64    `json:"company_proposed"`
	FinalAgreed     float64    `json:"final_agreed"`
	Benefits        []string   `json:"benefits"`
	ExpectedJoining *time.Time `json:"expected_joining"`
	Notes           string     `json:"notes"`
}

// UpdateCompensation handles PATCH /api/applications/:id/compensation
func (h *Handlers) UpdateCompensation(c *gin.Context) {
	var req UpdateCompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	rec, err := h.compensations.Update(c.Request.Context(), c.Param("id"), service.UpdateCompensationInput{
		CompanyProposed: req.CompanyProposed,
		FinalAgreed:     req.FinalAgreed,
		Benefits:        req.Benefits,
		ExpectedJoining: req.ExpectedJoining,
		Notes:           req.Notes,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, rec)
}

// ApproveCompensationRequest names the approver.
type ApproveCompensationRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
}

// ApproveCompensation handles POST /api/applications/:id/compensation/approve
func (h *Handlers) ApproveCompensation(c *gin.Context) {
	var req ApproveCompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.compensations.Approve(c.Request.Context(), c.Param("id"), req.ApprovedBy); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// ScheduleMeetingRequest books a negotiation meeting.
type ScheduleMeetingRequest struct {
	Type        string    `json:"type" binding:"required,oneof=call online in_person"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meeting_link"`
}

// ScheduleCompensationMeeting handles POST /api/applications/:id/compensation/meetings
func (h *Handlers) ScheduleCompensationMeeting(c *gin.Context) {
	var req ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	meeting, err := h.compensations.ScheduleMeeting(c.Request.Context(), service.ScheduleCompensationMeetingInput{
		ApplicationID: c.Param("id"),
		Type:          req.Type,
		ScheduledAt:   req.ScheduledAt,
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, meeting)
}

// ListCompensationMeetings handles GET /api/applications/:id/compensation/meetings
func (h *Handlers) ListCompensationMeetings(c *gin.Context) {
	meetings, err := h.compensations.ListMeetings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, meetings)
}

// MeetingNotesRequest carries the optional meeting notes.
type MeetingNotesRequest struct {
	Notes string `json:"notes"`
}

// CompleteCompensationMeeting handles POST /api/compensation-meetings/:id/complete
func (h *Handlers) CompleteCompensationMeeting(c *gin.Context) {
	var req MeetingNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.compensations.CompleteMeeting(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// CancelCompensationMeeting handles POST /api/compensation-meetings/:id/cancel
func (h *Handlers) CancelCompensationMeeting(c *gin.Context) {
	if err := h.compensations.CancelMeeting(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// CreateOfferRequest sends an offer with its document.
type CreateOfferRequest struct {
	OfferAmount float64 `json:"offer_amount" binding:"required,gt=0"`
	DocumentURL string  `json:"document_url" binding:"required,url"`
}

// CreateOffer handles POST /api/applications/:id/offers
func (h *Handlers) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), service.CreateOfferInput{
		ApplicationID: c.Param("id"),
		OfferAmount:   req.OfferAmount,
		DocumentURL:   req.DocumentURL,
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, offer)
}

// ListOffers handles GET /api/applications/:id/offers
func (h *Handlers) ListOffers(c *gin.Context) {
	offers, err := h.offers.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, offers)
}

// AcceptOfferRequest carries the signed document upload.
type AcceptOfferRequest struct {
	SignedDocumentURL string `json:"signed_document_url" binding:"required"`
}

// AcceptOffer handles POST /api/offers/:id/accept
func (h *Handlers) AcceptOffer(c *gin.Context) {
	var req AcceptOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.offers.AcceptWithSignedDocument(c.Request.Context(), c.Param("id"), req.SignedDocumentURL, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// DeclineOfferRequest carries the candidate's optional decline reason.
type DeclineOfferRequest struct {
	Reason string `json:"reason"`
}

// DeclineOffer handles POST /api/offers/:id/decline
func (h *Handlers) DeclineOffer(c *gin.Context) {
	var req DeclineOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.offers.Decline(c.Request.Context(), c.Param("id"), req.Reason, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}

// WithdrawOfferRequest names the company-side withdrawal reason.
type WithdrawOfferRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// WithdrawOffer handles POST /api/offers/:id/withdraw
func (h *Handlers) WithdrawOffer(c *gin.Context) {
	var req WithdrawOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.offers.Withdraw(c.Request.Context(), c.Param("id"), req.Reason, actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, nil)
}
