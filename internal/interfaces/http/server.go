// Package http provides the HTTP adapter for the application layer.
// It is a thin translation layer; all pipeline rules live behind the
// services it calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirestack/ats/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	applications service.ApplicationService,
	interviews service.InterviewService,
	tasks service.TaskService,
	compensations service.CompensationService,
	offers service.OfferService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes(NewHandlers(applications, interviews, tasks, compensations, offers, logger))

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		// Job pipeline configuration
		api.PUT("/jobs/:jobID/pipeline", h.ConfigurePipeline)
		api.GET("/jobs/:jobID/applications", h.ListApplications)

		// Application lifecycle
		api.POST("/applications", h.SubmitApplication)
		api.GET("/applications/:id", h.GetApplication)
		api.POST("/applications/:id/stage", h.MoveToStage)
		api.POST("/applications/:id/hire", h.Hire)
		api.POST("/applications/:id/reject", h.Reject)

		// Timeline
		api.POST("/applications/:id/comments", h.AddComment)
		api.GET("/applications/:id/comments", h.ListComments)

		// Interviews
		api.POST("/applications/:id/interviews", h.ScheduleInterview)
		api.GET("/applications/:id/interviews", h.ListInterviews)
		api.GET("/applications/:id/interview-summary", h.InterviewSummary)
		api.POST("/interviews/:id/reschedule", h.RescheduleInterview)
		api.POST("/interviews/:id/complete", h.CompleteInterview)
		api.POST("/interviews/:id/cancel", h.CancelInterview)
		api.POST("/interviews/:id/feedback", h.InterviewFeedback)

		// Technical tasks
		api.POST("/applications/:id/tasks", h.AssignTask)
		api.GET("/applications/:id/tasks", h.ListTasks)
		api.POST("/tasks/:id/submit", h.SubmitTask)
		api.POST("/tasks/:id/review", h.StartTaskReview)
		api.POST("/tasks/:id/complete", h.CompleteTask)
		api.POST("/tasks/:id/revoke", h.RevokeTask)

		// Compensation
		api.POST("/applications/:id/compensation", h.InitiateCompensation)
		api.GET("/applications/:id/compensation", h.GetCompensation)
		api.PATCH("/applications/:id/compensation", h.UpdateCompensation)
		api.POST("/applications/:id/compensation/approve", h.ApproveCompensation)
		api.POST("/applications/:id/compensation/meetings", h.ScheduleCompensationMeeting)
		api.GET("/applications/:id/compensation/meetings", h.ListCompensationMeetings)
		api.POST("/compensation-meetings/:id/complete", h.CompleteCompensationMeeting)
		api.POST("/compensation-meetings/:id/cancel", h.CancelCompensationMeeting)

		// Offers
		api.POST("/applications/:id/offers", h.CreateOffer)
		api.GET("/applications/:id/offers", h.ListOffers)
		api.POST("/offers/:id/accept", h.AcceptOffer)
		api.POST("/offers/:id/decline", h.DeclineOffer)
		api.POST("/offers/:id/withdraw", h.WithdrawOffer)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
