package entity

import "time"

// TechnicalTask is a take-home assignment attached to an application.
// At most one active task (not completed, not cancelled) may exist per
// application at a time.
type TechnicalTask struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Deadline      time.Time `json:"deadline"`
	DocumentURL   string    `json:"document_url,omitempty"`
	Status        string    `json:"status"`

	// Candidate submission
	SubmissionURL  string     `json:"submission_url,omitempty"`
	SubmissionNote string     `json:"submission_note,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`

	// Review result, present only once completed.
	Rating   int    `json:"rating,omitempty"`
	Feedback string `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive returns true while the task is neither completed nor cancelled.
func (t *TechnicalTask) IsActive() bool {
	return t.Status != TaskStatusCompleted && t.Status != TaskStatusCancelled
}
