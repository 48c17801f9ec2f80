package entity

import "time"

// Interview is a single interview round scheduled for an application.
// Rescheduling cancels the record and creates a new one; a scheduled
// record's date is never mutated in place.
type Interview struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Type          string    `json:"type"` // online or offline
	MeetingLink   string    `json:"meeting_link,omitempty"`
	Location      string    `json:"location,omitempty"`
	Status        string    `json:"status"`

	// Feedback, present only once the interview is completed.
	Rating   int    `json:"rating,omitempty"`
	Feedback string `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive returns true while the interview still counts toward the
// derived INTERVIEW sub-stage.
func (i *Interview) IsActive() bool {
	return i.Status != InterviewStatusCancelled
}

// HasFeedback returns true once feedback has been recorded.
func (i *Interview) HasFeedback() bool {
	return i.Rating > 0 || i.Feedback != ""
}
