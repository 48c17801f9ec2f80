package entity

import "time"

// CompensationRecord tracks the salary negotiation for an application.
// At most one record exists per application; it becomes immutable once
// ApprovedAt is set.
type CompensationRecord struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`

	CandidateExpected float64    `json:"candidate_expected,omitempty"`
	CompanyProposed   float64    `json:"company_proposed,omitempty"`
	FinalAgreed       float64    `json:"final_agreed,omitempty"`
	Benefits          []string   `json:"benefits,omitempty"`
	ExpectedJoining   *time.Time `json:"expected_joining,omitempty"`
	Notes             string     `json:"notes,omitempty"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsApproved returns true once the record has been approved and frozen.
func (r *CompensationRecord) IsApproved() bool {
	return r.ApprovedAt != nil
}

// CompensationMeeting is a negotiation meeting attached to a
// CompensationRecord. Meetings never alter the compensation sub-stage.
type CompensationMeeting struct {
	ID             string     `json:"id"`
	CompensationID string     `json:"compensation_id"`
	Type           string     `json:"type"` // call, online or in_person
	ScheduledAt    time.Time  `json:"scheduled_at"`
	Location       string     `json:"location,omitempty"`
	MeetingLink    string     `json:"meeting_link,omitempty"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
