package entity

// Interview status constants
const (
	InterviewStatusScheduled = "scheduled"
	InterviewStatusCompleted = "completed"
	InterviewStatusCancelled = "cancelled"
)

// Interview type constants
const (
	InterviewTypeOnline  = "online"
	InterviewTypeOffline = "offline"
)

// Technical task status constants
const (
	TaskStatusAssigned    = "assigned"
	TaskStatusSubmitted   = "submitted"
	TaskStatusUnderReview = "under_review"
	TaskStatusCompleted   = "completed"
	TaskStatusCancelled   = "cancelled"
)

// Compensation meeting status constants
const (
	MeetingStatusScheduled = "scheduled"
	MeetingStatusCompleted = "completed"
	MeetingStatusCancelled = "cancelled"
)

// Compensation meeting type constants
const (
	MeetingTypeCall     = "call"
	MeetingTypeOnline   = "online"
	MeetingTypeInPerson = "in_person"
)

// Offer document status constants
const (
	OfferStatusDraft    = "draft"
	OfferStatusSent     = "sent"
	OfferStatusSigned   = "signed"
	OfferStatusDeclined = "declined"
)

// SystemAuthor is the author recorded on engine-generated audit comments.
const SystemAuthor = "system"
