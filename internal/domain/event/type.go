package event

// Type identifies a domain event emitted by the pipeline engine.
type Type string

const (
	TypeStageChanged         Type = "stage.changed"
	TypeInterviewScheduled   Type = "interview.scheduled"
	TypeTaskAssigned         Type = "task.assigned"
	TypeCompensationApproved Type = "compensation.approved"
	TypeOfferSent            Type = "offer.sent"
	TypeOfferSigned          Type = "offer.signed"
	TypeOfferDeclined        Type = "offer.declined"
	TypeApplicationHired     Type = "application.hired"
	TypeApplicationRejected  Type = "application.rejected"
	TypeCommentAdded         Type = "comment.added"
)

// String returns the string representation of the event type.
func (t Type) String() string {
	return string(t)
}
