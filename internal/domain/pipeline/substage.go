package pipeline

// SubStage is a finer-grained state within a Stage. Stages without
// sub-states (IN_REVIEW, HIRED, REJECTED) use SubNone.
type SubStage string

const (
	SubNone SubStage = ""

	// SHORTLISTED
	SubReadyForInterview SubStage = "READY_FOR_INTERVIEW"

	// INTERVIEW
	SubScheduled         SubStage = "SCHEDULED"
	SubEvaluationPending SubStage = "EVALUATION_PENDING"

	// TECHNICAL_TASK
	SubNotAssigned SubStage = "NOT_ASSIGNED"
	SubAssigned    SubStage = "ASSIGNED"
	SubUnderReview SubStage = "UNDER_REVIEW"
	SubCompleted   SubStage = "COMPLETED"

	// COMPENSATION
	SubNotInitiated       SubStage = "NOT_INITIATED"
	SubInitiated          SubStage = "INITIATED"
	SubNegotiationOngoing SubStage = "NEGOTIATION_ONGOING"
	SubApproved           SubStage = "APPROVED"

	// OFFER
	SubNotSent       SubStage = "NOT_SENT"
	SubOfferSent     SubStage = "OFFER_SENT"
	SubOfferAccepted SubStage = "OFFER_ACCEPTED"
	SubOfferDeclined SubStage = "OFFER_DECLINED"
)

// subStages holds the ordered sub-stage set of each stage. The first
// element is the stage's initial sub-stage.
var subStages = map[Stage][]SubStage{
	StageShortlisted:   {SubReadyForInterview},
	StageInterview:     {SubScheduled, SubEvaluationPending},
	StageTechnicalTask: {SubNotAssigned, SubAssigned, SubUnderReview, SubCompleted},
	StageCompensation:  {SubNotInitiated, SubInitiated, SubNegotiationOngoing, SubApproved},
	StageOffer:         {SubNotSent, SubOfferSent, SubOfferAccepted, SubOfferDeclined},
}

// subStageNext lists every allowed forward (from, to) sub-stage pair
// within a stage. OFFER_SENT branches into acceptance and decline; a
// declined offer may be followed by a renewed one.
var subStageNext = map[Stage]map[SubStage][]SubStage{
	StageInterview: {
		SubScheduled: {SubEvaluationPending},
	},
	StageTechnicalTask: {
		SubNotAssigned: {SubAssigned},
		SubAssigned:    {SubUnderReview},
		SubUnderReview: {SubCompleted},
	},
	StageCompensation: {
		SubNotInitiated:       {SubInitiated},
		SubInitiated:          {SubNegotiationOngoing},
		SubNegotiationOngoing: {SubApproved},
	},
	StageOffer: {
		SubNotSent:       {SubOfferSent},
		SubOfferSent:     {SubOfferAccepted, SubOfferDeclined},
		SubOfferDeclined: {SubOfferSent},
	},
}

// InitialSubStage returns the sub-stage every application enters a stage
// with, or SubNone for stages without sub-states.
func InitialSubStage(s Stage) SubStage {
	set, ok := subStages[s]
	if !ok || len(set) == 0 {
		return SubNone
	}
	return set[0]
}

// MemberOf returns true when sub belongs to the stage's sub-stage set.
// SubNone is a member only for stages without sub-states.
func MemberOf(s Stage, sub SubStage) bool {
	set, ok := subStages[s]
	if !ok {
		return sub == SubNone
	}
	for _, candidate := range set {
		if candidate == sub {
			return true
		}
	}
	return false
}

// CanStep returns true when moving from → to is a permitted forward step
// within the stage.
func CanStep(s Stage, from, to SubStage) bool {
	allowed, ok := subStageNext[s][from]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if candidate == to {
			return true
		}
	}
	return false
}

// String returns the string representation of the sub-stage.
func (s SubStage) String() string {
	return string(s)
}
