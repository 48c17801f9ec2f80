package pipeline

import "github.com/hirestack/ats/internal/domain/entity"

// Derived-state calculation for the stages whose sub-state is observable
// from child records (INTERVIEW, TECHNICAL_TASK). Pure functions: the
// sub-stage is recomputed from scratch on every call, never incrementally
// from a cached value. COMPENSATION and OFFER sub-stages are stored, not
// derived, because their transitions depend on business decisions that
// record existence alone cannot express.

// DeriveInterviewSubStage computes what the INTERVIEW sub-stage should be
// from the application's interviews. The second return value is false when
// no active interview exists and no change should be applied.
func DeriveInterviewSubStage(interviews []*entity.Interview) (SubStage, bool) {
	active := 0
	scheduled := false
	for _, iv := range interviews {
		if !iv.IsActive() {
			continue
		}
		active++
		if iv.Status == entity.InterviewStatusScheduled {
			scheduled = true
		}
	}
	if active == 0 {
		return SubNone, false
	}
	if scheduled {
		return SubScheduled, true
	}
	return SubEvaluationPending, true
}

// DeriveTaskSubStage computes what the TECHNICAL_TASK sub-stage should be
// from the application's tasks. A `submitted` task still derives ASSIGNED:
// review has not started until a reviewer picks the submission up. The
// second return value is false when no task has ever existed.
func DeriveTaskSubStage(tasks []*entity.TechnicalTask) (SubStage, bool) {
	if len(tasks) == 0 {
		return SubNone, false
	}
	completed := 0
	var active *entity.TechnicalTask
	for _, t := range tasks {
		switch t.Status {
		case entity.TaskStatusCompleted:
			completed++
		case entity.TaskStatusCancelled:
		default:
			active = t
		}
	}
	if active != nil {
		if active.Status == entity.TaskStatusUnderReview {
			return SubUnderReview, true
		}
		return SubAssigned, true
	}
	if completed > 0 {
		return SubCompleted, true
	}
	return SubNotAssigned, true
}

// InterviewSummary is a read-only view over an application's interviews.
// It never forces a sub-stage transition; moving past INTERVIEW is an
// explicit recruiter decision.
type InterviewSummary struct {
	InterviewsConducted      int  `json:"interviews_conducted"`
	AllCompletedHaveFeedback bool `json:"all_completed_have_feedback"`
}

// SummarizeInterviews reports how many interviews were conducted and
// whether every completed interview has feedback recorded.
func SummarizeInterviews(interviews []*entity.Interview) InterviewSummary {
	summary := InterviewSummary{}
	withFeedback := 0
	for _, iv := range interviews {
		if iv.Status != entity.InterviewStatusCompleted {
			continue
		}
		summary.InterviewsConducted++
		if iv.HasFeedback() {
			withFeedback++
		}
	}
	summary.AllCompletedHaveFeedback = summary.InterviewsConducted > 0 &&
		withFeedback == summary.InterviewsConducted
	return summary
}
