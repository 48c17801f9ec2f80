package pipeline

import (
	"testing"

	"github.com/hirestack/ats/internal/domain/entity"
)

func interview(status string, rating int) *entity.Interview {
	return &entity.Interview{Status: status, Rating: rating}
}

func task(status string) *entity.TechnicalTask {
	return &entity.TechnicalTask{Status: status}
}

func TestDeriveInterviewSubStage(t *testing.T) {
	tests := []struct {
		name       string
		interviews []*entity.Interview
		expected   SubStage
		ok         bool
	}{
		{"no interviews", nil, SubNone, false},
		{"only cancelled", []*entity.Interview{interview(entity.InterviewStatusCancelled, 0)}, SubNone, false},
		{"one scheduled", []*entity.Interview{interview(entity.InterviewStatusScheduled, 0)}, SubScheduled, true},
		{"all completed", []*entity.Interview{interview(entity.InterviewStatusCompleted, 4)}, SubEvaluationPending, true},
		{
			"completed plus newly scheduled reverts to scheduled",
			[]*entity.Interview{
				interview(entity.InterviewStatusCompleted, 4),
				interview(entity.InterviewStatusScheduled, 0),
			},
			SubScheduled, true,
		},
		{
			"cancelled ignored among completed",
			[]*entity.Interview{
				interview(entity.InterviewStatusCancelled, 0),
				interview(entity.InterviewStatusCompleted, 5),
			},
			SubEvaluationPending, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveInterviewSubStage(tt.interviews)
			if ok != tt.ok {
				t.Fatalf("DeriveInterviewSubStage() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("DeriveInterviewSubStage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDeriveTaskSubStage(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []*entity.TechnicalTask
		expected SubStage
		ok       bool
	}{
		{"no tasks", nil, SubNone, false},
		{"assigned", []*entity.TechnicalTask{task(entity.TaskStatusAssigned)}, SubAssigned, true},
		{"submitted still assigned", []*entity.TechnicalTask{task(entity.TaskStatusSubmitted)}, SubAssigned, true},
		{"under review", []*entity.TechnicalTask{task(entity.TaskStatusUnderReview)}, SubUnderReview, true},
		{"completed", []*entity.TechnicalTask{task(entity.TaskStatusCompleted)}, SubCompleted, true},
		{"only cancelled reverts", []*entity.TechnicalTask{task(entity.TaskStatusCancelled)}, SubNotAssigned, true},
		{
			"cancelled after a completed one",
			[]*entity.TechnicalTask{task(entity.TaskStatusCompleted), task(entity.TaskStatusCancelled)},
			SubCompleted, true,
		},
		{
			"new active task after completed",
			[]*entity.TechnicalTask{task(entity.TaskStatusCompleted), task(entity.TaskStatusAssigned)},
			SubAssigned, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveTaskSubStage(tt.tasks)
			if ok != tt.ok {
				t.Fatalf("DeriveTaskSubStage() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("DeriveTaskSubStage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSummarizeInterviews(t *testing.T) {
	tests := []struct {
		name     string
		in       []*entity.Interview
		expected InterviewSummary
	}{
		{"no interviews", nil, InterviewSummary{}},
		{
			"completed without feedback",
			[]*entity.Interview{interview(entity.InterviewStatusCompleted, 0)},
			InterviewSummary{InterviewsConducted: 1, AllCompletedHaveFeedback: false},
		},
		{
			"all completed with feedback",
			[]*entity.Interview{
				interview(entity.InterviewStatusCompleted, 4),
				interview(entity.InterviewStatusCompleted, 5),
			},
			InterviewSummary{InterviewsConducted: 2, AllCompletedHaveFeedback: true},
		},
		{
			"scheduled not counted",
			[]*entity.Interview{
				interview(entity.InterviewStatusCompleted, 3),
				interview(entity.InterviewStatusScheduled, 0),
			},
			InterviewSummary{InterviewsConducted: 1, AllCompletedHaveFeedback: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeInterviews(tt.in); got != tt.expected {
				t.Errorf("SummarizeInterviews() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
