// Package pipeline defines the hiring pipeline state model: the canonical
// stages, the sub-stage machine inside each stage, the per-job pipeline
// configuration, and the derived-state calculator.
//
// Stage graph (canonical order; a job enables an ordered subset):
//
//	IN_REVIEW ──► SHORTLISTED ──► INTERVIEW ──► TECHNICAL_TASK ──► COMPENSATION ──► OFFER ──► HIRED
//	     │             │              │               │                 │             │
//	     └─────────────┴──────────────┴───────────────┴─────────────────┴─────────────┴──► REJECTED
//
// HIRED and REJECTED are terminal stages.
package pipeline

import "fmt"

// Stage is the major phase of the hiring pipeline an application occupies.
type Stage string

const (
	StageInReview      Stage = "IN_REVIEW"
	StageShortlisted   Stage = "SHORTLISTED"
	StageInterview     Stage = "INTERVIEW"
	StageTechnicalTask Stage = "TECHNICAL_TASK"
	StageCompensation  Stage = "COMPENSATION"
	StageOffer         Stage = "OFFER"
	StageHired         Stage = "HIRED"
	StageRejected      Stage = "REJECTED"
)

var validStages = map[Stage]bool{
	StageInReview:      true,
	StageShortlisted:   true,
	StageInterview:     true,
	StageTechnicalTask: true,
	StageCompensation:  true,
	StageOffer:         true,
	StageHired:         true,
	StageRejected:      true,
}

var terminalStages = map[Stage]bool{
	StageHired:    true,
	StageRejected: true,
}

// IsValid returns true if the stage is a known pipeline stage.
func (s Stage) IsValid() bool {
	return validStages[s]
}

// IsTerminal returns true if the stage permits no further stage or
// sub-stage writes.
func (s Stage) IsTerminal() bool {
	return terminalStages[s]
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// ParseStage converts a raw string to a Stage, returning an error for
// unknown values.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown stage %q", ErrValidation, s)
	}
	return st, nil
}
