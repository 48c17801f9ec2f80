package pipeline

import "fmt"

// Config is the per-job ordered subset of stages a job posting uses.
// IN_REVIEW is implicit and never part of EnabledStages; every application
// starts there regardless of configuration.
type Config struct {
	JobID         string  `json:"job_id"`
	EnabledStages []Stage `json:"enabled_stages"`
}

// NextStage returns the stage that follows current in the job's configured
// sequence. A current stage absent from the sequence (including the
// implicit IN_REVIEW) is treated as a virtual predecessor of index 0, so
// the first configured stage is next. The second return value is false at
// the end of the sequence or when no stages are configured.
func (c *Config) NextStage(current Stage) (Stage, bool) {
	if c == nil || len(c.EnabledStages) == 0 {
		return "", false
	}
	for i, s := range c.EnabledStages {
		if s == current {
			if i+1 < len(c.EnabledStages) {
				return c.EnabledStages[i+1], true
			}
			return "", false
		}
	}
	return c.EnabledStages[0], true
}

// HasNextStage reports whether the sequence continues past current.
func (c *Config) HasNextStage(current Stage) bool {
	_, ok := c.NextStage(current)
	return ok
}

// Validate checks the configured sequence: every entry must be a known,
// non-terminal stage other than the implicit IN_REVIEW, with no duplicates.
func (c *Config) Validate() error {
	seen := make(map[Stage]bool, len(c.EnabledStages))
	for _, s := range c.EnabledStages {
		if !s.IsValid() {
			return fmt.Errorf("%w: unknown stage %q in pipeline for job %s", ErrValidation, s, c.JobID)
		}
		if s.IsTerminal() || s == StageInReview {
			return fmt.Errorf("%w: stage %s cannot be configured in a pipeline", ErrValidation, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate stage %s in pipeline for job %s", ErrValidation, s, c.JobID)
		}
		seen[s] = true
	}
	return nil
}
