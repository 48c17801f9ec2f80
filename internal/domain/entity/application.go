// Package entity defines the aggregates tracked by the pipeline engine.
package entity

import "time"

// Application is the aggregate root: one job application moving through
// the hiring pipeline. Stage and SubStage are written exclusively by the
// transition engine; Version backs the optimistic concurrency check on
// that write.
type Application struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	SeekerID  string `json:"seeker_id"`
	CompanyID string `json:"company_id"`

	Stage    string `json:"stage"`
	SubStage string `json:"sub_stage,omitempty"`
	Version  int64  `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
