package entity

import "time"

// Comment is one entry in an application's append-only timeline. User
// notes and engine-generated transition records share this storage;
// comments are never updated or deleted.
type Comment struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Stage         string    `json:"stage"`
	SubStage      string    `json:"sub_stage,omitempty"`
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}
