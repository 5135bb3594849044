package model

import "time"

// AuditEntry is one append-only record of a state-changing action.
type AuditEntry struct {
	ID        int64     `json:"id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
