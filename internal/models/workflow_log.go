package models

import "time"

// WorkflowLog is the storage shape of one append-only audit entry.
type WorkflowLog struct {
	LogID      string    `db:"log_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	OperatorID string    `db:"operator_id"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}
