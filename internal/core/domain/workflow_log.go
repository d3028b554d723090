package domain

import "time"

// WorkflowAction names a transition recorded in the workflow log.
type WorkflowAction string

const (
	ActionCreate   WorkflowAction = "CREATE"
	ActionSubmit   WorkflowAction = "SUBMIT"
	ActionApprove  WorkflowAction = "APPROVE"
	ActionReject   WorkflowAction = "REJECT"
	ActionWithdraw WorkflowAction = "WITHDRAW"
	ActionPay      WorkflowAction = "PAY"
	ActionDelete   WorkflowAction = "DELETE"
)

// WorkflowLog is one immutable audit entry: a single state transition on a
// purchase, reimbursement or inventory application. Rows are only ever
// appended; the log is the sole audit source of truth.
type WorkflowLog struct {
	LogID      string         `json:"logID"`
	EntityType EntityType     `json:"entityType"`
	EntityID   string         `json:"entityID"`
	Action     WorkflowAction `json:"action"`
	FromStatus string         `json:"fromStatus"`
	ToStatus   string         `json:"toStatus"`
	OperatorID string         `json:"operatorID"`
	Comment    string         `json:"comment"`
	CreatedAt  time.Time      `json:"createdAt"`
}
