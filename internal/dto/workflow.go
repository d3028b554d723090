package dto

import (
	"time"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// WorkflowLogResponse defines the data returned for one audit entry.
type WorkflowLogResponse struct {
	LogID      string                `json:"logID"`
	Action     domain.WorkflowAction `json:"action"`
	FromStatus string                `json:"fromStatus"`
	ToStatus   string                `json:"toStatus"`
	OperatorID string                `json:"operatorID"`
	Comment    string                `json:"comment,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// ToWorkflowLogResponses converts a slice of domain log entries.
func ToWorkflowLogResponses(logs []domain.WorkflowLog) []WorkflowLogResponse {
	responses := make([]WorkflowLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = WorkflowLogResponse{
			LogID:      l.LogID,
			Action:     l.Action,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			OperatorID: l.OperatorID,
			Comment:    l.Comment,
			CreatedAt:  l.CreatedAt,
		}
	}
	return responses
}
