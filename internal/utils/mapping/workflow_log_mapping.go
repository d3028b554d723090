package mapping

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
)

// ToModelWorkflowLog converts a domain WorkflowLog to a model WorkflowLog.
func ToModelWorkflowLog(d domain.WorkflowLog) models.WorkflowLog {
	return models.WorkflowLog{
		LogID:      d.LogID,
		EntityType: string(d.EntityType),
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		FromStatus: d.FromStatus,
		ToStatus:   d.ToStatus,
		OperatorID: d.OperatorID,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainWorkflowLog converts a model WorkflowLog to a domain WorkflowLog.
func ToDomainWorkflowLog(m models.WorkflowLog) domain.WorkflowLog {
	return domain.WorkflowLog{
		LogID:      m.LogID,
		EntityType: domain.EntityType(m.EntityType),
		EntityID:   m.EntityID,
		Action:     domain.WorkflowAction(m.Action),
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		OperatorID: m.OperatorID,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainWorkflowLogSlice converts a slice of model WorkflowLogs.
func ToDomainWorkflowLogSlice(ms []models.WorkflowLog) []domain.WorkflowLog {
	ds := make([]domain.WorkflowLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkflowLog(m)
	}
	return ds
}
