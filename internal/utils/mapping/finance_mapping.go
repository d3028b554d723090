package mapping

import (
	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	"github.com/stefan-ysh/procure_approval_app/internal/models"
)

// ToModelFinanceExpenseRecord converts a domain record to its model shape.
func ToModelFinanceExpenseRecord(d domain.FinanceExpenseRecord) models.FinanceExpenseRecord {
	return models.FinanceExpenseRecord{
		RecordID:     d.RecordID,
		RecordNumber: d.RecordNumber,
		SourceType:   string(d.SourceType),
		SourceID:     d.SourceID,
		Amount:       d.Amount,
		Category:     d.Category,
		ExpenseDate:  d.ExpenseDate,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainFinanceExpenseRecord converts a model record to its domain shape.
func ToDomainFinanceExpenseRecord(m models.FinanceExpenseRecord) domain.FinanceExpenseRecord {
	return domain.FinanceExpenseRecord{
		RecordID:     m.RecordID,
		RecordNumber: m.RecordNumber,
		SourceType:   domain.ExpenseSource(m.SourceType),
		SourceID:     m.SourceID,
		Amount:       m.Amount,
		Category:     m.Category,
		ExpenseDate:  m.ExpenseDate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainFinanceExpenseRecordSlice converts a slice of model records.
func ToDomainFinanceExpenseRecordSlice(ms []models.FinanceExpenseRecord) []domain.FinanceExpenseRecord {
	ds := make([]domain.FinanceExpenseRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFinanceExpenseRecord(m)
	}
	return ds
}
