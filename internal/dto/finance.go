package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
)

// ExpenseSyncInput carries everything finance sync needs to materialize a
// ledger record for a freshly paid entity.
type ExpenseSyncInput struct {
	SourceType  domain.ExpenseSource
	SourceID    string
	Amount      decimal.Decimal
	Category    string
	ExpenseDate time.Time
	OperatorID  string
	Now         time.Time
}

// ListExpensesParams holds query parameters for listing finance records.
type ListExpensesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ExpenseRecordResponse defines the data returned for a finance expense record.
type ExpenseRecordResponse struct {
	RecordID     string               `json:"recordID"`
	RecordNumber string               `json:"recordNumber"`
	SourceType   domain.ExpenseSource `json:"sourceType"`
	SourceID     string               `json:"sourceID"`
	Amount       decimal.Decimal      `json:"amount"`
	Category     string               `json:"category"`
	ExpenseDate  time.Time            `json:"expenseDate"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ListExpensesResponse is a page of finance records plus the next-page token.
type ListExpensesResponse struct {
	Records   []ExpenseRecordResponse `json:"records"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToExpenseRecordResponse converts a domain record to its DTO.
func ToExpenseRecordResponse(r *domain.FinanceExpenseRecord) ExpenseRecordResponse {
	return ExpenseRecordResponse{
		RecordID:     r.RecordID,
		RecordNumber: r.RecordNumber,
		SourceType:   r.SourceType,
		SourceID:     r.SourceID,
		Amount:       r.Amount,
		Category:     r.Category,
		ExpenseDate:  r.ExpenseDate,
		CreatedAt:    r.CreatedAt,
	}
}

// ToExpenseRecordResponses converts a slice of domain records.
func ToExpenseRecordResponses(rs []domain.FinanceExpenseRecord) []ExpenseRecordResponse {
	responses := make([]ExpenseRecordResponse, len(rs))
	for i := range rs {
		responses[i] = ToExpenseRecordResponse(&rs[i])
	}
	return responses
}
