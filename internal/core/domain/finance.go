package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseSource identifies the originating entity of a finance record.
type ExpenseSource string

const (
	ExpenseFromPurchase      ExpenseSource = "PURCHASE"
	ExpenseFromReimbursement ExpenseSource = "REIMBURSEMENT"
)

// FinanceExpenseRecord is the ledger-side entry created exactly once when a
// purchase or reimbursement reaches PAID. SourceID carries the back-reference
// used for the idempotent existence check before insert.
type FinanceExpenseRecord struct {
	RecordID     string          `json:"recordID"`
	RecordNumber string          `json:"recordNumber"` // e.g. FE-202608-0001
	SourceType   ExpenseSource   `json:"sourceType"`
	SourceID     string          `json:"sourceID"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	ExpenseDate  time.Time       `json:"expenseDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}
