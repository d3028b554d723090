package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceExpenseRecord is the storage shape of one ledger-side expense row.
type FinanceExpenseRecord struct {
	RecordID     string          `db:"record_id"`
	RecordNumber string          `db:"record_number"`
	SourceType   string          `db:"source_type"`
	SourceID     string          `db:"source_id"`
	Amount       decimal.Decimal `db:"amount"`
	Category     string          `db:"category"`
	ExpenseDate  time.Time       `db:"expense_date"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
