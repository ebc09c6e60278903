package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded action. Every field except Status is fixed
// when the record is created.
type Transaction struct {
	ID          TransactionID
	Owner       Identity
	Type        TransactionType
	Amount      decimal.Decimal
	Timestamp   time.Time
	Status      Status
	Description string
}

// ValidAmount reports whether amount may be recorded: unsigned and non-zero.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}

// Matches applies the history filters. Zero-valued filters match everything.
func (t *Transaction) Matches(filterType TransactionType, filterStatus Status) bool {
	if filterType != TransactionTypeUnspecified && t.Type != filterType {
		return false
	}
	if filterStatus != StatusUnspecified && t.Status != filterStatus {
		return false
	}
	return true
}
