package sqlconfig

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

const (
	transactionsTableName = "ledger_transactions"
	userIndexTableName    = "user_transactions"
	preferencesTableName  = "notification_preferences"
	countersTableName     = "ledger_counters"
	auditTableName        = "audit_events"
)

var transactionColumns = []any{"id", "owner", "type", "amount", "status", "description", "created_at"}

// transactionRow mirrors a ledger_transactions row.
type transactionRow struct {
	ID          string          `db:"id"`
	Owner       string          `db:"owner"`
	Type        int16           `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Status      int16           `db:"status"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

func rowToTransaction(row transactionRow) *ledger.Transaction {
	return &ledger.Transaction{
		ID:          ledger.TransactionID(row.ID),
		Owner:       ledger.Identity(row.Owner),
		Type:        ledger.TransactionType(row.Type),
		Amount:      row.Amount,
		Timestamp:   row.CreatedAt.UTC(),
		Status:      ledger.Status(row.Status),
		Description: row.Description,
	}
}
