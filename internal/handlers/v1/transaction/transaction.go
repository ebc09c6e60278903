package transaction

import (
	"time"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction id, 0x-prefixed hex"`
	Owner       string `json:"owner" doc:"Identity that recorded the transaction"`
	Type        string `json:"type" enum:"deposit,withdrawal,swap,transfer,other" doc:"Transaction type"`
	Amount      string `json:"amount" doc:"Decimal amount"`
	Timestamp   string `json:"timestamp" doc:"RFC3339 creation time"`
	Status      string `json:"status" enum:"pending,completed,failed,cancelled" doc:"Current status"`
	Description string `json:"description" doc:"Free-form annotation"`
}

func toTransaction(tx *ledger.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		Owner:       tx.Owner.String(),
		Type:        tx.Type.String(),
		Amount:      tx.Amount.String(),
		Timestamp:   tx.Timestamp.Format(time.RFC3339),
		Status:      tx.Status.String(),
		Description: tx.Description,
	}
}

// parseTypeFilter maps an optional type name to a filter. The empty string
// means no filter.
func parseTypeFilter(s string) (ledger.TransactionType, error) {
	if s == "" {
		return ledger.TransactionTypeUnspecified, nil
	}
	t, ok := ledger.ParseTransactionType(s)
	if !ok {
		return 0, ledger.ErrInvalidType
	}
	return t, nil
}

// parseStatusFilter maps an optional status name to a filter. The empty
// string means no filter.
func parseStatusFilter(s string) (ledger.Status, error) {
	if s == "" {
		return ledger.StatusUnspecified, nil
	}
	st, ok := ledger.ParseStatus(s)
	if !ok {
		return 0, ledger.ErrInvalidStatus
	}
	return st, nil
}
