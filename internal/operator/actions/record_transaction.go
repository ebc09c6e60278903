package actions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

type RecordTransaction struct {
	Caller      ledger.Identity
	ID          ledger.TransactionID
	Type        ledger.TransactionType
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time

	IAction
}

func (t *RecordTransaction) Name() string { return "record_transaction" }

// Validate checks the input in the order failures are reported.
func (t *RecordTransaction) Validate() error {
	if t.Caller.IsZero() {
		return ledger.ErrUnauthenticated
	}
	if t.ID.IsZero() {
		return ledger.ErrInvalidIdentifier
	}
	if !t.Type.Valid() {
		return ledger.ErrInvalidType
	}
	if !ledger.ValidAmount(t.Amount) {
		return ledger.ErrInvalidAmount
	}
	return nil
}

func (t *RecordTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}

	record := &ledger.Transaction{
		ID:          t.ID,
		Owner:       t.Caller,
		Type:        t.Type,
		Amount:      t.Amount,
		Timestamp:   t.Timestamp.UTC(),
		Status:      ledger.StatusPending,
		Description: t.Description,
	}
	if err := writer.Transactions.Insert(ctx, record); err != nil {
		return err
	}

	if _, err := writer.UserIndex.Append(ctx, t.Caller, t.ID); err != nil {
		return err
	}

	if _, err := writer.Counters.Increment(ctx, storage.CounterTransactions); err != nil {
		return err
	}

	event, err := audit.NewEvent(ledger.TransactionRecorded{
		ID:        record.ID,
		User:      record.Owner,
		Type:      record.Type,
		Amount:    record.Amount,
		Timestamp: record.Timestamp,
	}, record.Timestamp)
	if err != nil {
		return err
	}
	return writer.RecordEvent(ctx, event)
}
