package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/tx-ledger/internal/audit"
)

// Tx is the commit boundary behind a Writer.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer groups the table writers sharing one Tx. Reads through a Writer
// observe its own uncommitted writes.
type Writer struct {
	tx           Tx
	Transactions ITransactionWriter
	UserIndex    IUserIndexWriter
	Preferences  IPreferenceWriter
	Counters     ICounterWriter
	Audit        IAuditWriter

	events []*audit.Event
}

// Tables bundles the table writers for NewWriter.
type Tables struct {
	Transactions ITransactionWriter
	UserIndex    IUserIndexWriter
	Preferences  IPreferenceWriter
	Counters     ICounterWriter
	Audit        IAuditWriter
}

func NewWriter(tx Tx, tables Tables) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: tables.Transactions,
		UserIndex:    tables.UserIndex,
		Preferences:  tables.Preferences,
		Counters:     tables.Counters,
		Audit:        tables.Audit,
	}
}

// RecordEvent appends event to the audit log and remembers it so it can be
// published once the Writer commits.
func (w *Writer) RecordEvent(ctx context.Context, event *audit.Event) error {
	if err := w.Audit.Append(ctx, event); err != nil {
		return fmt.Errorf("append %s event: %w", event.Kind, err)
	}
	w.events = append(w.events, event)
	return nil
}

// Events returns the events recorded through this Writer, in order.
func (w *Writer) Events() []*audit.Event {
	return w.events
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	w.events = nil
	return w.tx.Rollback(context.Background())
}
