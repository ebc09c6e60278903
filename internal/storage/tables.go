package storage

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// CounterTransactions is the global count of recorded transactions.
const CounterTransactions = "transactions"

// ITransactionReader reads transaction records.
type ITransactionReader interface {
	// FindByID returns ledger.ErrNotFound when no record exists.
	FindByID(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error)
	// FindByIDs returns the records in the order of ids, skipping unknown ids.
	FindByIDs(ctx context.Context, ids []ledger.TransactionID) ([]*ledger.Transaction, error)
}

// ITransactionWriter mutates transaction records inside a Writer.
type ITransactionWriter interface {
	ITransactionReader
	// FindByIDForUpdate locks the record until the Writer ends.
	FindByIDForUpdate(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error)
	// Insert returns ledger.ErrDuplicateTransaction when the id is taken.
	Insert(ctx context.Context, transaction *ledger.Transaction) error
	UpdateStatus(ctx context.Context, id ledger.TransactionID, status ledger.Status) error
}

// IUserIndexReader reads the per-user ordered id sequences.
type IUserIndexReader interface {
	Count(ctx context.Context, user ledger.Identity) (int, error)
	// Range returns ids at positions [start, end).
	Range(ctx context.Context, user ledger.Identity, start, end int) ([]ledger.TransactionID, error)
}

// IUserIndexWriter appends to the per-user sequences.
type IUserIndexWriter interface {
	IUserIndexReader
	// Append adds id at the end of user's sequence and returns its position.
	Append(ctx context.Context, user ledger.Identity, id ledger.TransactionID) (int, error)
}

// IPreferenceReader reads notification preferences.
type IPreferenceReader interface {
	// Flags returns every stored flag for user, enabled or not.
	Flags(ctx context.Context, user ledger.Identity) (map[ledger.Category]bool, error)
}

// IPreferenceWriter writes notification preferences.
type IPreferenceWriter interface {
	IPreferenceReader
	Set(ctx context.Context, user ledger.Identity, category ledger.Category, enabled bool) error
}

// ICounterReader reads named counters. Missing counters read as zero.
type ICounterReader interface {
	Get(ctx context.Context, name string) (uint64, error)
}

// ICounterWriter increments named counters.
type ICounterWriter interface {
	ICounterReader
	Increment(ctx context.Context, name string) (uint64, error)
}

// IAuditReader replays the durable audit log.
type IAuditReader interface {
	// List returns up to limit events with Seq > afterSeq, in Seq order.
	List(ctx context.Context, afterSeq int64, limit int) ([]*audit.Event, error)
}

// IAuditWriter appends to the audit log.
type IAuditWriter interface {
	// Append stores event and assigns its Seq.
	Append(ctx context.Context, event *audit.Event) error
}
