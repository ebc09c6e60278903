package sqlconfig

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/tx-ledger/internal/storage"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// NewStorage builds the storage facade over db. Every Writer is one
// database transaction.
func NewStorage(db *sql.DB) *storage.Storage {
	exec := bob.NewDB(db)

	reader := &storage.Reader{
		Transactions: NewTransactionsTable(exec),
		UserIndex:    NewUserIndexTable(exec),
		Preferences:  NewPreferencesTable(exec),
		Counters:     NewCountersTable(exec),
		Audit:        NewAuditTable(exec),
	}

	begin := func(ctx context.Context) (*storage.Writer, error) {
		tx, err := exec.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		return storage.NewWriter(&bobTx{tx: tx}, storage.Tables{
			Transactions: NewTransactionsTable(tx),
			UserIndex:    NewUserIndexTable(tx),
			Preferences:  NewPreferencesTable(tx),
			Counters:     NewCountersTable(tx),
			Audit:        NewAuditTable(tx),
		}), nil
	}

	return storage.NewStorage(reader, begin, db.Close)
}

type bobTx struct {
	tx bob.Tx
}

func (b *bobTx) Commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

func (b *bobTx) Rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}
