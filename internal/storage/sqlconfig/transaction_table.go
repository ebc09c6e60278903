package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var _ storage.ITransactionWriter = (*TransactionsTable)(nil)

// TransactionsTable provides access to the ledger_transactions table.
type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	return t.findOne(ctx, id, false)
}

// FindByIDForUpdate retrieves a transaction and locks its row until the
// surrounding database transaction ends.
func (t *TransactionsTable) FindByIDForUpdate(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	return t.findOne(ctx, id, true)
}

func (t *TransactionsTable) findOne(ctx context.Context, id ledger.TransactionID, forUpdate bool) (*ledger.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(string(id)))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

// FindByIDs retrieves transactions in the order of ids. Unknown ids are skipped.
func (t *TransactionsTable) FindByIDs(ctx context.Context, ids []ledger.TransactionID) ([]*ledger.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}

	query := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("id").In(psql.Arg(args...))),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}

	byID := make(map[string]transactionRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	result := make([]*ledger.Transaction, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[string(id)]; ok {
			result = append(result, rowToTransaction(row))
		}
	}
	return result, nil
}

// Insert creates a transaction. An id that already exists yields
// ledger.ErrDuplicateTransaction.
func (t *TransactionsTable) Insert(ctx context.Context, tx *ledger.Transaction) error {
	query := psql.Insert(
		im.Into(transactionsTableName, "id", "owner", "type", "amount", "status", "description", "created_at"),
		im.Values(psql.Arg(
			string(tx.ID),
			string(tx.Owner),
			int16(tx.Type),
			tx.Amount,
			int16(tx.Status),
			tx.Description,
			tx.Timestamp,
		)),
		im.OnConflict("id").DoNothing(),
	)

	res, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrDuplicateTransaction
	}
	return nil
}

// UpdateStatus overwrites the status of an existing transaction.
func (t *TransactionsTable) UpdateStatus(ctx context.Context, id ledger.TransactionID, status ledger.Status) error {
	query := psql.Update(
		um.Table(transactionsTableName),
		um.SetCol("status").ToArg(int16(status)),
		um.Where(psql.Quote("id").EQ(psql.Arg(string(id)))),
	)

	res, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
