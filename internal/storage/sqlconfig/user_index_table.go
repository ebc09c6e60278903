package sqlconfig

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var _ storage.IUserIndexWriter = (*UserIndexTable)(nil)

// UserIndexTable stores each user's transaction ids keyed by (user_id, position).
type UserIndexTable struct {
	exec bob.Executor
}

func NewUserIndexTable(exec bob.Executor) *UserIndexTable {
	return &UserIndexTable{exec: exec}
}

// Count returns the length of user's sequence.
func (t *UserIndexTable) Count(ctx context.Context, user ledger.Identity) (int, error) {
	query := psql.Select(
		sm.Columns(psql.Raw("count(*)")),
		sm.From(userIndexTableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(string(user)))),
	)
	count, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Range returns the ids at positions [start, end) in insertion order.
func (t *UserIndexTable) Range(ctx context.Context, user ledger.Identity, start, end int) ([]ledger.TransactionID, error) {
	if start >= end {
		return nil, nil
	}

	query := psql.Select(
		sm.Columns("transaction_id"),
		sm.From(userIndexTableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(string(user)))),
		sm.Where(psql.Quote("position").GTE(psql.Arg(start))),
		sm.Where(psql.Quote("position").LT(psql.Arg(end))),
		sm.OrderBy("position").Asc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.SingleColumnMapper[string])
	if err != nil {
		return nil, err
	}

	ids := make([]ledger.TransactionID, len(rows))
	for i, row := range rows {
		ids[i] = ledger.TransactionID(row)
	}
	return ids, nil
}

// Append adds id to the end of user's sequence. A transaction-scoped advisory
// lock on the user keeps positions contiguous under concurrent appends.
func (t *UserIndexTable) Append(ctx context.Context, user ledger.Identity, id ledger.TransactionID) (int, error) {
	lock := psql.RawQuery("SELECT pg_advisory_xact_lock(hashtext(?))", string(user))
	if _, err := bob.Exec(ctx, t.exec, lock); err != nil {
		return 0, err
	}

	position, err := t.Count(ctx, user)
	if err != nil {
		return 0, err
	}

	insert := psql.Insert(
		im.Into(userIndexTableName, "user_id", "position", "transaction_id"),
		im.Values(psql.Arg(string(user), position, string(id))),
	)
	if _, err := bob.Exec(ctx, t.exec, insert); err != nil {
		return 0, err
	}
	return position, nil
}
