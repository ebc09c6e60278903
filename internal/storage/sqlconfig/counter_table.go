package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/tx-ledger/internal/storage"
)

var _ storage.ICounterWriter = (*CountersTable)(nil)

// CountersTable provides access to the ledger_counters table.
type CountersTable struct {
	exec bob.Executor
}

func NewCountersTable(exec bob.Executor) *CountersTable {
	return &CountersTable{exec: exec}
}

func (t *CountersTable) Get(ctx context.Context, name string) (uint64, error) {
	query := psql.Select(
		sm.Columns("value"),
		sm.From(countersTableName),
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
	)
	value, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(value), nil
}

func (t *CountersTable) Increment(ctx context.Context, name string) (uint64, error) {
	query := psql.RawQuery(`INSERT INTO ledger_counters (name, value) VALUES (?, 1)
ON CONFLICT (name) DO UPDATE SET value = ledger_counters.value + 1
RETURNING value`, name)
	value, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return uint64(value), nil
}
