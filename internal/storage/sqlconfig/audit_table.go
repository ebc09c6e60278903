package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var (
	_ storage.IAuditWriter = (*AuditTable)(nil)
	_ storage.IAuditReader = (*AuditTable)(nil)
)

type auditRow struct {
	Seq       int64     `db:"seq"`
	EventID   uuid.UUID `db:"event_id"`
	Kind      string    `db:"kind"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// auditLockClass is the advisory lock class serializing audit appends. The
// two-key lock space does not overlap the per-user single-key locks.
const auditLockClass = 1

// AuditTable provides access to the audit_events table.
type AuditTable struct {
	exec   bob.Executor
	locked bool
}

func NewAuditTable(exec bob.Executor) *AuditTable {
	return &AuditTable{exec: exec}
}

// Append inserts event and sets its Seq from the generated key. The first
// append of a transaction takes a transaction-scoped advisory lock held until
// commit, so seq values become visible in increasing order and replay by
// "seq > after" never skips a late commit.
func (t *AuditTable) Append(ctx context.Context, event *audit.Event) error {
	if !t.locked {
		lock := psql.RawQuery("SELECT pg_advisory_xact_lock(?, 0)", auditLockClass)
		if _, err := bob.Exec(ctx, t.exec, lock); err != nil {
			return err
		}
		t.locked = true
	}

	query := psql.Insert(
		im.Into(auditTableName, "event_id", "kind", "payload", "created_at"),
		im.Values(psql.Arg(event.ID.String(), string(event.Kind), string(event.Payload), event.CreatedAt)),
		im.Returning("seq"),
	)
	seq, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return err
	}
	event.Seq = seq
	return nil
}

func (t *AuditTable) List(ctx context.Context, afterSeq int64, limit int) ([]*audit.Event, error) {
	query := psql.Select(
		sm.Columns("seq", "event_id", "kind", "payload", "created_at"),
		sm.From(auditTableName),
		sm.Where(psql.Quote("seq").GT(psql.Arg(afterSeq))),
		sm.OrderBy("seq").Asc(),
		sm.Limit(limit),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[auditRow]())
	if err != nil {
		return nil, err
	}

	events := make([]*audit.Event, len(rows))
	for i, row := range rows {
		events[i] = &audit.Event{
			ID:        row.EventID,
			Seq:       row.Seq,
			Kind:      ledger.EventKind(row.Kind),
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return events, nil
}
