package sqlconfig

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

var errQueryRefused = errors.New("query refused")

// recordingExecutor captures statements in order. Queries that return rows
// fail so that callers stop after the first one.
type recordingExecutor struct {
	statements []string
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, _ ...any) (scan.Rows, error) {
	e.statements = append(e.statements, query)
	return nil, errQueryRefused
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	e.statements = append(e.statements, query)
	return driver.RowsAffected(0), nil
}

func testEvent() *audit.Event {
	return &audit.Event{
		ID:        uuid.Must(uuid.NewV4()),
		Kind:      ledger.EventTransactionRecorded,
		Payload:   []byte(`{}`),
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAuditTable_AppendLocksBeforeInsert(t *testing.T) {
	exec := &recordingExecutor{}
	table := NewAuditTable(exec)

	err := table.Append(context.Background(), testEvent())
	assert.ErrorIs(t, err, errQueryRefused)

	require.Len(t, exec.statements, 2)
	assert.Contains(t, exec.statements[0], "pg_advisory_xact_lock")
	assert.Contains(t, exec.statements[1], "INSERT INTO")
}

func TestAuditTable_LocksOncePerTransaction(t *testing.T) {
	exec := &recordingExecutor{}
	table := NewAuditTable(exec)

	_ = table.Append(context.Background(), testEvent())
	_ = table.Append(context.Background(), testEvent())

	locks := 0
	for _, statement := range exec.statements {
		if strings.Contains(statement, "pg_advisory_xact_lock") {
			locks++
		}
	}
	assert.Equal(t, 1, locks)
	assert.Len(t, exec.statements, 3)
}
