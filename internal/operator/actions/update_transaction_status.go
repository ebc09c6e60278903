package actions

import (
	"context"
	"time"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// UpdateTransactionStatus overwrites the status of an existing transaction.
// Any status may follow any other.
type UpdateTransactionStatus struct {
	Caller    ledger.Identity
	ID        ledger.TransactionID
	NewStatus ledger.Status
	Access    auth.AccessControl
	Timestamp time.Time

	IAction
}

func (u *UpdateTransactionStatus) Name() string { return "update_transaction_status" }

func (u *UpdateTransactionStatus) Perform(ctx context.Context, writer *storage.Writer) error {
	if u.Caller.IsZero() {
		return ledger.ErrUnauthenticated
	}
	if u.ID.IsZero() {
		return ledger.ErrInvalidIdentifier
	}
	if !u.NewStatus.Valid() {
		return ledger.ErrInvalidStatus
	}

	record, err := writer.Transactions.FindByIDForUpdate(ctx, u.ID)
	if err != nil {
		return err
	}

	if !auth.CanManage(u.Access, u.Caller, record.Owner) {
		return ledger.ErrPermissionDenied
	}

	if err = writer.Transactions.UpdateStatus(ctx, u.ID, u.NewStatus); err != nil {
		return err
	}

	event, err := audit.NewEvent(ledger.TransactionStatusUpdated{
		ID:        u.ID,
		OldStatus: record.Status,
		NewStatus: u.NewStatus,
		Timestamp: u.Timestamp.UTC(),
	}, u.Timestamp)
	if err != nil {
		return err
	}
	return writer.RecordEvent(ctx, event)
}
