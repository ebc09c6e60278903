package actions

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/storage"
)

// IAction is one ledger mutation. Perform runs inside a single Writer: any
// returned error rolls back everything it wrote.
type IAction interface {
	// Name labels the action in logs and metrics.
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}
