package operator

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/metrics"
	"github.com/carson-networks/tx-ledger/internal/operator/actions"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    *storage.Storage
	publisher  audit.Publisher
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	queue      chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewOperatorDelegator wires the workers' collaborators. publisher and m may be nil.
func NewOperatorDelegator(s *storage.Storage, publisher audit.Publisher, m *metrics.Metrics, logger *logrus.Logger, numWorkers int) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OperatorDelegator{
		storage:    s,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// Process runs action in its own storage transaction and waits for the outcome.
// When ctx ends before a worker picks the item up, the action never runs and
// ctx.Err() is returned. Once a worker holds the item, Process waits for its
// result so the caller never sees a failure for a committed mutation.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	claim := make(chan struct{}, 1)
	claim <- struct{}{}
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		claim:    claim,
		response: respCh,
	}

	select {
	case d.queue <- item:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
	}

	select {
	case <-claim:
		return ctx.Err()
	default:
		resp := <-respCh
		return resp.err
	}
}
