package operator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/metrics"
	"github.com/carson-networks/tx-ledger/internal/operator/actions"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage   *storage.Storage
	publisher audit.Publisher
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	queue     chan ActionItem
}

func NewOperator(d *OperatorDelegator) *Operator {
	return &Operator{
		storage:   d.storage,
		publisher: d.publisher,
		metrics:   d.metrics,
		logger:    d.logger,
		queue:     d.queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	select {
	case <-item.claim:
	default:
		// The caller gave up before the item was picked up.
		return
	}

	start := time.Now()

	events, err := o.perform(item)
	if o.metrics != nil {
		o.metrics.RecordOperation(item.action.Name(), ledger.ErrorKind(err), time.Since(start).Seconds())
	}
	if err != nil {
		if !ledger.IsValidationError(err) {
			o.logger.WithError(err).WithField("operation", item.action.Name()).Error("Operator.processItem.Error")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	// The mutation is durable from here on. Delivery problems are logged
	// and never reported to the caller.
	o.publish(item.ctx, events)

	item.response <- ActionItemResponse{}
}

func (o *Operator) perform(item ActionItem) ([]*audit.Event, error) {
	if err := item.ctx.Err(); err != nil {
		return nil, err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return nil, err
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rollbackErr := writer.Rollback(); rollbackErr != nil {
			o.logger.WithError(rollbackErr).Error("Operator.perform.Rollback")
		}
		return nil, err
	}

	events := writer.Events()
	if err = writer.Commit(); err != nil {
		return nil, err
	}

	return events, nil
}

func (o *Operator) publish(ctx context.Context, events []*audit.Event) {
	if len(events) == 0 || o.publisher == nil {
		return
	}

	// The request context may end as soon as the caller has its answer.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := o.publisher.Publish(publishCtx, events)
	if err != nil {
		o.logger.WithError(err).WithField("events", len(events)).Warn("Operator.publish.Error")
	}
	if o.metrics != nil {
		for _, event := range events {
			o.metrics.RecordEventPublished(string(event.Kind), err)
		}
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	claim    chan struct{}
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
