package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/logging"
	"github.com/carson-networks/tx-ledger/internal/operator/actions"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

const (
	LedgerName    = "tx-ledger"
	LedgerVersion = "1.0.0"
)

// LedgerService handles transaction business logic.
type LedgerService struct {
	storage   *storage.Storage
	processor Processor
	access    auth.AccessControl
	tracker   counter.Tracker
	logger    *logrus.Logger
	now       func() time.Time
}

func NewLedgerService(
	store *storage.Storage,
	processor Processor,
	access auth.AccessControl,
	tracker counter.Tracker,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		storage:   store,
		processor: processor,
		access:    access,
		tracker:   tracker,
		logger:    logger,
		now:       utcNow,
	}
}

// RecordTransaction stores a new Pending transaction owned by caller.
func (s *LedgerService) RecordTransaction(ctx context.Context, caller ledger.Identity, tx NewTransaction) error {
	action := &actions.RecordTransaction{
		Caller:      caller,
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		Timestamp:   s.now(),
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return err
	}

	if s.tracker != nil {
		if _, err := s.tracker.Increment(ctx, caller, counter.ActionRecordTransaction); err != nil {
			s.logger.WithError(err).WithField("caller", caller.String()).Warn("LedgerService.RecordTransaction.TrackInteraction")
		}
	}
	return nil
}

// UpdateTransactionStatus sets the status of id. Only the owner and the
// administrator may do so.
func (s *LedgerService) UpdateTransactionStatus(ctx context.Context, caller ledger.Identity, id ledger.TransactionID, status ledger.Status) error {
	return s.processor.Process(ctx, &actions.UpdateTransactionStatus{
		Caller:    caller,
		ID:        id,
		NewStatus: status,
		Access:    s.access,
		Timestamp: s.now(),
	})
}

func (s *LedgerService) GetTransactionDetails(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	if id.IsZero() {
		return nil, ledger.ErrNotFound
	}
	return s.storage.Reader.Transactions.FindByID(ctx, id)
}

// GetTransactionHistory returns the transactions in the query's window
// that pass its filters, in insertion order. Filtered-out items are not
// replaced, so a page may hold fewer than PageSize items.
func (s *LedgerService) GetTransactionHistory(ctx context.Context, query HistoryQuery) ([]*ledger.Transaction, error) {
	if query.PageSize <= 0 || query.Page < 0 {
		return nil, ledger.ErrInvalidPage
	}
	if query.Type != ledger.TransactionTypeUnspecified && !query.Type.Valid() {
		return nil, ledger.ErrInvalidType
	}
	if query.Status != ledger.StatusUnspecified && !query.Status.Valid() {
		return nil, ledger.ErrInvalidStatus
	}

	logData := logging.GetLogData(ctx)

	total, err := s.storage.Reader.UserIndex.Count(ctx, query.User)
	if err != nil {
		return nil, err
	}

	start, end := Window(query.Page, query.PageSize, total)
	if start == end {
		return []*ledger.Transaction{}, nil
	}

	ids, err := s.storage.Reader.UserIndex.Range(ctx, query.User, start, end)
	if err != nil {
		return nil, err
	}

	records, err := s.storage.Reader.Transactions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*ledger.Transaction, 0, len(records))
	for _, record := range records {
		if record.Matches(query.Type, query.Status) {
			result = append(result, record)
		}
	}

	if logData != nil {
		logData.AddData("historyTotal", total)
		logData.AddData("historyWindow", []int{start, end})
		logData.AddData("historyMatched", len(result))
	}
	return result, nil
}

// Window returns the [start, end) positions selected by page over a
// sequence of n ids. A page past the end falls back to the first page.
func Window(page, pageSize, n int) (start, end int) {
	if n <= 0 || pageSize <= 0 {
		return 0, 0
	}
	start = page * pageSize
	if page < 0 || start >= n || start/pageSize != page {
		start = 0
	}
	end = start + pageSize
	if end > n || end < start {
		end = n
	}
	return start, end
}

// TransactionCount is the number of transactions ever recorded.
func (s *LedgerService) TransactionCount(ctx context.Context) (uint64, error) {
	return s.storage.Reader.Counters.Get(ctx, storage.CounterTransactions)
}

func (s *LedgerService) Info() LedgerInfo {
	return LedgerInfo{
		Name:    LedgerName,
		Version: LedgerVersion,
		Admin:   s.access.Admin(),
	}
}
