package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/metrics"
	"github.com/carson-networks/tx-ledger/internal/operator"
	"github.com/carson-networks/tx-ledger/internal/storage/memory"
)

var (
	admin    = ledger.MustParseIdentity("0xA")
	user     = ledger.MustParseIdentity("0xB0B")
	stranger = ledger.MustParseIdentity("0x5")
	fixedNow = time.Date(2025, 4, 2, 15, 4, 5, 0, time.UTC)
)

type testEnv struct {
	svc       *Service
	publisher *audit.MockPublisher
	tracker   *counter.MemoryTracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry, err := auth.NewAdminRegistry(admin)
	require.NoError(t, err)

	store := memory.New().Storage()
	publisher := audit.NewMockPublisher()
	delegator := operator.NewOperatorDelegator(store, publisher, metrics.NewMetrics(prometheus.NewRegistry()), logrus.New(), 2)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	tracker := counter.NewMemoryTracker()
	svc := NewService(store, delegator, registry, tracker, logrus.New())
	svc.Ledger.now = func() time.Time { return fixedNow }
	svc.Preferences.now = func() time.Time { return fixedNow }

	return &testEnv{svc: svc, publisher: publisher, tracker: tracker}
}

func deposit(id string, amount int64) NewTransaction {
	return NewTransaction{
		ID:     ledger.MustParseTransactionID(id),
		Type:   ledger.TransactionTypeDeposit,
		Amount: decimal.NewFromInt(amount),
	}
}

func TestEndToEndScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ledgerSvc := env.svc.Ledger

	require.NoError(t, ledgerSvc.RecordTransaction(ctx, user, deposit("0x1", 100)))

	details, err := ledgerSvc.GetTransactionDetails(ctx, "0x1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, details.Status)
	assert.Equal(t, user, details.Owner)
	assert.Equal(t, fixedNow, details.Timestamp)

	require.NoError(t, ledgerSvc.UpdateTransactionStatus(ctx, admin, "0x1", ledger.StatusCompleted))

	updates := env.publisher.EventsOfKind(ledger.EventTransactionStatusUpdated)
	require.Len(t, updates, 1)
	payload, err := updates[0].Decode()
	require.NoError(t, err)
	updated := payload.(ledger.TransactionStatusUpdated)
	assert.Equal(t, ledger.StatusPending, updated.OldStatus)
	assert.Equal(t, ledger.StatusCompleted, updated.NewStatus)

	require.NoError(t, ledgerSvc.UpdateTransactionStatus(ctx, user, "0x1", ledger.StatusCancelled))

	err = ledgerSvc.UpdateTransactionStatus(ctx, stranger, "0x1", ledger.StatusPending)
	assert.ErrorIs(t, err, ledger.ErrPermissionDenied)

	details, err = ledgerSvc.GetTransactionDetails(ctx, "0x1")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCancelled, details.Status)
	assert.Len(t, env.publisher.EventsOfKind(ledger.EventTransactionStatusUpdated), 2, "rejected call emits nothing")
}

func TestRecordTransaction_DetailsAreImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tx := NewTransaction{
		ID:          ledger.MustParseTransactionID("0xbeef"),
		Type:        ledger.TransactionTypeSwap,
		Amount:      decimal.RequireFromString("12.5"),
		Description: "eth to usdc",
	}
	require.NoError(t, env.svc.Ledger.RecordTransaction(ctx, user, tx))
	require.NoError(t, env.svc.Ledger.UpdateTransactionStatus(ctx, user, tx.ID, ledger.StatusFailed))

	details, err := env.svc.Ledger.GetTransactionDetails(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, details.ID)
	assert.Equal(t, user, details.Owner)
	assert.Equal(t, tx.Type, details.Type)
	assert.True(t, tx.Amount.Equal(details.Amount))
	assert.Equal(t, fixedNow, details.Timestamp)
	assert.Equal(t, tx.Description, details.Description)
	assert.Equal(t, ledger.StatusFailed, details.Status)
}

func TestRecordTransaction_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Ledger.RecordTransaction(ctx, user, deposit("0x1", 100)))

	err := env.svc.Ledger.RecordTransaction(ctx, stranger, deposit("0x1", 7))
	assert.ErrorIs(t, err, ledger.ErrDuplicateTransaction)

	details, err := env.svc.Ledger.GetTransactionDetails(ctx, "0x1")
	require.NoError(t, err)
	assert.Equal(t, user, details.Owner)
	assert.True(t, details.Amount.Equal(decimal.NewFromInt(100)))

	count, err := env.svc.Ledger.TransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestRecordTransaction_TracksInteraction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Ledger.RecordTransaction(ctx, user, deposit("0x1", 1)))
	require.NoError(t, env.svc.Ledger.RecordTransaction(ctx, user, deposit("0x2", 1)))
	assert.Error(t, env.svc.Ledger.RecordTransaction(ctx, user, deposit("0x2", 1)))

	count, err := env.svc.Interactions.GetUserActionCount(ctx, user, counter.ActionRecordTransaction)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count, "only accepted records are tracked")
}

func TestGetTransactionDetails_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Ledger.GetTransactionDetails(context.Background(), "")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = env.svc.Ledger.GetTransactionDetails(context.Background(), "0x0")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = env.svc.Ledger.GetTransactionDetails(context.Background(), "0x99")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func recordN(t *testing.T, env *testEnv, n int, typeAt func(i int) ledger.TransactionType) []ledger.TransactionID {
	t.Helper()
	ids := make([]ledger.TransactionID, n)
	for i := 0; i < n; i++ {
		ids[i] = ledger.MustParseTransactionID(fmt.Sprintf("0x%x", i+1))
		require.NoError(t, env.svc.Ledger.RecordTransaction(context.Background(), user, NewTransaction{
			ID:     ids[i],
			Type:   typeAt(i),
			Amount: decimal.NewFromInt(int64(i + 1)),
		}))
	}
	return ids
}

func idsOf(records []*ledger.Transaction) []ledger.TransactionID {
	out := make([]ledger.TransactionID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestGetTransactionHistory_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ids := recordN(t, env, 25, func(int) ledger.TransactionType { return ledger.TransactionTypeTransfer })

	tests := []struct {
		page     int
		expected []ledger.TransactionID
	}{
		{page: 0, expected: ids[0:10]},
		{page: 1, expected: ids[10:20]},
		{page: 2, expected: ids[20:25]},
		{page: 3, expected: ids[0:10]},
		{page: 1000, expected: ids[0:10]},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			records, err := env.svc.Ledger.GetTransactionHistory(context.Background(), HistoryQuery{
				User:     user,
				Page:     tt.page,
				PageSize: 10,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, idsOf(records))
		})
	}
}

func TestGetTransactionHistory_FilterDoesNotBackfill(t *testing.T) {
	env := newTestEnv(t)
	depositAt := map[int]bool{1: true, 4: true, 8: true}
	ids := recordN(t, env, 15, func(i int) ledger.TransactionType {
		if depositAt[i] || i >= 10 {
			return ledger.TransactionTypeDeposit
		}
		return ledger.TransactionTypeWithdrawal
	})

	records, err := env.svc.Ledger.GetTransactionHistory(context.Background(), HistoryQuery{
		User:     user,
		Page:     0,
		PageSize: 10,
		Type:     ledger.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.TransactionID{ids[1], ids[4], ids[8]}, idsOf(records))
}

func TestGetTransactionHistory_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ids := recordN(t, env, 4, func(int) ledger.TransactionType { return ledger.TransactionTypeOther })
	require.NoError(t, env.svc.Ledger.UpdateTransactionStatus(ctx, user, ids[2], ledger.StatusCompleted))

	records, err := env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{
		User:     user,
		PageSize: 10,
		Status:   ledger.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.TransactionID{ids[2]}, idsOf(records))

	records, err = env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{
		User:     user,
		PageSize: 10,
		Type:     ledger.TransactionTypeOther,
		Status:   ledger.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, []ledger.TransactionID{ids[0], ids[1], ids[3]}, idsOf(records))
}

func TestGetTransactionHistory_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{User: user, PageSize: 0})
	assert.ErrorIs(t, err, ledger.ErrInvalidPage)

	_, err = env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{User: user, Page: -1, PageSize: 5})
	assert.ErrorIs(t, err, ledger.ErrInvalidPage)

	_, err = env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{User: user, PageSize: 5, Type: 77})
	assert.ErrorIs(t, err, ledger.ErrInvalidType)

	_, err = env.svc.Ledger.GetTransactionHistory(ctx, HistoryQuery{User: user, PageSize: 5, Status: 77})
	assert.ErrorIs(t, err, ledger.ErrInvalidStatus)
}

func TestGetTransactionHistory_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	records, err := env.svc.Ledger.GetTransactionHistory(context.Background(), HistoryQuery{User: stranger, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		page, size, n int
		start, end    int
	}{
		{0, 10, 25, 0, 10},
		{2, 10, 25, 20, 25},
		{3, 10, 25, 0, 10},
		{0, 10, 5, 0, 5},
		{1, 10, 5, 0, 5},
		{0, 10, 0, 0, 0},
		{1, 10, 20, 10, 20},
		{2, 10, 20, 0, 10},
	}
	for _, tt := range tests {
		start, end := Window(tt.page, tt.size, tt.n)
		assert.Equal(t, tt.start, start, "start of page %d size %d n %d", tt.page, tt.size, tt.n)
		assert.Equal(t, tt.end, end, "end of page %d size %d n %d", tt.page, tt.size, tt.n)
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	prefs := env.svc.Preferences

	require.NoError(t, prefs.SetNotificationPreferences(ctx, user, []ledger.Category{ledger.CategoryDeposits}, true))

	enabled, err := prefs.GetNotificationPreferences(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Category{ledger.CategoryDeposits}, enabled)

	require.NoError(t, prefs.SetNotificationPreferences(ctx, user,
		[]ledger.Category{ledger.CategoryStatusChanges, ledger.CategoryAll}, true))
	enabled, err = prefs.GetNotificationPreferences(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Category{
		ledger.CategoryAll, ledger.CategoryDeposits, ledger.CategoryStatusChanges,
	}, enabled, "fixed order, not input order")

	require.NoError(t, prefs.SetNotificationPreferences(ctx, user, []ledger.Category{ledger.CategoryDeposits}, false))
	enabled, err = prefs.GetNotificationPreferences(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Category{ledger.CategoryAll, ledger.CategoryStatusChanges}, enabled)

	assert.Len(t, env.publisher.EventsOfKind(ledger.EventNotificationPreferencesSet), 4)
}

func TestPreferences_InvalidCategoryRejectsBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Preferences.SetNotificationPreferences(ctx, user,
		[]ledger.Category{ledger.CategoryDeposits, ledger.CategoryUnspecified}, true)
	assert.ErrorIs(t, err, ledger.ErrInvalidCategory)

	enabled, err := env.svc.Preferences.GetNotificationPreferences(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, enabled)
	assert.Empty(t, env.publisher.Events())
}

func TestBootstrap_SeedsAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Bootstrap(ctx))
	require.NoError(t, env.svc.Bootstrap(ctx))

	enabled, err := env.svc.Preferences.GetNotificationPreferences(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, ledger.Categories, enabled)
	assert.Empty(t, env.publisher.Events(), "seeding is not an audited mutation")
}

func TestBootstrap_KeepsAdminChoicesOnRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Bootstrap(ctx))
	require.NoError(t, env.svc.Preferences.SetNotificationPreferences(ctx, admin,
		[]ledger.Category{ledger.CategoryDeposits}, false))
	require.NoError(t, env.svc.Bootstrap(ctx))

	enabled, err := env.svc.Preferences.GetNotificationPreferences(ctx, admin)
	require.NoError(t, err)
	assert.NotContains(t, enabled, ledger.CategoryDeposits)
	assert.Len(t, enabled, len(ledger.Categories)-1)
}

func TestAuditService_ListEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recordN(t, env, 3, func(int) ledger.TransactionType { return ledger.TransactionTypeDeposit })

	events, err := env.svc.Audit.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{events[0].Seq, events[1].Seq, events[2].Seq})

	events, err = env.svc.Audit.ListEvents(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].Seq)
}

func TestLedgerInfo(t *testing.T) {
	env := newTestEnv(t)

	info := env.svc.Ledger.Info()
	assert.Equal(t, admin, info.Admin)
	assert.NotEmpty(t, info.Name)
	assert.NotEmpty(t, info.Version)
}
