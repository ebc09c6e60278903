package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

var at = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func TestNewEvent_DecodeRoundTrip(t *testing.T) {
	recorded := ledger.TransactionRecorded{
		ID:        "0x2a",
		User:      "0x1",
		Type:      ledger.TransactionTypeWithdrawal,
		Amount:    decimal.RequireFromString("12.50"),
		Timestamp: at,
	}

	event, err := NewEvent(recorded, at)
	require.NoError(t, err)
	assert.False(t, event.ID.IsNil())
	assert.Equal(t, ledger.EventTransactionRecorded, event.Kind)
	assert.Zero(t, event.Seq)

	payload, err := event.Decode()
	require.NoError(t, err)
	decoded, ok := payload.(ledger.TransactionRecorded)
	require.True(t, ok)
	assert.Equal(t, recorded.ID, decoded.ID)
	assert.Equal(t, ledger.TransactionTypeWithdrawal, decoded.Type)
	assert.True(t, recorded.Amount.Equal(decoded.Amount))
	assert.True(t, recorded.Timestamp.Equal(decoded.Timestamp))
}

func TestNewEvent_PayloadUsesNames(t *testing.T) {
	event, err := NewEvent(ledger.TransactionStatusUpdated{
		ID:        "0x2a",
		OldStatus: ledger.StatusPending,
		NewStatus: ledger.StatusCancelled,
		Timestamp: at,
	}, at)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &raw))
	assert.Equal(t, "pending", raw["oldStatus"])
	assert.Equal(t, "cancelled", raw["newStatus"])
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	payload := ledger.NotificationPreferencesSet{User: "0x1", Category: ledger.CategoryAll, Enabled: true}

	a, err := NewEvent(payload, at)
	require.NoError(t, err)
	b, err := NewEvent(payload, at)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestDecode_UnknownKind(t *testing.T) {
	event := &Event{Kind: "Nope", Payload: json.RawMessage(`{}`)}

	_, err := event.Decode()

	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	event := &Event{Kind: ledger.EventNotificationPreferencesSet}

	assert.Equal(t, "ledger.events.NotificationPreferencesSet", Subject(event))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	event, err := NewEvent(ledger.NotificationPreferencesSet{User: "0x1", Category: ledger.CategoryDeposits, Enabled: true}, at)
	require.NoError(t, err)
	event.Seq = 9

	publisher := &LogPublisher{Logger: logger}
	require.NoError(t, publisher.Publish(context.Background(), []*Event{event}))
	require.NoError(t, publisher.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "AuditEvent", line["msg"])
	assert.Equal(t, event.ID.String(), line["eventID"])
	assert.EqualValues(t, 9, line["seq"])
	assert.Equal(t, "NotificationPreferencesSet", line["kind"])
}

func TestMockPublisher(t *testing.T) {
	mock := NewMockPublisher()
	recorded, err := NewEvent(ledger.TransactionRecorded{ID: "0x1", User: "0x1", Type: ledger.TransactionTypeDeposit, Amount: decimal.NewFromInt(1)}, at)
	require.NoError(t, err)
	prefs, err := NewEvent(ledger.NotificationPreferencesSet{User: "0x1", Category: ledger.CategoryAll}, at)
	require.NoError(t, err)

	require.NoError(t, mock.Publish(context.Background(), []*Event{recorded, prefs}))
	assert.Len(t, mock.Events(), 2)
	assert.Len(t, mock.EventsOfKind(ledger.EventTransactionRecorded), 1)

	mock.SetPublishError(errors.New("down"))
	assert.Error(t, mock.Publish(context.Background(), []*Event{recorded}))
	assert.Len(t, mock.Events(), 2)

	mock.Reset()
	assert.Empty(t, mock.Events())
	require.NoError(t, mock.Close())
	assert.True(t, mock.IsClosed())
}
