package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgeraudit "github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type mockEventLister struct {
	mock.Mock
}

func (m *mockEventLister) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*ledgeraudit.Event, error) {
	args := m.Called(ctx, afterSeq, limit)
	events, _ := args.Get(0).([]*ledgeraudit.Event)
	return events, args.Error(1)
}

func newTestAPI(t *testing.T, svc eventLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_ListEvents(t *testing.T) {
	event, err := ledgeraudit.NewEvent(ledger.NotificationPreferencesSet{
		User:     ledger.MustParseIdentity("0x1"),
		Category: ledger.CategoryDeposits,
		Enabled:  true,
	}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	event.Seq = 7

	mockSvc := new(mockEventLister)
	mockSvc.On("ListEvents", mock.Anything, int64(6), 100).Return([]*ledgeraudit.Event{event}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/audit?after=6")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Events []struct {
			Seq     int64  `json:"seq"`
			Kind    string `json:"kind"`
			Subject string `json:"subject"`
			Payload struct {
				User     string `json:"user"`
				Category string `json:"category"`
				Enabled  bool   `json:"enabled"`
			} `json:"payload"`
		} `json:"events"`
		Next int64 `json:"next"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, int64(7), body.Events[0].Seq)
	assert.Equal(t, "NotificationPreferencesSet", body.Events[0].Kind)
	assert.Equal(t, "ledger.events.NotificationPreferencesSet", body.Events[0].Subject)
	assert.Equal(t, "0x1", body.Events[0].Payload.User)
	assert.Equal(t, "deposits", body.Events[0].Payload.Category)
	assert.True(t, body.Events[0].Payload.Enabled)
	assert.Equal(t, int64(7), body.Next)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListEvents_EmptyKeepsCursor(t *testing.T) {
	mockSvc := new(mockEventLister)
	mockSvc.On("ListEvents", mock.Anything, int64(42), 10).Return([]*ledgeraudit.Event{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/audit?after=42&limit=10")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListEventsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Events)
	assert.Equal(t, int64(42), body.Next)
}

func TestHTTP_ListEvents_ServiceError(t *testing.T) {
	mockSvc := new(mockEventLister)
	mockSvc.On("ListEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	resp := newTestAPI(t, mockSvc).Get("/v1/audit")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
