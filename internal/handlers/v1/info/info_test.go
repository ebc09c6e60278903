package info

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/service"
)

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) Info() service.LedgerInfo {
	return m.Called().Get(0).(service.LedgerInfo)
}

func (m *mockLedgerService) TransactionCount(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func newTestAPI(t *testing.T, svc ledgerService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_Info(t *testing.T) {
	mockSvc := new(mockLedgerService)
	mockSvc.On("Info").Return(service.LedgerInfo{Name: "tx-ledger", Version: "1.0.0", Admin: ledger.MustParseIdentity("0xA")})

	resp := newTestAPI(t, mockSvc).Get("/v1/ledger/info")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body InfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, InfoResponse{Name: "tx-ledger", Version: "1.0.0", Admin: "0xa"}, body)
}

func TestHTTP_Stats(t *testing.T) {
	mockSvc := new(mockLedgerService)
	mockSvc.On("TransactionCount", mock.Anything).Return(uint64(25), nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/ledger/stats")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(25), body.TransactionCount)
}

func TestHTTP_Stats_Error(t *testing.T) {
	mockSvc := new(mockLedgerService)
	mockSvc.On("TransactionCount", mock.Anything).Return(uint64(0), errors.New("db down"))

	resp := newTestAPI(t, mockSvc).Get("/v1/ledger/stats")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
