package apierror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ledger.ErrUnauthenticated, http.StatusUnauthorized},
		{ledger.ErrPermissionDenied, http.StatusForbidden},
		{ledger.ErrNotFound, http.StatusNotFound},
		{ledger.ErrDuplicateTransaction, http.StatusConflict},
		{ledger.ErrInvalidIdentifier, http.StatusBadRequest},
		{ledger.ErrInvalidType, http.StatusBadRequest},
		{ledger.ErrInvalidStatus, http.StatusBadRequest},
		{ledger.ErrInvalidCategory, http.StatusBadRequest},
		{ledger.ErrInvalidAmount, http.StatusBadRequest},
		{ledger.ErrInvalidPage, http.StatusBadRequest},
		{counter.ErrInvalidAction, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ledger.ErrNotFound), http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, Status(tt.err), tt.err.Error())
	}
}

func TestFrom_HidesInternalDetail(t *testing.T) {
	err := From(context.Background(), "failed to record transaction", errors.New("pq: password authentication failed"))

	var model *huma.ErrorModel
	require.ErrorAs(t, err, &model)
	assert.Equal(t, http.StatusInternalServerError, model.Status)
	assert.Empty(t, model.Errors)
}

func TestFrom_KeepsValidationDetail(t *testing.T) {
	err := From(context.Background(), "failed to record transaction", ledger.ErrInvalidAmount)

	var model *huma.ErrorModel
	require.ErrorAs(t, err, &model)
	assert.Equal(t, http.StatusBadRequest, model.Status)
	require.Len(t, model.Errors, 1)
	assert.Equal(t, ledger.ErrInvalidAmount.Error(), model.Errors[0].Message)
}
