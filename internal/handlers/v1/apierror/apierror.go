package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/logging"
)

// Status maps a service error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return http.StatusConflict
	case ledger.IsValidationError(err), errors.Is(err, counter.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// From converts a service error into a huma error. Internal failures are
// logged on the request and reported without detail.
func From(ctx context.Context, message string, err error) error {
	status := Status(err)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("error", err.Error())
		logData.AddData("errorKind", ledger.ErrorKind(err))
	}

	if status >= http.StatusInternalServerError {
		return huma.NewError(status, message)
	}
	return huma.NewError(status, message, err)
}
