package ledger

import "errors"

var (
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidStatus        = errors.New("invalid transaction status")
	ErrInvalidCategory      = errors.New("invalid notification category")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrNotFound             = errors.New("transaction not found")
	ErrPermissionDenied     = errors.New("permission denied")

	// ErrUnauthenticated is returned when no caller identity could be resolved.
	ErrUnauthenticated = errors.New("caller identity required")
	// ErrInvalidPage covers a non-positive page size or a negative page.
	ErrInvalidPage = errors.New("invalid page")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidIdentifier, "invalid_identifier"},
	{ErrInvalidType, "invalid_type"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrInvalidCategory, "invalid_category"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrDuplicateTransaction, "duplicate_transaction"},
	{ErrNotFound, "not_found"},
	{ErrPermissionDenied, "permission_denied"},
	{ErrUnauthenticated, "unauthenticated"},
	{ErrInvalidPage, "invalid_page"},
}

// ErrorKind returns a stable label for err, "ok" for nil and "internal" for
// anything that is not a ledger error.
func ErrorKind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

// IsValidationError reports whether err is a rejection of caller input
// rather than an infrastructure failure.
func IsValidationError(err error) bool {
	kind := ErrorKind(err)
	return kind != "ok" && kind != "internal"
}
