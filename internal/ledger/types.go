package ledger

import (
	"fmt"
	"strings"
)

// TransactionType classifies a recorded action. The zero value means
// "unspecified" and doubles as "no filter" in history queries.
type TransactionType uint8

const (
	TransactionTypeUnspecified TransactionType = iota
	TransactionTypeDeposit
	TransactionTypeWithdrawal
	TransactionTypeSwap
	TransactionTypeTransfer
	TransactionTypeOther
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypeDeposit:    "deposit",
	TransactionTypeWithdrawal: "withdrawal",
	TransactionTypeSwap:       "swap",
	TransactionTypeTransfer:   "transfer",
	TransactionTypeOther:      "other",
}

func (t TransactionType) Valid() bool {
	_, ok := transactionTypeNames[t]
	return ok
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseTransactionType maps a name to its type. Unknown names yield
// TransactionTypeUnspecified and false.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range transactionTypeNames {
		if name == s {
			return t, true
		}
	}
	return TransactionTypeUnspecified, false
}

func (t TransactionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *TransactionType) UnmarshalText(b []byte) error {
	parsed, ok := ParseTransactionType(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(b))
	}
	*t = parsed
	return nil
}

// Status is the lifecycle state of a transaction. The zero value is
// "unspecified" and doubles as "no filter" in history queries.
type Status uint8

const (
	StatusUnspecified Status = iota
	StatusPending
	StatusCompleted
	StatusFailed
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusCompleted: "completed",
	StatusFailed:    "failed",
	StatusCancelled: "cancelled",
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ParseStatus maps a name to its status. Unknown names yield
// StatusUnspecified and false.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == s {
			return st, true
		}
	}
	return StatusUnspecified, false
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, ok := ParseStatus(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(b))
	}
	*s = parsed
	return nil
}

// Category is a notification classification a user can toggle.
type Category uint8

const (
	CategoryUnspecified Category = iota
	CategoryAll
	CategoryDeposits
	CategoryWithdrawals
	CategoryStatusChanges
)

// Categories lists every category in the order preference lookups report them.
var Categories = []Category{
	CategoryAll,
	CategoryDeposits,
	CategoryWithdrawals,
	CategoryStatusChanges,
}

var categoryNames = map[Category]string{
	CategoryAll:           "all",
	CategoryDeposits:      "deposits",
	CategoryWithdrawals:   "withdrawals",
	CategoryStatusChanges: "status_changes",
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory maps a name to its category. Unknown names yield
// CategoryUnspecified and false.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return CategoryUnspecified, false
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(b))
	}
	*c = parsed
	return nil
}
