package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names an audit event.
type EventKind string

const (
	EventTransactionRecorded        EventKind = "TransactionRecorded"
	EventTransactionStatusUpdated   EventKind = "TransactionStatusUpdated"
	EventNotificationPreferencesSet EventKind = "NotificationPreferencesSet"
)

// EventPayload is the body of an audit event.
type EventPayload interface {
	Kind() EventKind
}

type TransactionRecorded struct {
	ID        TransactionID   `json:"id"`
	User      Identity        `json:"user"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

func (TransactionRecorded) Kind() EventKind { return EventTransactionRecorded }

type TransactionStatusUpdated struct {
	ID        TransactionID `json:"id"`
	OldStatus Status        `json:"oldStatus"`
	NewStatus Status        `json:"newStatus"`
	Timestamp time.Time     `json:"timestamp"`
}

func (TransactionStatusUpdated) Kind() EventKind { return EventTransactionStatusUpdated }

type NotificationPreferencesSet struct {
	User     Identity `json:"user"`
	Category Category `json:"category"`
	Enabled  bool     `json:"enabled"`
}

func (NotificationPreferencesSet) Kind() EventKind { return EventNotificationPreferencesSet }
