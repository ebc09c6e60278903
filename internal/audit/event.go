package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// Event is an immutable audit record of one accepted mutation.
// Seq is assigned by the store when the event is appended.
type Event struct {
	ID        uuid.UUID        `json:"id"`
	Seq       int64            `json:"seq"`
	Kind      ledger.EventKind `json:"kind"`
	Payload   json.RawMessage  `json:"payload"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewEvent wraps payload into an envelope with a fresh id.
func NewEvent(payload ledger.EventPayload, createdAt time.Time) (*Event, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("audit.NewEvent: generate id: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("audit.NewEvent: encode %s: %w", payload.Kind(), err)
	}

	return &Event{
		ID:        id,
		Kind:      payload.Kind(),
		Payload:   body,
		CreatedAt: createdAt.UTC(),
	}, nil
}

// Decode returns the typed payload of e.
func (e *Event) Decode() (ledger.EventPayload, error) {
	var (
		payload ledger.EventPayload
		err     error
	)

	switch e.Kind {
	case ledger.EventTransactionRecorded:
		var p ledger.TransactionRecorded
		err = json.Unmarshal(e.Payload, &p)
		payload = p
	case ledger.EventTransactionStatusUpdated:
		var p ledger.TransactionStatusUpdated
		err = json.Unmarshal(e.Payload, &p)
		payload = p
	case ledger.EventNotificationPreferencesSet:
		var p ledger.NotificationPreferencesSet
		err = json.Unmarshal(e.Payload, &p)
		payload = p
	default:
		return nil, fmt.Errorf("audit: unknown event kind %q", e.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("audit: decode %s: %w", e.Kind, err)
	}
	return payload, nil
}
