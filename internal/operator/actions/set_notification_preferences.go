package actions

import (
	"context"
	"time"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// SetNotificationPreferences writes one flag per listed category. The whole
// list is validated before anything is written.
type SetNotificationPreferences struct {
	Caller     ledger.Identity
	Categories []ledger.Category
	Enabled    bool
	Timestamp  time.Time

	IAction
}

func (s *SetNotificationPreferences) Name() string { return "set_notification_preferences" }

func (s *SetNotificationPreferences) Perform(ctx context.Context, writer *storage.Writer) error {
	if s.Caller.IsZero() {
		return ledger.ErrUnauthenticated
	}
	for _, category := range s.Categories {
		if !category.Valid() {
			return ledger.ErrInvalidCategory
		}
	}

	for _, category := range s.Categories {
		if err := writer.Preferences.Set(ctx, s.Caller, category, s.Enabled); err != nil {
			return err
		}

		event, err := audit.NewEvent(ledger.NotificationPreferencesSet{
			User:     s.Caller,
			Category: category,
			Enabled:  s.Enabled,
		}, s.Timestamp)
		if err != nil {
			return err
		}
		if err = writer.RecordEvent(ctx, event); err != nil {
			return err
		}
	}

	return nil
}
