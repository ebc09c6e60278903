package service

import (
	"context"
	"time"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/operator/actions"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// PreferenceService manages per-user notification categories.
type PreferenceService struct {
	storage   *storage.Storage
	processor Processor
	access    auth.AccessControl
	now       func() time.Time
}

func NewPreferenceService(store *storage.Storage, processor Processor, access auth.AccessControl) *PreferenceService {
	return &PreferenceService{
		storage:   store,
		processor: processor,
		access:    access,
		now:       utcNow,
	}
}

// SetNotificationPreferences sets every listed category of caller to
// enabled. One invalid category rejects the whole list.
func (s *PreferenceService) SetNotificationPreferences(ctx context.Context, caller ledger.Identity, categories []ledger.Category, enabled bool) error {
	return s.processor.Process(ctx, &actions.SetNotificationPreferences{
		Caller:     caller,
		Categories: categories,
		Enabled:    enabled,
		Timestamp:  s.now(),
	})
}

// GetNotificationPreferences returns user's enabled categories in
// ledger.Categories order.
func (s *PreferenceService) GetNotificationPreferences(ctx context.Context, user ledger.Identity) ([]ledger.Category, error) {
	flags, err := s.storage.Reader.Preferences.Flags(ctx, user)
	if err != nil {
		return nil, err
	}

	enabled := make([]ledger.Category, 0, len(ledger.Categories))
	for _, category := range ledger.Categories {
		if flags[category] {
			enabled = append(enabled, category)
		}
	}
	return enabled, nil
}

// Bootstrap enables every category for the administrator unless the
// administrator already has stored preferences.
func (s *PreferenceService) Bootstrap(ctx context.Context) error {
	return s.processor.Process(ctx, &actions.SeedPreferences{User: s.access.Admin()})
}
