package actions

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// SeedPreferences enables every category for User without emitting events.
// It only writes when User has no stored flags, so choices made after the
// first start survive restarts.
type SeedPreferences struct {
	User ledger.Identity

	IAction
}

func (s *SeedPreferences) Name() string { return "seed_preferences" }

func (s *SeedPreferences) Perform(ctx context.Context, writer *storage.Writer) error {
	if s.User.IsZero() {
		return ledger.ErrInvalidIdentifier
	}

	existing, err := writer.Preferences.Flags(ctx, s.User)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, category := range ledger.Categories {
		if err := writer.Preferences.Set(ctx, s.User, category, true); err != nil {
			return err
		}
	}
	return nil
}
