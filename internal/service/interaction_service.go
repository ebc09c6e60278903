package service

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// InteractionService exposes the per-(user, action) counter.
type InteractionService struct {
	tracker counter.Tracker
}

func NewInteractionService(tracker counter.Tracker) *InteractionService {
	return &InteractionService{tracker: tracker}
}

func (s *InteractionService) TrackInteraction(ctx context.Context, user ledger.Identity, action string) (uint64, error) {
	return s.tracker.Increment(ctx, user, action)
}

func (s *InteractionService) GetUserActionCount(ctx context.Context, user ledger.Identity, action string) (uint64, error) {
	return s.tracker.Count(ctx, user, action)
}
