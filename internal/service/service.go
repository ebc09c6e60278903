package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/counter"
	"github.com/carson-networks/tx-ledger/internal/operator/actions"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

// Processor runs one mutation in its own storage transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Ledger       *LedgerService
	Preferences  *PreferenceService
	Audit        *AuditService
	Interactions *InteractionService
}

// NewService creates a new Service. Reads go to store directly, mutations
// through processor.
func NewService(
	store *storage.Storage,
	processor Processor,
	access auth.AccessControl,
	tracker counter.Tracker,
	logger *logrus.Logger,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Ledger:       NewLedgerService(store, processor, access, tracker, logger),
		Preferences:  NewPreferenceService(store, processor, access),
		Audit:        NewAuditService(store),
		Interactions: NewInteractionService(tracker),
	}
}

// Bootstrap prepares state that must exist before serving requests.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.Preferences.Bootstrap(ctx)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
