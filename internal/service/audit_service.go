package service

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditService replays the durable audit log.
type AuditService struct {
	storage *storage.Storage
}

func NewAuditService(store *storage.Storage) *AuditService {
	return &AuditService{storage: store}
}

// ListEvents returns events with a sequence number above afterSeq, oldest
// first. A non-positive limit uses the default; large limits are capped.
func (s *AuditService) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*audit.Event, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if afterSeq < 0 {
		afterSeq = 0
	}
	return s.storage.Reader.Audit.List(ctx, afterSeq, limit)
}
