package memory

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var (
	_ storage.ITransactionWriter = (*transactionTable)(nil)
	_ storage.IUserIndexWriter   = (*userIndexTable)(nil)
	_ storage.IPreferenceWriter  = (*preferenceTable)(nil)
	_ storage.ICounterWriter     = (*counterTable)(nil)
	_ storage.IAuditWriter       = (*auditTable)(nil)
	_ storage.IAuditReader       = (*auditTable)(nil)
)

// Each table reads committed state when overlay is nil and committed state
// plus the Writer's staged changes otherwise. Write methods require an overlay.

type transactionTable struct {
	store   *Store
	overlay *overlay
}

func (t *transactionTable) lookup(id ledger.TransactionID) (ledger.Transaction, bool) {
	if t.overlay != nil {
		if tx, ok := t.overlay.transactions[id]; ok {
			return tx, true
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	tx, ok := t.store.transactions[id]
	return tx, ok
}

func (t *transactionTable) FindByID(_ context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	tx, ok := t.lookup(id)
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &tx, nil
}

func (t *transactionTable) FindByIDs(_ context.Context, ids []ledger.TransactionID) ([]*ledger.Transaction, error) {
	result := make([]*ledger.Transaction, 0, len(ids))
	for _, id := range ids {
		if tx, ok := t.lookup(id); ok {
			result = append(result, &tx)
		}
	}
	return result, nil
}

func (t *transactionTable) FindByIDForUpdate(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t *transactionTable) Insert(_ context.Context, transaction *ledger.Transaction) error {
	if err := t.overlay.check(); err != nil {
		return err
	}
	if _, exists := t.lookup(transaction.ID); exists {
		return ledger.ErrDuplicateTransaction
	}
	t.overlay.transactions[transaction.ID] = *transaction
	return nil
}

func (t *transactionTable) UpdateStatus(_ context.Context, id ledger.TransactionID, status ledger.Status) error {
	if err := t.overlay.check(); err != nil {
		return err
	}
	tx, ok := t.lookup(id)
	if !ok {
		return ledger.ErrNotFound
	}
	tx.Status = status
	t.overlay.transactions[id] = tx
	return nil
}

type userIndexTable struct {
	store   *Store
	overlay *overlay
}

func (t *userIndexTable) sequence(user ledger.Identity) []ledger.TransactionID {
	t.store.mu.RLock()
	committed := t.store.userIndex[user]
	t.store.mu.RUnlock()

	if t.overlay == nil || len(t.overlay.appends[user]) == 0 {
		return committed
	}
	seq := make([]ledger.TransactionID, 0, len(committed)+len(t.overlay.appends[user]))
	seq = append(seq, committed...)
	return append(seq, t.overlay.appends[user]...)
}

func (t *userIndexTable) Count(_ context.Context, user ledger.Identity) (int, error) {
	return len(t.sequence(user)), nil
}

func (t *userIndexTable) Range(_ context.Context, user ledger.Identity, start, end int) ([]ledger.TransactionID, error) {
	seq := t.sequence(user)
	if start < 0 {
		start = 0
	}
	if end > len(seq) {
		end = len(seq)
	}
	if start >= end {
		return nil, nil
	}
	out := make([]ledger.TransactionID, end-start)
	copy(out, seq[start:end])
	return out, nil
}

func (t *userIndexTable) Append(ctx context.Context, user ledger.Identity, id ledger.TransactionID) (int, error) {
	if err := t.overlay.check(); err != nil {
		return 0, err
	}
	position, err := t.Count(ctx, user)
	if err != nil {
		return 0, err
	}
	t.overlay.appends[user] = append(t.overlay.appends[user], id)
	return position, nil
}

type preferenceTable struct {
	store   *Store
	overlay *overlay
}

func (t *preferenceTable) Flags(_ context.Context, user ledger.Identity) (map[ledger.Category]bool, error) {
	flags := make(map[ledger.Category]bool)

	t.store.mu.RLock()
	for category, enabled := range t.store.preferences[user] {
		flags[category] = enabled
	}
	t.store.mu.RUnlock()

	if t.overlay != nil {
		for category, enabled := range t.overlay.preferences[user] {
			flags[category] = enabled
		}
	}
	return flags, nil
}

func (t *preferenceTable) Set(_ context.Context, user ledger.Identity, category ledger.Category, enabled bool) error {
	if err := t.overlay.check(); err != nil {
		return err
	}
	if t.overlay.preferences[user] == nil {
		t.overlay.preferences[user] = make(map[ledger.Category]bool)
	}
	t.overlay.preferences[user][category] = enabled
	return nil
}

type counterTable struct {
	store   *Store
	overlay *overlay
}

func (t *counterTable) Get(_ context.Context, name string) (uint64, error) {
	if t.overlay != nil {
		if value, ok := t.overlay.counters[name]; ok {
			return value, nil
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.counters[name], nil
}

func (t *counterTable) Increment(ctx context.Context, name string) (uint64, error) {
	if err := t.overlay.check(); err != nil {
		return 0, err
	}
	value, err := t.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	value++
	t.overlay.counters[name] = value
	return value, nil
}

type auditTable struct {
	store   *Store
	overlay *overlay
}

func (t *auditTable) Append(_ context.Context, event *audit.Event) error {
	if err := t.overlay.check(); err != nil {
		return err
	}
	t.store.mu.RLock()
	committed := len(t.store.events)
	t.store.mu.RUnlock()

	event.Seq = int64(committed + len(t.overlay.events) + 1)
	t.overlay.events = append(t.overlay.events, event)
	return nil
}

func (t *auditTable) List(_ context.Context, afterSeq int64, limit int) ([]*audit.Event, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	if afterSeq < 0 {
		afterSeq = 0
	}
	start := int(afterSeq)
	if start >= len(t.store.events) || limit <= 0 {
		return nil, nil
	}
	end := start + limit
	if end > len(t.store.events) {
		end = len(t.store.events)
	}
	out := make([]*audit.Event, end-start)
	copy(out, t.store.events[start:end])
	return out, nil
}
