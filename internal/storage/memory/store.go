// Package memory is a process-local persistent store. Writers stage their
// changes in an overlay that is applied on Commit and dropped on Rollback;
// readers only ever see committed state.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/carson-networks/tx-ledger/internal/audit"
	"github.com/carson-networks/tx-ledger/internal/ledger"
	"github.com/carson-networks/tx-ledger/internal/storage"
)

var errWriterClosed = errors.New("memory: writer already committed or rolled back")

// Store holds committed state. One Writer is open at a time.
type Store struct {
	writeMu sync.Mutex

	mu           sync.RWMutex
	transactions map[ledger.TransactionID]ledger.Transaction
	userIndex    map[ledger.Identity][]ledger.TransactionID
	preferences  map[ledger.Identity]map[ledger.Category]bool
	counters     map[string]uint64
	events       []*audit.Event
}

func New() *Store {
	return &Store{
		transactions: make(map[ledger.TransactionID]ledger.Transaction),
		userIndex:    make(map[ledger.Identity][]ledger.TransactionID),
		preferences:  make(map[ledger.Identity]map[ledger.Category]bool),
		counters:     make(map[string]uint64),
	}
}

// Storage exposes the store through the storage facade.
func (s *Store) Storage() *storage.Storage {
	reader := &storage.Reader{
		Transactions: &transactionTable{store: s},
		UserIndex:    &userIndexTable{store: s},
		Preferences:  &preferenceTable{store: s},
		Counters:     &counterTable{store: s},
		Audit:        &auditTable{store: s},
	}
	return storage.NewStorage(reader, s.begin, nil)
}

func (s *Store) begin(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()

	o := &overlay{
		store:        s,
		transactions: make(map[ledger.TransactionID]ledger.Transaction),
		appends:      make(map[ledger.Identity][]ledger.TransactionID),
		preferences:  make(map[ledger.Identity]map[ledger.Category]bool),
		counters:     make(map[string]uint64),
	}
	return storage.NewWriter(o, storage.Tables{
		Transactions: &transactionTable{store: s, overlay: o},
		UserIndex:    &userIndexTable{store: s, overlay: o},
		Preferences:  &preferenceTable{store: s, overlay: o},
		Counters:     &counterTable{store: s, overlay: o},
		Audit:        &auditTable{store: s, overlay: o},
	}), nil
}

// overlay is the staged, uncommitted state of one Writer.
type overlay struct {
	store        *Store
	transactions map[ledger.TransactionID]ledger.Transaction
	appends      map[ledger.Identity][]ledger.TransactionID
	preferences  map[ledger.Identity]map[ledger.Category]bool
	counters     map[string]uint64
	events       []*audit.Event
	done         bool
}

func (o *overlay) Commit(_ context.Context) error {
	if o.done {
		return errWriterClosed
	}
	s := o.store

	s.mu.Lock()
	for id, tx := range o.transactions {
		s.transactions[id] = tx
	}
	for user, ids := range o.appends {
		s.userIndex[user] = append(s.userIndex[user], ids...)
	}
	for user, flags := range o.preferences {
		if s.preferences[user] == nil {
			s.preferences[user] = make(map[ledger.Category]bool)
		}
		for category, enabled := range flags {
			s.preferences[user][category] = enabled
		}
	}
	for name, value := range o.counters {
		s.counters[name] = value
	}
	s.events = append(s.events, o.events...)
	s.mu.Unlock()

	o.done = true
	s.writeMu.Unlock()
	return nil
}

func (o *overlay) Rollback(_ context.Context) error {
	if o.done {
		return nil
	}
	o.done = true
	o.store.writeMu.Unlock()
	return nil
}

func (o *overlay) check() error {
	if o.done {
		return errWriterClosed
	}
	return nil
}
