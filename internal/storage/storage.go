package storage

import (
	"context"
)

// BeginFunc opens a new Writer.
type BeginFunc func(ctx context.Context) (*Writer, error)

// Storage is the persistent store: a committed-state Reader and a way to
// open Writers.
type Storage struct {
	Reader *Reader

	begin BeginFunc
	close func() error
}

func NewStorage(reader *Reader, begin BeginFunc, closeFn func() error) *Storage {
	return &Storage{
		Reader: reader,
		begin:  begin,
		close:  closeFn,
	}
}

// Write opens a Writer. The caller must Commit or Rollback it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Ping checks that committed state can be read.
func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.Reader.Counters.Get(ctx, CounterTransactions)
	return err
}
