package badger

import (
	"context"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
	"github.com/bbrooksdsq/ai-knowledge-database/storage"
	"github.com/dgraph-io/badger/v4"
)

// QueryLogRepository implements storage.QueryLogRepository for BadgerDB.
type QueryLogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QueryLogRepository = (*QueryLogRepository)(nil)

// NewQueryLogRepository creates a new QueryLogRepository.
func NewQueryLogRepository(backend *Backend) (*QueryLogRepository, error) {
	idSeq, err := backend.GetSequence(queryLogIDSeq)
	if err != nil {
		return nil, err
	}

	return &QueryLogRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QueryLogRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *QueryLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendQuery adds a query log entry.
func (r *QueryLogRepository) AppendQuery(ctx context.Context, entry *core.SearchQueryLog) (*core.SearchQueryLog, error) {
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		if entry.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			entry.Id = core.ID(nextID)
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}

		if err := tx.Set(makeQueryLogKey(entry.Id), storage.MarshalQueryLog(entry)); err != nil {
			return err
		}
		if err := tx.Set(makeQueryLogDateKey(entry.CreatedAt, entry.Id), storage.MarshalID(entry.Id)); err != nil {
			return err
		}
		return nil
	}, true)

	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecentQueries retrieves the N most recent query log entries, most recent
// first, by walking the time index in reverse.
func (r *QueryLogRepository) RecentQueries(ctx context.Context, limit int) ([]*core.SearchQueryLog, error) {
	entries := make([]*core.SearchQueryLog, 0)

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queryLogDatePrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the prefix range for reverse iteration
		seekKey := append([]byte(queryLogDatePrefix+":"), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)

		for iter.Seek(seekKey); iter.Valid() && len(entries) < limit; iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry != nil {
				entries = append(entries, entry)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *QueryLogRepository) readEntry(tx *badger.Txn, id core.ID) (*core.SearchQueryLog, error) {
	item, err := tx.Get(makeQueryLogKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.SearchQueryLog
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalQueryLog(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
