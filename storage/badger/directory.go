package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/storage"
)

// DirectoryRepository implements storage.DirectoryRepository for BadgerDB.
type DirectoryRepository struct {
	backend *Backend
}

var _ storage.DirectoryRepository = (*DirectoryRepository)(nil)

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(backend *Backend) (*DirectoryRepository, error) {
	return &DirectoryRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DirectoryRepository has no resources to release.
func (r *DirectoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DirectoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceSource swaps the institutions of a data source in a single transaction.
func (r *DirectoryRepository) ReplaceSource(ctx context.Context, sourceID string, institutions []core.Institution) error {
	if sourceID == "" {
		return fmt.Errorf("%w: empty source id", storage.ErrInvalidQuery)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteSource(tx, sourceID); err != nil {
			return err
		}

		for i := range institutions {
			inst := &institutions[i]
			entryKey := makeEntryKey(sourceID, uint32(i))
			if err := tx.Set(entryKey, storage.MarshalInstitution(inst)); err != nil {
				return err
			}
			if err := tx.Set(makeIDKey(inst.Key(sourceID)), entryKey); err != nil {
				return err
			}
		}

		count := storage.MarshalPosition(uint32(len(institutions)))
		if err := tx.Set(makeSourceKey(sourceID), count); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListSource returns the institutions of a data source in load order.
func (r *DirectoryRepository) ListSource(ctx context.Context, sourceID string) ([]core.Institution, error) {
	var results []core.Institution
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeSourceKey(sourceID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeSourcePrefix(sourceID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var inst *core.Institution
			err := iter.Item().Value(func(val []byte) error {
				var err error
				inst, err = storage.UnmarshalInstitution(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, *inst)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []core.Institution{}
	}
	return results, nil
}

// GetInstitution retrieves a single institution by its directory id.
func (r *DirectoryRepository) GetInstitution(ctx context.Context, sourceID string, id core.FlexibleID) (*core.Institution, error) {
	var result *core.Institution
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		lookup := core.Institution{ID: id}
		item, err := tx.Get(makeIDKey(lookup.Key(sourceID)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		entryKey, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err = tx.Get(entryKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalInstitution(val)
			return err
		})
	}, false)
	return result, err
}

// HasSource reports whether a data source has been loaded.
func (r *DirectoryRepository) HasSource(ctx context.Context, sourceID string) (bool, error) {
	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeSourceKey(sourceID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// DeleteSource removes all institutions of a data source.
func (r *DirectoryRepository) DeleteSource(ctx context.Context, sourceID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteSource(tx, sourceID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// deleteSource removes entries, id index keys and the marker of a source.
func deleteSource(tx *badger.Txn, sourceID string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeSourcePrefix(sourceID)
	iter := tx.NewIterator(opts)

	var idKeys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			inst, err := storage.UnmarshalInstitution(val)
			if err != nil {
				return err
			}
			idKeys = append(idKeys, makeIDKey(inst.Key(sourceID)))
			return nil
		})
		if err != nil {
			iter.Close()
			return err
		}
	}
	iter.Close()

	for _, key := range idKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	if err := deletePrefix(tx, makeSourcePrefix(sourceID)); err != nil {
		return err
	}
	return tx.Delete(makeSourceKey(sourceID))
}
