package badger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/storage"
)

// GeocodeCacheRepository implements storage.GeocodeCacheRepository for BadgerDB.
// Expiry uses Badger's native entry TTL.
type GeocodeCacheRepository struct {
	backend *Backend
}

var _ storage.GeocodeCacheRepository = (*GeocodeCacheRepository)(nil)

// NewGeocodeCacheRepository creates a new GeocodeCacheRepository.
func NewGeocodeCacheRepository(backend *Backend) (*GeocodeCacheRepository, error) {
	return &GeocodeCacheRepository{
		backend: backend,
	}, nil
}

// Close releases resources. GeocodeCacheRepository has no resources to release.
func (r *GeocodeCacheRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *GeocodeCacheRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetGeocode returns a cached result for the query.
func (r *GeocodeCacheRepository) GetGeocode(ctx context.Context, query string) (*core.GeocodeResult, error) {
	var result *core.GeocodeResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeGeocodeKey(normalizeQuery(query)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalGeocodeResult(val)
			return err
		})
	}, false)
	return result, err
}

// PutGeocode caches a result for ttl. A zero ttl never expires.
func (r *GeocodeCacheRepository) PutGeocode(ctx context.Context, query string, result *core.GeocodeResult, ttl time.Duration) error {
	if result == nil {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeGeocodeKey(normalizeQuery(query)), storage.MarshalGeocodeResult(result))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// normalizeQuery folds case and whitespace so equivalent queries share an entry.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
