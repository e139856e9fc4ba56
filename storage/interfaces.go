package storage

import (
	"context"
	"time"

	"github.com/poiesic/schoolfinder/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// DirectoryRepository holds the loaded, status-annotated institutions of each data source.
// Contents are read-only between ReplaceSource calls.
type DirectoryRepository interface {
	Repository

	// ReplaceSource atomically swaps the institutions stored for a data source.
	// Load order is preserved and returned by ListSource.
	ReplaceSource(ctx context.Context, sourceID string, institutions []core.Institution) error

	// ListSource returns the institutions of a data source in load order.
	// Returns ErrNotFound if the source was never loaded.
	ListSource(ctx context.Context, sourceID string) ([]core.Institution, error)

	// GetInstitution retrieves a single institution by its directory id.
	// Returns ErrNotFound if the institution doesn't exist.
	GetInstitution(ctx context.Context, sourceID string, id core.FlexibleID) (*core.Institution, error)

	// HasSource reports whether a data source has been loaded.
	HasSource(ctx context.Context, sourceID string) (bool, error)

	// DeleteSource removes all institutions of a data source.
	DeleteSource(ctx context.Context, sourceID string) error
}

// GeocodeCacheRepository stores geocoder answers keyed by normalized query text.
type GeocodeCacheRepository interface {
	Repository

	// GetGeocode returns a cached result.
	// Returns ErrNotFound when the query is not cached or the entry expired.
	GetGeocode(ctx context.Context, query string) (*core.GeocodeResult, error)

	// PutGeocode caches a result for ttl. A zero ttl never expires.
	PutGeocode(ctx context.Context, query string, result *core.GeocodeResult, ttl time.Duration) error
}
