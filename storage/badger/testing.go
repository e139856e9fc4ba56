package badger

import "github.com/poiesic/schoolfinder/storage"

// NewMemoryRepositories creates in-memory directory and geocode cache repositories.
// Returns dirRepo, cacheRepo, backend, and error.
// Caller must close the backend when done.
func NewMemoryRepositories() (storage.DirectoryRepository, storage.GeocodeCacheRepository, *Backend, error) {
	backend, err := OpenBackend(nil)
	if err != nil {
		return nil, nil, nil, err
	}

	dirRepo, err := NewDirectoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	cacheRepo, err := NewGeocodeCacheRepository(backend)
	if err != nil {
		dirRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return dirRepo, cacheRepo, backend, nil
}
