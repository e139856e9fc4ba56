// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for schoolfinder.
//
// This package defines repository interfaces that decouple the directory store
// and geocode cache from the code that reads them.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return concrete types; consumers
// accept the interfaces defined here:
//
//	repo, err := badger.NewDirectoryRepository(backend) // satisfies storage.DirectoryRepository
//
// # Architecture
//
//   - Repository: transaction support and lifecycle
//   - DirectoryRepository: institutions per data source, in load order
//   - GeocodeCacheRepository: geocoder answers with expiry
//
// # Usage
//
// Everything lives in memory for the lifetime of a process:
//
//	dirRepo, cacheRepo, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
