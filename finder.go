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


package schoolfinder

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/directory"
	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/geocode/nominatim"
	"github.com/poiesic/schoolfinder/search"
	"github.com/poiesic/schoolfinder/storage"
	"github.com/poiesic/schoolfinder/storage/badger"
)

// Finder wires the directory store, loader, geocoder and search engine.
// Sessions created from one Finder share the loaded directories.
type Finder struct {
	backend   *badger.Backend
	dirRepo   storage.DirectoryRepository
	cacheRepo storage.GeocodeCacheRepository
	loader    *directory.Loader
	geocoder  geocode.Geocoder
	engine    *search.Engine
	sources   []core.DataSource
	logger    *slog.Logger
}

// FinderOption configures a Finder.
type FinderOption func(*finderOptions)

type finderOptions struct {
	geocodeConfig *geocode.Config
	geocoder      geocode.Geocoder
	noGeocoder    bool
	cacheTTL      time.Duration
	cacheGeocodes bool
	sources       []core.DataSource
	policy        search.Policy
	monitor       search.ResolutionMonitor
	observer      geocode.Observer
	httpClient    *http.Client
	logger        *slog.Logger
}

// WithGeocodeConfig configures the Nominatim client.
func WithGeocodeConfig(cfg *geocode.Config) FinderOption {
	return func(o *finderOptions) {
		o.geocodeConfig = cfg
	}
}

// WithGeocoder replaces the Nominatim client. A nil geocoder disables
// remote lookups entirely.
func WithGeocoder(g geocode.Geocoder) FinderOption {
	return func(o *finderOptions) {
		o.geocoder = g
		o.noGeocoder = g == nil
	}
}

// WithGeocodeCache caches successful geocodes for ttl. Zero never expires.
func WithGeocodeCache(ttl time.Duration) FinderOption {
	return func(o *finderOptions) {
		o.cacheGeocodes = true
		o.cacheTTL = ttl
	}
}

// WithSources replaces core.DefaultSources.
func WithSources(sources ...core.DataSource) FinderOption {
	return func(o *finderOptions) {
		o.sources = sources
	}
}

// WithPolicy replaces search.DefaultPolicy().
func WithPolicy(p search.Policy) FinderOption {
	return func(o *finderOptions) {
		o.policy = p
	}
}

// WithResolutionMonitor observes every resolution of every session.
func WithResolutionMonitor(m search.ResolutionMonitor) FinderOption {
	return func(o *finderOptions) {
		o.monitor = m
	}
}

// WithGeocodeObserver observes every remote geocoder call.
func WithGeocodeObserver(obs geocode.Observer) FinderOption {
	return func(o *finderOptions) {
		o.observer = obs
	}
}

// WithHTTPClient is used for directory downloads and geocoder requests.
func WithHTTPClient(hc *http.Client) FinderOption {
	return func(o *finderOptions) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) FinderOption {
	return func(o *finderOptions) {
		o.logger = logger
	}
}

// Open creates a Finder backed by an in-memory store.
func Open(opts ...FinderOption) (*Finder, error) {
	options := &finderOptions{
		geocodeConfig: geocode.DefaultConfig(),
		sources:       core.DefaultSources,
		policy:        search.DefaultPolicy(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	engine, err := search.NewEngine(
		search.WithPolicy(options.policy),
		search.WithMonitor(options.monitor),
		search.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(options.logger)
	if err != nil {
		return nil, err
	}

	dirRepo, err := badger.NewDirectoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	cacheRepo, err := badger.NewGeocodeCacheRepository(backend)
	if err != nil {
		dirRepo.Close()
		backend.Close()
		return nil, err
	}

	loaderOpts := []directory.Option{directory.WithLogger(options.logger)}
	if options.httpClient != nil {
		loaderOpts = append(loaderOpts, directory.WithHTTPClient(options.httpClient))
	}
	loader, err := directory.NewLoader(dirRepo, loaderOpts...)
	if err != nil {
		cacheRepo.Close()
		dirRepo.Close()
		backend.Close()
		return nil, err
	}

	geocoder, err := buildGeocoder(options, cacheRepo)
	if err != nil {
		cacheRepo.Close()
		dirRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Finder{
		backend:   backend,
		dirRepo:   dirRepo,
		cacheRepo: cacheRepo,
		loader:    loader,
		geocoder:  geocoder,
		engine:    engine,
		sources:   slices.Clone(options.sources),
		logger:    options.logger,
	}, nil
}

func buildGeocoder(options *finderOptions, cacheRepo storage.GeocodeCacheRepository) (geocode.Geocoder, error) {
	if options.noGeocoder {
		return nil, nil
	}

	g := options.geocoder
	if g == nil {
		clientOpts := []nominatim.Option{
			nominatim.WithObserver(options.observer),
			nominatim.WithLogger(options.logger),
		}
		if options.httpClient != nil {
			clientOpts = append(clientOpts, nominatim.WithHTTPClient(options.httpClient))
		}
		client, err := nominatim.New(options.geocodeConfig, clientOpts...)
		if err != nil {
			return nil, err
		}
		g = client
	}

	if !options.cacheGeocodes {
		return g, nil
	}
	return geocode.NewCachingGeocoder(g, cacheRepo, options.cacheTTL, options.logger)
}

// Close releases the store. Sessions must not be used afterwards.
func (f *Finder) Close() error {
	if err := f.cacheRepo.Close(); err != nil {
		f.logger.Error("error closing geocode cache repository", "err", err)
		return err
	}
	if err := f.dirRepo.Close(); err != nil {
		f.logger.Error("error closing directory repository", "err", err)
		return err
	}
	if err := f.backend.Close(); err != nil {
		f.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Sources returns the configured data sources.
func (f *Finder) Sources() []core.DataSource {
	return slices.Clone(f.sources)
}

// Engine returns the shared resolution engine.
func (f *Finder) Engine() *search.Engine {
	return f.engine
}

// Geocoder returns the remote geocoder, nil when disabled.
func (f *Finder) Geocoder() geocode.Geocoder {
	return f.geocoder
}

// Directory returns the institutions of a source, loading it on first use.
func (f *Finder) Directory(ctx context.Context, sourceID string) ([]core.Institution, error) {
	src, err := core.FindSource(f.sources, sourceID)
	if err != nil {
		return nil, err
	}
	return f.loader.Directory(ctx, src)
}

// Institution looks up one institution of a loaded source.
func (f *Finder) Institution(ctx context.Context, sourceID string, id core.FlexibleID) (*core.Institution, error) {
	if _, err := f.Directory(ctx, sourceID); err != nil {
		return nil, err
	}
	return f.dirRepo.GetInstitution(ctx, sourceID, id)
}

// Preload loads every configured source concurrently.
// It returns the failures keyed by source id.
func (f *Finder) Preload(ctx context.Context, opts ...directory.PipelineOption) (map[string]error, error) {
	opts = append([]directory.PipelineOption{directory.WithPipelineLogger(f.logger)}, opts...)
	pipeline, err := directory.NewPipeline(f.loader, opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()
	return pipeline.Preload(ctx, f.sources...), nil
}

// NewSession creates a session over the Finder's sources.
func (f *Finder) NewSession(opts ...SessionOption) (*Session, error) {
	opts = append([]SessionOption{WithSessionLogger(f.logger)}, opts...)
	return NewSession(f.engine, f.loader, f.geocoder, f.sources, opts...)
}
