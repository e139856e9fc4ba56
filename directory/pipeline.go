package directory

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/schoolfinder/core"
)

// Pipeline preloads several data sources concurrently on a worker pool.
type Pipeline struct {
	loader   *Loader
	pool     *ants.Pool
	progress io.Writer
	logger   *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the number of concurrent downloads.
// Default is 4, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithProgress writes one line per source to w as it finishes, then a summary.
func WithProgress(w io.Writer) PipelineOption {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "directory-pipeline")
		return nil
	}
}

// NewPipeline creates a new preload pipeline.
func NewPipeline(loader *Loader, opts ...PipelineOption) (*Pipeline, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}

	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader: loader,
		pool:   pool,
		logger: slog.Default().With("component", "directory-pipeline"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Preload makes sure every source is in the repository.
// It blocks until all sources are done and returns the failures keyed by source id.
// A failed source does not stop the others.
func (p *Pipeline) Preload(ctx context.Context, sources ...core.DataSource) map[string]error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = make(map[string]error)
	)

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(sources))
	}

	record := func(source core.DataSource, count int, err error) {
		if err != nil {
			mu.Lock()
			failures[source.ID] = err
			mu.Unlock()
		}
		if tracker == nil {
			return
		}
		if err != nil {
			tracker.Failed(source, err)
		} else {
			tracker.Loaded(source, count)
		}
	}

	for _, source := range sources {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			institutions, err := p.loader.Directory(ctx, source)
			if err != nil {
				p.logger.Error("error preloading directory", "source", source.ID, "err", err)
			}
			record(source, len(institutions), err)
		})
		if err != nil {
			wg.Done()
			p.logger.Error("error submitting preload task", "source", source.ID, "err", err)
			record(source, 0, err)
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}
	return failures
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
