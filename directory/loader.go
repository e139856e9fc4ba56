package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/retry"
	"github.com/poiesic/schoolfinder/storage"
)

// Loader downloads directory files and keeps them in a DirectoryRepository.
// Each source is fetched at most once; later requests are served from the repository.
type Loader struct {
	repo        storage.DirectoryRepository
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) error {
		if hc == nil {
			return errors.New("directory: http client is nil")
		}
		l.httpClient = hc
		return nil
	}
}

// WithRetry sets the attempt count and base backoff delay for downloads.
// Default is 3 attempts starting at 500ms.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(l *Loader) error {
		if attempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		l.maxAttempts = attempts
		l.retryDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger.With("component", "directory-loader")
		return nil
	}
}

// NewLoader creates a new directory loader.
func NewLoader(repo storage.DirectoryRepository, opts ...Option) (*Loader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	l := &Loader{
		repo:        repo,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: 3,
		retryDelay:  500 * time.Millisecond,
		logger:      slog.Default().With("component", "directory-loader"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Directory returns the institutions of source, downloading them on first use.
func (l *Loader) Directory(ctx context.Context, source core.DataSource) ([]core.Institution, error) {
	loaded, err := l.repo.HasSource(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if loaded {
		return l.repo.ListSource(ctx, source.ID)
	}
	return l.Load(ctx, source)
}

// Load downloads source unconditionally and replaces its stored institutions.
// On failure the repository is left untouched.
func (l *Loader) Load(ctx context.Context, source core.DataSource) ([]core.Institution, error) {
	institutions, err := l.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := l.repo.ReplaceSource(ctx, source.ID, institutions); err != nil {
		l.logger.Error("error storing directory", "source", source.ID, "err", err)
		return nil, err
	}
	l.logger.Info("loaded directory", "source", source.ID, "count", len(institutions))
	return institutions, nil
}

// Fetch downloads and decodes source without storing it.
// Records that cannot be decoded are skipped; status tiers are assigned here.
func (l *Loader) Fetch(ctx context.Context, source core.DataSource) ([]core.Institution, error) {
	var raw []json.RawMessage
	err := retry.WithBackoff(ctx, func() error {
		var err error
		raw, err = l.download(ctx, source.URL)
		return err
	}, l.maxAttempts, l.retryDelay)
	if err != nil {
		l.logger.Error("error fetching directory", "source", source.ID, "url", source.URL, "err", err)
		return nil, err
	}

	institutions := make([]core.Institution, 0, len(raw))
	for i, rec := range raw {
		inst, ok := l.decode(source.ID, i, rec)
		if ok {
			institutions = append(institutions, inst)
		}
	}
	return institutions, nil
}

func (l *Loader) download(ctx context.Context, url string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %w", ErrFetchFailed, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %w", ErrMalformedDirectory, err))
	}
	return raw, nil
}

// decode turns one record into an Institution. Records that are not objects
// or whose name or address is not a string are skipped; optional fields of
// the wrong type are dropped and the record is kept.
func (l *Loader) decode(sourceID string, pos int, data json.RawMessage) (core.Institution, bool) {
	rec, err := parseRecord(data)
	if err != nil {
		l.logger.Warn("skipping malformed directory record", "source", sourceID, "position", pos, "err", err)
		return core.Institution{}, false
	}
	inst, err := rec.institution()
	if err != nil {
		l.logger.Warn("skipping malformed directory record", "source", sourceID, "position", pos, "err", err)
		return core.Institution{}, false
	}
	if len(rec.bad) > 0 {
		l.logger.Warn("ignoring malformed fields", "source", sourceID, "position", pos, "fields", rec.bad)
	}

	inst.Name = strings.TrimSpace(inst.Name)
	if inst.Name == "" {
		l.logger.Warn("skipping directory record without name", "source", sourceID, "position", pos)
		return core.Institution{}, false
	}
	if inst.ID == "" {
		inst.ID = core.FlexibleID("pos-" + strconv.Itoa(pos))
	}
	if inst.Coords != nil {
		if err := core.ValidateCoordinate(*inst.Coords); err != nil {
			l.logger.Warn("dropping invalid coordinates", "source", sourceID, "id", inst.ID, "err", err)
			inst.Coords = nil
		}
	}
	if inst.Website != nil && strings.TrimSpace(*inst.Website) == "" {
		inst.Website = nil
	}
	if inst.Phone != nil && strings.TrimSpace(*inst.Phone) == "" {
		inst.Phone = nil
	}

	inst.Status = core.StatusFor(inst.Name, inst.Address)
	return inst, true
}
