package directory

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/schoolfinder/core"
)

// ProgressTracker reports the outcome of each source of a preload as it
// finishes, then a summary line.
type ProgressTracker struct {
	mu        sync.Mutex
	writer    io.Writer
	total     int
	done      int
	loaded    int
	records   int
	failed    []string
	startTime time.Time
}

// NewProgressTracker creates a tracker for total sources writing to w.
// The clock starts immediately.
func NewProgressTracker(w io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Loaded records a source that is now available with count institutions.
func (p *ProgressTracker) Loaded(source core.DataSource, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.loaded++
	p.records += count
	fmt.Fprintf(p.writer, "[%d/%d] %s: loaded %d institutions\n", p.done, p.total, sourceName(source), count)
}

// Failed records a source that could not be loaded.
func (p *ProgressTracker) Failed(source core.DataSource, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.failed = append(p.failed, source.ID)
	fmt.Fprintf(p.writer, "[%d/%d] %s: failed: %v\n", p.done, p.total, sourceName(source), err)
}

// Finish writes the summary line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "Loaded %d of %d directories (%d institutions", p.loaded, p.total, p.records)
	if len(p.failed) > 0 {
		fmt.Fprintf(p.writer, ", %d failed", len(p.failed))
	}
	fmt.Fprintf(p.writer, ") in %s\n", time.Since(p.startTime).Round(time.Millisecond))
}

// Failures returns the ids of the sources reported as failed, in report order.
func (p *ProgressTracker) Failures() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.failed...)
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressTracker) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

func sourceName(source core.DataSource) string {
	if source.Label == "" {
		return source.ID
	}
	return source.Label + " (" + source.ID + ")"
}
