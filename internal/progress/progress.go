package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracker reports the progress of a multi-module generation run: one line per
// property path in CI mode, a redrawn progress bar otherwise, and a final
// summary either way. Safe for concurrent use.
type Tracker struct {
	writer    io.Writer
	total     int
	generated int
	failed    int
	failures  map[string]string
	startTime time.Time
	isCI      bool
	mu        sync.Mutex
}

// Config holds configuration for a Tracker
type Config struct {
	Writer io.Writer
	Total  int
	IsCI   bool // Set to true in CI/CD environments to disable redraw output
}

// NewTracker creates a progress tracker for a generation run
func NewTracker(cfg Config) *Tracker {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	// Auto-detect CI environment
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}

	return &Tracker{
		writer:    cfg.Writer,
		total:     cfg.Total,
		failures:  make(map[string]string),
		startTime: time.Now(),
		isCI:      cfg.IsCI,
	}
}

// Generated records one successfully generated module.
func (t *Tracker) Generated(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generated++
	if t.isCI {
		fmt.Fprintf(t.writer, "✓ %s\n", path)
		return
	}
	t.render()
}

// Failed records one module that failed blueprint validation.
func (t *Tracker) Failed(path, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failed++
	t.failures[path] = reason
	if t.isCI {
		fmt.Fprintf(t.writer, "✗ %s - %s\n", path, reason)
		return
	}
	t.render()
}

// render redraws the progress bar line
func (t *Tracker) render() {
	done := t.generated + t.failed
	progress := 0.0
	if t.total > 0 {
		progress = float64(done) / float64(t.total)
	}

	barWidth := 40
	filled := int(float64(barWidth) * progress)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(t.writer, "\r[%s] %.0f%% | %d/%d | ✓ %d | ✗ %d | %s",
		bar,
		progress*100,
		done,
		t.total,
		t.generated,
		t.failed,
		formatDuration(time.Since(t.startTime)),
	)
}

// Finish terminates the progress line and prints the run summary. It returns
// the number of failed modules so callers can derive their exit status.
func (t *Tracker) Finish() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isCI {
		fmt.Fprintln(t.writer)
	}

	fmt.Fprintf(t.writer, "Generated %d of %d module(s) in %s\n",
		t.generated, t.total, formatDuration(time.Since(t.startTime)))

	if len(t.failures) > 0 {
		fmt.Fprintln(t.writer, "Failed modules:")
		for _, path := range sortedFailurePaths(t.failures) {
			fmt.Fprintf(t.writer, "  ✗ %s - %s\n", path, t.failures[path])
		}
	}

	return t.failed
}

func sortedFailurePaths(failures map[string]string) []string {
	paths := make([]string, 0, len(failures))
	for path := range failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
