package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTrackerCIMode(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(Config{Writer: &buf, Total: 3, IsCI: true})

	tracker.Generated("name")
	tracker.Generated("pages")
	tracker.Failed("tables", "2 validation error(s)")

	out := buf.String()
	if !strings.Contains(out, "✓ name") {
		t.Errorf("output missing generated line: %q", out)
	}
	if !strings.Contains(out, "✗ tables - 2 validation error(s)") {
		t.Errorf("output missing failed line: %q", out)
	}
	if strings.Contains(out, "\r") {
		t.Error("CI mode must not redraw with carriage returns")
	}
}

func TestTrackerBarMode(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(Config{Writer: &buf, Total: 2, IsCI: false})
	// Force bar mode even when the test itself runs in CI.
	tracker.isCI = false

	tracker.Generated("name")
	tracker.Generated("pages")

	out := buf.String()
	if !strings.Contains(out, "\r") {
		t.Errorf("bar mode should redraw in place: %q", out)
	}
	if !strings.Contains(out, "2/2") {
		t.Errorf("output missing progress counts: %q", out)
	}
}

func TestTrackerFinishSummary(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(Config{Writer: &buf, Total: 3, IsCI: true})

	tracker.Generated("name")
	tracker.Failed("tables", "missing export")
	tracker.Failed("automations", "malformed identifier")

	failed := tracker.Finish()
	if failed != 2 {
		t.Errorf("Finish() = %d, want 2", failed)
	}

	out := buf.String()
	if !strings.Contains(out, "Generated 1 of 3 module(s)") {
		t.Errorf("summary missing counts: %q", out)
	}

	// Failures listed sorted by path in the summary block.
	summaryIdx := strings.Index(out, "Failed modules:")
	if summaryIdx == -1 {
		t.Fatalf("summary missing failure list: %q", out)
	}
	summary := out[summaryIdx:]
	autoIdx := strings.Index(summary, "✗ automations")
	tablesIdx := strings.Index(summary, "✗ tables")
	if autoIdx == -1 || tablesIdx == -1 || autoIdx > tablesIdx {
		t.Errorf("failure list missing or unsorted: %q", summary)
	}
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(Config{Writer: &buf, Total: 20, IsCI: true})

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(n int) {
			if n%4 == 0 {
				tracker.Failed("tables", "boom")
			} else {
				tracker.Generated("name")
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	if got := tracker.Finish(); got != 5 {
		t.Errorf("Finish() = %d failed, want 5", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{3*time.Hour + 2*time.Minute + 1*time.Second, "3h2m1s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
