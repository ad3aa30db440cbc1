package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeStats struct {
	ok, failed, skipped int
	duration            time.Duration
}

func (s *fakeStats) GetOK() int                 { return s.ok }
func (s *fakeStats) GetFailed() int             { return s.failed }
func (s *fakeStats) GetSkipped() int            { return s.skipped }
func (s *fakeStats) GetDuration() time.Duration { return s.duration }

func TestRunStart(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf)
	o.SetColor(false)

	o.RunStart("cleanup.yaml", "ssh://deploy@web1:22")

	got := buf.String()
	if !strings.Contains(got, "PLAN cleanup.yaml") {
		t.Errorf("expected plan banner, got %q", got)
	}
	if !strings.Contains(got, "ssh://deploy@web1:22") {
		t.Errorf("expected target in banner, got %q", got)
	}
}

func TestRunEnd(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf)
	o.SetColor(false)

	o.RunEnd(&fakeStats{ok: 3, failed: 1, skipped: 2, duration: 1500 * time.Millisecond})

	got := buf.String()
	for _, want := range []string{"RECAP", "ok=3", "failed=1", "skipped=2", "(1.50s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in recap, got %q", want, got)
		}
	}
}

func TestOpResult(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		message       string
		wantIndicator string
		wantMessage   bool
	}{
		{"ok", "ok", "done", "✓", false},
		{"skipped", "skipped (dry run)", "", "○", false},
		{"failed", "failed", "no such file", "✗", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			o := New(&buf)
			o.SetColor(false)

			o.OpResult("delete /tmp/x", tt.status, tt.message)

			got := buf.String()
			if !strings.Contains(got, tt.wantIndicator) {
				t.Errorf("expected indicator %q, got %q", tt.wantIndicator, got)
			}
			if tt.wantMessage != strings.Contains(got, tt.message) && tt.message != "" {
				t.Errorf("message visibility wrong in %q", got)
			}
		})
	}
}

func TestDebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf)
	o.SetColor(false)

	o.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got %q", buf.String())
	}

	o.SetDebug(true)
	o.Debug("visible %d", 2)
	if !strings.Contains(buf.String(), "DEBUG visible 2") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf)
	o.SetColor(false)

	o.Error("boom")
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected no ANSI codes, got %q", buf.String())
	}
}
