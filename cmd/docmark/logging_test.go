package main

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     bool
		verbose   bool
		wantWarn  bool
		wantDebug bool
	}{
		{name: "default shows warnings", wantWarn: true},
		{name: "verbose shows debug", verbose: true, wantWarn: true, wantDebug: true},
		{name: "quiet shows nothing", quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.quiet, tt.verbose)
			logger.Debug("debug line", zap.String("file", "a.md"))
			logger.Warn("warn line")
			_ = logger.Sync()

			out := buf.String()
			if got := strings.Contains(out, "warn line"); got != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v (output %q)", got, tt.wantWarn, out)
			}
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v (output %q)", got, tt.wantDebug, out)
			}
			if tt.wantDebug && !strings.Contains(out, `"file": "a.md"`) {
				t.Errorf("output = %q, want structured field", out)
			}
		})
	}
}
