package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestRawLoggerDirections(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)

	r.Log(false, []byte{0x02, 0x00, 0x04})
	r.Log(true, []byte{0x1f})

	out := buf.String()
	assert.Contains(t, out, "K->H report: 3 bytes, hex: 02 00 04")
	assert.Contains(t, out, "H->K report: 1 bytes, hex: 1f")
}

func TestRawLoggerNoOp(t *testing.T) {
	r := NewRaw(nil)
	// must not panic with a nil writer
	r.Log(true, []byte{0x01})
	r.Log(false, nil)
}
