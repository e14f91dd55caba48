package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		json  bool
		debug bool
	}{
		{name: "console info"},
		{name: "json info", json: true},
		{name: "console debug", debug: true},
		{name: "json debug", json: true, debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug)

			require.NoError(t, err)
			require.NotNil(t, log)
			if tt.debug {
				assert.True(t, log.Core().Enabled(-1)) // zapcore.DebugLevel
			} else {
				assert.False(t, log.Core().Enabled(-1))
			}
		})
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short string untouched", in: "hello", limit: 10, want: "hello"},
		{name: "long string truncated", in: "hello world", limit: 5, want: "hello..."},
		{name: "zero limit", in: "hello", limit: 0, want: ""},
		{name: "whitespace trimmed", in: "  hi  ", limit: 10, want: "hi"},
		{name: "multibyte safe", in: "héllo wörld", limit: 6, want: "héllo ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.in, tt.limit))
		})
	}
}
