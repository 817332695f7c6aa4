// pkg/logger/logger_test.go
package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "warn")

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "error 4")
}

func TestLogger_Trade(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")
	defer func() { globalLogger = nil }()

	Trade(42, "buy", "BTCUSDT", "ok")

	out := buf.String()
	assert.Contains(t, out, "СДЕЛКА: buy BTCUSDT")
	assert.Contains(t, out, "user=42")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		"warning": "warning",
		"error":   "error",
		"unknown": "info",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(in).String())
		})
	}
}
