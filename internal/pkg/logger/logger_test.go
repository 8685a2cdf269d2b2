package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Output: &buf})

	l.Info("attempt", map[string]interface{}{"b": 2, "a": 1})

	out := buf.String()
	assert.Contains(t, out, "attempt")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a=1")), bytes.Index(buf.Bytes(), []byte("b=2")))
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})

	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	assert.Empty(t, buf.String())

	l.Error("boom", errors.New("disk full"), nil)
	assert.Contains(t, buf.String(), "disk full")
}

func TestLoggerJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", JSON: true, Output: &buf})

	l.Warn("slow call", map[string]interface{}{"ms": 1200})

	assert.Contains(t, buf.String(), `"msg":"slow call"`)
	assert.Contains(t, buf.String(), `"ms":1200`)
}
