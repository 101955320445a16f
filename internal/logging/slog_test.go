package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TextLoggerWritesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug(context.Background(), "getting user", "id", "42")
	log.Warn(context.Background(), "slow query", "ms", 250)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=\"getting user\"")
	assert.Contains(t, out, "id=42")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "ms=250")
}

func TestNew_ProductionLoggerSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"k":"v"`)
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).With("request_id", "abc")

	log.Error(context.Background(), "boom")

	out := buf.String()
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "level=ERROR")
}
