package logattr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmptyAttrsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("msg", Error(nil), TokenID(""), Subject(""))
	assert.NotContains(t, buf.String(), "error=")
	assert.NotContains(t, buf.String(), "jti=")
	assert.NotContains(t, buf.String(), "sub=")
}

func TestAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("msg",
		Error(errors.New("boom")),
		TokenID("abc"),
		Subject("u1"),
		Algorithm("HS256"),
		Latency(2*time.Millisecond),
		Group("blacklist", slog.Bool("enabled", true)),
	)
	out := buf.String()
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "jti=abc")
	assert.Contains(t, out, "sub=u1")
	assert.Contains(t, out, "algorithm=HS256")
	assert.Contains(t, out, "latency=2ms")
	assert.Contains(t, out, "blacklist.enabled=true")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
