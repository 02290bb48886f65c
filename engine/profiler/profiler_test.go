package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(slog.New(slog.NewTextHandler(&buf, nil)))

	start := time.Unix(0, 0)
	clock := start
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for i := 0; i < 29; i++ {
		clock = clock.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, buf.String())

	clock = start.Add(time.Second / 2)
	p.SetInterval(time.Second / 2)
	assert.True(t, p.Tick())
	assert.InDelta(t, 60, p.FPS(), 0.001)
	assert.Contains(t, buf.String(), "msg=profiler")
	assert.Contains(t, buf.String(), "fps=60")

	assert.False(t, p.Tick())
}
