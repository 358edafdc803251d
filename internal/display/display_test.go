package display

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{4*time.Minute + 5*time.Second, "4m05s"},
		{10 * time.Minute, "10m00s"},
		{time.Hour + 2*time.Minute + 10*time.Second, "1h02m10s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.d))
		})
	}
}

var sampleTimers = []domain.Timer{
	{Name: "pasta", DurationSeconds: 600, RemainingSeconds: 245, Running: true},
	{Name: "sauce", DurationSeconds: 300, RemainingSeconds: 120},
	{Name: "eggs", DurationSeconds: 60, Expired: true},
}

func TestRenderTimers(t *testing.T) {
	assert.Empty(t, RenderTimers(nil, 80))

	bar := RenderTimers(sampleTimers, 120)
	assert.Contains(t, bar, "pasta: ")
	assert.Contains(t, bar, "4m05s")
	assert.Contains(t, bar, "sauce: paused 2m00s")
	assert.Contains(t, bar, "eggs: DONE!")
	// Creation order is kept.
	assert.Less(t, strings.Index(bar, "pasta"), strings.Index(bar, "eggs"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "cookvoice", Title(nil))
	assert.Equal(t, "cookvoice | pasta: 4m05s | sauce: paused | eggs: DONE!", Title(sampleTimers))
}

func TestRenderBannerCentres(t *testing.T) {
	narrow := RenderBanner(10)
	wide := RenderBanner(200)
	require.NotEmpty(t, narrow)
	assert.Greater(t, len(wide), len(narrow))
	assert.True(t, strings.HasPrefix(wide, "    "))
}

func TestConsoleConcurrentLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.PrintChat("hello there")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.Contains(t, l, "hello there")
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(NewConsole(&buf), logger.New(logger.LevelOff, nil))

	require.NoError(t, n.Notify(context.Background(), "Pasta is up."))
	require.NoError(t, n.NotifyUrgent(context.Background(), "Eggs are burning."))

	out := buf.String()
	assert.Contains(t, out, "Pasta is up.")
	assert.Contains(t, out, "Eggs are burning.")
}
