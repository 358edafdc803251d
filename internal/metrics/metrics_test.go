package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTimers(reg)

	m.Created()
	m.Created()
	m.Rejected()
	m.Expired()
	m.Removed()
	m.SetActive(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.removed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.active))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestCommands(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCommands(reg)

	m.Observe("start_timer")
	m.Observe("start_timer")
	m.Observe("none")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classified.WithLabelValues("start_timer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classified.WithLabelValues("none")))
}

func TestNilIsNoOp(t *testing.T) {
	var timers *Timers
	var commands *Commands

	assert.NotPanics(t, func() {
		timers.Created()
		timers.Rejected()
		timers.Expired()
		timers.Removed()
		timers.SetActive(3)
		commands.Observe("none")
	})
}
