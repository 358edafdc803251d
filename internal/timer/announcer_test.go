package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) snapshot() (messages, urgent []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...), append([]string(nil), m.urgent...)
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAnnouncer(t *testing.T, m *Manager, n *mockNotifier, opts ...AnnouncerOption) (*Announcer, *fakeClock) {
	t.Helper()
	a := NewAnnouncer(m, n, logger.New(logger.LevelOff, nil), opts...)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	a.now = clock.now
	return a, clock
}

func TestAnnouncerEscalates(t *testing.T) {
	m := newTestManager(t)
	n := &mockNotifier{}
	a, clock := newTestAnnouncer(t, m, n, WithNotifyCooldown(15*time.Second), WithMaxEscalation(3))
	ctx := context.Background()

	tm, _ := m.Create("eggs", 1)
	tickN(m, tm.ID, 60)
	require.Len(t, a.Pending(), 1)

	a.tick(ctx)
	messages, urgent := n.snapshot()
	require.Equal(t, []string{"[Timer] eggs is up."}, urgent)
	assert.Empty(t, messages)

	// Cooldown holds the next reminder back.
	a.tick(ctx)
	messages, _ = n.snapshot()
	assert.Empty(t, messages)

	for i := 0; i < 5; i++ {
		clock.advance(16 * time.Second)
		a.tick(ctx)
	}

	messages, urgent = n.snapshot()
	assert.Len(t, urgent, 1)
	assert.Equal(t, []string{
		"[Timer] eggs -- check it now.",
		"[Timer] eggs. Now.",
		"[Timer] eggs.",
	}, messages)
	assert.Empty(t, a.Pending(), "gives up after max escalation")
}

func TestAnnouncerForgetsDismissedTimers(t *testing.T) {
	m := newTestManager(t)
	n := &mockNotifier{}
	a, _ := newTestAnnouncer(t, m, n)

	tm, _ := m.Create("rice", 1)
	tickN(m, tm.ID, 60)
	require.True(t, m.Dismiss(tm.ID))

	a.tick(context.Background())
	messages, urgent := n.snapshot()
	assert.Empty(t, messages)
	assert.Empty(t, urgent)
	assert.Empty(t, a.Pending())
}

func TestAnnouncerAlmostDone(t *testing.T) {
	m := newTestManager(t)
	n := &mockNotifier{}
	a, _ := newTestAnnouncer(t, m, n, WithAlmostDoneThreshold(30*time.Second))
	ctx := context.Background()

	long, _ := m.Create("roast", 2)
	short, _ := m.Create("toast", 1) // not longer than twice the threshold

	tickN(m, long.ID, 89)
	tickN(m, short.ID, 45)
	a.tick(ctx)
	messages, _ := n.snapshot()
	assert.Empty(t, messages)

	tickN(m, long.ID, 1)
	a.tick(ctx)
	a.tick(ctx)
	messages, _ = n.snapshot()
	assert.Equal(t, []string{"[Timer] roast is almost done, 30 seconds left."}, messages)
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{60 * time.Second, "1 minute"},
		{89 * time.Second, "1 minute"},
		{90 * time.Second, "2 minutes"},
		{10 * time.Minute, "10 minutes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRemaining(tt.d), tt.d.String())
	}
}
