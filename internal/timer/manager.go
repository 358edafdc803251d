// Package timer owns the cooking timers: a bounded registry where each timer
// runs its own clock, plus background helpers that announce expiry and nudge
// the cook when a step runs long.
package timer

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
	"github.com/hammamikhairi/cookvoice/internal/metrics"
)

// DefaultMaxTimers caps how many non-expired timers may exist at once.
const DefaultMaxTimers = 5

// Option configures the manager.
type Option func(*Manager)

// WithMaxTimers sets the cap on concurrently live timers.
func WithMaxTimers(n int) Option {
	return func(m *Manager) {
		m.maxTimers = n
	}
}

// WithTickInterval sets how much wall time one logical second takes.
func WithTickInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.tickInterval = d
	}
}

// WithCompletion registers a callback fired once per timer on expiry.
func WithCompletion(fn func(domain.Timer)) Option {
	return func(m *Manager) {
		m.completions = append(m.completions, fn)
	}
}

// WithMetrics records timer activity.
func WithMetrics(t *metrics.Timers) Option {
	return func(m *Manager) {
		m.metrics = t
	}
}

type entry struct {
	timer domain.Timer
	stop  chan struct{}
}

// Manager is the timer registry. Every timer has one clock goroutine; removal
// happens under the same lock the clock takes before each tick, so a removed
// timer never ticks or completes again.
type Manager struct {
	log          *logger.Logger
	metrics      *metrics.Timers
	maxTimers    int
	tickInterval time.Duration

	mu          sync.Mutex
	timers      map[string]*entry
	order       []string
	completions []func(domain.Timer)
	subs        map[int]func([]domain.Timer)
	nextSub     int
	closed      bool

	// pubMu serialises subscriber delivery so snapshots arrive in order.
	pubMu sync.Mutex
	wg    sync.WaitGroup
}

// New creates an empty timer manager.
func New(log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		log:          log,
		maxTimers:    DefaultMaxTimers,
		tickInterval: time.Second,
		timers:       make(map[string]*entry),
		subs:         make(map[int]func([]domain.Timer)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn to receive the full timer list, in creation order,
// after every mutation and every tick. fn must not mutate the manager.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func([]domain.Timer)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// OnExpire registers a completion callback. Callbacks run on the expiring
// timer's clock with the manager locked; they must not call back into it.
func (m *Manager) OnExpire(fn func(domain.Timer)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, fn)
}

// Create starts a new countdown. It refuses (returns false) when minutes is
// not positive or the live-timer cap is reached.
func (m *Manager) Create(name string, minutes int) (domain.Timer, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultTimerName
	}

	m.mu.Lock()
	if minutes <= 0 || m.closed {
		m.mu.Unlock()
		m.metrics.Rejected()
		return domain.Timer{}, false
	}
	if live := m.liveLocked(); live >= m.maxTimers {
		m.mu.Unlock()
		m.log.Info("timer %q refused: %d of %d timers in use", name, live, m.maxTimers)
		m.metrics.Rejected()
		return domain.Timer{}, false
	}

	t := domain.Timer{
		ID:               uuid.NewString(),
		Name:             name,
		DurationSeconds:  minutes * 60,
		RemainingSeconds: minutes * 60,
		Running:          true,
		CreatedAt:        time.Now(),
	}
	stop := make(chan struct{})
	m.timers[t.ID] = &entry{timer: t, stop: stop}
	m.order = append(m.order, t.ID)

	m.wg.Add(1)
	go m.runClock(t.ID, stop)

	m.metrics.Created()
	m.metrics.SetActive(m.liveLocked())
	m.mu.Unlock()

	m.log.Debug("timer %s created: %q, %d min", t.ID, t.Name, minutes)
	m.publish()
	return t, true
}

// Pause halts a running timer. Expired or already paused timers are left alone.
func (m *Manager) Pause(id string) bool {
	m.mu.Lock()
	e, ok := m.timers[id]
	if !ok || e.timer.Expired || !e.timer.Running {
		m.mu.Unlock()
		return false
	}
	e.timer.Running = false
	m.mu.Unlock()

	m.publish()
	return true
}

// Resume restarts a paused timer. Expired timers and timers with nothing
// left are refused.
func (m *Manager) Resume(id string) bool {
	m.mu.Lock()
	e, ok := m.timers[id]
	if !ok || e.timer.Expired || e.timer.Running || e.timer.RemainingSeconds <= 0 {
		m.mu.Unlock()
		return false
	}
	e.timer.Running = true
	m.mu.Unlock()

	m.publish()
	return true
}

// Stop cancels a timer, usually one still counting down.
func (m *Manager) Stop(id string) bool {
	return m.remove(id, "stopped")
}

// Dismiss clears a timer, usually one that has already rung.
func (m *Manager) Dismiss(id string) bool {
	return m.remove(id, "dismissed")
}

func (m *Manager) remove(id, verb string) bool {
	m.mu.Lock()
	if !m.removeLocked(id) {
		m.mu.Unlock()
		return false
	}
	m.metrics.SetActive(m.liveLocked())
	m.mu.Unlock()

	m.log.Debug("timer %s %s", id, verb)
	m.publish()
	return true
}

// removeLocked deletes the entry and tears down its clock. Caller holds mu.
func (m *Manager) removeLocked(id string) bool {
	e, ok := m.timers[id]
	if !ok {
		return false
	}
	close(e.stop)
	delete(m.timers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.metrics.Removed()
	return true
}

// DismissExpired clears every expired timer and returns how many went.
func (m *Manager) DismissExpired() int {
	m.mu.Lock()
	var expired []string
	for _, id := range m.order {
		if m.timers[id].timer.Expired {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		m.removeLocked(id)
	}
	m.mu.Unlock()

	if len(expired) > 0 {
		m.log.Debug("dismissed %d expired timers", len(expired))
		m.publish()
	}
	return len(expired)
}

// FindByName matches query against timer names, ignoring case, in either
// direction: "pasta" finds "pasta timer" and "the pasta timer" finds "pasta".
// An exact name wins over a substring match.
func (m *Manager) FindByName(query string) (domain.Timer, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.Timer{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var partial *domain.Timer
	for _, id := range m.order {
		t := m.timers[id].timer
		name := strings.ToLower(t.Name)
		if name == q {
			return t, true
		}
		if partial == nil && (strings.Contains(name, q) || strings.Contains(q, name)) {
			partial = &t
		}
	}
	if partial != nil {
		return *partial, true
	}
	return domain.Timer{}, false
}

// StopByName stops the timer FindByName resolves query to.
func (m *Manager) StopByName(query string) (domain.Timer, bool) {
	t, ok := m.FindByName(query)
	if !ok {
		return domain.Timer{}, false
	}
	if !m.Stop(t.ID) {
		return domain.Timer{}, false
	}
	return t, true
}

// Active returns the first running, non-expired timer in creation order.
func (m *Manager) Active() (domain.Timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		if t := m.timers[id].timer; t.Running && !t.Expired {
			return t, true
		}
	}
	return domain.Timer{}, false
}

// Get returns a snapshot of one timer.
func (m *Manager) Get(id string) (domain.Timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timers[id]
	if !ok {
		return domain.Timer{}, false
	}
	return e.timer, true
}

// List returns snapshots of every timer in creation order.
func (m *Manager) List() []domain.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

// Live counts timers that have not expired.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveLocked()
}

// Capacity is the live-timer cap.
func (m *Manager) Capacity() int { return m.maxTimers }

// Close stops every clock and waits for them to exit. The manager refuses
// new timers afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		for _, e := range m.timers {
			close(e.stop)
		}
		m.timers = make(map[string]*entry)
		m.order = nil
		m.metrics.SetActive(0)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Manager) listLocked() []domain.Timer {
	out := make([]domain.Timer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.timers[id].timer)
	}
	return out
}

func (m *Manager) liveLocked() int {
	n := 0
	for _, e := range m.timers {
		if !e.timer.Expired {
			n++
		}
	}
	return n
}

// ── Clock ──

func (m *Manager) runClock(id string, stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !m.tick(id) {
				return
			}
		}
	}
}

// tick advances one timer by one logical second. It reports whether the
// clock should keep running.
func (m *Manager) tick(id string) bool {
	m.mu.Lock()
	e, ok := m.timers[id]
	if !ok || e.timer.Expired {
		m.mu.Unlock()
		return false
	}
	if !e.timer.Running {
		m.mu.Unlock()
		return true
	}

	e.timer.RemainingSeconds--
	expired := e.timer.RemainingSeconds <= 0
	if expired {
		e.timer.RemainingSeconds = 0
		e.timer.Running = false
		e.timer.Expired = true

		snapshot := e.timer
		for _, fn := range m.completions {
			fn(snapshot)
		}
		m.metrics.Expired()
		m.metrics.SetActive(m.liveLocked())
		m.log.Info("timer %q expired", snapshot.Name)
	}
	m.mu.Unlock()

	m.publish()
	return !expired
}

// publish hands the current list to every subscriber.
func (m *Manager) publish() {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	list := m.listLocked()
	subs := make([]func([]domain.Timer), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(list)
	}
}
