package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// AnnouncerOption configures the announcer.
type AnnouncerOption func(*Announcer)

// WithAnnounceInterval sets how often the announcer looks at the timers.
func WithAnnounceInterval(d time.Duration) AnnouncerOption {
	return func(a *Announcer) {
		a.interval = d
	}
}

// WithNotifyCooldown sets the minimum time between repeated notifications.
func WithNotifyCooldown(d time.Duration) AnnouncerOption {
	return func(a *Announcer) {
		a.cooldown = d
	}
}

// WithMaxEscalation sets the escalation level after which the announcer stops nagging.
func WithMaxEscalation(level int) AnnouncerOption {
	return func(a *Announcer) {
		a.maxEscalation = level
	}
}

// WithAlmostDoneThreshold sets how close to expiry a timer must be to
// trigger the "almost done" warning. Zero disables the warning.
func WithAlmostDoneThreshold(d time.Duration) AnnouncerOption {
	return func(a *Announcer) {
		a.almostDone = d
	}
}

type alert struct {
	timer        domain.Timer
	level        int
	lastNotified time.Time
}

// Announcer tells the cook about timers: an urgent notice when one expires,
// escalating follow-ups while it stays undismissed, and an "almost done"
// warning shortly before expiry.
type Announcer struct {
	timers        *Manager
	notifier      domain.Notifier
	log           *logger.Logger
	interval      time.Duration
	cooldown      time.Duration
	maxEscalation int
	almostDone    time.Duration
	now           func() time.Time

	mu      sync.Mutex
	pending map[string]*alert
	order   []string
	warned  map[string]bool
}

// NewAnnouncer hooks an announcer onto the manager's expiry callback.
func NewAnnouncer(timers *Manager, notifier domain.Notifier, log *logger.Logger, opts ...AnnouncerOption) *Announcer {
	a := &Announcer{
		timers:        timers,
		notifier:      notifier,
		log:           log,
		interval:      time.Second,
		cooldown:      15 * time.Second,
		maxEscalation: 3,
		almostDone:    30 * time.Second,
		now:           time.Now,
		pending:       make(map[string]*alert),
		warned:        make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	timers.OnExpire(a.expired)
	return a
}

// expired runs under the manager lock; it only records the timer.
func (a *Announcer) expired(t domain.Timer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pending[t.ID]; !ok {
		a.order = append(a.order, t.ID)
	}
	a.pending[t.ID] = &alert{timer: t}
}

// Run announces until ctx is cancelled.
func (a *Announcer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.log.Info("timer announcer started (interval=%s, cooldown=%s)", a.interval, a.cooldown)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("timer announcer stopped")
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

// tick runs one cycle: warn timers about to expire, then announce and
// escalate expired ones.
func (a *Announcer) tick(ctx context.Context) {
	a.warnAlmostDone(ctx)

	a.mu.Lock()
	ids := append([]string(nil), a.order...)
	a.mu.Unlock()

	now := a.now()
	for _, id := range ids {
		if t, ok := a.timers.Get(id); !ok || !t.Expired {
			a.forget(id)
			continue
		}

		a.mu.Lock()
		al, ok := a.pending[id]
		if !ok {
			a.mu.Unlock()
			continue
		}

		var msg string
		name := al.timer.Name
		urgent := false
		switch {
		case al.level == 0:
			msg, urgent = escalationMessage(al.timer.Name, 0), true
			al.level = 1
			al.lastNotified = now
		case al.level > a.maxEscalation:
			// Stop nagging.
			a.forgetLocked(id)
		case now.Sub(al.lastNotified) >= a.cooldown:
			msg = escalationMessage(al.timer.Name, al.level)
			al.level++
			al.lastNotified = now
		}
		a.mu.Unlock()

		if msg == "" {
			continue
		}
		var err error
		if urgent {
			err = a.notifier.NotifyUrgent(ctx, msg)
		} else {
			err = a.notifier.Notify(ctx, msg)
		}
		if err != nil {
			a.log.Error("announcer: notifying %q: %v", name, err)
		}
	}
}

// warnAlmostDone sends one warning per timer when it crosses the threshold.
// Short timers (under twice the threshold) are not warned about.
func (a *Announcer) warnAlmostDone(ctx context.Context) {
	if a.almostDone <= 0 {
		return
	}

	timers := a.timers.List()
	live := make(map[string]bool, len(timers))
	for _, t := range timers {
		live[t.ID] = true
		if !t.Running || t.Expired || t.Duration() <= a.almostDone*2 || t.Remaining() > a.almostDone {
			continue
		}

		a.mu.Lock()
		done := a.warned[t.ID]
		a.warned[t.ID] = true
		a.mu.Unlock()
		if done {
			continue
		}

		msg := fmt.Sprintf("[Timer] %s is almost done, %s left.", t.Name, formatRemaining(t.Remaining()))
		if err := a.notifier.Notify(ctx, msg); err != nil {
			a.log.Error("announcer: almost-done notify: %v", err)
		}
	}

	a.mu.Lock()
	for id := range a.warned {
		if !live[id] {
			delete(a.warned, id)
		}
	}
	a.mu.Unlock()
}

// Pending lists expired timers still being announced, in expiry order.
func (a *Announcer) Pending() []domain.Timer {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.Timer, 0, len(a.pending))
	for _, id := range a.order {
		out = append(out, a.pending[id].timer)
	}
	return out
}

func (a *Announcer) forget(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forgetLocked(id)
}

func (a *Announcer) forgetLocked(id string) {
	delete(a.pending, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			return
		}
	}
}

// escalationMessage returns a message based on the escalation level.
func escalationMessage(name string, level int) string {
	switch level {
	case 0:
		return fmt.Sprintf("[Timer] %s is up.", name)
	case 1:
		return fmt.Sprintf("[Timer] %s -- check it now.", name)
	case 2:
		return fmt.Sprintf("[Timer] %s. Now.", name)
	default:
		return fmt.Sprintf("[Timer] %s.", name)
	}
}

// formatRemaining returns a human-friendly spoken duration for timer reminders.
// Rounds to the nearest minute once there's at least 1 minute left.
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
