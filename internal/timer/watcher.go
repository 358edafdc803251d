package timer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/cooktime"
	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks session state.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithIdleLimit sets how long an untimed step may sit before a nudge.
func WithIdleLimit(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.idleLimit = d
	}
}

// Watcher periodically inspects active sessions and nudges the cook when a
// step has run well past the time its text gives, or an untimed step has
// sat idle. Each step is nudged at most once. Runs on a slower cycle than
// the timers (default: 1 minute).
type Watcher struct {
	store     domain.SessionStore
	recipes   domain.RecipeSource
	timers    *Manager
	notifier  domain.Notifier
	log       *logger.Logger
	interval  time.Duration
	idleLimit time.Duration
	now       func() time.Time

	mu     sync.Mutex
	nudged map[string]int // session ID -> step index already nudged
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(store domain.SessionStore, recipes domain.RecipeSource, timers *Manager, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		store:     store,
		recipes:   recipes,
		timers:    timers,
		notifier:  notifier,
		log:       log,
		interval:  time.Minute,
		idleLimit: 3 * time.Minute,
		now:       time.Now,
		nudged:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle across all active sessions.
func (w *Watcher) check(ctx context.Context) {
	sessions, err := w.store.ListActive(ctx)
	if err != nil {
		w.log.Error("watcher: listing active sessions: %v", err)
		return
	}

	for _, session := range sessions {
		w.inspect(ctx, session)
	}
}

// inspect examines a single session and decides what to say.
func (w *Watcher) inspect(ctx context.Context, session *domain.Session) {
	w.mu.Lock()
	last, seen := w.nudged[session.ID]
	w.mu.Unlock()
	if seen && last == session.StepIndex {
		return
	}

	recipe, err := w.recipes.Get(ctx, session.RecipeID)
	if err != nil {
		w.log.Error("watcher: loading recipe %s: %v", session.RecipeID, err)
		return
	}

	steps := recipe.Steps()
	idx := session.StepIndex
	if idx < 0 || idx >= len(steps) {
		return
	}

	onStepFor := w.now().Sub(session.UpdatedAt)
	w.log.Debug("watcher: session=%s recipe=%s step=%d/%d on it for %s",
		shortID(session.ID), session.RecipeName, idx+1, len(steps), onStepFor.Round(time.Second))

	msg := w.buildMessage(idx, steps[idx], onStepFor)
	if msg == "" {
		return
	}

	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
	w.mu.Lock()
	w.nudged[session.ID] = idx
	w.mu.Unlock()
}

// buildMessage decides what to tell the user based on current state.
func (w *Watcher) buildMessage(idx int, step string, onStepFor time.Duration) string {
	var running []string
	if w.timers != nil {
		for _, t := range w.timers.List() {
			if t.Running && !t.Expired {
				running = append(running, fmt.Sprintf("%s (%s left)", t.Name, formatRemaining(t.Remaining())))
			}
		}
	}

	if m, ok := cooktime.Extract(step); ok {
		expected := time.Duration(m.Minutes) * time.Minute
		if onStepFor <= expected*2 {
			return ""
		}
		msg := fmt.Sprintf("[Watcher] You've been on step %d for %s (expected about %s). Everything okay?",
			idx+1, formatRemaining(onStepFor), formatRemaining(expected))
		if len(running) > 0 {
			msg += fmt.Sprintf(" Active timers: %s.", joinNames(running))
		}
		return msg
	}

	if onStepFor > w.idleLimit {
		return fmt.Sprintf("[Watcher] Still on step %d (%s). Take your time, but don't forget about it.",
			idx+1, formatRemaining(onStepFor))
	}
	return ""
}

// joinNames joins names as "a", "a and b", "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
