// Package assistant is the voice controller. It owns the cooking session
// and its step cursor, turns classified utterances into timer actions and
// recipe reading, and hands everything else to the dialogue collaborator.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/cookvoice/internal/command"
	"github.com/hammamikhairi/cookvoice/internal/cooktime"
	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
	"github.com/hammamikhairi/cookvoice/internal/speech"
	"github.com/hammamikhairi/cookvoice/internal/timer"
)

// DefaultMinutes is the timer length used when neither the utterance nor
// the recipe gives one.
const DefaultMinutes = 5

// Reply is the assistant's answer to one utterance. Text is set even when
// Handle also returns an error.
type Reply struct {
	Text    string
	Command domain.Command
	Timer   *domain.Timer // the timer started by this utterance, if any
}

// Option configures the assistant.
type Option func(*Assistant)

// WithDialogue sets the collaborator for utterances no command matches.
// Without one, such utterances get a "didn't catch that" reply.
func WithDialogue(d domain.Dialogue) Option {
	return func(a *Assistant) {
		a.dialogue = d
	}
}

// WithDefaultMinutes sets the fallback timer length.
func WithDefaultMinutes(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.defaultMinutes = n
		}
	}
}

// Assistant routes utterances. Safe for concurrent use; utterances are
// handled one at a time.
type Assistant struct {
	recipes    domain.RecipeSource
	sessions   domain.SessionStore
	timers     *timer.Manager
	classifier *command.Classifier
	speaker    domain.Speaker
	dialogue   domain.Dialogue
	log        *logger.Logger

	defaultMinutes int
	now            func() time.Time

	// handleMu serialises Handle; mu guards the session pointer.
	handleMu  sync.Mutex
	mu        sync.Mutex
	sessionID string
}

// New creates an assistant with the given dependencies and options.
func New(recipes domain.RecipeSource, sessions domain.SessionStore, timers *timer.Manager,
	classifier *command.Classifier, speaker domain.Speaker, log *logger.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		recipes:        recipes,
		sessions:       sessions,
		timers:         timers,
		classifier:     classifier,
		speaker:        speaker,
		log:            log,
		defaultMinutes: DefaultMinutes,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ── Session ──────────────────────────────────────────────────────

// Start begins cooking the given recipe. Any session already in progress
// is abandoned. The cursor sits before the first step until the cook says
// "next".
func (a *Assistant) Start(ctx context.Context, recipeID string) (*domain.Session, error) {
	recipe, err := a.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	a.mu.Lock()
	if err := a.endLocked(ctx, domain.SessionAbandoned); err != nil {
		a.log.Warn("abandoning previous session: %v", err)
	}

	now := a.now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		StepIndex:  -1,
		Status:     domain.SessionActive,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.sessions.Save(ctx, session); err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("saving session: %w", err)
	}
	a.sessionID = session.ID
	a.mu.Unlock()

	a.log.Info("started session %s for recipe %q (%d steps)", session.ID, recipe.Name, len(recipe.Steps()))
	a.say(ctx, speech.LineCookingStart(recipe))
	return session, nil
}

// Stop abandons the current session, if any.
func (a *Assistant) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.endLocked(ctx, domain.SessionAbandoned)
}

func (a *Assistant) endLocked(ctx context.Context, status domain.SessionStatus) error {
	if a.sessionID == "" {
		return nil
	}
	id := a.sessionID
	a.sessionID = ""

	session, err := a.sessions.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return nil
	}
	session.Status = status
	session.UpdatedAt = a.now()
	if err := a.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	a.log.Info("session %s %s", id, status)
	return nil
}

// Session returns the current session and its recipe, or domain.ErrNoRecipe.
func (a *Assistant) Session(ctx context.Context) (*domain.Session, *domain.Recipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentLocked(ctx)
}

func (a *Assistant) currentLocked(ctx context.Context) (*domain.Session, *domain.Recipe, error) {
	if a.sessionID == "" {
		return nil, nil, domain.ErrNoRecipe
	}
	session, err := a.sessions.Load(ctx, a.sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	recipe, err := a.recipes.Get(ctx, session.RecipeID)
	if err != nil {
		return nil, nil, fmt.Errorf("getting recipe: %w", err)
	}
	return session, recipe, nil
}

// ── Routing ──────────────────────────────────────────────────────

// Handle classifies one utterance, acts on it and speaks the reply.
//
// Returned errors are domain.ErrTooManyTimers, domain.ErrNoRecipe, or a
// failure from a collaborator; in every case Reply.Text holds what was
// said to the cook.
func (a *Assistant) Handle(ctx context.Context, utterance string) (Reply, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return Reply{}, nil
	}

	a.handleMu.Lock()
	defer a.handleMu.Unlock()

	cmd := a.classifier.Classify(utterance)
	a.log.Debug("utterance %q -> %s", utterance, cmd.Kind)

	var (
		reply Reply
		err   error
	)
	switch {
	case cmd.Kind == domain.CommandStartTimer:
		reply, err = a.startTimer(ctx, cmd)
	case cmd.Kind == domain.CommandStopTimer:
		reply, err = a.stopTimer(ctx, cmd, utterance)
	case cmd.Kind == domain.CommandCheckTimer:
		reply = a.checkTimer(cmd)
	case cmd.Kind.IsNavigation():
		reply, err = a.navigate(ctx, cmd)
	default:
		reply, err = a.ask(ctx, utterance)
	}
	if reply.Command.Kind == domain.CommandNone && cmd.Matched() {
		reply.Command = cmd
	}

	a.say(ctx, reply.Text)
	return reply, err
}

// say speaks text; speech failures are logged, never returned, since the
// reply has already been decided.
func (a *Assistant) say(ctx context.Context, text string) {
	if a.speaker == nil || text == "" {
		return
	}
	if err := a.speaker.Speak(ctx, text); err != nil {
		if errors.Is(err, speech.ErrInterrupted) || errors.Is(err, context.Canceled) {
			a.log.Debug("speech cut short: %v", err)
			return
		}
		a.log.Warn("speaking reply: %v", err)
	}
}

// ── Timers ───────────────────────────────────────────────────────

// startTimer resolves the duration from the command, the step it names, or
// the item it names, falling back to the default length.
func (a *Assistant) startTimer(ctx context.Context, cmd domain.Command) (Reply, error) {
	minutes := cmd.Minutes
	name := cmd.Name
	var note string

	switch {
	case cmd.StepNumber > 0:
		recipe := a.recipeOrNil(ctx)
		if m, ok := cooktime.StepTime(recipe, cmd.StepNumber); ok {
			minutes = m.Minutes
		} else {
			minutes = a.defaultMinutes
			note = speech.LineNoStepTime(cmd.StepNumber, a.defaultMinutes)
		}
		if name == "" {
			name = fmt.Sprintf("Step %d", cmd.StepNumber)
		}

	case cmd.ItemName != "":
		recipe := a.recipeOrNil(ctx)
		if m, ok := cooktime.FindItemTime(recipe, cmd.ItemName); ok {
			minutes = m.Minutes
		} else {
			minutes = a.defaultMinutes
			note = speech.LineNoItemTime(cooktime.NormalizeItem(cmd.ItemName), a.defaultMinutes)
		}
		if name == "" {
			name = cooktime.NormalizeItem(cmd.ItemName)
		}

	case minutes <= 0:
		minutes = a.defaultMinutes
	}

	reply := Reply{Command: cmd}
	t, err := a.createTimer(name, minutes)
	if err != nil {
		reply.Text = speech.LineTooManyTimers(a.timers.Capacity())
		return reply, err
	}
	reply.Timer = &t
	reply.Text = speech.LineTimerStarted(t)
	if note != "" {
		reply.Text = note + " " + reply.Text
	}
	return reply, nil
}

func (a *Assistant) createTimer(name string, minutes int) (domain.Timer, error) {
	minutes = min(minutes, cooktime.MaxMinutes)
	t, ok := a.timers.Create(name, minutes)
	if !ok {
		a.log.Info("timer %q for %d min refused", name, minutes)
		return domain.Timer{}, domain.ErrTooManyTimers
	}
	a.log.Info("timer %q started for %d min", t.Name, minutes)
	return t, nil
}

// stopTimer stops a named timer, or with no name: clears expired timers
// first, then the active one. A bare "ok" or "done" with no timer around
// is treated as navigation instead.
func (a *Assistant) stopTimer(ctx context.Context, cmd domain.Command, utterance string) (Reply, error) {
	reply := Reply{Command: cmd}

	if cmd.Name != "" {
		if t, ok := a.timers.StopByName(cmd.Name); ok {
			reply.Text = speech.LineTimerStopped(t.Name)
		} else {
			reply.Text = speech.LineNoTimerNamed(cmd.Name)
		}
		return reply, nil
	}

	if n := a.timers.DismissExpired(); n > 0 {
		reply.Text = speech.LineTimersDismissed(n)
		return reply, nil
	}
	if t, ok := a.timers.Active(); ok && a.timers.Stop(t.ID) {
		reply.Text = speech.LineTimerStopped(t.Name)
		return reply, nil
	}

	if read := a.classifier.ParseRead(utterance); read.Matched() && a.hasSession() {
		a.log.Debug("no timer to stop, reading %q as %s", utterance, read.Kind)
		return a.navigate(ctx, read)
	}
	reply.Text = speech.LineNoActiveTimers()
	return reply, nil
}

func (a *Assistant) checkTimer(cmd domain.Command) Reply {
	reply := Reply{Command: cmd}
	if cmd.Name != "" {
		if t, ok := a.timers.FindByName(cmd.Name); ok {
			reply.Text = speech.LineTimerStatus(t)
		} else {
			reply.Text = speech.LineNoTimerNamed(cmd.Name)
		}
		return reply
	}
	reply.Text = speech.LineTimersStatus(a.timers.List())
	return reply
}

func (a *Assistant) hasSession() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID != ""
}

func (a *Assistant) recipeOrNil(ctx context.Context) *domain.Recipe {
	_, recipe, err := a.Session(ctx)
	if err != nil {
		return nil
	}
	return recipe
}

// ── Navigation ───────────────────────────────────────────────────

// navigate reads from the recipe and moves the step cursor.
func (a *Assistant) navigate(ctx context.Context, cmd domain.Command) (Reply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	reply := Reply{Command: cmd}
	session, recipe, err := a.currentLocked(ctx)
	if errors.Is(err, domain.ErrNoRecipe) {
		reply.Text = speech.LineNoRecipe()
		return reply, err
	}
	if err != nil {
		reply.Text = speech.LineUnknown()
		return reply, err
	}

	steps := recipe.Steps()
	idx := session.StepIndex

	switch cmd.Kind {
	case domain.CommandReadFull:
		reply.Text = speech.LineFullRecipe(recipe)
		return reply, nil

	case domain.CommandReadIngredients:
		reply.Text = speech.LineIngredients(recipe.Ingredients)
		return reply, nil

	case domain.CommandNextStep:
		if idx+1 >= len(steps) {
			reply.Text = speech.LineLastStepDone()
			if session.Status == domain.SessionActive {
				session.Status = domain.SessionCompleted
				session.UpdatedAt = a.now()
				if err := a.sessions.Save(ctx, session); err != nil {
					return reply, fmt.Errorf("saving session: %w", err)
				}
				a.log.Info("session %s completed", session.ID)
			}
			return reply, nil
		}
		idx++

	case domain.CommandPreviousStep:
		if idx <= 0 {
			reply.Text = speech.LineAtFirstStep()
			return reply, nil
		}
		idx--

	case domain.CommandReadStep:
		switch {
		case cmd.HasStep && (cmd.StepIndex < 0 || cmd.StepIndex >= len(steps)):
			reply.Text = speech.LineNoSuchStep(cmd.StepIndex+1, len(steps))
			return reply, nil
		case cmd.HasStep:
			idx = cmd.StepIndex
		case idx < 0:
			idx = 0
		}
	}

	if idx != session.StepIndex || session.Status != domain.SessionActive {
		session.StepIndex = idx
		session.Status = domain.SessionActive
		session.UpdatedAt = a.now()
		if err := a.sessions.Save(ctx, session); err != nil {
			return reply, fmt.Errorf("saving session: %w", err)
		}
		a.log.Debug("session %s on step %d/%d", session.ID, idx+1, len(steps))
	}

	reply.Text = speech.LineStep(idx+1, len(steps), steps[idx])
	return reply, nil
}

// ── Dialogue ─────────────────────────────────────────────────────

// ask forwards an unmatched utterance with the recipe, step and timers as
// context. A suggested timer is started on the cook's behalf.
func (a *Assistant) ask(ctx context.Context, utterance string) (Reply, error) {
	if a.dialogue == nil {
		return Reply{Text: speech.LineUnknown()}, nil
	}

	dc := domain.DialogueContext{StepIndex: -1, Timers: a.timers.List()}
	if session, recipe, err := a.Session(ctx); err == nil {
		dc.Recipe = recipe
		dc.StepIndex = session.StepIndex
	}

	answer, err := a.dialogue.Ask(ctx, utterance, dc)
	if err != nil {
		return Reply{Text: speech.LineAIError()}, fmt.Errorf("dialogue: %w", err)
	}

	reply := Reply{Text: answer.Text}
	if s := answer.Timer; s != nil {
		t, err := a.createTimer(s.Name, s.Minutes)
		if err != nil {
			reply.Text = joinSentences(reply.Text, speech.LineTooManyTimers(a.timers.Capacity()))
			return reply, err
		}
		reply.Timer = &t
		reply.Text = joinSentences(reply.Text, speech.LineTimerStarted(t))
	}
	return reply, nil
}

func joinSentences(a, b string) string {
	a = strings.TrimSpace(a)
	if a == "" {
		return b
	}
	return a + " " + b
}
