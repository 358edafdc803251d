package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*SpeakingNotifier)(nil)
	_ domain.Speaker  = Queued{}
)

// Sayer queues text for speech without waiting. Mouth and NoOp implement it.
type Sayer interface {
	Say(text string, priority Priority)
}

// SpeakingNotifier wraps a text notifier and also speaks every message.
// Messages are printed immediately (via the inner notifier) and queued
// for speech.
type SpeakingNotifier struct {
	text  domain.Notifier
	mouth Sayer
	log   *logger.Logger
}

// NewSpeakingNotifier creates a notifier that both prints and speaks.
func NewSpeakingNotifier(text domain.Notifier, mouth Sayer, log *logger.Logger) *SpeakingNotifier {
	return &SpeakingNotifier{
		text:  text,
		mouth: mouth,
		log:   log,
	}
}

// Notify prints the message and queues it for speech. Watcher nudges are
// low priority; anything else is normal.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	priority := PriorityNormal
	if strings.HasPrefix(message, "[Watcher]") {
		priority = PriorityLow
	}
	n.mouth.Say(cleanForSpeech(message), priority)
	return nil
}

// NotifyUrgent prints the message and queues it for speech at high priority.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.mouth.Say(cleanForSpeech(message), PriorityHigh)
	return nil
}

// cleanForSpeech strips formatting artifacts that shouldn't be spoken.
var bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func cleanForSpeech(msg string) string {
	cleaned := ansiCodes.ReplaceAllString(msg, "")
	cleaned = bracketPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, " -- ", ", ")
	return strings.TrimSpace(cleaned)
}

// Queued adapts a Sayer to domain.Speaker. Speak returns as soon as the
// text is queued, so callers never wait on playback.
type Queued struct {
	Sayer    Sayer
	Priority Priority
}

// Speak queues text at the adapter's priority.
func (q Queued) Speak(_ context.Context, text string) error {
	q.Sayer.Say(text, q.Priority)
	return nil
}
