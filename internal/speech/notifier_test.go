package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

type textNotifier struct {
	normal, urgent []string
	err            error
}

func (n *textNotifier) Notify(_ context.Context, msg string) error {
	n.normal = append(n.normal, msg)
	return n.err
}

func (n *textNotifier) NotifyUrgent(_ context.Context, msg string) error {
	n.urgent = append(n.urgent, msg)
	return n.err
}

type said struct {
	text     string
	priority Priority
}

type sayRecorder struct{ said []said }

func (s *sayRecorder) Say(text string, p Priority) { s.said = append(s.said, said{text, p}) }

func TestSpeakingNotifier(t *testing.T) {
	text := &textNotifier{}
	mouth := &sayRecorder{}
	n := NewSpeakingNotifier(text, mouth, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	assert.NoError(t, n.Notify(ctx, "[Timer] eggs -- check it now."))
	assert.NoError(t, n.Notify(ctx, "[Watcher] Still on step 2 (4 minutes)."))
	assert.NoError(t, n.NotifyUrgent(ctx, "[Timer] eggs is up."))

	assert.Equal(t, []string{"[Timer] eggs -- check it now.", "[Watcher] Still on step 2 (4 minutes)."}, text.normal)
	assert.Equal(t, []string{"[Timer] eggs is up."}, text.urgent)
	assert.Equal(t, []said{
		{"eggs, check it now.", PriorityNormal},
		{"Still on step 2 (4 minutes).", PriorityLow},
		{"eggs is up.", PriorityHigh},
	}, mouth.said)
}

func TestSpeakingNotifierStopsOnTextError(t *testing.T) {
	text := &textNotifier{err: errors.New("closed")}
	mouth := &sayRecorder{}
	n := NewSpeakingNotifier(text, mouth, logger.New(logger.LevelOff, nil))

	assert.Error(t, n.Notify(context.Background(), "hello"))
	assert.Empty(t, mouth.said)
}

func TestCleanForSpeech(t *testing.T) {
	assert.Equal(t, "rice is up.", cleanForSpeech("\x1b[1m[Timer] rice is up.\x1b[0m"))
	assert.Equal(t, "plain", cleanForSpeech("  plain "))
}

func TestQueuedSpeaker(t *testing.T) {
	mouth := &sayRecorder{}
	q := Queued{Sayer: mouth, Priority: PriorityHigh}

	assert.NoError(t, q.Speak(context.Background(), "Step 1 of 3."))
	assert.Equal(t, []said{{"Step 1 of 3.", PriorityHigh}}, mouth.said)
}
