package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// fakeTTS "synthesizes" text into its own bytes.
type fakeTTS struct {
	mu    sync.Mutex
	calls int
	fail  string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != "" && text == f.fail {
		return nil, errors.New("synthesis failed")
	}
	return []byte(text), nil
}

func (f *fakeTTS) Voice() string { return "test-voice" }

func (f *fakeTTS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSink records what was played.
type fakeSink struct {
	mu     sync.Mutex
	played []string
	stops  int
}

func (s *fakeSink) Play(_ context.Context, wav []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, string(wav))
	return nil
}

func (s *fakeSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *fakeSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

func newTestMouth(t *testing.T, opts ...MouthOption) (*Mouth, *fakeTTS, *fakeSink) {
	t.Helper()
	tts := &fakeTTS{}
	sink := &fakeSink{}
	return NewMouth(tts, sink, logger.New(logger.LevelOff, nil), opts...), tts, sink
}

func runMouth(t *testing.T, m *Mouth) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestMouthSpeakRewritesAndWaits(t *testing.T) {
	m, _, sink := newTestMouth(t)
	runMouth(t, m)

	err := m.Speak(context.Background(), "Bake at 350°F for 1.5 hours.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bake at 350 degrees Fahrenheit for one and a half hours."}, sink.snapshot())
	assert.Equal(t, "Bake at 350 degrees Fahrenheit for one and a half hours.", m.LastSpoken())
}

func TestMouthPriorityOrder(t *testing.T) {
	m, _, sink := newTestMouth(t)

	m.Say("first", PriorityNormal)
	m.Say("urgent", PriorityHigh)
	m.Say("later", PriorityNormal)
	require.Equal(t, 3, m.QueueLen())

	runMouth(t, m)
	require.Eventually(t, func() bool { return len(sink.snapshot()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"urgent", "first", "later"}, sink.snapshot())
}

func TestMouthFlushesLowPriority(t *testing.T) {
	m, _, _ := newTestMouth(t)

	m.Say("still on step two", PriorityLow)
	m.Say("step three", PriorityNormal)
	assert.Equal(t, 1, m.QueueLen())

	m.Say("idle", PriorityLow)
	assert.Equal(t, 2, m.QueueLen(), "low items queued after a normal one stay")
}

func TestMouthInterruptDropsPendingSpeak(t *testing.T) {
	m, _, sink := newTestMouth(t)

	errc := make(chan error, 1)
	go func() { errc <- m.Speak(context.Background(), "step one") }()
	require.Eventually(t, func() bool { return m.QueueLen() == 1 }, time.Second, time.Millisecond)

	m.Interrupt()
	assert.ErrorIs(t, <-errc, ErrInterrupted)
	assert.Zero(t, m.QueueLen())
	assert.Equal(t, 1, sink.stops)
}

func TestMouthSpeakHonoursContext(t *testing.T) {
	m, _, _ := newTestMouth(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Speak(ctx, "never played"), context.Canceled)
}

func TestMouthSpeakEmptyReturnsImmediately(t *testing.T) {
	m, _, _ := newTestMouth(t)
	assert.NoError(t, m.Speak(context.Background(), "   "))
}

func TestMouthReportsSynthesisFailure(t *testing.T) {
	m, tts, _ := newTestMouth(t)
	tts.fail = "broken"
	runMouth(t, m)

	assert.Error(t, m.Speak(context.Background(), "broken"))
}

func TestMouthUsesCache(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	m, tts, sink := newTestMouth(t, WithCache(NewAudioCache("test-voice", log)))
	runMouth(t, m)
	ctx := context.Background()

	require.NoError(t, m.Speak(ctx, "Next step."))
	require.NoError(t, m.Speak(ctx, "Next step."))
	assert.Equal(t, 1, tts.callCount())
	assert.Len(t, sink.snapshot(), 2)
}

func TestMouthChunksLongText(t *testing.T) {
	m, tts, sink := newTestMouth(t, WithChunkSize(20))
	runMouth(t, m)

	require.NoError(t, m.Speak(context.Background(), "Chop the onion. Fry it gently. Add the garlic."))
	assert.Equal(t, []string{"Chop the onion.", "Fry it gently.", "Add the garlic."}, sink.snapshot())
	assert.Equal(t, 3, tts.callCount())
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"disabled", "One. Two.", 0, []string{"One. Two."}},
		{"short", "One. Two.", 50, []string{"One. Two."}},
		{"packs sentences", "One. Two. Three four five.", 10, []string{"One. Two.", "Three four five."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.text, tt.size))
		})
	}
}
