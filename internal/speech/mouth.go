package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Mouth)(nil)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Voice() string
}

// AudioSink plays WAV audio. Play blocks until playback ends; Stop cuts
// the current playback short.
type AudioSink interface {
	Play(ctx context.Context, wav []byte) error
	Stop()
}

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max character count per TTS chunk.
// Longer text is split at sentence boundaries and synthesized in parallel
// so playback doesn't stall between sentences.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) {
		m.chunkSize = n
	}
}

// WithCache sets the audio cache. Without one every line is synthesized.
func WithCache(c *AudioCache) MouthOption {
	return func(m *Mouth) {
		m.cache = c
	}
}

// Mouth is the speech dispatcher. Everything spoken goes through a single
// pipeline: rewrite -> queue -> chunk -> synthesize (parallel) -> play
// (sequential). Only one thing speaks at a time and higher priority items
// are spoken first.
type Mouth struct {
	tts    Synthesizer
	player AudioSink
	log    *logger.Logger
	cache  *AudioCache

	mu          sync.Mutex
	queue       []request
	notify      chan struct{}
	speaking    bool
	interrupted bool // set by Interrupt(), checked between chunks
	chunkSize   int
	lastSpoken  string
}

// NewMouth creates a speech dispatcher over the given synthesizer and sink.
func NewMouth(tts Synthesizer, player AudioSink, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:       tts,
		player:    player,
		log:       log,
		notify:    make(chan struct{}, 1),
		chunkSize: 200,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Say queues text at the given priority and returns immediately.
func (m *Mouth) Say(text string, priority Priority) {
	m.enqueue(request{text: text, priority: priority})
}

// Speak queues text at normal priority and waits until it has been played,
// dropped, or ctx is cancelled.
func (m *Mouth) Speak(ctx context.Context, text string) error {
	done := make(chan error, 1)
	m.enqueue(request{text: text, priority: PriorityNormal, done: done})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue rewrites the text for speech and adds it to the queue. Anything
// at PriorityNormal or above flushes stale PriorityLow items.
func (m *Mouth) enqueue(req request) {
	req.text = Rewrite(strings.TrimSpace(req.text))
	req.queuedAt = time.Now()
	if req.text == "" {
		req.finish(nil)
		return
	}

	m.mu.Lock()
	var dropped []request
	if req.priority >= PriorityNormal {
		dropped = m.flushLowLocked()
	}
	m.queue = append(m.queue, req)
	qLen := len(m.queue)
	m.mu.Unlock()

	for _, d := range dropped {
		d.finish(ErrInterrupted)
	}
	m.log.Debug("mouth: queued (priority=%d, queue_len=%d): %s", req.priority, qLen, truncate(req.text, 60))

	select {
	case m.notify <- struct{}{}:
	default: // already signaled
	}
}

// flushLowLocked removes all PriorityLow items from the queue and returns
// them. Must be called with m.mu held.
func (m *Mouth) flushLowLocked() []request {
	var dropped []request
	n := 0
	for _, item := range m.queue {
		if item.priority > PriorityLow {
			m.queue[n] = item
			n++
		} else {
			dropped = append(dropped, item)
		}
	}
	m.queue = m.queue[:n]
	if len(dropped) > 0 {
		m.log.Debug("mouth: flushed %d low-priority items", len(dropped))
	}
	return dropped
}

// IsSpeaking reports whether the mouth is synthesizing or playing audio.
func (m *Mouth) IsSpeaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// QueueLen returns the number of pending speech requests.
func (m *Mouth) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Busy reports whether anything is playing or waiting to play.
func (m *Mouth) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking || len(m.queue) > 0
}

// Interrupt stops the current playback, clears the queue and aborts any
// multi-chunk playback in progress.
func (m *Mouth) Interrupt() {
	m.mu.Lock()
	dropped := m.queue
	m.queue = nil
	m.interrupted = true
	m.mu.Unlock()

	for _, d := range dropped {
		d.finish(ErrInterrupted)
	}
	m.player.Stop()

	m.log.Debug("mouth: interrupted, %d queued items dropped", len(dropped))
}

// LastSpoken returns the most recently spoken text longer than a filler.
func (m *Mouth) LastSpoken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSpoken
}

// Run processes the queue until ctx is cancelled.
func (m *Mouth) Run(ctx context.Context) {
	m.log.Info("mouth started (voice=%s)", m.tts.Voice())
	for {
		select {
		case <-ctx.Done():
			m.Interrupt()
			m.log.Info("mouth stopped")
			return
		case <-m.notify:
			m.drain(ctx)
		}
	}
}

// drain speaks queued items, highest priority first, until the queue is empty.
func (m *Mouth) drain(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.Lock()
		m.interrupted = false
		item, ok := m.dequeueLocked()
		if ok {
			m.speaking = true
		}
		m.mu.Unlock()
		if !ok {
			return
		}

		err := m.process(ctx, item)
		item.finish(err)

		m.mu.Lock()
		m.speaking = false
		if len(item.text) > 20 {
			m.lastSpoken = item.text
		}
		m.mu.Unlock()
	}
}

// dequeueLocked removes the highest priority item, oldest first among equals.
func (m *Mouth) dequeueLocked() (request, bool) {
	if len(m.queue) == 0 {
		return request{}, false
	}
	best := 0
	for i, item := range m.queue {
		if item.priority > m.queue[best].priority {
			best = i
		}
	}
	item := m.queue[best]
	m.queue = append(m.queue[:best], m.queue[best+1:]...)
	return item, true
}

// process synthesizes and plays one request. Long text is chunked and the
// chunks synthesized in parallel, then played in order.
func (m *Mouth) process(ctx context.Context, req request) error {
	m.log.Debug("mouth: speaking (priority=%d, waited=%s): %s",
		req.priority, time.Since(req.queuedAt).Round(time.Millisecond), truncate(req.text, 60))

	chunks := splitChunks(req.text, m.chunkSize)

	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))
	for i, chunk := range chunks {
		go func(idx int, text string) {
			audio, err := m.synthesize(ctx, text)
			results <- result{idx: idx, audio: audio, err: err}
		}(i, chunk)
	}

	slots := make([][]byte, len(chunks))
	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil {
			m.log.Error("mouth: chunk %d synthesis failed: %v", r.idx, r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		slots[r.idx] = r.audio
	}

	for i, audio := range slots {
		if audio == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.mu.Lock()
		abort := m.interrupted
		m.mu.Unlock()
		if abort {
			return ErrInterrupted
		}
		if err := m.player.Play(ctx, audio); err != nil {
			m.log.Error("mouth: chunk %d playback failed: %v", i, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// synthesize checks the cache first, otherwise calls the synthesizer and
// stores the result.
func (m *Mouth) synthesize(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := m.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Put(text, audio)
	return audio, nil
}

// Prefetch synthesizes texts into the cache in the background so they play
// instantly when spoken later. It is a no-op without a cache.
func (m *Mouth) Prefetch(ctx context.Context, texts ...string) {
	if m.cache == nil {
		return
	}
	for _, text := range texts {
		for _, chunk := range splitChunks(Rewrite(text), m.chunkSize) {
			if chunk == "" || m.cache.Has(chunk) {
				continue
			}
			go func(t string) {
				if _, err := m.synthesize(ctx, t); err != nil {
					m.log.Error("prefetch: synthesis failed: %v", err)
				}
			}(chunk)
		}
	}
}

// splitChunks breaks text into sentence-boundary chunks of roughly size
// characters. size <= 0 disables chunking.
func splitChunks(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, s := range domain.SplitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s)+1 > size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
