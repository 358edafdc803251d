package speech

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Listener = (*Ear)(nil)

// DefaultWakeWords are matched case-insensitively anywhere in a dormant clip.
var DefaultWakeWords = []string{
	"hey chef",
	"hey, chef",
	"hey shef",
	"hey cook",
	"cook voice",
	"cookvoice",
}

var (
	// envAnnotation matches whisper annotations like "(keyboard clicking)",
	// "[laughter]" or "[BLANK_AUDIO]".
	envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)
	// timestampPrefix matches "[00:00:00.000 --> 00:00:05.000]".
	timestampPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*[^\]]*\]\s*`)
	spaces          = regexp.MustCompile(`\s+`)
)

// hallucinations are what whisper likes to "hear" in silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"bye!":                    true,
	"the end.":                true,
}

// MouthControl is the part of the Mouth the ear needs: it waits while the
// mouth is busy, shuts it up on the wake word, and acknowledges.
type MouthControl interface {
	Busy() bool
	Interrupt()
	Say(text string, priority Priority)
}

type earState int

const (
	earDormant   earState = iota // scanning short clips for the wake word
	earListening                 // wake word heard, capturing the command
)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each active-listening chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithDormantDuration sets how long each wake-word probe lasts.
func WithDormantDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.dormantDuration = d }
}

// WithListenTimeout caps how long one command may take.
func WithListenTimeout(d time.Duration) EarOption {
	return func(e *Ear) { e.listenTimeout = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithWakeWords overrides the default wake phrases.
func WithWakeWords(words ...string) EarOption {
	return func(e *Ear) { e.wakeWords = words }
}

// WithMouth lets the ear avoid recording the assistant's own voice and cut
// it off when the wake word is heard.
func WithMouth(m MouthControl) EarOption {
	return func(e *Ear) { e.mouth = m }
}

// Ear is a wake-word gated speech-to-text Listener over a local whisper
// binary.
//
// While dormant it records short clips and discards everything without a
// wake word. On a wake word it interrupts the mouth and either emits the
// rest of the clip as a command, or switches to listening: longer chunks
// are recorded and emitted as partial transcripts until silence or the
// timeout, then the whole command is emitted as a final transcript.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	mouth      MouthControl

	wakeWords       []string
	recordDuration  time.Duration
	dormantDuration time.Duration
	listenTimeout   time.Duration

	mu    sync.Mutex
	state earState

	// record is swapped out in tests.
	record func(ctx context.Context, d time.Duration) string
}

// NewEar creates a listener over whisperBin (whisper-cli) and a GGML model.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:      whisperBin,
		modelPath:       modelPath,
		tempDir:         ".cookvoice-stt",
		log:             log,
		wakeWords:       DefaultWakeWords,
		recordDuration:  time.Second,
		dormantDuration: 3 * time.Second,
		listenTimeout:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.record = e.recordChunk

	if _, err := exec.LookPath(e.whisperBin); err != nil {
		log.Error("ear: whisper binary %q not found in PATH: %v", e.whisperBin, err)
	}
	return e
}

// Listen records until ctx is cancelled, then closes the channel.
func (e *Ear) Listen(ctx context.Context) <-chan domain.TranscriptEvent {
	out := make(chan domain.TranscriptEvent, 8)
	go func() {
		defer close(out)
		e.run(ctx, out)
	}()
	return out
}

func (e *Ear) run(ctx context.Context, out chan<- domain.TranscriptEvent) {
	e.log.Info("ear: started (dormant=%s, active=%s, timeout=%s, wake=%v)",
		e.dormantDuration, e.recordDuration, e.listenTimeout, e.wakeWords)

	for ctx.Err() == nil {
		switch e.getState() {
		case earDormant:
			e.doDormant(ctx, out)
		case earListening:
			e.doListening(ctx, out)
		}
	}
	e.log.Info("ear: stopped")
}

func (e *Ear) getState() earState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Ear) setState(s earState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Ear) mouthBusy() bool {
	return e.mouth != nil && e.mouth.Busy()
}

// sleep waits d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func emit(ctx context.Context, out chan<- domain.TranscriptEvent, ev domain.TranscriptEvent) {
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}

// ── Dormant mode ─────────────────────────────────────────────────

func (e *Ear) doDormant(ctx context.Context, out chan<- domain.TranscriptEvent) {
	// Don't record the assistant's own voice.
	if e.mouthBusy() {
		sleep(ctx, 200*time.Millisecond)
		return
	}

	text := e.record(ctx, e.dormantDuration)
	if e.mouthBusy() {
		e.log.Debug("ear/dormant: discarding, mouth started during recording")
		return
	}

	text = cleanTranscription(text)
	if text == "" {
		return
	}
	e.log.Debug("ear/dormant: heard %q", text)

	rest, ok := e.stripWakeWord(text)
	if !ok {
		return
	}
	e.log.Info("ear: wake word detected in %q", text)

	if e.mouth != nil {
		e.mouth.Interrupt()
	}

	// Wake word and command in one breath: "hey chef next step".
	if rest = cleanTranscription(rest); rest != "" {
		e.log.Info("ear: immediate command: %q", rest)
		emit(ctx, out, domain.TranscriptEvent{Text: rest, IsFinal: true})
		return
	}

	if e.mouth != nil {
		e.mouth.Say(LineListening(), PriorityCritical)
	}
	e.setState(earListening)
}

// ── Active listening mode ────────────────────────────────────────

// Before the cook starts talking, more silence is tolerated. Once they
// have, a shorter gap means they're done.
const (
	graceEmpty      = 4
	postSpeechEmpty = 2
)

func (e *Ear) doListening(ctx context.Context, out chan<- domain.TranscriptEvent) {
	defer e.setState(earDormant)
	e.log.Info("ear: listening...")

	// Let the acknowledgment finish before recording.
	for e.mouthBusy() && ctx.Err() == nil {
		sleep(ctx, 100*time.Millisecond)
	}

	deadline := time.Now().Add(e.listenTimeout)
	var parts []string
	emptyRuns := 0

	for ctx.Err() == nil && time.Now().Before(deadline) {
		chunk := cleanTranscription(e.record(ctx, e.recordDuration))
		if chunk == "" {
			emptyRuns++
			limit := graceEmpty
			if len(parts) > 0 {
				limit = postSpeechEmpty
			}
			if emptyRuns >= limit {
				e.log.Debug("ear: silence detected, ending listen (heard_speech=%v)", len(parts) > 0)
				break
			}
			continue
		}
		emptyRuns = 0

		// The cook may repeat the wake word mid-sentence.
		if chunk = e.removeWakeWords(chunk); chunk != "" {
			parts = append(parts, chunk)
			emit(ctx, out, domain.TranscriptEvent{Text: strings.Join(parts, " ")})
		}
	}

	combined := strings.TrimSpace(strings.Join(parts, " "))
	if combined == "" || ctx.Err() != nil {
		e.log.Debug("ear: listening ended with no input")
		return
	}
	e.log.Info("ear: heard command: %q", combined)
	emit(ctx, out, domain.TranscriptEvent{Text: combined, IsFinal: true})
}

// ── Wake word matching ───────────────────────────────────────────

// stripWakeWord reports whether text contains a wake word and returns what
// follows the first one found.
func (e *Ear) stripWakeWord(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range e.wakeWords {
		if idx := strings.Index(lower, strings.ToLower(w)); idx >= 0 {
			rest := strings.TrimLeft(text[idx+len(w):], " ,.!?\n\r\t")
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// removeWakeWords deletes every wake word from text.
func (e *Ear) removeWakeWords(text string) string {
	lower := strings.ToLower(text)
	for _, w := range e.wakeWords {
		lower = strings.ReplaceAll(lower, strings.ToLower(w), "")
	}
	return strings.Trim(spaces.ReplaceAllString(lower, " "), " ,.!?")
}

// ── Recording ────────────────────────────────────────────────────

// recordChunk records for d and returns whisper's transcription.
func (e *Ear) recordChunk(ctx context.Context, d time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav",
		func(text string) {
			result = text
			wg.Done()
		}, verbose)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		sleep(ctx, 2*time.Second)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		sleep(ctx, 2*time.Second)
		return ""
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()

	if ctx.Err() != nil {
		return ""
	}
	return result
}

// ── Transcription cleanup ────────────────────────────────────────

// cleanTranscription strips whisper artifacts: timestamps, bracketed
// annotations, and the phrases it hallucinates from silence.
func cleanTranscription(s string) string {
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	s = timestampPrefix.ReplaceAllString(s, "")
	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	if strings.Trim(s, " ,.!?") == "" {
		return ""
	}
	return s
}
