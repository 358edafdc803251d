package speech

import (
	"errors"
	"time"
)

// DefaultVoice is the Azure neural voice used when none is configured.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// DefaultAudioFormat is requested from Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// ErrInterrupted is returned by Speak when queued speech is dropped by an
// interrupt or a flush before it was played.
var ErrInterrupted = errors.New("speech interrupted")

// Priority levels for speech requests. Higher value = speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // watcher comments, idle chatter
	PriorityNormal                   // step instructions, replies
	PriorityHigh                     // timer notifications
	PriorityCritical                 // listening acknowledgments
)

// request is a queued item waiting to be spoken. done, when non-nil,
// receives the outcome exactly once.
type request struct {
	text     string
	priority Priority
	queuedAt time.Time
	done     chan error
}

func (r request) finish(err error) {
	if r.done != nil {
		r.done <- err
	}
}
