package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory,
// file-based, or backed by the hosted recipe store.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// SessionStore persists cooking sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Session, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, push notifications, or use text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Speaker hands text to speech synthesis. Speak returns once the text has
// been spoken, or with an error.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// TranscriptEvent is one speech-recognition result.
type TranscriptEvent struct {
	Text    string
	IsFinal bool
}

// Listener streams speech-recognition results until ctx is cancelled,
// then closes the channel.
type Listener interface {
	Listen(ctx context.Context) <-chan TranscriptEvent
}

// Dialogue answers utterances no command matched.
type Dialogue interface {
	Ask(ctx context.Context, question string, dc DialogueContext) (*DialogueReply, error)
}

// DialogueContext is what the dialogue collaborator gets to see.
type DialogueContext struct {
	Recipe    *Recipe
	StepIndex int
	Timers    []Timer
}

// DialogueReply is a free-form answer, optionally suggesting a timer.
type DialogueReply struct {
	Text  string
	Timer *TimerSuggestion
}

// TimerSuggestion asks the caller to start a timer on the user's behalf.
type TimerSuggestion struct {
	Name    string
	Minutes int
}
