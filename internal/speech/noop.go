// Package speech provides speech-to-text and text-to-speech implementations,
// and the rewriting that makes recipe text pleasant to hear.
package speech

import (
	"context"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Speaker  = (*NoOp)(nil)
	_ domain.Listener = (*NoOp)(nil)
	_ Sayer           = (*NoOp)(nil)
)

// NoOp speaks and hears nothing. Used when voice is disabled.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a no-op speech provider.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Speak logs what would have been said.
func (n *NoOp) Speak(_ context.Context, text string) error {
	n.log.Debug("speech no-op: would say %q", Rewrite(text))
	return nil
}

// Say logs what would have been said.
func (n *NoOp) Say(text string, _ Priority) {
	n.log.Debug("speech no-op: would say %q", Rewrite(text))
}

// Listen returns a channel that closes when ctx is cancelled.
func (n *NoOp) Listen(ctx context.Context) <-chan domain.TranscriptEvent {
	ch := make(chan domain.TranscriptEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
