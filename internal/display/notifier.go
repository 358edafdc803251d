package display

import (
	"context"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Notifier)(nil)

// Notifier prints notifications to the console.
type Notifier struct {
	console *Console
	log     *logger.Logger
}

// NewNotifier creates a console-backed notifier.
func NewNotifier(console *Console, log *logger.Logger) *Notifier {
	return &Notifier{console: console, log: log}
}

// Notify prints a normal notification.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.console.PrintChat(message)
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.console.PrintUrgent(message)
	return nil
}
