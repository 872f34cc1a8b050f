package notifier

import (
	"context"
	"log"
)

// Notifier delivers drift alerts and command replies.
type Notifier interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// LogNotifier writes alerts to the process log. Used when Telegram is not
// configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (l *LogNotifier) Send(text string) error {
	log.Printf("[INFO] alert:\n%s", text)
	return nil
}

func (l *LogNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	return l.Send(text)
}
