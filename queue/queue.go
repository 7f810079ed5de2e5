// Package queue abstracts the message queue the registration flow drops
// activation-email jobs onto.
package queue

import "context"

// Publisher enqueues one message for the email worker.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}
