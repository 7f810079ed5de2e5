// Package queuefake provides an in-memory queue.Publisher for tests.
package queuefake

import (
	"context"
	"sync"
)

type FakePublisher struct {
	mu       sync.Mutex
	Messages []string

	// PublishErr, when set, makes Publish fail.
	PublishErr error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.Messages = append(f.Messages, message)
	return nil
}
