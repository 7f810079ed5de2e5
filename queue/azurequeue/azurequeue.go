// Package azurequeue implements queue.Publisher on Azure Queue Storage.
package azurequeue

import (
	"context"
	"encoding/base64"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/pkg/errors"

	"github.com/commette/backend/queue"
)

type Publisher struct {
	client *azqueue.QueueClient
}

var _ queue.Publisher = (*Publisher)(nil)

func New(connectionString, queueName string) (*Publisher, error) {
	serviceClient, err := azqueue.NewServiceClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[azurequeue.New]")
	}
	return &Publisher{client: serviceClient.NewQueueClient(queueName)}, nil
}

// Publish enqueues the message base64-encoded, which is what the
// functions-based worker on the other end expects.
func (p *Publisher) Publish(ctx context.Context, message string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(message))
	if _, err := p.client.EnqueueMessage(ctx, encoded, nil); err != nil {
		return errors.Wrap(err, "[Publisher.Publish]")
	}
	return nil
}
