// Package notify tells the sibling profile service about new accounts so
// it can provision its own rows.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	endpoint  string
	secretKey string
	http      *http.Client
}

func NewClient(endpoint, secretKey string) *Client {
	return &Client{
		endpoint:  endpoint,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// UserCreated posts the new user's id, authenticating with the shared
// service key. Anything but a 201 is a failure.
func (c *Client) UserCreated(ctx context.Context, userID int64) error {
	payload, err := json.Marshal(map[string]int64{"id_user": userID})
	if err != nil {
		return errors.Wrap(err, "[Client.UserCreated] marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[Client.UserCreated] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Secret-Key", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Client.UserCreated]")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return errors.Errorf("[Client.UserCreated] notify endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
