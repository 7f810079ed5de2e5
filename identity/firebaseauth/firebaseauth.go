// Package firebaseauth implements identity.Provider on Firebase
// Authentication: the admin SDK for account management and the Identity
// Toolkit REST API for password verification, which the admin SDK does
// not expose.
package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/commette/backend/identity"
)

const signInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

type Provider struct {
	auth   *fbauth.Client
	apiKey string
	client *http.Client
}

var _ identity.Provider = (*Provider)(nil)

// New initializes the admin SDK from the service account credentials
// file. The apiKey is the project's web API key for the REST sign-in.
func New(ctx context.Context, credentialsFile, apiKey string) (*Provider, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "[firebaseauth.New] init app")
	}
	auth, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[firebaseauth.New] init auth client")
	}
	return &Provider{
		auth:   auth,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *Provider) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password)

	record, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "[Provider.CreateUser]")
	}
	return record.UID, nil
}

func (p *Provider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.auth.DeleteUser(ctx, uid); err != nil {
		return errors.Wrap(err, "[Provider.DeleteUser]")
	}
	return nil
}

// SignIn calls accounts:signInWithPassword and surfaces the provider's
// error message (EMAIL_NOT_FOUND, INVALID_PASSWORD, ...) on rejection.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return errors.Wrap(err, "[Provider.SignIn] marshal")
	}

	url := fmt.Sprintf("%s?key=%s", signInURL, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[Provider.SignIn] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Provider.SignIn]")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Message == "" {
		return errors.Errorf("[Provider.SignIn] sign-in failed with status %d", resp.StatusCode)
	}
	return errors.Errorf("[Provider.SignIn] %s", body.Error.Message)
}
