// Package oauth drives the authorization-code + PKCE handshake against an
// external identity provider: building the authorization redirect and
// redeeming the returned code for the provider's access token.
package oauth

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	autherrors "github.com/commette/backend/internal/errors"
	"github.com/commette/backend/oauth/verifierrepo"
	"github.com/commette/backend/pkce"
)

// Provider describes one external identity provider.
type Provider struct {
	Name         string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURI  string
	Scopes       []string

	// AuthParams are provider-specific authorize-request parameters
	// (O365 requires response_mode=query).
	AuthParams map[string]string
}

// DefaultExchangeTimeout bounds the token-exchange call, the one network
// request in a flow that can hang.
const DefaultExchangeTimeout = 10 * time.Second

// Exchanger implements the two halves of one login flow. The pending
// verifier store is injected so that flows against different providers,
// and tests, hold isolated state.
type Exchanger struct {
	provider  Provider
	config    *oauth2.Config
	verifiers verifierrepo.Repo
	client    *http.Client
	timeout   time.Duration
}

type ExchangerOption func(*Exchanger)

// WithHTTPClient overrides the client used for the token exchange.
func WithHTTPClient(client *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		e.client = client
	}
}

// WithExchangeTimeout overrides the token-exchange deadline.
func WithExchangeTimeout(d time.Duration) ExchangerOption {
	return func(e *Exchanger) {
		e.timeout = d
	}
}

func NewExchanger(provider Provider, verifiers verifierrepo.Repo, options ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		provider: provider,
		config: &oauth2.Config{
			ClientID:     provider.ClientID,
			ClientSecret: provider.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   provider.AuthURL,
				TokenURL:  provider.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: provider.RedirectURI,
			Scopes:      provider.Scopes,
		},
		verifiers: verifiers,
		timeout:   DefaultExchangeTimeout,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.client == nil {
		e.client = &http.Client{Timeout: e.timeout}
	}
	return e
}

// Name returns the provider name, for logging.
func (e *Exchanger) Name() string {
	return e.provider.Name
}

// BeginAuthorization generates a PKCE pair, stores the verifier under key
// and returns the authorization URL the caller should redirect the user
// agent to. The key is echoed back by the provider in the state parameter.
// Pure construction, no network I/O.
func (e *Exchanger) BeginAuthorization(key string) (string, error) {
	verifier, err := pkce.GenerateVerifier()
	if err != nil {
		return "", errors.Wrap(err, "[Exchanger.BeginAuthorization] generate verifier")
	}
	e.verifiers.Put(key, verifier)

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", pkce.DeriveChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	for name, value := range e.provider.AuthParams {
		opts = append(opts, oauth2.SetAuthURLParam(name, value))
	}

	return e.config.AuthCodeURL(key, opts...), nil
}

// CompleteAuthorization redeems the authorization code for the provider's
// access token. The stored verifier is consumed whether or not the
// exchange succeeds: authorization codes and verifiers are single-use, so
// a failed exchange means the user restarts the whole flow. A provider
// rejection is surfaced verbatim as *autherrors.ProviderError and is never
// retried.
func (e *Exchanger) CompleteAuthorization(ctx context.Context, key, code string) (string, error) {
	if code == "" {
		return "", autherrors.ErrMissingCode
	}

	verifier, ok := e.verifiers.Take(key)
	if !ok {
		return "", autherrors.ErrMissingVerifier
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)

	tok, err := e.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &autherrors.ProviderError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
			}
		}
		return "", errors.Wrapf(err, "[Exchanger.CompleteAuthorization] %s token exchange", e.provider.Name)
	}

	return tok.AccessToken, nil
}
