package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commette/backend/catalog/repofake"
	"github.com/commette/backend/identity/identityfake"
	"github.com/commette/backend/internal/config"
	"github.com/commette/backend/notify"
	"github.com/commette/backend/oauth"
	"github.com/commette/backend/oauth/verifierrepo"
	"github.com/commette/backend/queue/queuefake"
	"github.com/commette/backend/server"
	"github.com/commette/backend/token"
	userfakes "github.com/commette/backend/users/repofake"
)

const testSecret = "test-session-secret"

// testEnv wires a Server around in-memory fakes.
type testEnv struct {
	server   *server.Server
	codec    *token.Codec
	users    *userfakes.FakeUserRepo
	catalog  *repofake.FakeCatalogRepo
	identity *identityfake.FakeProvider
	queue    *queuefake.FakePublisher
}

type testOption func(*server.Deps)

func withNotifier(client *notify.Client) testOption {
	return func(d *server.Deps) {
		d.Notifier = client
	}
}

func withO365(exchanger *oauth.Exchanger) testOption {
	return func(d *server.Deps) {
		d.O365 = exchanger
	}
}

func newTestEnv(t *testing.T, options ...testOption) *testEnv {
	t.Helper()

	codec := token.NewCodec(token.NewHMACSigner(testSecret))
	userRepo := userfakes.NewFakeUserRepo()
	catalogRepo := repofake.NewFakeCatalogRepo()
	identityProvider := identityfake.NewFakeProvider()
	publisher := queuefake.NewFakePublisher()

	deps := server.Deps{
		Codec:    codec,
		O365:     stubExchanger("o365"),
		Google:   stubExchanger("google"),
		Identity: identityProvider,
		Users:    userRepo,
		Catalog:  catalogRepo,
		Queue:    publisher,
	}
	for _, opt := range options {
		opt(&deps)
	}

	srv, err := server.New(config.New(), deps)
	require.NoError(t, err)

	return &testEnv{
		server:   srv,
		codec:    codec,
		users:    userRepo,
		catalog:  catalogRepo,
		identity: identityProvider,
		queue:    publisher,
	}
}

func stubExchanger(name string) *oauth.Exchanger {
	return oauth.NewExchanger(oauth.Provider{
		Name:        name,
		ClientID:    "client-id",
		AuthURL:     "https://provider.example/authorize",
		TokenURL:    "https://provider.example/token",
		RedirectURI: "http://localhost:8000/auth/callback",
		Scopes:      []string{"User.Read"},
	}, verifierrepo.NewInMemoryRepo())
}

func (e *testEnv) issueToken(t *testing.T, claims token.Claims) string {
	t.Helper()
	signed, err := e.codec.Issue(claims)
	require.NoError(t, err)
	return signed
}

func bcryptHash(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func activeClaims() token.Claims {
	return token.Claims{
		UserID:    7,
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      "buyer",
		Active:    true,
	}
}
