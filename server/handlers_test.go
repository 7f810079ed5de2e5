package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commette/backend/notify"
	"github.com/commette/backend/oauth"
	"github.com/commette/backend/oauth/verifierrepo"
	"github.com/commette/backend/token"
	"github.com/commette/backend/users"
)

func registrationBody() string {
	return `{
		"email": "ada@example.com",
		"password": "Str0ng!pass",
		"firstname": "Ada",
		"lastname": "Lovelace",
		"username": "ada_l"
	}`
}

func postJSON(env *testEnv, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	return recorder
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	require.NotEmpty(t, body["name"])
	require.NotEmpty(t, body["version"])
}

func TestRegister(t *testing.T) {
	var notified map[string]int64
	notifyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "svc-key", r.Header.Get("X-Secret-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&notified))
		w.WriteHeader(http.StatusCreated)
	}))
	defer notifyServer.Close()

	env := newTestEnv(t, withNotifier(notify.NewClient(notifyServer.URL, "svc-key")))

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	userID := int64(body["id_user"].(float64))
	require.NotZero(t, userID)

	// Profile row exists, inactive until the code is redeemed
	user, err := env.users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.False(t, user.Active)
	require.Equal(t, "buyer", user.Role)

	// Password lives in the identity provider, not the database
	require.NoError(t, env.identity.SignIn(context.Background(), "ada@example.com", "Str0ng!pass"))

	// Activation email job queued and sibling service notified
	require.Equal(t, []string{"ada@example.com"}, env.queue.Messages)
	require.Equal(t, userID, notified["id_user"])
}

func TestRegisterSeller(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"email": "grace@example.com",
		"password": "Str0ng!pass",
		"firstname": "Grace",
		"lastname": "Hopper",
		"username": "grace_h",
		"companyName": "Compilers Inc"
	}`
	recorder := postJSON(env, "/register", body, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	user, err := env.users.GetByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	require.Equal(t, "seller", user.Role)
}

func TestRegisterInvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", `{"email":"ada@example.com","password":"weak","username":"ada_l"}`, nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	duplicate := strings.Replace(registrationBody(), "ada@example.com", "other@example.com", 1)
	recorder = postJSON(env, "/register", duplicate, nil)
	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestRegisterRollsBackIdentityAccount(t *testing.T) {
	env := newTestEnv(t)
	env.users.CreateErr = fmt.Errorf("stored procedure failed")

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	// The identity account must not survive a failed registration,
	// otherwise the email can never register again
	require.Len(t, env.identity.Deleted, 1)
	err := env.identity.SignIn(context.Background(), "ada@example.com", "Str0ng!pass")
	require.Error(t, err)
}

func TestRegisterRollsBackWhenNotifyFails(t *testing.T) {
	notifyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer notifyServer.Close()

	env := newTestEnv(t, withNotifier(notify.NewClient(notifyServer.URL, "svc-key")))

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Len(t, env.identity.Deleted, 1)
}

func TestLoginCustom(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = postJSON(env, "/login/custom", `{"email":"ada@example.com","password":"Str0ng!pass"}`, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	idToken, _ := body["idToken"].(string)
	require.NotEmpty(t, idToken)

	// The issued token decodes back to the stored profile; the account is
	// still inactive at this point, which the activation route tolerates
	claims, err := env.codec.Verify(idToken, token.AllowInactive())
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, "buyer", claims.Role)
	require.False(t, claims.Active)
}

func TestLoginCustomWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = postJSON(env, "/login/custom", `{"email":"ada@example.com","password":"Wr0ng!pass"}`, nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestActivate(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	require.NoError(t, env.users.CreateActivationCode(context.Background(), "ada@example.com", 123456))

	claims := activeClaims()
	claims.Active = false
	signed := env.issueToken(t, claims)

	req := httptest.NewRequest(http.MethodPut, "/user/code/123456", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	activation := httptest.NewRecorder()
	env.server.ServeHTTP(activation, req)
	require.Equal(t, http.StatusOK, activation.Code)

	user, err := env.users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, user.Active)
}

func TestActivateWrongCode(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NoError(t, env.users.CreateActivationCode(context.Background(), "ada@example.com", 123456))

	claims := activeClaims()
	claims.Active = false
	signed := env.issueToken(t, claims)

	req := httptest.NewRequest(http.MethodPut, "/user/code/654321", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	activation := httptest.NewRecorder()
	env.server.ServeHTTP(activation, req)
	require.Equal(t, http.StatusNotFound, activation.Code)
}

func TestActivateExpiredCodeResendsEmail(t *testing.T) {
	env := newTestEnv(t)

	recorder := postJSON(env, "/register", registrationBody(), nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NoError(t, env.users.CreateActivationCode(context.Background(), "ada@example.com", 123456))
	env.users.ExpireActivationCode("ada@example.com")

	claims := activeClaims()
	claims.Active = false
	signed := env.issueToken(t, claims)

	req := httptest.NewRequest(http.MethodPut, "/user/code/123456", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	activation := httptest.NewRecorder()
	env.server.ServeHTTP(activation, req)
	require.Equal(t, http.StatusBadRequest, activation.Code)

	// Registration queued one message, the expired redemption a second
	require.Equal(t, []string{"ada@example.com", "ada@example.com"}, env.queue.Messages)

	user, err := env.users.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.False(t, user.Active)
}

func TestGenerateCode(t *testing.T) {
	hash := bcryptHash(t, "svc-key")
	t.Setenv("SERVICE_KEY_HASH", hash)

	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/user/ada@example.com/code", nil)
	req.Header.Set("X-Secret-Key", "svc-key")
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	code := int(body["code"].(float64))
	require.GreaterOrEqual(t, code, 100000)
	require.LessOrEqual(t, code, 999999)

	// The code is redeemable for this email
	status, err := env.users.ActivationCodeStatus(context.Background(), "ada@example.com", code)
	require.NoError(t, err)
	require.Equal(t, users.ActivationActive, status)
}

func TestOAuthLoginRoundTrip(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.NotEmpty(t, r.PostForm.Get("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
		})
	}))
	defer tokenServer.Close()

	exchanger := oauth.NewExchanger(oauth.Provider{
		Name:        "o365",
		ClientID:    "client-id",
		AuthURL:     "https://login.microsoftonline.com/tenant/oauth2/v2.0/authorize",
		TokenURL:    tokenServer.URL,
		RedirectURI: "http://localhost:8000/auth/callback",
		Scopes:      []string{"User.Read"},
		AuthParams:  map[string]string{"response_mode": "query"},
	}, verifierrepo.NewInMemoryRepo())

	env := newTestEnv(t, withO365(exchanger))

	// Step 1: the login route redirects to the provider
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	login := httptest.NewRecorder()
	env.server.ServeHTTP(login, req)
	require.Equal(t, http.StatusTemporaryRedirect, login.Code)

	redirect, err := url.Parse(login.Header().Get("Location"))
	require.NoError(t, err)
	state := redirect.Query().Get("state")
	require.NotEmpty(t, state)

	// Step 2: the provider redirects back with code and state
	callbackURL := fmt.Sprintf("/auth/callback?code=abc123&state=%s", url.QueryEscape(state))
	req = httptest.NewRequest(http.MethodGet, callbackURL, nil)
	callback := httptest.NewRecorder()
	env.server.ServeHTTP(callback, req)
	require.Equal(t, http.StatusOK, callback.Code)

	body := decodeBody(t, callback)
	require.Equal(t, "provider-access-token", body["access_token"])
}

func TestOAuthCallbackWithoutLogin(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc123&state=unknown", nil)
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, "invalid_request", body["error"])
}

func TestOAuthCallbackMissingCode(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=whatever", nil)
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestOAuthCallbackProviderRejection(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "AADSTS70008: The provided authorization code has expired.",
		})
	}))
	defer tokenServer.Close()

	exchanger := oauth.NewExchanger(oauth.Provider{
		Name:        "o365",
		ClientID:    "client-id",
		AuthURL:     "https://login.microsoftonline.com/tenant/oauth2/v2.0/authorize",
		TokenURL:    tokenServer.URL,
		RedirectURI: "http://localhost:8000/auth/callback",
	}, verifierrepo.NewInMemoryRepo())

	env := newTestEnv(t, withO365(exchanger))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	login := httptest.NewRecorder()
	env.server.ServeHTTP(login, req)
	redirect, err := url.Parse(login.Header().Get("Location"))
	require.NoError(t, err)
	state := redirect.Query().Get("state")

	req = httptest.NewRequest(http.MethodGet, "/auth/callback?code=stale&state="+url.QueryEscape(state), nil)
	callback := httptest.NewRecorder()
	env.server.ServeHTTP(callback, req)

	// The provider's own error code and description pass through
	require.Equal(t, http.StatusBadRequest, callback.Code)
	body := decodeBody(t, callback)
	require.Equal(t, "invalid_grant", body["error"])
	require.Contains(t, body["error_description"], "AADSTS70008")
}
