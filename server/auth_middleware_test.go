package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commette/backend/token"
)

func getUser(t *testing.T, env *testEnv, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireUserAccepts(t *testing.T) {
	env := newTestEnv(t)
	signed := env.issueToken(t, activeClaims())

	recorder := getUser(t, env, "Bearer "+signed)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	require.Equal(t, float64(7), body["id_user"])
	require.Equal(t, "ada@example.com", body["email"])
	require.Equal(t, "buyer", body["role"])
	require.Equal(t, true, body["active"])
	require.Equal(t, "no-cache, no-store, must-revalidate", recorder.Header().Get("Cache-Control"))
}

func TestRequireUserMissingHeader(t *testing.T) {
	env := newTestEnv(t)

	recorder := getUser(t, env, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireUserRejectsNonBearerScheme(t *testing.T) {
	env := newTestEnv(t)
	signed := env.issueToken(t, activeClaims())

	// A perfectly valid token under the wrong scheme is rejected before
	// the token is even decoded
	recorder := getUser(t, env, "Basic "+signed)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireUserBearerCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	signed := env.issueToken(t, activeClaims())

	recorder := getUser(t, env, "bearer "+signed)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireUserRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	recorder := getUser(t, env, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireUserRejectsWrongSignature(t *testing.T) {
	env := newTestEnv(t)

	otherCodec := token.NewCodec(token.NewHMACSigner("some-other-secret"))
	signed, err := otherCodec.Issue(activeClaims())
	require.NoError(t, err)

	recorder := getUser(t, env, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireUserRejectsExpired(t *testing.T) {
	env := newTestEnv(t)

	past := time.Now().Add(-2 * time.Hour)
	staleCodec := token.NewCodec(token.NewHMACSigner(testSecret), token.WithNowFunc(func() time.Time { return past }))
	signed, err := staleCodec.Issue(activeClaims())
	require.NoError(t, err)

	recorder := getUser(t, env, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireUserRejectsInactive(t *testing.T) {
	env := newTestEnv(t)

	claims := activeClaims()
	claims.Active = false
	signed := env.issueToken(t, claims)

	// Valid session, unactivated account: 403, not 401
	recorder := getUser(t, env, "Bearer "+signed)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireServiceKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("svc-key"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("SERVICE_KEY_HASH", string(hash))

	env := newTestEnv(t)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"valid key", "svc-key", http.StatusCreated},
		{"wrong key", "not-the-key", http.StatusForbidden},
		{"missing key", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/ada@example.com/code", nil)
			if tc.key != "" {
				req.Header.Set("X-Secret-Key", tc.key)
			}
			recorder := httptest.NewRecorder()
			env.server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestServiceKeyRouteIgnoresBearerTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("svc-key"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("SERVICE_KEY_HASH", string(hash))

	env := newTestEnv(t)
	signed := env.issueToken(t, activeClaims())

	// A session token is not a substitute for the service key
	req := httptest.NewRequest(http.MethodPost, "/user/ada@example.com/code", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
