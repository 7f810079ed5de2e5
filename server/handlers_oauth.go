package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	autherrors "github.com/commette/backend/internal/errors"
	"github.com/commette/backend/oauth"
)

// LoginHandler starts the authorization-code flow for one provider. Each
// attempt gets a fresh state value so parallel logins from one client
// never collide.
func (s *Server) LoginHandler(flow *oauth.Exchanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.New().String()

		authURL, err := flow.BeginAuthorization(state)
		if err != nil {
			log.Error().Err(err).Str("provider", flow.Name()).Msg("begin authorization")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not start login")
			return
		}

		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// CallbackHandler finishes the flow: the provider redirects back here
// with the authorization code and the state from LoginHandler.
func (s *Server) CallbackHandler(flow *oauth.Exchanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		accessToken, err := flow.CompleteAuthorization(r.Context(), state, code)
		if err != nil {
			writeCallbackError(w, flow.Name(), err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
	}
}

func writeCallbackError(w http.ResponseWriter, provider string, err error) {
	var providerErr *autherrors.ProviderError
	switch {
	case autherrors.As(err, &providerErr):
		writeJSONError(w, http.StatusBadRequest, providerErr.Code, providerErr.Description)
	case autherrors.Is(err, autherrors.ErrMissingCode), autherrors.Is(err, autherrors.ErrMissingVerifier):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Error().Err(err).Str("provider", provider).Msg("token exchange")
		writeJSONError(w, http.StatusBadGateway, "server_error", "token exchange failed")
	}
}
