package server

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	autherrors "github.com/commette/backend/internal/errors"
	"github.com/commette/backend/token"
	"github.com/commette/backend/users"
)

func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    s.config.GetAppName(),
			"version": Version,
		})
	}
}

// RegisterHandler creates an account across three systems: the identity
// provider holds the password, the database holds the profile, and the
// queue carries the activation email job. A failure after the identity
// account exists rolls that account back so the email can be retried.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg users.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
			return
		}

		if err := reg.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		ctx := r.Context()

		if taken, err := s.deps.Users.UsernameExists(ctx, reg.Username); err != nil {
			log.Error().Err(err).Msg("username lookup")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "registration failed")
			return
		} else if taken {
			writeJSONError(w, http.StatusConflict, "conflict", "username already exists")
			return
		}

		if reg.IsSeller() {
			if taken, err := s.deps.Users.CompanyExists(ctx, reg.CompanyName); err != nil {
				log.Error().Err(err).Msg("company lookup")
				writeJSONError(w, http.StatusInternalServerError, "server_error", "registration failed")
				return
			} else if taken {
				writeJSONError(w, http.StatusConflict, "conflict", "company already exists")
				return
			}
		}

		uid, err := s.deps.Identity.CreateUser(ctx, reg.Email, reg.Password)
		if err != nil {
			log.Error().Err(err).Msg("identity create user")
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "could not create account")
			return
		}

		rollback := func(stage string, cause error) {
			log.Error().Err(cause).Str("stage", stage).Msg("registration failed, rolling back identity account")
			if err := s.deps.Identity.DeleteUser(ctx, uid); err != nil {
				log.Error().Err(err).Str("uid", uid).Msg("identity rollback failed")
			}
		}

		if err := s.deps.Queue.Publish(ctx, reg.Email); err != nil {
			rollback("queue publish", err)
			writeJSONError(w, http.StatusInternalServerError, "server_error", "registration failed")
			return
		}

		userID, err := s.deps.Users.Create(ctx, reg)
		if err != nil {
			rollback("user create", err)
			writeJSONError(w, http.StatusInternalServerError, "server_error", "registration failed")
			return
		}

		if s.deps.Notifier != nil {
			if err := s.deps.Notifier.UserCreated(ctx, userID); err != nil {
				rollback("peer notify", err)
				writeJSONError(w, http.StatusInternalServerError, "server_error", "registration failed")
				return
			}
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "user created",
			"id_user": userID,
		})
	}
}

// LoginCustomHandler verifies the password against the identity provider
// and issues a session token built from the database profile.
func (s *Server) LoginCustomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds users.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
			return
		}

		if err := s.deps.Identity.SignIn(r.Context(), creds.Email, creds.Password); err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}

		user, err := s.deps.Users.GetByEmail(r.Context(), creds.Email)
		if err != nil {
			log.Error().Err(err).Msg("profile lookup after sign-in")
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}

		sessionToken, err := s.deps.Codec.Issue(token.Claims{
			UserID:    user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			Active:    user.Active,
		})
		if err != nil {
			log.Error().Err(err).Msg("issue session token")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "login failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "login successful",
			"idToken": sessionToken,
		})
	}
}

// UserHandler echoes the verified session claims back to the caller.
func (s *Server) UserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		writeJSON(w, http.StatusOK, map[string]any{
			"id_user":   ctx.Value(ContextKeyUserID),
			"email":     ctx.Value(ContextKeyEmail),
			"firstname": ctx.Value(ContextKeyFirstName),
			"lastname":  ctx.Value(ContextKeyLastName),
			"role":      ctx.Value(ContextKeyRole),
			"active":    ctx.Value(ContextKeyActive),
		})
	}
}

// GenerateCodeHandler mints a six-digit activation code for the account.
// Called by the email worker, behind the service-key guard.
func (s *Server) GenerateCodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.PathValue("email")

		code, err := generateActivationCode()
		if err != nil {
			log.Error().Err(err).Msg("generate activation code")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not generate code")
			return
		}

		if err := s.deps.Users.CreateActivationCode(r.Context(), email, code); err != nil {
			log.Error().Err(err).Msg("store activation code")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "could not generate code")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"code": code})
	}
}

// generateActivationCode returns a uniformly random code in [100000, 999999].
func generateActivationCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, fmt.Errorf("[generateActivationCode] %w", err)
	}
	return int(n.Int64()) + 100000, nil
}

// ActivateHandler redeems an activation code for the account in the
// session. An expired code triggers a fresh email before reporting the
// failure.
func (s *Server) ActivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(r.PathValue("code"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "activation code must be numeric")
			return
		}

		email, _ := r.Context().Value(ContextKeyEmail).(string)

		status, err := s.deps.Users.ActivationCodeStatus(r.Context(), email, code)
		if autherrors.Is(err, users.ErrCodeNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "activation code not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("activation code lookup")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "activation failed")
			return
		}

		if status == users.ActivationExpired {
			// Queue a fresh activation email before rejecting
			if err := s.deps.Queue.Publish(r.Context(), email); err != nil {
				log.Error().Err(err).Msg("republish activation email")
			}
			writeJSONError(w, http.StatusBadRequest, "expired_code", "activation code expired, a new one has been sent")
			return
		}

		if err := s.deps.Users.Activate(r.Context(), email); err != nil {
			log.Error().Err(err).Msg("activate user")
			writeJSONError(w, http.StatusInternalServerError, "server_error", "activation failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "user activated"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}
