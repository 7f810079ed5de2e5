package server

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	autherrors "github.com/commette/backend/internal/errors"
	"github.com/commette/backend/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	ContextKeyUserID    ContextKey = "id_user"
	ContextKeyEmail     ContextKey = "email"
	ContextKeyFirstName ContextKey = "firstname"
	ContextKeyLastName  ContextKey = "lastname"
	ContextKeyRole      ContextKey = "role"
	ContextKeyActive    ContextKey = "active"
)

// bearerToken pulls the token out of the Authorization header. The scheme
// is checked before the token is even looked at.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", autherrors.ErrMissingAuth
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", autherrors.ErrBadScheme
	}
	if parts[1] == "" {
		return "", autherrors.ErrMissingAuth
	}
	return parts[1], nil
}

// RequireUser guards routes that need a fully valid session: signature,
// expiry, claims and the active flag all checked.
func (s *Server) RequireUser() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireToken()
}

// RequireInactiveUser guards the activation route, where the caller holds
// a valid session for an account that is not activated yet.
func (s *Server) RequireInactiveUser() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireToken(token.AllowInactive())
}

func (s *Server) requireToken(options ...token.VerifyOption) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := bearerToken(r)
			if err != nil {
				writeGuardRejection(w, err)
				return
			}

			claims, err := s.deps.Codec.Verify(rawToken, options...)
			if err != nil {
				writeGuardRejection(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyFirstName, claims.FirstName)
			ctx = context.WithValue(ctx, ContextKeyLastName, claims.LastName)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyActive, claims.Active)
			r = r.WithContext(ctx)

			next(w, r)
		}
	}
}

// RequireServiceKey guards service-to-service routes. The inbound
// X-Secret-Key is compared against the configured bcrypt hash, so the
// plaintext key is never stored on this side.
func (s *Server) RequireServiceKey() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Secret-Key")
			if key == "" {
				writeGuardRejection(w, autherrors.ErrMissingAuth)
				return
			}

			if err := bcrypt.CompareHashAndPassword(s.config.GetServiceKeyHash(), []byte(key)); err != nil {
				writeGuardRejection(w, autherrors.ErrBadServiceKey)
				return
			}

			next(w, r)
		}
	}
}

// writeGuardRejection maps verification errors to status codes: a valid
// session that lacks permission is 403, everything else is 401.
func writeGuardRejection(w http.ResponseWriter, err error) {
	switch {
	case autherrors.Is(err, autherrors.ErrInactive), autherrors.Is(err, autherrors.ErrBadServiceKey):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	}
}
