// Package token issues and verifies the signed session tokens that carry a
// user's profile between login and every subsequent request. A token is
// created once at successful login and ceases to be usable purely by
// wall-clock expiration; there is no refresh and no revocation list.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	autherrors "github.com/commette/backend/internal/errors"
)

// Wire claim names. Downstream handlers read the same names from the
// request context after the guard has verified a token.
const (
	ClaimUserID    = "id_user"
	ClaimEmail     = "email"
	ClaimFirstName = "firstname"
	ClaimLastName  = "lastname"
	ClaimRole      = "role"
	ClaimActive    = "active"
)

// DefaultExpiry is the fixed session window measured from issuance.
const DefaultExpiry = time.Hour

// Claims is the full profile embedded in a session token.
type Claims struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      string
	Active    bool
}

// Codec issues and verifies session tokens against a single process-wide
// signer.
type Codec struct {
	signer  Signer
	expiry  time.Duration
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

// WithExpiry overrides the session window.
func WithExpiry(d time.Duration) CodecOption {
	return func(c *Codec) {
		c.expiry = d
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		expiry:  DefaultExpiry,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Issue signs the claims with iat = now and exp = now + expiry. The
// semantic correctness of the claims is the caller's responsibility.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := c.nowFunc()

	mapClaims := jwtlib.MapClaims{
		ClaimUserID:    claims.UserID,
		ClaimEmail:     claims.Email,
		ClaimFirstName: claims.FirstName,
		ClaimLastName:  claims.LastName,
		ClaimRole:      claims.Role,
		ClaimActive:    claims.Active,
		"iat":          now.Unix(),
		"exp":          now.Add(c.expiry).Unix(),
	}

	signed, err := c.signer.Sign(mapClaims)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Issue] sign")
	}
	return signed, nil
}

type verifyConfig struct {
	allowInactive bool
}

type VerifyOption func(*verifyConfig)

// AllowInactive suppresses the active-flag check. Users who hold a token
// but have not completed activation still need to reach the activation
// endpoint.
func AllowInactive() VerifyOption {
	return func(vc *verifyConfig) {
		vc.allowInactive = true
	}
}

// Verify decodes a token and checks it against the process signer.
// Failures map onto the guard taxonomy: ErrInvalidSignature, ErrMalformed,
// ErrMissingClaim (id_user, email, exp, active and role are required),
// ErrExpired and ErrInactive.
func (c *Codec) Verify(rawToken string, options ...VerifyOption) (*Claims, error) {
	vc := verifyConfig{}
	for _, opt := range options {
		opt(&vc)
	}

	// Expiry is checked below against the injectable clock, not by the
	// parser's wall clock.
	parser := jwtlib.NewParser(jwtlib.WithoutClaimsValidation())
	parsed, err := parser.Parse(rawToken, c.signer.GetVerificationKey)
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, autherrors.ErrInvalidSignature
		case errors.Is(err, jwtlib.ErrTokenUnverifiable):
			return nil, autherrors.ErrInvalidSignature
		default:
			return nil, autherrors.ErrMalformed
		}
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, autherrors.ErrMalformed
	}

	userID, ok := mapClaims[ClaimUserID].(float64)
	if !ok {
		return nil, autherrors.ErrMissingClaim
	}
	email, ok := mapClaims[ClaimEmail].(string)
	if !ok {
		return nil, autherrors.ErrMissingClaim
	}
	role, ok := mapClaims[ClaimRole].(string)
	if !ok {
		return nil, autherrors.ErrMissingClaim
	}
	active, ok := mapClaims[ClaimActive].(bool)
	if !ok {
		return nil, autherrors.ErrMissingClaim
	}
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, autherrors.ErrMissingClaim
	}

	if c.nowFunc().Unix() >= int64(exp) {
		return nil, autherrors.ErrExpired
	}
	if !vc.allowInactive && !active {
		return nil, autherrors.ErrInactive
	}

	firstName, _ := mapClaims[ClaimFirstName].(string)
	lastName, _ := mapClaims[ClaimLastName].(string)

	return &Claims{
		UserID:    int64(userID),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Active:    active,
	}, nil
}
