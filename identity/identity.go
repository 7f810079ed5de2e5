// Package identity abstracts the external credential store that holds
// account passwords. The database never sees a password.
package identity

import "context"

// Provider manages credentials in the external identity service.
type Provider interface {
	// CreateUser registers the email/password pair and returns the
	// provider's uid for the new account.
	CreateUser(ctx context.Context, email, password string) (string, error)

	// DeleteUser removes the account, used to roll back a registration
	// whose later steps failed.
	DeleteUser(ctx context.Context, uid string) error

	// SignIn verifies the email/password pair.
	SignIn(ctx context.Context, email, password string) error
}
