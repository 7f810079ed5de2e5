package users

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrCodeNotFound = errors.New("activation code not found")
)

// ActivationStatus is the state of an activation code at redemption time.
type ActivationStatus string

const (
	ActivationActive  ActivationStatus = "active"
	ActivationExpired ActivationStatus = "expired"
)

// Repo is the narrow surface the handlers need over the user stored
// procedures. The procedures own all business rules; implementations only
// bind parameters and map rows.
type Repo interface {
	Create(ctx context.Context, reg Registration) (int64, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CompanyExists(ctx context.Context, companyName string) (bool, error)

	CreateActivationCode(ctx context.Context, email string, code int) error
	ActivationCodeStatus(ctx context.Context, email string, code int) (ActivationStatus, error)
	Activate(ctx context.Context, email string) error
}
