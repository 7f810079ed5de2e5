// Package repofake provides an in-memory users.Repo for tests.
package repofake

import (
	"context"
	"strings"
	"sync"

	"github.com/commette/backend/users"
)

type activation struct {
	code    int
	expired bool
}

// FakeUserRepo keeps users and activation codes in memory.
type FakeUserRepo struct {
	mu          sync.Mutex
	nextID      int64
	byEmail     map[string]*users.User
	companies   map[string]bool
	activations map[string]activation

	// CreateErr, when set, is returned by Create to simulate a
	// stored-procedure failure.
	CreateErr error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		nextID:      1,
		byEmail:     make(map[string]*users.User),
		companies:   make(map[string]bool),
		activations: make(map[string]activation),
	}
}

func (f *FakeUserRepo) Create(_ context.Context, reg users.Registration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return 0, f.CreateErr
	}

	role := "buyer"
	if reg.IsSeller() {
		role = "seller"
		f.companies[strings.ToLower(reg.CompanyName)] = true
	}

	id := f.nextID
	f.nextID++
	f.byEmail[strings.ToLower(reg.Email)] = &users.User{
		ID:        id,
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Role:      role,
		Active:    false,
	}
	return id, nil
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *FakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.byEmail {
		if strings.EqualFold(user.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeUserRepo) CompanyExists(_ context.Context, companyName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.companies[strings.ToLower(companyName)], nil
}

func (f *FakeUserRepo) CreateActivationCode(_ context.Context, email string, code int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations[strings.ToLower(email)] = activation{code: code}
	return nil
}

// ExpireActivationCode marks the pending code for email as expired.
func (f *FakeUserRepo) ExpireActivationCode(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if act, ok := f.activations[strings.ToLower(email)]; ok {
		act.expired = true
		f.activations[strings.ToLower(email)] = act
	}
}

func (f *FakeUserRepo) ActivationCodeStatus(_ context.Context, email string, code int) (users.ActivationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	act, ok := f.activations[strings.ToLower(email)]
	if !ok || act.code != code {
		return "", users.ErrCodeNotFound
	}
	if act.expired {
		return users.ActivationExpired, nil
	}
	return users.ActivationActive, nil
}

func (f *FakeUserRepo) Activate(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return users.ErrNotFound
	}
	user.Active = true
	delete(f.activations, strings.ToLower(email))
	return nil
}
