// Package identityfake provides an in-memory identity.Provider for tests.
package identityfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

type FakeProvider struct {
	mu        sync.Mutex
	nextUID   int
	passwords map[string]string
	uids      map[string]string

	// CreateErr, when set, makes CreateUser fail.
	CreateErr error

	Deleted []string
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		nextUID:   1,
		passwords: make(map[string]string),
		uids:      make(map[string]string),
	}
}

func (f *FakeProvider) CreateUser(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	if _, exists := f.passwords[email]; exists {
		return "", errors.New("EMAIL_EXISTS")
	}

	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.nextUID++
	f.passwords[email] = password
	f.uids[uid] = email
	return uid, nil
}

func (f *FakeProvider) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.uids[uid]
	if !ok {
		return errors.New("USER_NOT_FOUND")
	}
	delete(f.uids, uid)
	delete(f.passwords, email)
	f.Deleted = append(f.Deleted, uid)
	return nil
}

func (f *FakeProvider) SignIn(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.passwords[email]
	if !ok {
		return errors.New("EMAIL_NOT_FOUND")
	}
	if stored != password {
		return errors.New("INVALID_PASSWORD")
	}
	return nil
}
