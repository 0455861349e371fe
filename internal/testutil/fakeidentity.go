// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"tasktrack/internal/service"
)

// ErrNoToken is a typical identity failure for tests.
var ErrNoToken = fmt.Errorf("%w: failed to read token.json: no such file or directory", service.ErrAuth)

// DefaultUser is the user a new FakeIdentity reports.
var DefaultUser = service.User{
	Subject: "fake-user-1",
	Email:   "ada@example.com",
	Name:    "Ada Lovelace",
}

// FakeIdentity is an in-memory implementation of service.Identity for testing.
type FakeIdentity struct {
	mu    sync.Mutex
	user  service.User
	calls int

	// Error injection for testing
	CurrentUserErr error
}

// NewFakeIdentity creates a FakeIdentity reporting DefaultUser.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{user: DefaultUser}
}

// SetUser changes the reported user.
func (f *FakeIdentity) SetUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
}

// Calls returns how many times CurrentUser was called.
func (f *FakeIdentity) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// CurrentUser implements service.Identity.
func (f *FakeIdentity) CurrentUser(ctx context.Context) (service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.CurrentUserErr != nil {
		return service.User{}, f.CurrentUserErr
	}
	return f.user, nil
}

// SeqIDs returns an id generator producing id-0001, id-0002, ...
func SeqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%04d", n)
	}
}
