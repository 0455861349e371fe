// Package service defines the backend-agnostic interfaces the presentation
// layer talks to. Commands and HTTP handlers never import a concrete store
// or identity SDK directly.
package service

import (
	"context"
	"errors"

	"tasktrack/internal/task"
)

// ErrNotLoggedIn is returned by identity providers when no credentials are
// stored.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrAuth is wrapped by identity errors that signing in again would fix:
// unusable credential files and rejected tokens.
var ErrAuth = errors.New("authentication failed")

// Tasks defines the task collection operations of one session.
// *store.Store implements it.
type Tasks interface {
	// Create adds a pending task owned by userID, newest first.
	Create(ctx context.Context, userID string, in task.CreateInput) (task.Task, error)

	// Update merges a partial update into the task with the given id.
	// Reports false without error when the id is unknown.
	Update(ctx context.Context, id string, p task.Patch) (task.Task, bool, error)

	// Delete removes a task. Reports false without error when the id is unknown.
	Delete(ctx context.Context, id string) (bool, error)

	// Get looks a task up by id.
	Get(id string) (task.Task, bool)

	// All returns every task, newest first.
	All() []task.Task
}

// Identity resolves the signed-in user.
type Identity interface {
	// CurrentUser returns the user the stored credentials belong to.
	CurrentUser(ctx context.Context) (User, error)
}
