// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, task not found, ambiguous ref).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates an identity/network error or a failed store operation.
	BackendError = 3

	// ValidationError indicates the task form was rejected.
	ValidationError = 4
)
