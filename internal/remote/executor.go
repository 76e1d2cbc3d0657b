// Package remote runs commands inside, and copies files into, long-running
// service containers addressed by name.
package remote

import (
	"context"
	"errors"
)

// ExecResult is the outcome of one command run inside a service.
type ExecResult struct {
	ExitCode int
	Output   []byte // stdout and stderr interleaved
}

// OK reports whether the command exited zero.
func (r ExecResult) OK() bool { return r.ExitCode == 0 }

// Executor is the remote primitive used by every pipeline step.
// Exec blocks until the command exits; there is no timeout beyond ctx.
type Executor interface {
	Exec(ctx context.Context, service string, argv []string) (ExecResult, error)
	// CopyFile deposits hostSrc into the service at dest (a slash path). The
	// file is transferred as a single-entry archive named after path.Base(dest).
	CopyFile(ctx context.Context, service, hostSrc, dest string) error
}

// serviceNotFoundError is returned when the named service does not exist.
type serviceNotFoundError struct{ name string }

func (e serviceNotFoundError) Error() string { return "container '" + e.name + "' not found" }

// ErrServiceNotFound constructs the error for a missing service.
func ErrServiceNotFound(name string) error { return serviceNotFoundError{name: name} }

// IsServiceNotFound reports whether err, or anything it wraps, indicates a missing service.
func IsServiceNotFound(err error) bool {
	var e serviceNotFoundError
	return errors.As(err, &e)
}
