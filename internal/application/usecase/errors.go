// internal/application/usecase/errors.go
package usecase

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all usecases. HTTP adapters map these with errors.Is.
var (
	ErrInvalidArgument   = errors.New("usecase: invalid argument")
	ErrNotFound          = errors.New("usecase: not found")
	ErrNotConfigured     = errors.New("usecase: not configured")
	ErrUpstream          = errors.New("usecase: upstream provider error")
	ErrConflict          = errors.New("usecase: conflict")
	ErrForbidden         = errors.New("usecase: forbidden")
	ErrInvalidTransition = errors.New("usecase: invalid status transition")
)

// UpstreamError carries the provider's diagnostic payload.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Payload    any
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: upstream error status=%d: %s", e.Provider, e.StatusCode, msg)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
