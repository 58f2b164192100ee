package upstream

import (
	"errors"
	"fmt"
)

// Upstream failure kinds. None of them is retried within an update cycle.
var (
	ErrNetwork       = errors.New("upstream unreachable")
	ErrHTTPStatus    = errors.New("unexpected upstream status")
	ErrInvalidData   = errors.New("invalid upstream data")
	ErrUnknownGroup  = errors.New("customer group not recognized by upstream")
	ErrNotConfigured = errors.New("upstream endpoint not configured")
)

// StatusError reports a non-200 response. It matches ErrHTTPStatus.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", ErrHTTPStatus, e.Code)
}

// Is makes errors.Is(err, ErrHTTPStatus) hold for a *StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// IsUpstream reports whether err is one of the upstream failure kinds.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrHTTPStatus) ||
		errors.Is(err, ErrInvalidData)
}

func invalidData(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
