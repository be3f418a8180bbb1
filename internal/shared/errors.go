package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrSongNotFound       = fmt.Errorf("song not found")

	// Local state errors
	ErrStorage   = fmt.Errorf("local storage failure")
	ErrNotFound  = fmt.Errorf("entity not found")
	ErrDuplicate = fmt.Errorf("entity already present")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// FailureKind classifies why a remote or storage operation did not succeed.
type FailureKind int

const (
	FailureTimeout FailureKind = iota
	FailureRejected
	FailureUnreachable
	FailureUnauthenticated
	FailureStorage
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureRejected:
		return "rejected"
	case FailureUnreachable:
		return "unreachable"
	case FailureUnauthenticated:
		return "unauthenticated"
	case FailureStorage:
		return "storage"
	case FailureNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// sentinel maps a kind onto the package-level error it satisfies under [errors.Is].
func (k FailureKind) sentinel() error {
	switch k {
	case FailureTimeout:
		return ErrTimeout
	case FailureRejected:
		return ErrAPIRequest
	case FailureUnreachable:
		return ErrServiceUnavailable
	case FailureUnauthenticated:
		return ErrNotAuthenticated
	case FailureStorage:
		return ErrStorage
	case FailureNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Failure is the typed result of a network-class or storage operation.
//
// Status and Detail are only meaningful for [FailureRejected]. Detail carries the
// server's {"error": "..."} message, or "" when the body had none.
type Failure struct {
	Kind   FailureKind
	Status int
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureRejected:
		if f.Detail == "" {
			return fmt.Sprintf("%v: status %d", ErrAPIRequest, f.Status)
		}
		return fmt.Sprintf("%v: status %d: %s", ErrAPIRequest, f.Status, f.Detail)
	default:
		if f.Err != nil {
			return fmt.Sprintf("%v: %v", f.Kind.sentinel(), f.Err)
		}
		return f.Kind.sentinel().Error()
	}
}

// Unwrap exposes the underlying cause, if any.
func (f *Failure) Unwrap() error { return f.Err }

// Is reports whether target is the sentinel for this failure's kind.
func (f *Failure) Is(target error) bool {
	return target == f.Kind.sentinel()
}

// Timeout builds a [FailureTimeout].
func Timeout(err error) *Failure {
	return &Failure{Kind: FailureTimeout, Err: err}
}

// Rejected builds a [FailureRejected] for a non-2xx response.
func Rejected(status int, detail string) *Failure {
	return &Failure{Kind: FailureRejected, Status: status, Detail: detail}
}

// Unreachable builds a [FailureUnreachable] for a request that got no response.
func Unreachable(err error) *Failure {
	return &Failure{Kind: FailureUnreachable, Err: err}
}

// Unauthenticated builds a [FailureUnauthenticated].
func Unauthenticated() *Failure {
	return &Failure{Kind: FailureUnauthenticated}
}

// StorageFailure builds a [FailureStorage] wrapping the persistence error.
func StorageFailure(err error) *Failure {
	return &Failure{Kind: FailureStorage, Err: err}
}

// AsFailure extracts a [*Failure] from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
