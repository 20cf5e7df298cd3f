package domain

import "errors"

// ErrorKind names a failure class surfaced to callers
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindUpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	KindJobNotFound         ErrorKind = "JobNotFound"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindInvalidToken        ErrorKind = "InvalidToken"
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindInternal            ErrorKind = "Internal"
)

var (
	// ErrUpstreamUnavailable indicates the external scheduler could not be reached
	ErrUpstreamUnavailable = errors.New("scheduler unavailable")

	// ErrJobNotFound indicates no job exists at the requested hook and due time
	ErrJobNotFound = errors.New("hook not found")

	// ErrUnauthorized indicates the caller lacks the required capability
	ErrUnauthorized = errors.New("permission denied")

	// ErrInvalidToken indicates the anti-replay token was missing, expired or already used
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidInput indicates malformed request parameters
	ErrInvalidInput = errors.New("invalid parameters")
)

// KindOf maps err onto its ErrorKind
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrJobNotFound):
		return KindJobNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}

// IsNotFoundError checks if an error indicates a missing job
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}
