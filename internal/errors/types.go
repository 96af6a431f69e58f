// Package errors classifies failures from remote collaborators so callers can
// pick a retry or fallback policy without inspecting transports.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how retry logic treats an error.
type ErrorCategory int

const (
	// Recoverable errors are retried with exponential backoff.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately without retry.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Kind is the failure taxonomy used by the conversation gateway.
type Kind int

const (
	KindUnclassified Kind = iota
	KindAuth              // credential rejected (401)
	KindPermission        // credential lacks access (403)
	KindRateLimited       // server throttled the caller (429)
	KindTransient         // 5xx, 408 or network failure
	KindMalformed         // 2xx without a usable payload
	KindConfig            // missing or invalid local configuration
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindMalformed:
		return "malformed"
	case KindConfig:
		return "config"
	default:
		return "unclassified"
	}
}

// ClassifiedError wraps an error with categorization metadata for retry policies.
type ClassifiedError struct {
	Category   ErrorCategory
	Kind       Kind
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // response body for debugging
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s/%s] HTTP %d: %v", e.Category, e.Kind, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s/%s] %v", e.Category, e.Kind, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable reports whether err was classified as not worth retrying.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// IsRecoverable reports whether err was positively classified as transient.
// Unclassified errors are not recoverable.
func IsRecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Recoverable
	}
	return false
}

// KindOf returns the Kind of the first ClassifiedError in err's chain.
func KindOf(err error) Kind {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnclassified
}
