package errors

import "fmt"

// ClassifyHTTPError maps a response status to a category and kind.
//   - 401/403 are configuration problems and never retried
//   - 429 is irrecoverable for the in-flight call; the caller cools down instead
//   - 408 and 5xx are transient
//   - any other status is unclassified and not retried
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	category, kind := httpClassification(statusCode)
	return &ClassifiedError{
		Category:   category,
		Kind:       kind,
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

func httpClassification(statusCode int) (ErrorCategory, Kind) {
	switch {
	case statusCode == 401:
		return Irrecoverable, KindAuth
	case statusCode == 403:
		return Irrecoverable, KindPermission
	case statusCode == 429:
		return Irrecoverable, KindRateLimited
	case statusCode == 408:
		return Recoverable, KindTransient
	case statusCode >= 500 && statusCode < 600:
		return Recoverable, KindTransient
	default:
		return Irrecoverable, KindUnclassified
	}
}

// NewHTTPError creates a classified error for an HTTP failure of operation.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	return ClassifyHTTPError(statusCode, body, underlyingErr)
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Kind:       KindTransient,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// NewMalformedError reports a successful response that carried no usable reply.
func NewMalformedError(operation string, reason string) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		Kind:       KindMalformed,
		Underlying: fmt.Errorf("%s: %s", operation, reason),
	}
}

// NewConfigError reports missing or invalid local configuration.
func NewConfigError(reason string) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		Kind:       KindConfig,
		Underlying: fmt.Errorf("not configured: %s", reason),
	}
}
