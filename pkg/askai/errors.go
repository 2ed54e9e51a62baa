package askai

import (
	"context"
	"errors"
	"fmt"
)

// Machine-readable reason codes carried by ServiceError.
const (
	CodeOverload         = "overload"
	CodeRateLimit        = "rate_limit"
	CodeAuthFailed       = "auth_failed"
	CodeTimeout          = "timeout"
	CodeInsufficientData = "insufficient_data"
	CodeMalformed        = "malformed"
)

// ServiceError is the structured failure returned by the Query/Generation
// service. The code drives the retry policy.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// IsRetryable reports whether err is a transient service failure that the
// retry policy should absorb. Auth and data-shape failures are terminal.
func IsRetryable(err error) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		switch se.Code {
		case CodeOverload, CodeRateLimit, CodeTimeout:
			return true
		}
		return false
	}
	// A plain deadline expiry behaves like a retryable server timeout.
	return errors.Is(err, context.DeadlineExceeded)
}

// CodeForHTTPStatus maps a backend HTTP status to a reason code. Unknown
// client errors are treated as malformed requests.
func CodeForHTTPStatus(status int) string {
	switch status {
	case 429:
		return CodeRateLimit
	case 503:
		return CodeOverload
	case 504, 408:
		return CodeTimeout
	case 401, 403:
		return CodeAuthFailed
	case 422:
		return CodeInsufficientData
	}
	if status >= 500 {
		return CodeOverload
	}
	return CodeMalformed
}
