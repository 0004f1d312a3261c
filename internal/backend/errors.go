package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the client-side request budget ran out
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the backend address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the backend hostname could not be resolved
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx status without a usable JSON envelope
	ErrTypeHTTP
	// ErrTypeBackend indicates the backend answered with success=false
	ErrTypeBackend
	// ErrTypeParse indicates a malformed or incomplete response body
	ErrTypeParse
	// ErrTypeValidation indicates a local precondition failed; nothing was sent
	ErrTypeValidation
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeBackend:
		return "Backend Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// GenericErrorMessage is shown when neither the backend nor the transport
// produced any text.
const GenericErrorMessage = "An unknown error occurred"

// Error is the single normalized failure returned by every Client call.
type Error struct {
	Type       ErrorType // Category of error
	Op         Operation // Operation that failed (empty for local errors)
	Message    string    // Normalized, user-facing message
	StatusCode int       // HTTP status code (if a response arrived)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the text to show a user for err: the backend's own error
// string when there is one, otherwise the transport error, otherwise a
// generic fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Err != nil && apiErr.Err.Error() != "" {
			return apiErr.Err.Error()
		}
		return GenericErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// classifyTransport turns an http.Client error into an *Error. The message
// is the transport's own description, which ranks below a backend-supplied
// error string but above the operation's generic fallback.
func classifyTransport(op Operation, err error, budget fmt.Stringer) *Error {
	if err == nil {
		return nil
	}

	var te interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) || (errors.As(err, &te) && te.Timeout()) {
		return &Error{
			Type:    ErrTypeTimeout,
			Op:      op,
			Message: fmt.Sprintf("timeout of %s exceeded", budget),
			Err:     err,
		}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Type: ErrTypeNetwork, Op: op, Message: "request canceled", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeDNS,
			Op:      op,
			Message: fmt.Sprintf("cannot resolve backend host %s", dnsErr.Name),
			Err:     err,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{
			Type:    ErrTypeConnectionRefused,
			Op:      op,
			Message: "backend refused the connection",
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Type: ErrTypeNetwork, Op: op, Message: "network error: " + opErr.Err.Error(), Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return &Error{Type: ErrTypeNetwork, Op: op, Message: urlErr.Err.Error(), Err: err}
	}

	return &Error{Type: ErrTypeNetwork, Op: op, Message: err.Error(), Err: err}
}

// NewValidationError creates a local precondition error. No request is
// made when one of these is returned.
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// NewParseError creates a parsing error
func NewParseError(op Operation, message string, err error) *Error {
	return &Error{
		Type:    ErrTypeParse,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func errorType(err error) (ErrorType, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return ErrTypeUnknown, false
}

// IsTimeout reports whether err is a client-side timeout
func IsTimeout(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeTimeout
}

// IsNetworkError checks if an error is a transport failure (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	if !ok {
		return false
	}
	return t == ErrTypeNetwork ||
		t == ErrTypeTimeout ||
		t == ErrTypeConnectionRefused ||
		t == ErrTypeDNS
}

// IsBackendError checks if the backend itself reported the failure
func IsBackendError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeBackend || t == ErrTypeHTTP)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsValidationError checks if an error is a local validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		if apiErr.Op == OpSelectFolder {
			return strings.Join([]string{
				"The folder dialog was not answered in time.",
				"Troubleshooting:",
				"  • The dialog opens on the machine running the backend",
				"  • Pick a folder within two minutes and try again",
			}, "\n")
		}
		return strings.Join([]string{
			"The backend did not respond in time.",
			"Troubleshooting:",
			"  • Image generation can be slow; try again",
			"  • Check the backend logs for a stuck request",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The backend refused the connection.",
			"Troubleshooting:",
			"  • Make sure the backend server is running",
			"  • Check the --api flag or ARTFRAME_API_URL (default http://localhost:5000)",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the backend hostname.",
			"Troubleshooting:",
			"  • Use an IP address in --api instead of a hostname",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication with the backend failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the backend address",
		}, "\n")

	case ErrTypeBackend, ErrTypeHTTP:
		if apiErr.Op == OpPushToTV || apiErr.Op == OpTestTVConnection || apiErr.Op == OpCheckTVIP {
			return strings.Join([]string{
				"The backend could not reach the TV.",
				"Troubleshooting:",
				"  • The TV is powered on",
				"  • The TV is connected to the same network",
				"  • The IP address is correct",
			}, "\n")
		}
		return "The backend reported an error. Check its logs for details."

	case ErrTypeParse:
		return "The backend returned a response artframe does not understand. Check that the backend version matches."

	case ErrTypeValidation:
		return "Fix the input and try again."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
