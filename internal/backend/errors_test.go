package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestClassifyTransport_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://localhost:5000/api/generate-image",
		Err: &net.OpError{
			Op:  "read",
			Net: "tcp",
			Err: &timeoutError{},
		},
	}

	apiErr := classifyTransport(OpGenerateImage, err, 60*time.Second)

	if apiErr.Type != ErrTypeTimeout {
		t.Errorf("Expected error type %v, got %v", ErrTypeTimeout, apiErr.Type)
	}
	if apiErr.Message != "timeout of 1m0s exceeded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !IsTimeout(apiErr) {
		t.Error("IsTimeout() should be true")
	}
}

func TestClassifyTransport_DeadlineExceeded(t *testing.T) {
	err := fmt.Errorf("Post: %w", context.DeadlineExceeded)

	apiErr := classifyTransport(OpSelectFolder, err, 120*time.Second)
	if apiErr.Type != ErrTypeTimeout {
		t.Errorf("Expected error type %v, got %v", ErrTypeTimeout, apiErr.Type)
	}
}

func TestClassifyTransport_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://localhost:5000/api/generate-prompt",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.ECONNREFUSED,
		},
	}

	apiErr := classifyTransport(OpGeneratePrompt, err, time.Minute)

	if apiErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Expected error type %v, got %v", ErrTypeConnectionRefused, apiErr.Type)
	}
	if !IsNetworkError(apiErr) {
		t.Error("IsNetworkError() should be true for connection refused")
	}
	if IsTimeout(apiErr) {
		t.Error("IsTimeout() should be false for connection refused")
	}
}

func TestClassifyTransport_DNS(t *testing.T) {
	err := &net.DNSError{
		Err:        "no such host",
		Name:       "artframe.invalid",
		IsNotFound: true,
	}

	apiErr := classifyTransport(OpListLocalImages, err, 30*time.Second)

	if apiErr.Type != ErrTypeDNS {
		t.Errorf("Expected error type %v, got %v", ErrTypeDNS, apiErr.Type)
	}
	if !strings.Contains(apiErr.Message, "artframe.invalid") {
		t.Errorf("Message should name the host, got %q", apiErr.Message)
	}
}

func TestClassifyTransport_HostUnreachable(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "http://10.0.0.9:5000/api/push-to-tv",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.EHOSTUNREACH,
		},
	}

	apiErr := classifyTransport(OpPushToTV, err, time.Minute)

	if apiErr.Type != ErrTypeNetwork {
		t.Errorf("Expected error type %v, got %v", ErrTypeNetwork, apiErr.Type)
	}
	if apiErr.Message == "" {
		t.Error("Message should carry the transport text")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "backend message",
			err:  &Error{Type: ErrTypeBackend, Message: "Model overloaded"},
			want: "Model overloaded",
		},
		{
			name: "wrapped backend message",
			err:  fmt.Errorf("generate: %w", &Error{Type: ErrTypeBackend, Message: "Model overloaded"}),
			want: "Model overloaded",
		},
		{
			name: "empty message falls back to cause",
			err:  &Error{Type: ErrTypeNetwork, Err: errors.New("connection reset")},
			want: "connection reset",
		},
		{
			name: "nothing at all",
			err:  &Error{Type: ErrTypeUnknown},
			want: GenericErrorMessage,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		network    bool
		backend    bool
		parse      bool
		validation bool
	}{
		{"network", &Error{Type: ErrTypeNetwork}, true, false, false, false},
		{"dns", &Error{Type: ErrTypeDNS}, true, false, false, false},
		{"backend", &Error{Type: ErrTypeBackend}, false, true, false, false},
		{"http", &Error{Type: ErrTypeHTTP}, false, true, false, false},
		{"parse", &Error{Type: ErrTypeParse}, false, false, true, false},
		{"validation", NewValidationError("Please generate a prompt first"), false, false, false, true},
		{"foreign", errors.New("x"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.network)
			}
			if got := IsBackendError(tt.err); got != tt.backend {
				t.Errorf("IsBackendError() = %v, want %v", got, tt.backend)
			}
			if got := IsParseError(tt.err); got != tt.parse {
				t.Errorf("IsParseError() = %v, want %v", got, tt.parse)
			}
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.validation)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Type: ErrTypeBackend, Message: "TV unreachable"}
	if err.Error() != "Backend Error: TV unreachable" {
		t.Errorf("Error() = %q", err.Error())
	}

	cause := errors.New("eof")
	wrapped := &Error{Type: ErrTypeParse, Message: "malformed response", Err: cause}
	if !strings.Contains(wrapped.Error(), "caused by: eof") {
		t.Errorf("Error() = %q, should include cause", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"folder timeout", &Error{Type: ErrTypeTimeout, Op: OpSelectFolder}, "folder dialog"},
		{"generic timeout", &Error{Type: ErrTypeTimeout, Op: OpGenerateImage}, "did not respond in time"},
		{"refused", &Error{Type: ErrTypeConnectionRefused}, "backend server is running"},
		{"dns", &Error{Type: ErrTypeDNS}, "resolve"},
		{"tv push", &Error{Type: ErrTypeBackend, Op: OpPushToTV}, "TV is powered on"},
		{"other backend", &Error{Type: ErrTypeBackend, Op: OpGeneratePrompt}, "Check its logs"},
		{"foreign", errors.New("x"), "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := GetTroubleshootingHint(tt.err)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("GetTroubleshootingHint() = %q, should contain %q", hint, tt.contains)
			}
		})
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeConnectionRefused.String() != "Connection Refused" {
		t.Errorf("String() = %q", ErrTypeConnectionRefused.String())
	}
	if ErrorType(99).String() != "ErrorType(99)" {
		t.Errorf("String() = %q", ErrorType(99).String())
	}
}

// timeoutError is a mock error that implements timeout behavior
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
