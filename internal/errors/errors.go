// Package errors provides custom error types for the geminichat message pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrBlankInput is returned by Submit when the input is empty after trimming.
	// Callers treat it as a silent skip.
	ErrBlankInput = errors.New("blank input")

	// ErrBusy is returned when a turn is already in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrGateway matches every GatewayError regardless of kind.
	ErrGateway = errors.New("gateway error")

	// ErrInvariantViolation matches every InvariantViolationError.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNoAPIKey is returned when no gateway credential is configured.
	ErrNoAPIKey = errors.New("no API key configured")
)

// GatewayErrorKind classifies a gateway failure
type GatewayErrorKind int

const (
	KindNetworkFailure GatewayErrorKind = iota
	KindHTTPStatus
	KindMalformedResponse
)

// String returns a human-readable name for the kind
func (k GatewayErrorKind) String() string {
	switch k {
	case KindNetworkFailure:
		return "network_failure"
	case KindHTTPStatus:
		return "http_status"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// GatewayError represents a failed completion request
type GatewayError struct {
	Kind       GatewayErrorKind
	StatusCode int // only set for KindHTTPStatus
	Endpoint   string
	Message    string
	Body       string // truncated response body, for diagnostics
	Err        error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("gateway error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	case KindMalformedResponse:
		return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("network failure at %s: %s: %v", e.Endpoint, e.Message, e.Err)
		}
		return fmt.Sprintf("network failure at %s: %s", e.Endpoint, e.Message)
	}
}

// Unwrap returns the underlying cause
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is allows comparison with ErrGateway and other GatewayErrors of the same kind
func (e *GatewayError) Is(target error) bool {
	if target == ErrGateway {
		return true
	}
	other, ok := target.(*GatewayError)
	return ok && other.Kind == e.Kind
}

// NewNetworkFailure creates a GatewayError for transport failures
func NewNetworkFailure(endpoint, message string, cause error) *GatewayError {
	return &GatewayError{
		Kind:     KindNetworkFailure,
		Endpoint: endpoint,
		Message:  message,
		Err:      cause,
	}
}

// NewHTTPStatusError creates a GatewayError for non-success HTTP responses
func NewHTTPStatusError(statusCode int, endpoint, message, body string) *GatewayError {
	return &GatewayError{
		Kind:       KindHTTPStatus,
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NewMalformedResponse creates a GatewayError for responses missing the expected shape
func NewMalformedResponse(endpoint, message string) *GatewayError {
	return &GatewayError{
		Kind:     KindMalformedResponse,
		Endpoint: endpoint,
		Message:  message,
	}
}

// InvariantViolationError signals a sequencing bug inside the pipeline.
// It is never caused by user input.
type InvariantViolationError struct {
	Op      string
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Message)
}

// Is allows comparison with ErrInvariantViolation
func (e *InvariantViolationError) Is(target error) bool {
	if target == ErrInvariantViolation {
		return true
	}
	_, ok := target.(*InvariantViolationError)
	return ok
}

// NewInvariantViolation creates a new InvariantViolationError
func NewInvariantViolation(op, message string) *InvariantViolationError {
	return &InvariantViolationError{Op: op, Message: message}
}

// AsGatewayError extracts a GatewayError from the chain
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// IsNetworkFailure reports whether err is a transport-level gateway failure
func IsNetworkFailure(err error) bool {
	gwErr, ok := AsGatewayError(err)
	return ok && gwErr.Kind == KindNetworkFailure
}

// IsMalformedResponse reports whether err is a response-shape failure
func IsMalformedResponse(err error) bool {
	gwErr, ok := AsGatewayError(err)
	return ok && gwErr.Kind == KindMalformedResponse
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	gwErr, ok := AsGatewayError(err)
	if !ok || gwErr.Kind != KindHTTPStatus {
		return 0
	}
	return gwErr.StatusCode
}

// IsSilent reports whether err is one of the skip conditions callers ignore
func IsSilent(err error) bool {
	return errors.Is(err, ErrBlankInput) || errors.Is(err, ErrBusy)
}
