package anel

import (
	"errors"
	"fmt"
	"os"
)

// ErrorKind represents the category of protocol error that occurred.
type ErrorKind int

const (
	// KindNetwork indicates a transport-level error (socket failure,
	// unreachable network, send error).
	KindNetwork ErrorKind = iota
	// KindTimeout indicates the device did not answer within the
	// exchange timeout.
	KindTimeout
	// KindAuth indicates the device rejected the configured credentials.
	KindAuth
	// KindParse indicates the device answered with a datagram we could
	// not understand.
	KindParse
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "Network Error"
	case KindTimeout:
		return "Timeout"
	case KindAuth:
		return "Authentication Error"
	case KindParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// ProtocolError represents a failed exchange with a device.
type ProtocolError struct {
	Kind    ErrorKind // Category of error
	Message string    // Human-readable error message
	Address string    // Device address (empty for discovery-wide errors)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func newNetworkError(message string, err error, address string) *ProtocolError {
	if os.IsTimeout(err) {
		return newTimeoutError(address, err)
	}
	return &ProtocolError{
		Kind:    KindNetwork,
		Message: message,
		Address: address,
		Err:     err,
	}
}

func newTimeoutError(address string, err error) *ProtocolError {
	return &ProtocolError{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("device %s did not respond in time", address),
		Address: address,
		Err:     err,
	}
}

func newAuthError(address string) *ProtocolError {
	return &ProtocolError{
		Kind:    KindAuth,
		Message: fmt.Sprintf("device %s rejected the configured credentials", address),
		Address: address,
	}
}

func newParseError(message string, err error, address string) *ProtocolError {
	return &ProtocolError{
		Kind:    KindParse,
		Message: message,
		Address: address,
		Err:     err,
	}
}

// IsNetworkError checks if an error is a network-class failure
// (including timeouts).
func IsNetworkError(err error) bool {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return perr.Kind == KindNetwork || perr.Kind == KindTimeout
	}
	return false
}

// IsAuthError checks if an error is an authentication failure.
func IsAuthError(err error) bool {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return perr.Kind == KindAuth
	}
	return false
}
