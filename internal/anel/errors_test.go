package anel

import (
	"errors"
	"fmt"
	"testing"
)

// timeoutErr satisfies net.Error enough for os.IsTimeout.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNewNetworkErrorClassifiesTimeout(t *testing.T) {
	err := newNetworkError("failed reading device response", timeoutErr{}, "192.168.1.50")

	if err.Kind != KindTimeout {
		t.Errorf("Kind = %v, want KindTimeout", err.Kind)
	}
	if !IsNetworkError(err) {
		t.Error("timeouts count as network-class failures")
	}
}

func TestNewNetworkErrorGeneric(t *testing.T) {
	cause := errors.New("sendto: network is unreachable")
	err := newNetworkError("failed to send command", cause, "192.168.1.50")

	if err.Kind != KindNetwork {
		t.Errorf("Kind = %v, want KindNetwork", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap() should expose the underlying error")
	}
}

func TestAuthError(t *testing.T) {
	err := newAuthError("192.168.1.50")

	if !IsAuthError(err) {
		t.Error("IsAuthError() = false, want true")
	}
	if IsNetworkError(err) {
		t.Error("auth failures are not network failures")
	}
}

func TestErrorPredicatesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("switch of plug 1 on 192.168.1.50 failed: %w",
		newTimeoutError("192.168.1.50", timeoutErr{}))

	if !IsNetworkError(err) {
		t.Error("IsNetworkError() should see through fmt.Errorf wrapping")
	}
}

func TestErrorMessage(t *testing.T) {
	err := newParseError("status datagram too short (2 fields)", nil, "")
	want := "Parse Error: status datagram too short (2 fields)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
