package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream failed")

func failing() error { return errUpstream }
func succeeding() error { return nil }

func TestBreaker_StartsClosed(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Timeout: time.Minute})

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED, got %v", cb.State())
	}

	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("Expected success, got: %v", err)
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errUpstream) {
			t.Fatalf("Call %d: expected upstream error, got: %v", i+1, err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN after threshold, got %v", cb.State())
	}

	if err := cb.Execute(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got: %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{FailureThreshold: 2, Timeout: time.Minute})

	cb.Execute(failing)
	cb.Execute(succeeding)
	cb.Execute(failing)

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after interleaved success, got %v", cb.State())
	}
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, Timeout: 10 * time.Millisecond})

	cb.Execute(failing)
	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN, got %v", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	// A successful probe in HALF-OPEN closes the circuit
	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("Expected half-open probe to run, got: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after successful probe, got %v", cb.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, Timeout: 10 * time.Millisecond})

	cb.Execute(failing)
	time.Sleep(20 * time.Millisecond)

	if err := cb.Execute(failing); !errors.Is(err, errUpstream) {
		t.Fatalf("Expected upstream error, got: %v", err)
	}
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after half-open failure, got %v", cb.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, Timeout: time.Minute})

	cb.Execute(failing)
	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN, got %v", cb.State())
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after reset, got %v", cb.State())
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("Expected success after reset, got: %v", err)
	}
}

func TestState_String(t *testing.T) {
	testCases := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF-OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.expected {
			t.Errorf("State(%d).String() = %q, expected %q", tc.state, got, tc.expected)
		}
	}
}
