package beacon

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.Attempts != 10 {
		t.Errorf("Attempts = %d, want 10", config.Attempts)
	}
	if config.Delay != 5*time.Second {
		t.Errorf("Delay = %v, want 5s", config.Delay)
	}
}

func TestRetryTransport_ImmediateSuccess(t *testing.T) {
	ctx := context.Background()

	callCount := 0
	fn := func() (bool, error) {
		callCount++
		return true, nil
	}

	err := retryTransport(ctx, RetryConfig{Attempts: 10, Delay: time.Second}, "test", fn)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryTransport_SuccessAfterTransportFailures(t *testing.T) {
	ctx := context.Background()
	cfg := RetryConfig{Attempts: 4, Delay: 20 * time.Millisecond}

	// Transport fails three times, then succeeds
	callCount := 0
	fn := func() (bool, error) {
		callCount++
		if callCount < 4 {
			return false, errors.New("connection refused")
		}
		return true, nil
	}

	start := time.Now()
	err := retryTransport(ctx, cfg, "test", fn)
	duration := time.Since(start)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 4 {
		t.Errorf("Expected 4 calls, got %d", callCount)
	}

	// Exactly three pauses of the fixed delay should have elapsed
	if duration < 3*cfg.Delay {
		t.Errorf("Expected at least %v of backoff, got %v", 3*cfg.Delay, duration)
	}
	if duration > 3*cfg.Delay+100*time.Millisecond {
		t.Errorf("Expected roughly %v of backoff, got %v", 3*cfg.Delay, duration)
	}
}

func TestRetryTransport_Exhausted(t *testing.T) {
	ctx := context.Background()

	// Transport always fails
	callCount := 0
	fn := func() (bool, error) {
		callCount++
		return false, errors.New("connection refused")
	}

	err := retryTransport(ctx, RetryConfig{Attempts: 5, Delay: time.Millisecond}, "test", fn)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	// Exactly Attempts calls, no more, no fewer
	if callCount != 5 {
		t.Errorf("Expected 5 calls, got %d", callCount)
	}
}

func TestRetryTransport_TerminalErrorNotRetried(t *testing.T) {
	ctx := context.Background()

	// A terminal outcome (done=true) must pass its error through unchanged
	terminalErr := errors.New("undecodable body")
	callCount := 0
	fn := func() (bool, error) {
		callCount++
		return true, terminalErr
	}

	err := retryTransport(ctx, RetryConfig{Attempts: 5, Delay: time.Millisecond}, "test", fn)

	if callCount != 1 {
		t.Errorf("Expected 1 call (terminal errors are not retried), got %d", callCount)
	}
	if !errors.Is(err, terminalErr) {
		t.Errorf("Expected terminal error, got %v", err)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Terminal error must not be wrapped as ErrRetryExhausted")
	}
}

func TestRetryTransport_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	fn := func() (bool, error) {
		callCount++
		if callCount == 1 {
			// Cancel context after first failure
			cancel()
		}
		return false, errors.New("connection refused")
	}

	err := retryTransport(ctx, RetryConfig{Attempts: 5, Delay: time.Second}, "test", fn)

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	// Should have stopped during the first pause, not burned the budget
	if callCount >= 5 {
		t.Errorf("Expected fewer than 5 calls due to cancellation, got %d", callCount)
	}
}
