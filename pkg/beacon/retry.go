package beacon

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobsync_retries_total",
		Help: "Total number of retry attempts by endpoint",
	}, []string{"endpoint"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobsync_retry_exhausted_total",
		Help: "Total number of times the retry budget was exhausted by endpoint",
	}, []string{"endpoint"})
)

// RetryConfig holds the configuration for the transport retry loop.
type RetryConfig struct {
	// Attempts is the total number of attempts (including the initial request).
	Attempts int

	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: 10,
		Delay:    5 * time.Second,
	}
}

// retryTransport runs fn up to cfg.Attempts times, sleeping cfg.Delay between
// attempts. Only transport-level failures are retried: fn returning
// (true, err) is terminal and err is handed back unchanged; fn returning
// (false, err) consumes one attempt. The pause honours context cancellation.
func retryTransport(ctx context.Context, cfg RetryConfig, endpoint string, fn func() (done bool, err error)) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		done, err := fn()
		if done {
			if attempt > 1 {
				log.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return err
		}

		lastErr = err

		// If this was the last attempt, don't wait
		if attempt >= cfg.Attempts {
			break
		}

		retriesTotal.WithLabelValues(endpoint).Inc()

		log.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("delay", cfg.Delay).
			Err(err).
			Msg("Retrying request after transport failure")

		// Wait with context cancellation support
		select {
		case <-ctx.Done():
			log.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("Context cancelled during retry pause")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(cfg.Delay):
			// Continue to next attempt
		}
	}

	// All attempts exhausted
	retryExhaustedTotal.WithLabelValues(endpoint).Inc()
	log.Warn().
		Str("endpoint", endpoint).
		Int("max_attempts", cfg.Attempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, cfg.Attempts, lastErr)
}
