// Package beacon provides the beacon node HTTP client used to fetch blob
// sidecars and block headers, with transport-level retry and a not-found
// sentinel instead of an error for missed slots.
package beacon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for beacon API operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobsync_requests_total",
		Help: "Total beacon API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blobsync_request_duration_seconds",
		Help:    "Beacon API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})
)

// Endpoint labels used in metrics and logs.
const (
	endpointSidecars = "blob_sidecars"
	endpointHeaders  = "headers"
	endpointHeader   = "header"
)

// Client is the beacon node API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the beacon node API base URL, with or without a trailing slash.
	BaseURL string

	// Retry is the transport retry policy applied to every request.
	Retry RetryConfig

	// Timeout bounds a single HTTP attempt. Zero means no per-attempt timeout;
	// a stalled transfer then blocks its window until the transport gives up.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration for the given base URL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Retry:   DefaultRetryConfig(),
	}
}

// New creates a new beacon API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.Retry.Attempts <= 0 {
		return nil, fmt.Errorf("retry attempts must be positive (got %d)", cfg.Retry.Attempts)
	}

	logger := log.With().Str("component", "beacon-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// BlobSidecars returns the blob sidecars for a slot. A missed slot (404 from
// the beacon node) yields an empty list, not an error.
func (c *Client) BlobSidecars(ctx context.Context, slot uint64) ([]Sidecar, error) {
	var resp SidecarsResponse

	path := fmt.Sprintf("eth/v1/beacon/blob_sidecars/%d", slot)
	found, err := c.getJSON(ctx, endpointSidecars, path, &resp)
	if err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	if !found {
		c.logger.Debug().Uint64("slot", slot).Msg("No block proposed for slot")
		return nil, nil
	}

	return resp.Data, nil
}

// BlockRoot returns the canonical block root hex string for a slot, or the
// empty string when no header exists at that slot.
func (c *Client) BlockRoot(ctx context.Context, slot uint64) (string, error) {
	var resp HeaderResponse

	path := fmt.Sprintf("eth/v1/beacon/headers/%d", slot)
	found, err := c.getJSON(ctx, endpointHeader, path, &resp)
	if err != nil {
		return "", fmt.Errorf("slot %d: %w", slot, err)
	}
	if !found {
		c.logger.Debug().Uint64("slot", slot).Msg("No header for slot")
		return "", nil
	}

	return resp.Data.Root, nil
}

// HeadSlot returns the slot of the first entry in the node's head header
// listing. An empty listing yields ErrHeadNotFound.
func (c *Client) HeadSlot(ctx context.Context) (uint64, error) {
	var resp HeadersResponse

	found, err := c.getJSON(ctx, endpointHeaders, "eth/v1/beacon/headers", &resp)
	if err != nil {
		return 0, err
	}
	if !found || len(resp.Data) == 0 {
		return 0, ErrHeadNotFound
	}

	slot, err := strconv.ParseUint(resp.Data[0].Header.Message.Slot, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: head slot %q: %v", ErrDecode, resp.Data[0].Header.Message.Slot, err)
	}

	return slot, nil
}

// getJSON performs one retryable GET against path. A 404 response resolves to
// found=false with no error and without consuming further attempts. Any other
// response body is decoded into out; a decode failure is terminal.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) (bool, error) {
	var found bool

	err := retryTransport(ctx, c.config.Retry, endpoint, func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
		if err != nil {
			return true, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			requestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
			return false, err
		}
		defer resp.Body.Close()

		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusNotFound {
			return true, nil
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return false, fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return true, fmt.Errorf("unexpected status: %s", resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Err(err).
				Msg("Undecodable beacon response")
			return true, fmt.Errorf("%w: %s: %v", ErrDecode, resp.Status, err)
		}

		found = true
		return true, nil
	})

	return found, err
}

// url joins the base URL with path, tolerating a trailing slash on the base.
func (c *Client) url(path string) string {
	return strings.TrimSuffix(c.config.BaseURL, "/") + "/" + path
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
