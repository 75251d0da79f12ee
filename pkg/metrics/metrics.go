// Package metrics provides the centralized Prometheus metrics reference for
// the blobs downloader. All metrics are defined in their respective packages
// (beacon, backfill, store) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the downloader.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/beacon):
//   - blobsync_requests_total{endpoint, status} (Counter): Beacon API requests by endpoint and HTTP status
//   - blobsync_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//
// Retry Metrics (pkg/beacon):
//   - blobsync_retries_total{endpoint} (Counter): Retry attempts after transport failures
//   - blobsync_retry_exhausted_total{endpoint} (Counter): Requests that exhausted the retry budget
//
// Scheduler Metrics (pkg/backfill):
//   - blobsync_windows_committed_total (Counter): Fetch windows committed to the sink
//   - blobsync_slots_synced_total (Counter): Slot records synchronized
//
// Sink Metrics (pkg/store):
//   - blobsync_sink_commit_duration_seconds{sink} (Histogram): Commit duration by backend
//   - blobsync_records_committed_total{sink} (Counter): Records committed by backend
//
// Example Prometheus Queries:
//
//   # Transport failure rate
//   rate(blobsync_requests_total{status="transport_error"}[5m]) /
//   rate(blobsync_requests_total[5m])
//
//   # Sync throughput (slots per second)
//   rate(blobsync_slots_synced_total[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(blobsync_request_duration_seconds_bucket[5m]))
//
//   # Retry pressure by endpoint
//   rate(blobsync_retries_total[5m])
