// Package store provides the persistence sinks that commit synchronized slot
// records. Three interchangeable backends exist: an append-only JSONL log, a
// LevelDB store with atomic batch writes, and a Redis store using transaction
// pipelines. Sinks never retry; a commit failure is fatal to the run.
package store

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
)

// Prometheus metrics for sink operations.
var (
	commitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blobsync_sink_commit_duration_seconds",
		Help:    "Sink commit duration in seconds by backend",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"sink"})

	recordsCommittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blobsync_records_committed_total",
		Help: "Total slot records committed by backend",
	}, []string{"sink"})
)

// ErrCommit is returned when a sink fails to commit a window of records.
var ErrCommit = errors.New("sink commit failed")

// WriteRecord is the unit committed to storage: one slot together with its
// canonical block root and the slot's blob sidecars. Sidecars is empty when
// the slot had no proposed block; Root is the zero sentinel when no header
// exists at the slot.
type WriteRecord struct {
	Slot     uint64           `json:"slot"`
	Root     beacon.Root      `json:"-"`
	Sidecars []beacon.Sidecar `json:"data"`
}

// Sink persists windows of write records. Commit is all-or-nothing where the
// backend supports it.
type Sink interface {
	Commit(ctx context.Context, records []WriteRecord) error
	Close() error
}
