package backfill

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
	"github.com/meetmangukiya/blobs-downloader/pkg/logging"
	"github.com/meetmangukiya/blobs-downloader/pkg/store"
)

// Prometheus metrics for scheduler operations.
var (
	windowsCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobsync_windows_committed_total",
		Help: "Total fetch windows committed to the sink",
	})

	slotsSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blobsync_slots_synced_total",
		Help: "Total slot records synchronized",
	})
)

// DefaultConcurrency is the default fetch window size in slots.
const DefaultConcurrency = 20

// FetchClient is the beacon API surface the scheduler drives.
type FetchClient interface {
	BlobSidecars(ctx context.Context, slot uint64) ([]beacon.Sidecar, error)
	BlockRoot(ctx context.Context, slot uint64) (string, error)
	HeadSlot(ctx context.Context) (uint64, error)
}

// Config holds the scheduler configuration.
type Config struct {
	// StartSlot is the first requested slot; it is clamped to the blob
	// activation floor.
	StartSlot uint64

	// EndSlot is the last slot to sync, inclusive. Zero resolves the end from
	// the node's current head.
	EndSlot uint64

	// Concurrency is the window size: the number of slots fetched in parallel
	// per window (two tasks per slot).
	Concurrency int
}

// Scheduler partitions the resolved slot range into windows and, for each
// window, fans out parallel fetches, correlates the results, and commits them
// to the sink. Windows run strictly one after another; the sink handle is
// owned here and never sees concurrent writers.
type Scheduler struct {
	client FetchClient
	sink   store.Sink
	config Config
	logger zerolog.Logger
}

// New creates a scheduler for the given client and sink.
func New(client FetchClient, sink store.Sink, cfg Config) (*Scheduler, error) {
	if client == nil {
		return nil, fmt.Errorf("fetch client is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	return &Scheduler{
		client: client,
		sink:   sink,
		config: cfg,
		logger: logging.NewLogger("scheduler"),
	}, nil
}

// Run synchronizes the configured slot range, one window at a time. The run
// is fail-stop: the first fetch, correlation, or commit failure aborts it,
// leaving prior windows' commits in place and the failing window uncommitted.
func (s *Scheduler) Run(ctx context.Context) error {
	rng, err := planRange(ctx, s.client, s.config.StartSlot, s.config.EndSlot, s.config.Concurrency, s.logger)
	if err != nil {
		return err
	}

	s.logger.Info().
		Uint64("start", rng.Start).
		Uint64("end", rng.End).
		Int("concurrency", rng.Concurrency).
		Msg("Starting blob backfill")

	progress := progressReporter{start: rng.Start, end: rng.End, logger: s.logger}

	for windowStart := rng.Start; windowStart <= rng.End; windowStart += uint64(rng.Concurrency) {
		windowEnd := windowStart + uint64(rng.Concurrency) - 1
		if windowEnd > rng.End {
			// Clamp the final window, no fetches past the resolved end
			windowEnd = rng.End
		}

		roots, sidecars, err := s.fetchWindow(ctx, windowStart, windowEnd)
		if err != nil {
			return err
		}

		records, err := correlate(windowStart, roots, sidecars)
		if err != nil {
			return err
		}

		if err := s.sink.Commit(ctx, records); err != nil {
			return err
		}

		windowsCommittedTotal.Inc()
		slotsSyncedTotal.Add(float64(len(records)))
		progress.report(windowStart, windowEnd)
	}

	s.logger.Info().Uint64("slots", rng.Slots()).Msg("Backfill complete")
	return nil
}

// fetchWindow fans out one sidecar fetch and one root fetch per slot in
// [windowStart, windowEnd] and joins them all before returning. On any task
// failure the sibling results are discarded and the first error is returned.
func (s *Scheduler) fetchWindow(ctx context.Context, windowStart, windowEnd uint64) ([]string, [][]beacon.Sidecar, error) {
	n := int(windowEnd - windowStart + 1)

	roots := make([]string, n)
	sidecars := make([][]beacon.Sidecar, n)
	errs := make([]error, 2*n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		slot := windowStart + uint64(i)

		wg.Add(2)
		go func(i int, slot uint64) {
			defer wg.Done()
			var err error
			sidecars[i], err = s.client.BlobSidecars(ctx, slot)
			errs[2*i] = err
		}(i, slot)
		go func(i int, slot uint64) {
			defer wg.Done()
			var err error
			roots[i], err = s.client.BlockRoot(ctx, slot)
			errs[2*i+1] = err
		}(i, slot)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	return roots, sidecars, nil
}
