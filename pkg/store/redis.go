package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
	"github.com/meetmangukiya/blobs-downloader/pkg/logging"
)

// Redis key namespaces, mirroring the LevelDB sink's key families.
const (
	redisSidecarsPrefix = "blobsync:sidecars:"
	redisSlotPrefix     = "blobsync:slot:"
)

// RedisSink commits each window inside one MULTI/EXEC transaction pipeline,
// so a window's keys become visible together.
type RedisSink struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisSink creates a sink on top of an existing Redis client.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{
		client: client,
		logger: logging.NewLogger("redis-sink"),
	}
}

// Commit queues the window's SETs into a transaction pipeline and executes it.
func (s *RedisSink) Commit(ctx context.Context, records []WriteRecord) error {
	start := time.Now()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, rec := range records {
			if !rec.Root.IsZero() {
				val, err := json.Marshal(rec.Sidecars)
				if err != nil {
					return fmt.Errorf("marshal slot %d: %w", rec.Slot, err)
				}
				pipe.Set(ctx, redisSidecarsPrefix+rec.Root.Hex(), val, 0)
			}
			pipe.Set(ctx, redisSlotPrefix+strconv.FormatUint(rec.Slot, 10), rec.Root.Hex(), 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: redis pipeline: %v", ErrCommit, err)
	}

	commitDuration.WithLabelValues("redis").Observe(time.Since(start).Seconds())
	recordsCommittedTotal.WithLabelValues("redis").Add(float64(len(records)))

	s.logger.Debug().
		Int("records", len(records)).
		Msg("Committed window pipeline")

	return nil
}

// Sidecars returns the sidecar list stored under root, or nil when the root
// is unknown.
func (s *RedisSink) Sidecars(ctx context.Context, root beacon.Root) ([]beacon.Sidecar, error) {
	val, err := s.client.Get(ctx, redisSidecarsPrefix+root.Hex()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sidecars []beacon.Sidecar
	if err := json.Unmarshal(val, &sidecars); err != nil {
		return nil, fmt.Errorf("decode stored sidecars: %w", err)
	}
	return sidecars, nil
}

// Close closes the underlying Redis client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
