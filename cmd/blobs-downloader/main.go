// Command blobs-downloader backfills blob sidecars and canonical block roots
// for a slot range from a beacon node API into local storage.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/meetmangukiya/blobs-downloader/pkg/backfill"
	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
	"github.com/meetmangukiya/blobs-downloader/pkg/logging"
	"github.com/meetmangukiya/blobs-downloader/pkg/store"
)

const (
	optionNameAPIURL      = "api-url"
	optionNameFromSlot    = "from-slot"
	optionNameToSlot      = "to-slot"
	optionNameConcurrency = "concurrency"
	optionNameDataDir     = "data-dir"
	optionNameSink        = "sink"
	optionNameRedisAddr   = "redis-addr"
	optionNameVerbosity   = "verbosity"
	optionNamePretty      = "pretty"
	optionNameMetricsAddr = "metrics-addr"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		apiURL      string
		fromSlot    uint64
		toSlot      uint64
		concurrency int
		dataDir     string
		sinkKind    string
		redisAddr   string
		verbosity   string
		pretty      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:          "blobs-downloader",
		Short:        "Backfill blob sidecars and block roots from a beacon node into local storage",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(logging.Config{
				Level:  logging.LogLevel(verbosity),
				Pretty: pretty,
				Output: os.Stderr,
			})

			if metricsAddr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						logger.Warn().Err(err).Msg("Metrics listener stopped")
					}
				}()
			}

			client, err := beacon.New(beacon.DefaultConfig(apiURL))
			if err != nil {
				return fmt.Errorf("create beacon client: %w", err)
			}

			sink, err := newSink(cmd.Context(), sinkKind, dataDir, redisAddr)
			if err != nil {
				return err
			}
			defer sink.Close()

			scheduler, err := backfill.New(client, sink, backfill.Config{
				StartSlot:   fromSlot,
				EndSlot:     toSlot,
				Concurrency: concurrency,
			})
			if err != nil {
				return fmt.Errorf("create scheduler: %w", err)
			}

			if err := scheduler.Run(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("Backfill failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, optionNameAPIURL, "", "beacon node API base URL (required)")
	cmd.Flags().Uint64Var(&fromSlot, optionNameFromSlot, 0, "first slot to sync; clamped to the blob activation slot")
	cmd.Flags().Uint64Var(&toSlot, optionNameToSlot, 0, "last slot to sync, inclusive; defaults to the node's head slot")
	cmd.Flags().IntVar(&concurrency, optionNameConcurrency, backfill.DefaultConcurrency, "slots fetched in parallel per window")
	cmd.Flags().StringVar(&dataDir, optionNameDataDir, ".", "directory for the jsonl log or leveldb database")
	cmd.Flags().StringVar(&sinkKind, optionNameSink, "leveldb", "persistence backend: leveldb, jsonl, or redis")
	cmd.Flags().StringVar(&redisAddr, optionNameRedisAddr, "localhost:6379", "redis address for the redis sink")
	cmd.Flags().StringVar(&verbosity, optionNameVerbosity, "info", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&pretty, optionNamePretty, false, "human-readable console logs instead of JSON")
	cmd.Flags().StringVar(&metricsAddr, optionNameMetricsAddr, "", "address to serve prometheus metrics on (disabled when empty)")
	_ = cmd.MarkFlagRequired(optionNameAPIURL)

	return cmd
}

func newSink(ctx context.Context, kind, dataDir, redisAddr string) (store.Sink, error) {
	switch kind {
	case "jsonl":
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return store.NewJSONLSink(filepath.Join(dataDir, "blobs-data.jsonl"))
	case "leveldb":
		return store.NewLevelDBSink(filepath.Join(dataDir, "blobs_db"))
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return store.NewRedisSink(client), nil
	default:
		return nil, fmt.Errorf("unknown sink %q (want leveldb, jsonl, or redis)", kind)
	}
}
