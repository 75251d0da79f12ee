package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/meetmangukiya/blobs-downloader/pkg/logging"
)

// JSONLSink appends one structured line per record to a growing log file.
// Existing lines are never rewritten. It offers no crash atomicity: a crash
// mid-append may leave a truncated final line.
type JSONLSink struct {
	file   *os.File
	logger zerolog.Logger
}

// NewJSONLSink opens (or creates) the log file at path for appending.
func NewJSONLSink(path string) (*JSONLSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &JSONLSink{
		file:   file,
		logger: logging.NewLogger("jsonl-sink"),
	}, nil
}

// Commit appends the window's records, one JSON object per line. The window
// is buffered and written with a single syscall so a healthy filesystem sees
// it contiguously, but truncation on crash remains possible.
func (s *JSONLSink) Commit(ctx context.Context, records []WriteRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	start := time.Now()

	var buf bytes.Buffer
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: marshal slot %d: %v", ErrCommit, rec.Slot, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if _, err := s.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: append: %v", ErrCommit, err)
	}

	commitDuration.WithLabelValues("jsonl").Observe(time.Since(start).Seconds())
	recordsCommittedTotal.WithLabelValues("jsonl").Add(float64(len(records)))

	s.logger.Debug().
		Int("records", len(records)).
		Int("bytes", buf.Len()).
		Msg("Appended window to log")

	return nil
}

// Close closes the underlying log file.
func (s *JSONLSink) Close() error {
	return s.file.Close()
}
