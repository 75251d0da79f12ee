package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	ldbStorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
	"github.com/meetmangukiya/blobs-downloader/pkg/logging"
)

// Key prefixes. Sidecar payloads are keyed by block root; the slot index maps
// big-endian slot numbers to roots so the synced range can be walked in order.
var (
	sidecarsPrefix  = []byte("blob-sidecars/")
	slotIndexPrefix = []byte("slot-index/")
)

// LevelDBSink commits each window as a single atomic LevelDB batch: either
// every operation of the window becomes visible or none do, across crashes.
type LevelDBSink struct {
	db     *leveldb.DB
	path   string
	logger zerolog.Logger
}

// NewLevelDBSink opens the database at path. If path == "", the database runs
// with an in-memory backend (used in tests).
func NewLevelDBSink(path string) (*LevelDBSink, error) {
	var err error
	var db *leveldb.DB

	if path == "" {
		db, err = leveldb.Open(ldbStorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
		if ldbErrors.IsCorrupted(err) {
			db, err = leveldb.RecoverFile(path, nil)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}

	return &LevelDBSink{
		db:     db,
		path:   path,
		logger: logging.NewLogger("leveldb-sink"),
	}, nil
}

// Commit submits the window's operations as one atomic batch. Records with
// the zero root sentinel carry no sidecar payload key; every record gets a
// slot index entry.
func (s *LevelDBSink) Commit(ctx context.Context, records []WriteRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	start := time.Now()

	batch := new(leveldb.Batch)
	for _, rec := range records {
		if !rec.Root.IsZero() {
			val, err := json.Marshal(rec.Sidecars)
			if err != nil {
				return fmt.Errorf("%w: marshal slot %d: %v", ErrCommit, rec.Slot, err)
			}
			batch.Put(sidecarsKey(rec.Root), val)
		}
		batch.Put(slotKey(rec.Slot), rec.Root[:])
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%w: leveldb write: %v", ErrCommit, err)
	}

	commitDuration.WithLabelValues("leveldb").Observe(time.Since(start).Seconds())
	recordsCommittedTotal.WithLabelValues("leveldb").Add(float64(len(records)))

	s.logger.Debug().
		Int("records", len(records)).
		Msg("Committed window batch")

	return nil
}

// Sidecars returns the sidecar list stored under root, or nil when the root
// is unknown.
func (s *LevelDBSink) Sidecars(root beacon.Root) ([]beacon.Sidecar, error) {
	val, err := s.db.Get(sidecarsKey(root), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
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

// RootAt returns the block root recorded for slot. The second return is false
// when the slot was never committed.
func (s *LevelDBSink) RootAt(slot uint64) (beacon.Root, bool, error) {
	var root beacon.Root

	val, err := s.db.Get(slotKey(slot), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return root, false, nil
	}
	if err != nil {
		return root, false, err
	}
	if len(val) != beacon.RootLength {
		return root, false, fmt.Errorf("slot index entry has %d bytes, want %d", len(val), beacon.RootLength)
	}

	copy(root[:], val)
	return root, true, nil
}

// Close closes the underlying database.
func (s *LevelDBSink) Close() error {
	return s.db.Close()
}

func sidecarsKey(root beacon.Root) []byte {
	key := make([]byte, 0, len(sidecarsPrefix)+beacon.RootLength)
	key = append(key, sidecarsPrefix...)
	return append(key, root[:]...)
}

func slotKey(slot uint64) []byte {
	key := make([]byte, len(slotIndexPrefix)+8)
	copy(key, slotIndexPrefix)
	binary.BigEndian.PutUint64(key[len(slotIndexPrefix):], slot)
	return key
}
