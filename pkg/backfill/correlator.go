package backfill

import (
	"fmt"

	"github.com/meetmangukiya/blobs-downloader/pkg/beacon"
	"github.com/meetmangukiya/blobs-downloader/pkg/store"
)

// correlate zips a window's per-slot root results with its per-slot sidecar
// results into write records, ascending by slot. A non-empty root that fails
// to parse aborts the whole window.
func correlate(start uint64, roots []string, sidecars [][]beacon.Sidecar) ([]store.WriteRecord, error) {
	if len(roots) != len(sidecars) {
		return nil, fmt.Errorf("mismatched window results: %d roots, %d sidecar lists", len(roots), len(sidecars))
	}

	records := make([]store.WriteRecord, len(roots))
	for i := range roots {
		slot := start + uint64(i)

		var root beacon.Root
		if roots[i] != "" {
			parsed, err := beacon.ParseRoot(roots[i])
			if err != nil {
				return nil, fmt.Errorf("slot %d: %w", slot, err)
			}
			root = parsed
		}

		records[i] = store.WriteRecord{
			Slot:     slot,
			Root:     root,
			Sidecars: sidecars[i],
		}
	}

	return records, nil
}
