// Package backfill drives the slot-range synchronization pipeline: range
// resolution, windowed concurrent fetching, per-slot correlation, and
// strictly sequential window commits.
package backfill

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DenebSlot is the first mainnet slot at which blob sidecars exist. Requests
// below it are clamped since there is nothing to fetch earlier.
const DenebSlot uint64 = 8626176

// headSlotter is the part of the fetch client the planner needs.
type headSlotter interface {
	HeadSlot(ctx context.Context) (uint64, error)
}

// Range is a concrete inclusive slot range with its fetch window size.
type Range struct {
	Start       uint64
	End         uint64
	Concurrency int
}

// Slots returns the number of slots covered by the range.
func (r Range) Slots() uint64 {
	return r.End - r.Start + 1
}

// planRange resolves the requested range: the start slot is clamped to the
// activation floor, and an unset end (zero) is resolved from the first entry
// of the node's head header listing.
func planRange(ctx context.Context, client headSlotter, start, end uint64, concurrency int, logger zerolog.Logger) (Range, error) {
	if start < DenebSlot {
		logger.Warn().
			Uint64("requested", start).
			Uint64("floor", DenebSlot).
			Msg("Start slot predates blob activation, clamping to floor")
		start = DenebSlot
	}

	if end == 0 {
		head, err := client.HeadSlot(ctx)
		if err != nil {
			return Range{}, fmt.Errorf("resolve head slot: %w", err)
		}
		logger.Info().Uint64("head_slot", head).Msg("Resolved end slot from chain head")
		end = head
	}

	if end < start {
		return Range{}, fmt.Errorf("end slot %d precedes start slot %d", end, start)
	}

	return Range{Start: start, End: end, Concurrency: concurrency}, nil
}
