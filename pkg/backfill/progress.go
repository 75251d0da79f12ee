package backfill

import "github.com/rs/zerolog"

// progressReporter emits completion percentage after each window commit.
// The percentage is relative to the window's first slot, so the first window
// reports 0%.
type progressReporter struct {
	start  uint64
	end    uint64
	logger zerolog.Logger
}

func (p progressReporter) pct(windowStart uint64) float64 {
	total := p.end - p.start
	if total == 0 {
		return 0
	}
	return float64(windowStart-p.start) / float64(total) * 100
}

func (p progressReporter) report(windowStart, windowEnd uint64) {
	p.logger.Info().
		Uint64("window_start", windowStart).
		Uint64("window_end", windowEnd).
		Float64("progress_pct", p.pct(windowStart)).
		Msg("Window committed")
}
