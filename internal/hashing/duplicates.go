package hashing

import (
	"sync"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// DuplicateDetector spots games that finish in a position already seen.
// The final weak hash is the lookup key; the cumulative hash separates
// real duplicates from distinct move orders that happen to reach the
// same final hash. In fuzzy mode the hash taken at the configured ply
// depth is used instead, catching games that merely share an opening
// stem.
type DuplicateDetector struct {
	log        *PositionLog
	fuzzy      bool
	duplicates int
}

// NewDuplicateDetector returns an empty detector. With fuzzy set, games
// are compared on their fuzzy-depth hash rather than the final one.
func NewDuplicateDetector(fuzzy bool) *DuplicateDetector {
	return &DuplicateDetector{log: NewPositionLog(), fuzzy: fuzzy}
}

// CheckAndAdd reports whether the game duplicates one already recorded,
// and records it either way.
func (d *DuplicateDetector) CheckAndAdd(game *chess.Game) bool {
	final, cumulative := game.FinalHash, game.CumulativeHash
	if d.fuzzy && game.FuzzyHashKnown {
		final, cumulative = game.FuzzyHash, 0
	}

	dup := d.log.FindExact(final, cumulative)
	if dup {
		d.duplicates++
	} else {
		d.log.Add(final, cumulative)
	}
	return dup
}

// DuplicateCount returns the number of duplicates seen so far.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicates
}

// UniqueCount returns the number of distinct games recorded.
func (d *DuplicateDetector) UniqueCount() int {
	return d.log.Len()
}

// SharedDetector wraps a DuplicateDetector for use from concurrent
// evaluation workers.
type SharedDetector struct {
	mu sync.Mutex
	d  *DuplicateDetector
}

// NewSharedDetector wraps an existing detector; the detector must not
// be used directly afterwards.
func NewSharedDetector(d *DuplicateDetector) *SharedDetector {
	return &SharedDetector{d: d}
}

// CheckAndAdd atomically checks and records a game.
func (s *SharedDetector) CheckAndAdd(game *chess.Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.CheckAndAdd(game)
}

// DuplicateCount returns the number of duplicates seen so far.
func (s *SharedDetector) DuplicateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.DuplicateCount()
}
