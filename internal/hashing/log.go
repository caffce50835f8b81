package hashing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// logTableSize is the prime bucket count of a PositionLog.
const logTableSize = 4093

// logEntry is one chained bucket entry. The cumulative hash rides along
// for duplicate disambiguation but is never part of the lookup key.
type logEntry struct {
	final      chess.HashCode
	cumulative chess.HashCode
	next       *logEntry
}

// PositionLog is a bucket-chained table of positions of interest:
// final-position hashes of games already seen, or hash values supplied
// by the caller. Insertion prepends; lookup walks the bucket comparing
// the final hash only. The table only ever grows, which keeps a
// populated log safely shareable across per-game evaluation passes.
type PositionLog struct {
	buckets [logTableSize]*logEntry
	count   int
}

// NewPositionLog returns an empty log.
func NewPositionLog() *PositionLog {
	return &PositionLog{}
}

// Add records a final/cumulative hash pair.
func (l *PositionLog) Add(final, cumulative chess.HashCode) {
	ix := uint64(final) % logTableSize
	l.buckets[ix] = &logEntry{final: final, cumulative: cumulative, next: l.buckets[ix]}
	l.count++
}

// Contains reports whether the final hash has been recorded.
func (l *PositionLog) Contains(final chess.HashCode) bool {
	for e := l.buckets[uint64(final)%logTableSize]; e != nil; e = e.next {
		if e.final == final {
			return true
		}
	}
	return false
}

// FindExact reports whether the final hash has been recorded with this
// exact cumulative hash, distinguishing genuine duplicates from two
// different move sequences that collide on the final hash.
func (l *PositionLog) FindExact(final, cumulative chess.HashCode) bool {
	for e := l.buckets[uint64(final)%logTableSize]; e != nil; e = e.next {
		if e.final == final && e.cumulative == cumulative {
			return true
		}
	}
	return false
}

// Len returns the number of recorded entries.
func (l *PositionLog) Len() int {
	return l.count
}

// AddHexValue records an externally supplied position hash given as up
// to 16 hex digits, as produced by Polyglot-compatible tools.
func (l *PositionLog) AddHexValue(text string) error {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if text == "" || len(text) > 16 {
		return fmt.Errorf("hash value %q: want 1 to 16 hex digits", text)
	}
	v, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return fmt.Errorf("hash value %q: %w", text, err)
	}
	l.Add(chess.HashCode(v), 0)
	return nil
}
