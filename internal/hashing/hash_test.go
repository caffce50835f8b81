package hashing_test

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

// The reference key values published with the Polyglot book format.
// The en-passant field only counts when a pawn of the side to move
// can actually capture onto the target, which several of these
// positions exercise.
func TestPolyglotReferenceKeys(t *testing.T) {
	cases := []struct {
		fen  string
		want uint64
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0x463B96181691FC9C},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR b KQkq e3 0 1", 0x823C9B50FD114196},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPPPPPP/RNBQKBNR w KQkq d6 0 2", 0x0756B94461C50FB0},
		{"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2", 0x662FAFB965DB29D4},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", 0x22A48B5A8E47FF78},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPPKPPP/RNBQ1BNR b kq - 0 3", 0x652A607CA3F242C1},
		{"rnbqkbnr/p1pppppp/8/8/PpP4P/8/1P1PPPP1/RNBQKBNR b KQkq c3 0 3", 0x3C8123EA7B067637},
		{"rnbqkbnr/p1pppppp/8/8/P6P/R1p5/1P1PPPP1/1NBQKBNR b Kkq - 0 4", 0x5C3F9B829B279560},
	}
	for _, c := range cases {
		board := engine.MustBoardFromFEN(c.fen)
		got := hashing.PolyglotHash(board)
		if got != c.want {
			t.Errorf("PolyglotHash(%s) = %#016x, want %#016x", c.fen, got, c.want)
		}
	}
}

func TestWeakHashIsPositional(t *testing.T) {
	initial := engine.MustBoardFromFEN(engine.InitialFEN)
	again := engine.MustBoardFromFEN(engine.InitialFEN)
	testutil.Equal(t, hashing.WeakHashOf(initial), hashing.WeakHashOf(again))

	moved := engine.MustBoardFromFEN(
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if hashing.WeakHashOf(initial) == hashing.WeakHashOf(moved) {
		t.Error("distinct positions share a weak hash")
	}
}

func TestPositionLog(t *testing.T) {
	log := hashing.NewPositionLog()
	log.Add(100, 7)
	log.Add(100, 8)
	log.Add(200, 0)

	testutil.Equal(t, log.Len(), 3)
	testutil.True(t, log.Contains(100))
	testutil.True(t, log.Contains(200))
	testutil.False(t, log.Contains(300))

	testutil.True(t, log.FindExact(100, 7))
	testutil.True(t, log.FindExact(100, 8))
	testutil.False(t, log.FindExact(100, 9))
	testutil.False(t, log.FindExact(300, 0))

	// Colliding buckets chain rather than overwrite.
	log.Add(100+4093, 0)
	testutil.True(t, log.Contains(100))
	testutil.True(t, log.Contains(100+4093))
}

func TestPositionLogHexValues(t *testing.T) {
	log := hashing.NewPositionLog()
	testutil.NoError(t, log.AddHexValue("463b96181691fc9c"))
	testutil.NoError(t, log.AddHexValue("0x00FF"))
	testutil.True(t, log.Contains(chess.HashCode(0x463B96181691FC9C)))
	testutil.True(t, log.Contains(chess.HashCode(0xFF)))

	testutil.Error(t, log.AddHexValue(""))
	testutil.Error(t, log.AddHexValue("not hex"))
	testutil.Error(t, log.AddHexValue("12345678123456781"))
}

func TestDuplicateDetector(t *testing.T) {
	d := hashing.NewDuplicateDetector(false)

	g1 := &chess.Game{FinalHash: 10, CumulativeHash: 20}
	g2 := &chess.Game{FinalHash: 10, CumulativeHash: 20}
	g3 := &chess.Game{FinalHash: 10, CumulativeHash: 21}

	testutil.False(t, d.CheckAndAdd(g1))
	testutil.True(t, d.CheckAndAdd(g2))
	// Same final hash by a different route is not a duplicate.
	testutil.False(t, d.CheckAndAdd(g3))
	testutil.Equal(t, d.DuplicateCount(), 1)
	testutil.Equal(t, d.UniqueCount(), 2)
}

func TestDuplicateDetectorFuzzy(t *testing.T) {
	d := hashing.NewDuplicateDetector(true)

	// Different endings, same position at the fuzzy depth.
	g1 := &chess.Game{FinalHash: 1, CumulativeHash: 2, FuzzyHash: 99, FuzzyHashKnown: true}
	g2 := &chess.Game{FinalHash: 3, CumulativeHash: 4, FuzzyHash: 99, FuzzyHashKnown: true}
	testutil.False(t, d.CheckAndAdd(g1))
	testutil.True(t, d.CheckAndAdd(g2))

	// A game too short to reach the depth falls back to its final hash.
	g3 := &chess.Game{FinalHash: 5, CumulativeHash: 6}
	testutil.False(t, d.CheckAndAdd(g3))
	testutil.Equal(t, d.DuplicateCount(), 1)
}

func TestSharedDetector(t *testing.T) {
	s := hashing.NewSharedDetector(hashing.NewDuplicateDetector(false))
	g := &chess.Game{FinalHash: 42, CumulativeHash: 1}
	testutil.False(t, s.CheckAndAdd(g))
	testutil.True(t, s.CheckAndAdd(&chess.Game{FinalHash: 42, CumulativeHash: 1}))
	testutil.Equal(t, s.DuplicateCount(), 1)
}
