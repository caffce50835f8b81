package matching

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

func TestMatchRank(t *testing.T) {
	cases := []struct {
		glob, text string
		want       bool
	}{
		// Literals and empty counts.
		{"________", "________", true},
		{"8", "________", true},
		{"44", "________", true},
		{"r6r", "r______r", true},
		{"r6r", "r_____r_", false},
		{"3p4", "___p____", true},
		{"3p4", "____p___", false},
		{"8", "___p____", false},

		// A match must consume the whole rank.
		{"r7", "r______r", false},
		{"r______r", "r______r", true},

		// Wildcards.
		{"????????", "rnbqkbnr", true},
		{"!!!!!!!!", "rnbqkbnr", true},
		{"!7", "________", false},
		{"?7", "________", true},
		{"AAAAAAAA", "RNBQKBNR", true},
		{"AAAAAAAA", "RNBQKBNr", false},
		{"aaaaaaaa", "rnbqkbnr", true},
		{"m7", "n_______", true},
		{"m7", "P_______", false},
		{"m7", "________", false},

		// Closures bind the longest feasible suffix.
		{"r*r", "r_r_r", true},
		{"r*r", "r____", false},
		{"*", "________", true},
		{"*r", "_______r", true},
		{"r*", "r_______", true},
		{"q*q*q", "q_q_q__q", true},

		// Character classes.
		{"[rq]7", "r_______", true},
		{"[rq]7", "q_______", true},
		{"[rq]7", "b_______", false},
		{"[^rq]7", "b_______", true},
		{"[^rq]7", "q_______", false},
	}
	for _, c := range cases {
		if got := matchRank(c.glob, c.text); got != c.want {
			t.Errorf("matchRank(%q, %q) = %v, want %v", c.glob, c.text, got, c.want)
		}
	}
}

func TestSplitPatternRejectsMalformed(t *testing.T) {
	bad := []string{
		"8/8/8/8",                  // too few ranks
		"8/8/8/8/8/8/8/8/8",        // too many
		"8/8/8//8/8/8/8",           // empty rank
		"[rq/8/8/8/8/8/8/8",        // unterminated class
		"[r[q]]/8/8/8/8/8/8/8",     // nested class
		"8/8/8/8/8/8/8/r%r",        // stray character
		"9/8/8/8/8/8/8/8",          // digit out of range
	}
	for _, pattern := range bad {
		pm := NewPatternMatcher()
		if err := pm.Add(pattern, "x", false); err == nil {
			t.Errorf("pattern %q accepted", pattern)
		}
	}
}

func TestMatcherStartingPosition(t *testing.T) {
	pm := NewPatternMatcher()
	testutil.NoError(t, pm.Add("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", "start", false))

	label, ok := pm.Match(engine.MustBoardFromFEN(engine.InitialFEN))
	testutil.True(t, ok)
	testutil.Equal(t, label, "start")

	// Altering any single rank must break the match.
	altered := []string{
		"rnbqkb1r/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/ppppppp1/8/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/7p/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPP1PP/RNBQKBNR b - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKB1R b - - 0 1",
	}
	for _, fen := range altered {
		if _, ok := pm.Match(engine.MustBoardFromFEN(fen)); ok {
			t.Errorf("altered position %q still matches", fen)
		}
	}
}

func TestMatcherSharedPrefixes(t *testing.T) {
	pm := NewPatternMatcher()
	testutil.NoError(t, pm.Add("8/8/8/8/8/8/8/R3K2R", "white-rooks", false))
	testutil.NoError(t, pm.Add("8/8/8/8/8/8/8/4K3", "lone-king", false))
	testutil.Equal(t, pm.PatternCount(), 2)

	label, ok := pm.Match(engine.MustBoardFromFEN("8/8/8/8/8/8/8/4K3 w - - 0 1"))
	testutil.True(t, ok)
	testutil.Equal(t, label, "lone-king")

	label, ok = pm.Match(engine.MustBoardFromFEN("8/8/8/8/8/8/8/R3K2R w KQ - 0 1"))
	testutil.True(t, ok)
	testutil.Equal(t, label, "white-rooks")
}

// An inverted copy flips the rank order and swaps case, labelled with
// a trailing I, so one call matches the mirror position too.
func TestMatcherInvertedCopy(t *testing.T) {
	pm := NewPatternMatcher()
	testutil.NoError(t, pm.Add("8/8/8/8/8/8/8/Q3K3", "queen-home", true))
	testutil.Equal(t, pm.PatternCount(), 2)

	label, ok := pm.Match(engine.MustBoardFromFEN("q3k3/8/8/8/8/8/8/8 b - - 0 1"))
	testutil.True(t, ok)
	testutil.Equal(t, label, "queen-homeI")
}

func TestInvertRanksKeepsMinorToken(t *testing.T) {
	out := invertRanks([]string{"m7", "8", "8", "8", "8", "8", "8", "Rm6"})
	testutil.Equal(t, out[0], "rm6")
	testutil.Equal(t, out[7], "m7")
}

func TestMatchEmptyMatcher(t *testing.T) {
	pm := NewPatternMatcher()
	_, ok := pm.Match(engine.MustBoardFromFEN(engine.InitialFEN))
	testutil.False(t, ok)
}
