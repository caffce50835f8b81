package engine_test

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/parser"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

// renderResolved applies san on a copy of the position and renders the
// resolved move against the original board.
func renderResolved(t *testing.T, fen, san string) string {
	t.Helper()
	board := engine.MustBoardFromFEN(fen)
	move := parser.DecodeMove(san)
	work := board.Copy()
	if err := engine.Apply(work, move); err != nil {
		t.Fatalf("applying %s to %s: %v", san, fen, err)
	}
	return engine.RenderSAN(board, move)
}

func TestRenderSANDisambiguation(t *testing.T) {
	// Knights on g1 and g5, king e1.
	twoKnights := "3k4/8/8/6N1/8/8/8/4K1N1 w - - 0 1"
	// Queens on d1, d5 and h1 all reach h5.
	threeQueens := "3k4/8/8/3Q4/8/8/6K1/3Q3Q w - - 0 1"

	cases := []struct {
		fen, in, want string
	}{
		{engine.InitialFEN, "Nf3", "Nf3"},
		{engine.InitialFEN, "e2e4", "e4"},

		// Same rank: the file qualifier suffices.
		{"7k/8/8/8/8/8/4K3/R6R w - - 0 1", "Rad1", "Rad1"},

		// Same file: the rank qualifier is needed.
		{twoKnights, "N5f3", "N5f3"},
		{twoKnights, "N1f3", "N1f3"},

		// Neither alone singles the mover out.
		{threeQueens, "Qd1h5", "Qd1h5"},
		{threeQueens, "Qhh5", "Qhh5"},

		// Pawn captures always carry the origin file.
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2", "exd5", "exd5"},

		{"8/P6k/8/8/8/8/8/K7 w - - 0 1", "a8=Q", "a8=Q"},
		{"r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4", "O-O", "O-O"},
	}

	for _, c := range cases {
		testutil.Equal(t, renderResolved(t, c.fen, c.in), c.want, "input", c.in)
	}
}

func TestRenderSANCheckMarkers(t *testing.T) {
	testutil.Equal(t, renderResolved(t, "6k1/8/8/8/8/8/8/4R2K w - - 0 1", "Re8"), "Re8+")
	testutil.Equal(t, renderResolved(t, "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1", "Re8"), "Re8#")
}
