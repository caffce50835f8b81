package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	pgnerr "github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		engine.InitialFEN,
		"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K2R b KQkq - 0 4",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPPPPPP/RNBQKBNR w KQkq d6 0 2",
		"nrk1brqn/pppppppp/8/8/8/8/PPPPPPPP/NRK1BRQN w FBfb - 3 7",
		"8/8/8/8/8/8/8/K6k w - - 12 99",
	}
	for _, fen := range fens {
		board, err := engine.NewBoardFromFEN(fen, nil)
		testutil.NoError(t, err, "parsing %q", fen)
		testutil.Equal(t, engine.BoardToFEN(board), fen)
	}
}

// A classical shorthand letter naming an inner rook is legal on input
// but serializes back as the rook's file letter.
func TestFENNormalizesInnerRookShorthand(t *testing.T) {
	board, err := engine.NewBoardFromFEN("rn2k1r1/8/8/8/8/8/8/R3K2R b KQkq - 0 1", nil)
	testutil.NoError(t, err)
	testutil.Equal(t, engine.BoardToFEN(board),
		"rn2k1r1/8/8/8/8/8/8/R3K2R b KQgq - 0 1")
}

func TestFENBestEffortTrailerFields(t *testing.T) {
	var notes []string
	diag := func(msg string) { notes = append(notes, msg) }

	// En-passant rank inconsistent with the side to move.
	board, err := engine.NewBoardFromFEN(
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1", diag)
	testutil.NoError(t, err)
	testutil.False(t, board.EnPassant)
	testutil.Equal(t, len(notes), 1)

	// Unreadable counters leave the defaults and only complain.
	notes = nil
	board, err = engine.NewBoardFromFEN(
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x y", diag)
	testutil.NoError(t, err)
	testutil.Equal(t, board.HalfmoveClock, uint(0))
	testutil.Equal(t, board.MoveNumber, uint(1))
	testutil.Equal(t, len(notes), 2)
}

func TestFENHardErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNZ w KQkq - 0 1",
		"8/8/8/8/8/8/8/K6k x - - 0 1",
		"8/8/8/8/8/8/8/K6k w K - 0 1", // castling letter with no rook
	}
	for _, fen := range bad {
		_, err := engine.NewBoardFromFEN(fen, nil)
		testutil.Error(t, err, "FEN %q", fen)
		if err != nil {
			testutil.True(t, errors.Is(err, pgnerr.ErrInvalidFEN), "FEN %q error %v", fen, err)
		}
	}
}

func TestEPRedundancy(t *testing.T) {
	// No black pawn stands beside e4, so the target is unreachable.
	board := engine.MustBoardFromFEN(
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.True(t, engine.EPIsRedundant(board))
	got := engine.BoardToFENOptions(board, engine.FENOptions{SuppressRedundantEP: true})
	testutil.True(t, strings.Contains(got, " - 0 1"), "got %q", got)

	// A black pawn on d4 can take en passant; the field must survive.
	board = engine.MustBoardFromFEN(
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	testutil.False(t, engine.EPIsRedundant(board))
	got = engine.BoardToFENOptions(board, engine.FENOptions{SuppressRedundantEP: true})
	testutil.True(t, strings.Contains(got, " e3 "), "got %q", got)
}

func TestBoardToEPDDropsCounters(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	testutil.Equal(t, engine.BoardToEPD(board),
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	testutil.Equal(t, engine.FENSuffix(board), "0 1")
}

func TestNewBoardForGame(t *testing.T) {
	game := chess.NewGame()
	board := engine.NewBoardForGame(game, nil)
	testutil.Equal(t, engine.BoardToFEN(board), engine.InitialFEN)

	game.SetTag(chess.TagFEN, "8/8/8/8/8/8/8/K6k w - - 0 1")
	board = engine.NewBoardForGame(game, nil)
	testutil.Equal(t, engine.BoardToFEN(board), "8/8/8/8/8/8/8/K6k w - - 0 1")

	// An unusable tag falls back to the standard start with a note.
	var notes []string
	game.SetTag(chess.TagFEN, "not a position")
	board = engine.NewBoardForGame(game, func(msg string) { notes = append(notes, msg) })
	testutil.Equal(t, engine.BoardToFEN(board), engine.InitialFEN)
	testutil.True(t, len(notes) > 0)
}
