package engine_test

import (
	"errors"
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	pgnerr "github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
	"github.com/pgnsieve/pgnsieve/internal/parser"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

// applySAN decodes and applies one movetext token, failing the test on
// a resolution error, and returns the applied move.
func applySAN(t *testing.T, board *chess.Board, text string) *chess.Move {
	t.Helper()
	move := parser.DecodeMove(text)
	if err := engine.Apply(board, move); err != nil {
		t.Fatalf("applying %q to %s: %v", text, engine.BoardToFEN(board), err)
	}
	return move
}

func TestApplyScholarsMate(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	line := []string{"e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6"}
	for _, text := range line {
		applySAN(t, board, text)
	}
	mate := applySAN(t, board, "Qxf7#")

	testutil.Equal(t, engine.BoardToFEN(board),
		"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K2R b KQkq - 0 4")
	testutil.Equal(t, mate.CheckStatus, chess.Checkmate)
	testutil.Equal(t, mate.Captured, chess.Pawn)
	testutil.True(t, engine.IsCheckmate(board))
}

func TestApplyIsDeterministic(t *testing.T) {
	line := []string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6"}
	run := func() (*chess.Board, chess.HashCode) {
		board := engine.MustBoardFromFEN(engine.InitialFEN)
		for _, text := range line {
			applySAN(t, board, text)
		}
		return board, board.WeakHash
	}
	a, hashA := run()
	b, hashB := run()
	testutil.Equal(t, engine.BoardToFEN(a), engine.BoardToFEN(b))
	testutil.Equal(t, hashA, hashB)
}

// The incrementally maintained hash must track the recomputed one
// through captures, castling and promotion.
func TestIncrementalHashMatchesRecomputed(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	line := []string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qd8", "Nf3", "e6",
		"Bc4", "Bb4", "O-O", "Ne7"}
	for _, text := range line {
		applySAN(t, board, text)
		testutil.Equal(t, board.WeakHash, hashing.WeakHashOf(board), "after %s", text)
	}
}

func TestEnPassantCapture(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	for _, text := range []string{"e4", "a6", "e5"} {
		applySAN(t, board, text)
	}
	applySAN(t, board, "d5")
	testutil.True(t, board.EnPassant)
	testutil.Equal(t, board.EPSquare, chess.Sq('d', '6'))

	// A capture onto the empty target square becomes en passant even
	// without the ep annotation.
	take := applySAN(t, board, "exd6")
	testutil.Equal(t, take.Class, chess.EnPassantPawnMove)
	testutil.Equal(t, take.Captured, chess.Pawn)
	testutil.Equal(t, board.At(chess.Sq('d', '5')), chess.Empty)
	testutil.Equal(t, board.At(chess.Sq('d', '6')), chess.Coloured(chess.White, chess.Pawn))
	testutil.Equal(t, board.HalfmoveClock, uint(0))
	testutil.Equal(t, board.WeakHash, hashing.WeakHashOf(board))
}

func TestPromotion(t *testing.T) {
	board := engine.MustBoardFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	move := applySAN(t, board, "a8=Q")
	testutil.Equal(t, move.Class, chess.PawnMoveWithPromotion)
	testutil.Equal(t, board.At(chess.Sq('a', '8')), chess.Coloured(chess.White, chess.Queen))

	board = engine.MustBoardFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	move = applySAN(t, board, "a8=N")
	testutil.Equal(t, move.Promoted, chess.Knight)
	testutil.Equal(t, board.At(chess.Sq('a', '8')), chess.Coloured(chess.White, chess.Knight))
	testutil.Equal(t, board.WeakHash, hashing.WeakHashOf(board))
}

// Ambiguity resolution must skip a candidate whose move would leave
// its own king in check, so a nominally ambiguous move is legal when
// one candidate is pinned.
func TestPinnedCandidateExcluded(t *testing.T) {
	board := engine.MustBoardFromFEN("4k3/8/8/2n1n3/8/8/8/4RK2 b - - 0 1")
	move := applySAN(t, board, "Nd7")
	testutil.Equal(t, move.From, chess.Sq('c', '5'))
	testutil.Equal(t, board.At(chess.Sq('e', '5')), chess.Coloured(chess.Black, chess.Knight))
}

func TestPinnedOnlyCandidateFails(t *testing.T) {
	board := engine.MustBoardFromFEN("4k3/8/8/4n3/8/8/8/4RK2 b - - 0 1")
	before := engine.BoardToFEN(board)
	err := engine.Apply(board, parser.DecodeMove("Nd7"))
	testutil.Error(t, err)
	testutil.True(t, errors.Is(err, pgnerr.ErrIllegalMove))
	// A failed resolution must leave the board untouched.
	testutil.Equal(t, engine.BoardToFEN(board), before)
}

func TestCastlingMovesBothPieces(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	for _, text := range []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"} {
		applySAN(t, board, text)
	}
	applySAN(t, board, "O-O")
	testutil.Equal(t, engine.BoardToFEN(board),
		"r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b kq - 5 4")
	testutil.False(t, board.HasCastlingRight(chess.White, chess.KingSide))
	testutil.False(t, board.HasCastlingRight(chess.White, chess.QueenSide))
	testutil.True(t, board.HasCastlingRight(chess.Black, chess.KingSide))
	testutil.Equal(t, board.WeakHash, hashing.WeakHashOf(board))
}

func TestRookMoveRevokesOneRight(t *testing.T) {
	board := engine.MustBoardFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	applySAN(t, board, "Ra2")
	testutil.False(t, board.HasCastlingRight(chess.White, chess.QueenSide))
	testutil.True(t, board.HasCastlingRight(chess.White, chess.KingSide))

	// Capturing a rook on its home square takes the right with it.
	board = engine.MustBoardFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	applySAN(t, board, "Rxa8")
	testutil.False(t, board.HasCastlingRight(chess.Black, chess.QueenSide))
	testutil.True(t, board.HasCastlingRight(chess.Black, chess.KingSide))
}

func TestNullMoveFlipsTurn(t *testing.T) {
	board := engine.MustBoardFromFEN(engine.InitialFEN)
	testutil.NoError(t, engine.Apply(board, parser.DecodeMove("--")))
	testutil.Equal(t, board.ToMove, chess.Black)
	testutil.Equal(t, engine.BoardToFEN(board),
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 1 1")

	// A second null move is Black's ply, so the move number advances.
	testutil.NoError(t, engine.Apply(board, parser.DecodeMove("--")))
	testutil.Equal(t, engine.FENSuffix(board), "2 2")
}

func TestStalemateDetection(t *testing.T) {
	// Black king a8, white queen c7, white king c8 owner to move black.
	board := engine.MustBoardFromFEN("k7/2Q5/2K5/8/8/8/8/8 b - - 0 1")
	testutil.True(t, engine.IsStalemate(board))
	testutil.False(t, engine.IsCheckmate(board))
}

func TestHasInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/8/8/8/8/K6k w - - 0 1", true},
		{"8/8/8/8/8/2B5/8/K6k w - - 0 1", true},
		{"8/8/8/8/8/1NB5/8/K6k w - - 0 1", false},
		{"8/8/8/8/8/2P5/8/K6k w - - 0 1", false},
		{"8/8/8/8/8/2R5/8/K6k w - - 0 1", false},
	}
	for _, c := range cases {
		board := engine.MustBoardFromFEN(c.fen)
		testutil.Equal(t, engine.HasInsufficientMaterial(board), c.want, "FEN %s", c.fen)
	}
}
