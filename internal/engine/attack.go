package engine

import "github.com/pgnsieve/pgnsieve/internal/chess"

var (
	knightOffsets = [8][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	diagonalDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// IsInCheck reports whether the colour's king is attacked. The king
// location comes from the board's cache, which is maintained through
// every king move and FEN load.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king := board.King(colour)
	if !king.IsSet() {
		return false
	}
	return IsSquareAttacked(board, king, colour.Opposite())
}

// IsSquareAttacked reports whether any piece of the attacking colour
// bears on the square. Every probe steps through the hedge rather than
// testing bounds: an Off cell simply never matches.
func IsSquareAttacked(board *chess.Board, s chess.Square, by chess.Colour) bool {
	pawn := chess.Coloured(by, chess.Pawn)
	attackRank := -by.PawnStep()
	if board.At(s.Offset(-1, attackRank)) == pawn || board.At(s.Offset(1, attackRank)) == pawn {
		return true
	}

	knight := chess.Coloured(by, chess.Knight)
	for _, o := range knightOffsets {
		if board.At(s.Offset(o[0], o[1])) == knight {
			return true
		}
	}

	king := chess.Coloured(by, chess.King)
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if (df != 0 || dr != 0) && board.At(s.Offset(df, dr)) == king {
				return true
			}
		}
	}

	queen := chess.Coloured(by, chess.Queen)
	bishop := chess.Coloured(by, chess.Bishop)
	for _, d := range diagonalDirs {
		if cp := firstAlong(board, s, d); cp == bishop || cp == queen {
			return true
		}
	}

	rook := chess.Coloured(by, chess.Rook)
	for _, d := range straightDirs {
		if cp := firstAlong(board, s, d); cp == rook || cp == queen {
			return true
		}
	}

	return false
}

// firstAlong returns the first occupant met walking from the square in
// the given direction, or Off when the walk leaves the board.
func firstAlong(board *chess.Board, s chess.Square, d [2]int) chess.Piece {
	for probe := s.Offset(d[0], d[1]); ; probe = probe.Offset(d[0], d[1]) {
		switch cp := board.At(probe); cp {
		case chess.Empty:
		default:
			return cp
		}
	}
}
