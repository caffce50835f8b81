package engine

import "github.com/pgnsieve/pgnsieve/internal/chess"

// pieceValues in pawns, indexed by bare piece type. The king scores
// nothing; it is always present.
var pieceValues = [chess.NumPieceTypes]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// Evaluate scores a position from White's point of view: material plus
// a small mobility term. This is an annotation aid, not an engine
// evaluation.
func Evaluate(board *chess.Board) float64 {
	var score float64
	board.EachOccupied(func(_ chess.Square, cp chess.Piece) {
		v := pieceValues[cp.Type()]
		if cp.ColourOf() == chess.White {
			score += v
		} else {
			score -= v
		}
	})
	score += 0.01 * float64(mobility(board, chess.White)-mobility(board, chess.Black))
	return score
}

// HasInsufficientMaterial reports whether neither side can mate:
// bare kings, or king against king plus a single minor piece.
func HasInsufficientMaterial(board *chess.Board) bool {
	counts := board.CountPieces()
	minors := 0
	for c := chess.Colour(0); c < chess.NumColours; c++ {
		if counts[c][chess.Pawn] > 0 || counts[c][chess.Rook] > 0 || counts[c][chess.Queen] > 0 {
			return false
		}
		minors += counts[c][chess.Knight] + counts[c][chess.Bishop]
	}
	return minors <= 1
}

// mobility counts the colour's pseudo-legal piece destinations.
func mobility(board *chess.Board, colour chess.Colour) int {
	moves := 0
	for f := chess.FirstFile; f <= chess.LastFile; f++ {
		for r := chess.FirstRank; r <= chess.LastRank; r++ {
			from := chess.Sq(f, r)
			cp := board.At(from)
			if !cp.IsOccupied() || cp.ColourOf() != colour || cp.Type() == chess.Pawn {
				continue
			}
			for df := -chess.BoardSize; df <= chess.BoardSize; df++ {
				for dr := -chess.BoardSize; dr <= chess.BoardSize; dr++ {
					to := from.Offset(df, dr)
					if !to.OnBoard() || to == from {
						continue
					}
					if target := board.At(to); target.IsOccupied() && target.ColourOf() == colour {
						continue
					}
					if canReach(board, cp.Type(), from, to) {
						moves++
					}
				}
			}
		}
	}
	return moves
}
