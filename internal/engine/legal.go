package engine

import "github.com/pgnsieve/pgnsieve/internal/chess"

// legalAfter trial-plays a raw from/to move on a copy of the board and
// reports whether the mover's king survives. This is the self-check
// exclusion used both when resolving origins and when probing for any
// legal reply; the copy is discarded, so the live board never needs
// unwinding.
func legalAfter(board *chess.Board, from, to chess.Square, colour chess.Colour) bool {
	trial := board.Copy()

	cp := trial.At(from)
	trial.Put(from, chess.Empty)

	// An en-passant capture also empties the victim square.
	if cp.Type() == chess.Pawn && from.File != to.File &&
		trial.At(to) == chess.Empty && board.EnPassant && to == board.EPSquare {
		trial.Put(to.Offset(0, -colour.PawnStep()), chess.Empty)
	}

	trial.Put(to, cp)
	if cp.Type() == chess.King {
		trial.SetKing(colour, to)
	}
	return !IsInCheck(trial, colour)
}

// HasLegalMoves reports whether the colour has any legal move.
func HasLegalMoves(board *chess.Board, colour chess.Colour) bool {
	for f := chess.FirstFile; f <= chess.LastFile; f++ {
		for r := chess.FirstRank; r <= chess.LastRank; r++ {
			from := chess.Sq(f, r)
			cp := board.At(from)
			if !cp.IsOccupied() || cp.ColourOf() != colour {
				continue
			}
			if pieceHasMove(board, from, cp.Type(), colour) {
				return true
			}
		}
	}
	return false
}

func pieceHasMove(board *chess.Board, from chess.Square, piece chess.Piece, colour chess.Colour) bool {
	switch piece {
	case chess.Pawn:
		return pawnHasMove(board, from, colour)
	case chess.Knight:
		return offsetsHaveMove(board, from, colour, knightOffsets[:])
	case chess.King:
		var kingOffsets [8][2]int
		i := 0
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df != 0 || dr != 0 {
					kingOffsets[i] = [2]int{df, dr}
					i++
				}
			}
		}
		return offsetsHaveMove(board, from, colour, kingOffsets[:])
	case chess.Bishop:
		return slidesHaveMove(board, from, colour, diagonalDirs[:])
	case chess.Rook:
		return slidesHaveMove(board, from, colour, straightDirs[:])
	case chess.Queen:
		return slidesHaveMove(board, from, colour, diagonalDirs[:]) ||
			slidesHaveMove(board, from, colour, straightDirs[:])
	}
	return false
}

func pawnHasMove(board *chess.Board, from chess.Square, colour chess.Colour) bool {
	step := colour.PawnStep()

	to := from.Offset(0, step)
	if board.At(to) == chess.Empty {
		if legalAfter(board, from, to, colour) {
			return true
		}
		homeRank := chess.Rank('2')
		if colour == chess.Black {
			homeRank = '7'
		}
		if from.Rank == homeRank {
			to2 := from.Offset(0, 2*step)
			if board.At(to2) == chess.Empty && legalAfter(board, from, to2, colour) {
				return true
			}
		}
	}

	for _, df := range []int{-1, 1} {
		to := from.Offset(df, step)
		target := board.At(to)
		capture := target.IsOccupied() && target.ColourOf() != colour
		ep := board.EnPassant && to == board.EPSquare
		if (capture || ep) && legalAfter(board, from, to, colour) {
			return true
		}
	}
	return false
}

func offsetsHaveMove(board *chess.Board, from chess.Square, colour chess.Colour, offsets [][2]int) bool {
	for _, o := range offsets {
		to := from.Offset(o[0], o[1])
		target := board.At(to)
		if target == chess.Off {
			continue
		}
		if target.IsOccupied() && target.ColourOf() == colour {
			continue
		}
		if legalAfter(board, from, to, colour) {
			return true
		}
	}
	return false
}

func slidesHaveMove(board *chess.Board, from chess.Square, colour chess.Colour, dirs [][2]int) bool {
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); ; to = to.Offset(d[0], d[1]) {
			target := board.At(to)
			if target == chess.Off {
				break
			}
			if target.IsOccupied() {
				if target.ColourOf() != colour {
					if legalAfter(board, from, to, colour) {
						return true
					}
				}
				break
			}
			if legalAfter(board, from, to, colour) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is mated.
func IsCheckmate(board *chess.Board) bool {
	return IsInCheck(board, board.ToMove) && !HasLegalMoves(board, board.ToMove)
}

// IsStalemate reports whether the side to move has no move but is not
// in check.
func IsStalemate(board *chess.Board) bool {
	return !IsInCheck(board, board.ToMove) && !HasLegalMoves(board, board.ToMove)
}
