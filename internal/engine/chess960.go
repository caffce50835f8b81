package engine

import (
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// IsChess960Game reports whether the game declares a Chess960 variant
// tag.
func IsChess960Game(game *chess.Game) bool {
	variant := strings.ToLower(game.Tag(chess.TagVariant))
	return strings.Contains(variant, "960") || strings.Contains(variant, "fischer")
}

// IsChess960Position reports whether the board's king or castling rooks
// stand off their classical squares.
func IsChess960Position(board *chess.Board) bool {
	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		if king := board.King(colour); king.IsSet() && king.File != 'e' {
			return true
		}
		if f := board.CastlingRook[colour][chess.KingSide]; f != 0 && f != 'h' {
			return true
		}
		if f := board.CastlingRook[colour][chess.QueenSide]; f != 0 && f != 'a' {
			return true
		}
	}
	return false
}

// RewriteCastlingTarget rewrites a castling move's recorded to-square
// to the castling rook's original file, matching the king-takes-rook
// input convention used by Chess960 sources. Call before the move is
// applied, while the rights are still on the board.
func RewriteCastlingTarget(board *chess.Board, move *chess.Move) {
	if !move.IsCastle() {
		return
	}
	side := chess.KingSide
	if move.Class == chess.QueensideCastle {
		side = chess.QueenSide
	}
	if rook := board.CastlingRook[board.ToMove][side]; rook != 0 {
		move.To = chess.Sq(rook, backRank(board.ToMove))
	}
}
