package engine

import (
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// RenderSAN rebuilds the disambiguated SAN text of a resolved move
// against the position it is about to be played on. Disambiguation
// prefers no qualifier, then the origin file, then the rank, then both;
// pawn captures always show the origin file.
func RenderSAN(board *chess.Board, move *chess.Move) string {
	var sb strings.Builder

	switch move.Class {
	case chess.NullMove:
		return chess.NullMoveText

	case chess.KingsideCastle:
		sb.WriteString("O-O")

	case chess.QueensideCastle:
		sb.WriteString("O-O-O")

	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		if move.IsCapture() {
			sb.WriteByte(byte(move.From.File))
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.Class == chess.PawnMoveWithPromotion {
			promoted := move.Promoted
			if promoted == chess.Empty {
				promoted = chess.Queen
			}
			sb.WriteByte('=')
			sb.WriteByte(promoted.Letter())
		}

	case chess.PieceMove:
		sb.WriteByte(move.Piece.Letter())
		sb.WriteString(disambiguator(board, move))
		if move.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())

	default:
		return move.Text
	}

	switch move.CheckStatus {
	case chess.Check:
		sb.WriteByte('+')
	case chess.Checkmate:
		sb.WriteByte('#')
	}
	return sb.String()
}

// disambiguator returns the origin qualifier needed to single out the
// moving piece among every legal candidate for the same destination.
func disambiguator(board *chess.Board, move *chess.Move) string {
	candidates := originCandidates(board, move.Piece, board.ToMove, move.To, chess.Square{})
	if len(candidates) <= 1 {
		return ""
	}

	sameFile, sameRank := 0, 0
	for _, c := range candidates {
		if c.File == move.From.File {
			sameFile++
		}
		if c.Rank == move.From.Rank {
			sameRank++
		}
	}

	switch {
	case sameFile == 1:
		return string([]byte{byte(move.From.File)})
	case sameRank == 1:
		return string([]byte{byte(move.From.Rank)})
	default:
		return move.From.String()
	}
}
