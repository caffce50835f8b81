package parser

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

func TestDecodeMove(t *testing.T) {
	sq := chess.Sq
	cases := []struct {
		text string
		want chess.Move
	}{
		{"e4", chess.Move{Class: chess.PawnMove, Piece: chess.Pawn, To: sq('e', '4')}},
		{"exd5", chess.Move{Class: chess.PawnMove, Piece: chess.Pawn,
			From: chess.Square{File: 'e'}, To: sq('d', '5')}},
		{"ed", chess.Move{Class: chess.PawnMove, Piece: chess.Pawn,
			From: chess.Square{File: 'e'}, To: chess.Square{File: 'd'}}},
		{"e2e4", chess.Move{Class: chess.PawnMove, Piece: chess.Pawn,
			From: sq('e', '2'), To: sq('e', '4')}},
		{"e2-e4", chess.Move{Class: chess.PawnMove, Piece: chess.Pawn,
			From: sq('e', '2'), To: sq('e', '4')}},
		{"e8=Q", chess.Move{Class: chess.PawnMoveWithPromotion, Piece: chess.Pawn,
			To: sq('e', '8'), Promoted: chess.Queen}},
		{"a1=N+", chess.Move{Class: chess.PawnMoveWithPromotion, Piece: chess.Pawn,
			To: sq('a', '1'), Promoted: chess.Knight}},
		{"exd6ep", chess.Move{Class: chess.EnPassantPawnMove, Piece: chess.Pawn,
			From: chess.Square{File: 'e'}, To: sq('d', '6')}},

		{"Nf3", chess.Move{Class: chess.PieceMove, Piece: chess.Knight, To: sq('f', '3')}},
		{"Nbd2", chess.Move{Class: chess.PieceMove, Piece: chess.Knight,
			From: chess.Square{File: 'b'}, To: sq('d', '2')}},
		{"N1d2", chess.Move{Class: chess.PieceMove, Piece: chess.Knight,
			From: chess.Square{Rank: '1'}, To: sq('d', '2')}},
		{"Rxe1", chess.Move{Class: chess.PieceMove, Piece: chess.Rook, To: sq('e', '1')}},
		{"Raxe1", chess.Move{Class: chess.PieceMove, Piece: chess.Rook,
			From: chess.Square{File: 'a'}, To: sq('e', '1')}},
		{"Re1d1", chess.Move{Class: chess.PieceMove, Piece: chess.Rook,
			From: sq('e', '1'), To: sq('d', '1')}},
		{"Qh4+", chess.Move{Class: chess.PieceMove, Piece: chess.Queen, To: sq('h', '4')}},
		{"Kxf7#", chess.Move{Class: chess.PieceMove, Piece: chess.King, To: sq('f', '7')}},

		// Dutch/German piece letters.
		{"Dd4", chess.Move{Class: chess.PieceMove, Piece: chess.Queen, To: sq('d', '4')}},
		{"Txe1", chess.Move{Class: chess.PieceMove, Piece: chess.Rook, To: sq('e', '1')}},
		{"Sf3", chess.Move{Class: chess.PieceMove, Piece: chess.Knight, To: sq('f', '3')}},
		{"Pf3", chess.Move{Class: chess.PieceMove, Piece: chess.Knight, To: sq('f', '3')}},
		{"Lc4", chess.Move{Class: chess.PieceMove, Piece: chess.Bishop, To: sq('c', '4')}},
		{"e8=D", chess.Move{Class: chess.PawnMoveWithPromotion, Piece: chess.Pawn,
			To: sq('e', '8'), Promoted: chess.Queen}},

		{"O-O", chess.Move{Class: chess.KingsideCastle, Piece: chess.King}},
		{"O-O-O", chess.Move{Class: chess.QueensideCastle, Piece: chess.King}},
		{"0-0", chess.Move{Class: chess.KingsideCastle, Piece: chess.King}},
		{"o-o-o", chess.Move{Class: chess.QueensideCastle, Piece: chess.King}},
		{"OO", chess.Move{Class: chess.KingsideCastle, Piece: chess.King}},

		{"--", chess.Move{Class: chess.NullMove}},
	}

	for _, c := range cases {
		got := DecodeMove(c.text)
		if got.Class != c.want.Class {
			t.Errorf("DecodeMove(%q).Class = %v, want %v", c.text, got.Class, c.want.Class)
			continue
		}
		if got.Piece != c.want.Piece || got.From != c.want.From || got.To != c.want.To {
			t.Errorf("DecodeMove(%q) = piece %v from %v to %v, want piece %v from %v to %v",
				c.text, got.Piece, got.From, got.To, c.want.Piece, c.want.From, c.want.To)
		}
		if got.Promoted != c.want.Promoted && c.want.Promoted != chess.Empty {
			t.Errorf("DecodeMove(%q).Promoted = %v, want %v", c.text, got.Promoted, c.want.Promoted)
		}
		if got.Text != c.text {
			t.Errorf("DecodeMove(%q).Text = %q", c.text, got.Text)
		}
	}
}

func TestDecodeMoveRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "hello", "Z9", "e9", "Nxx3", "ah5", "P", "-"} {
		if got := DecodeMove(text); got.Class != chess.UnknownMove {
			t.Errorf("DecodeMove(%q).Class = %v, want UnknownMove", text, got.Class)
		}
	}
}
