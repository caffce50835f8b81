package hashing

import (
	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// Offsets into the Polyglot key table.
const (
	polyglotCastleBase    = 768
	polyglotEnPassantBase = 772
	polyglotTurnKey       = 780
)

// polyglotPieceKind maps a coloured piece to the Polyglot piece
// ordering: black pawn 0, white pawn 1, black knight 2, ... white
// king 11.
func polyglotPieceKind(cp chess.Piece) int {
	kind := 2 * (int(cp.Type()) - int(chess.Pawn))
	if cp.ColourOf() == chess.White {
		kind++
	}
	return kind
}

// PolyglotHash computes the opening-book hash of a position. It is
// derived from the board alone and is entirely independent of the weak
// hash; the two schemes are never mixed.
func PolyglotHash(b *chess.Board) uint64 {
	var key uint64

	b.EachOccupied(func(s chess.Square, cp chess.Piece) {
		file := int(s.File - chess.FirstFile)
		rank := int(s.Rank - chess.FirstRank)
		key ^= random64[64*polyglotPieceKind(cp)+8*rank+file]
	})

	if b.HasCastlingRight(chess.White, chess.KingSide) {
		key ^= random64[polyglotCastleBase]
	}
	if b.HasCastlingRight(chess.White, chess.QueenSide) {
		key ^= random64[polyglotCastleBase+1]
	}
	if b.HasCastlingRight(chess.Black, chess.KingSide) {
		key ^= random64[polyglotCastleBase+2]
	}
	if b.HasCastlingRight(chess.Black, chess.QueenSide) {
		key ^= random64[polyglotCastleBase+3]
	}

	// The en-passant key counts only when a pawn of the side to move
	// actually stands ready to capture onto the target square.
	if b.EnPassant && polyglotEPCapturable(b) {
		key ^= random64[polyglotEnPassantBase+int(b.EPSquare.File-chess.FirstFile)]
	}

	if b.ToMove == chess.White {
		key ^= random64[polyglotTurnKey]
	}

	return key
}

// polyglotEPCapturable reports whether a pawn of the side to move
// stands beside the en-passant target square.
func polyglotEPCapturable(b *chess.Board) bool {
	pawn := chess.Coloured(b.ToMove, chess.Pawn)
	from := b.EPSquare.Offset(0, -b.ToMove.PawnStep())
	return b.At(from.Offset(-1, 0)) == pawn || b.At(from.Offset(1, 0)) == pawn
}
