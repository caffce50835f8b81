// Package hashing provides the two position-hash schemes and the
// bucket-chained lookup tables built on them: the internal weak hash
// used for duplicate and opening lookups, and the Polyglot-compatible
// hash used when callers supply external position values.
package hashing

import (
	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// weakKeys holds one key per (colour, piece type, square) triple. The
// weak hash of a position is the XOR of the keys of its occupied
// squares, which is what makes incremental maintenance a pair of XORs
// per changed square.
var weakKeys [chess.NumColours][chess.NumPieceTypes][chess.BoardSize][chess.BoardSize]chess.HashCode

func init() {
	// xorshift64* with a fixed seed keeps the table reproducible across
	// runs, which the cumulative hash relies on.
	state := uint64(0x6c078965a3b1c9d7)
	next := func() uint64 {
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return state * 0x2545F4914F6CDD1D
	}
	for c := chess.Colour(0); c < chess.NumColours; c++ {
		for p := chess.Pawn; p < chess.NumPieceTypes; p++ {
			for f := 0; f < chess.BoardSize; f++ {
				for r := 0; r < chess.BoardSize; r++ {
					weakKeys[c][p][f][r] = chess.HashCode(next())
				}
			}
		}
	}
}

// WeakKey returns the hash key of a coloured piece standing on a
// square. XOR it into a board's hash when the piece appears and again
// when it leaves.
func WeakKey(cp chess.Piece, s chess.Square) chess.HashCode {
	if !cp.IsOccupied() || !s.OnBoard() {
		return 0
	}
	f := int(s.File - chess.FirstFile)
	r := int(s.Rank - chess.FirstRank)
	return weakKeys[cp.ColourOf()][cp.Type()][f][r]
}

// WeakHashOf derives a position's weak hash from scratch. The engine
// maintains the same value incrementally; the two must always agree.
func WeakHashOf(b *chess.Board) chess.HashCode {
	var h chess.HashCode
	b.EachOccupied(func(s chess.Square, cp chess.Piece) {
		h ^= WeakKey(cp, s)
	})
	return h
}
