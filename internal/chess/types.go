// Package chess holds the position model shared by every other package:
// the hedge-bordered board, coloured pieces, moves and games.
package chess

// Colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
	NumColours
)

func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the other colour.
func (c Colour) Opposite() Colour {
	return White - c
}

// PawnStep returns the rank direction a pawn of this colour advances in.
func (c Colour) PawnStep() int {
	if c == White {
		return 1
	}
	return -1
}

// Piece is either a bare piece type (Pawn..King) or, when built with
// Coloured, a coloured piece ready to be stored in a board cell.
type Piece int

const (
	Off   Piece = iota // hedge cell, never a playable square
	Empty              // unoccupied playable square
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceTypes
)

// pieceShift positions the piece type above the colour bit in a
// coloured piece value.
const pieceShift = 3

// Coloured combines a piece type and a colour into a board cell value.
func Coloured(c Colour, p Piece) Piece {
	return Piece(int(p)<<pieceShift | int(c))
}

// Type extracts the piece type from a coloured piece.
func (p Piece) Type() Piece {
	return p >> pieceShift
}

// ColourOf extracts the colour from a coloured piece.
func (p Piece) ColourOf() Colour {
	return Colour(p & 1)
}

// IsOccupied reports whether a board cell value holds a piece.
func (p Piece) IsOccupied() bool {
	return p != Empty && p != Off
}

func (p Piece) String() string {
	names := [...]string{"Off", "Empty", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Letter returns the English SAN letter for a bare piece type.
func (p Piece) Letter() byte {
	letters := [...]byte{' ', ' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// FENLetter returns the FEN letter for a coloured piece, lowercase for
// black.
func FENLetter(cp Piece) byte {
	letter := cp.Type().Letter()
	if cp.ColourOf() == Black {
		letter += 'a' - 'A'
	}
	return letter
}

// PieceFromLetter maps a FEN/SAN letter to a bare piece type, or Empty
// if the letter names no piece.
func PieceFromLetter(c byte) Piece {
	switch c {
	case 'P', 'p':
		return Pawn
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	}
	return Empty
}

// MoveClass categorises a structured move.
type MoveClass int

const (
	PawnMove MoveClass = iota
	PawnMoveWithPromotion
	EnPassantPawnMove
	PieceMove
	KingsideCastle
	QueensideCastle
	NullMove
	UnknownMove
)

// CheckStatus records whether a move gives check or checkmate.
type CheckStatus int

const (
	NoCheck CheckStatus = iota
	Check
	Checkmate
)

// CastleSide indexes the two castling rights of one colour.
type CastleSide int

const (
	KingSide CastleSide = iota
	QueenSide
	NumCastleSides
)

// HashCode is the 64-bit weak position hash.
type HashCode uint64

// NullMoveText is the PGN spelling of a null move.
const NullMoveText = "--"
