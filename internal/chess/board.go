package chess

// Board is the canonical position representation: an 8x8 playing area
// embedded in a hedge of Off cells, plus the derived state needed to
// continue play from the position.
//
// A Board holds no pointers, so a plain value assignment duplicates the
// whole position. Variation probes copy the board, play on the copy and
// discard it; the mainline board is never unwound.
type Board struct {
	cells [GridSize][GridSize]Piece // indexed [file][rank] in grid coordinates

	ToMove        Colour
	MoveNumber    uint
	HalfmoveClock uint

	// CastlingRook holds, per colour and side, the starting file of the
	// rook still eligible to castle. Storing the file rather than a
	// boolean is what makes Chess960 rights representable. Zero means
	// the right is gone.
	CastlingRook [NumColours][NumCastleSides]File

	// En-passant capture target, valid only when EnPassant is set.
	EnPassant bool
	EPSquare  Square

	// Incrementally maintained weak hash of the occupancy.
	WeakHash HashCode

	// King location cache, one per colour, kept in step with every king
	// move and FEN load so check detection never scans the board.
	kings [NumColours]Square
}

// NewBoard returns a cleared board: hedge cells Off, playing area
// Empty, White to move at move 1.
func NewBoard() *Board {
	b := &Board{ToMove: White, MoveNumber: 1}
	for f := 0; f < GridSize; f++ {
		for r := 0; r < GridSize; r++ {
			if f >= HedgeSize && f < HedgeSize+BoardSize &&
				r >= HedgeSize && r < HedgeSize+BoardSize {
				b.cells[f][r] = Empty
			} else {
				b.cells[f][r] = Off
			}
		}
	}
	return b
}

// NewInitialBoard returns a board in the standard starting layout with
// full classical castling rights.
func NewInitialBoard() *Board {
	b := NewBoard()
	backRank := [BoardSize]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for i := 0; i < BoardSize; i++ {
		f := FirstFile + File(i)
		b.Put(Sq(f, '1'), Coloured(White, backRank[i]))
		b.Put(Sq(f, '2'), Coloured(White, Pawn))
		b.Put(Sq(f, '7'), Coloured(Black, Pawn))
		b.Put(Sq(f, '8'), Coloured(Black, backRank[i]))
	}
	b.kings[White] = Sq('e', '1')
	b.kings[Black] = Sq('e', '8')
	b.CastlingRook[White][KingSide] = 'h'
	b.CastlingRook[White][QueenSide] = 'a'
	b.CastlingRook[Black][KingSide] = 'h'
	b.CastlingRook[Black][QueenSide] = 'a'
	return b
}

// At returns the cell value of a square. Squares outside the playing
// area read as Off.
func (b *Board) At(s Square) Piece {
	fi, ri := FileIndex(s.File), RankIndex(s.Rank)
	if fi == 0 || ri == 0 {
		return Off
	}
	return b.cells[fi][ri]
}

// Put stores a cell value at a square on the playing area. Writes to
// out-of-range squares are dropped.
func (b *Board) Put(s Square, p Piece) {
	fi, ri := FileIndex(s.File), RankIndex(s.Rank)
	if fi != 0 && ri != 0 {
		b.cells[fi][ri] = p
	}
}

// King returns the cached location of a colour's king.
func (b *Board) King(c Colour) Square {
	return b.kings[c]
}

// SetKing updates the king location cache. Callers moving a king must
// call this in the same step as the occupancy change.
func (b *Board) SetKing(c Colour, s Square) {
	b.kings[c] = s
}

// HasCastlingRight reports whether the colour may still castle on the
// given side.
func (b *Board) HasCastlingRight(c Colour, side CastleSide) bool {
	return b.CastlingRook[c][side] != 0
}

// ClearCastlingRights removes both castling rights of a colour.
func (b *Board) ClearCastlingRights(c Colour) {
	b.CastlingRook[c][KingSide] = 0
	b.CastlingRook[c][QueenSide] = 0
}

// Copy allocates an independent duplicate of the board.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// EachOccupied calls fn for every occupied square of the playing area.
func (b *Board) EachOccupied(fn func(s Square, cp Piece)) {
	for r := LastRank; r >= FirstRank; r-- {
		for f := FirstFile; f <= LastFile; f++ {
			if cp := b.At(Sq(f, r)); cp.IsOccupied() {
				fn(Sq(f, r), cp)
			}
		}
	}
}

// CountPieces tallies the pieces of both colours by type.
func (b *Board) CountPieces() (counts [NumColours][NumPieceTypes]int) {
	b.EachOccupied(func(_ Square, cp Piece) {
		counts[cp.ColourOf()][cp.Type()]++
	})
	return counts
}
