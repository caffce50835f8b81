package chess

// Comment is a PGN brace comment.
type Comment struct {
	Text string
}

// NAG is a numeric annotation glyph attached to a move.
type NAG struct {
	Text string
}

// Variation is an alternative line branching from a move.
type Variation struct {
	PrefixComments []*Comment
	Moves          *Move
	SuffixComments []*Comment
}

// Move is one structured half-move. The grammar layer fills Text,
// Class, the declared squares and the promotion piece; the engine
// resolves the origin, records the captured piece, check status and
// position snapshots, and may rewrite the text.
type Move struct {
	Text  string
	Class MoveClass

	From Square // origin; may be partial (file or rank only) before resolution
	To   Square

	Piece    Piece // bare piece type being moved
	Captured Piece // bare piece type taken, Empty if none
	Promoted Piece // bare piece type promoted to, Empty unless promotion

	CheckStatus CheckStatus

	// Derived position text for the position after this move.
	EPD       string
	FENSuffix string

	// Polyglot-compatible hash of the position after this move.
	Zobrist uint64

	// Optional evaluation annotation.
	Evaluation    float64
	HasEvaluation bool

	NAGs              []*NAG
	Comments          []*Comment
	Variations        []*Variation
	TerminatingResult string

	Prev *Move
	Next *Move
}

// NewMove returns a move with no capture, promotion or check recorded.
func NewMove() *Move {
	return &Move{Captured: Empty, Promoted: Empty}
}

// IsCapture reports whether the move takes a piece.
func (m *Move) IsCapture() bool {
	return m.Captured != Empty || m.Class == EnPassantPawnMove
}

// IsCastle reports whether the move castles.
func (m *Move) IsCastle() bool {
	return m.Class == KingsideCastle || m.Class == QueensideCastle
}

// IsPawnMove reports whether a pawn moves, including promotions and en
// passant.
func (m *Move) IsPawnMove() bool {
	switch m.Class {
	case PawnMove, PawnMoveWithPromotion, EnPassantPawnMove:
		return true
	}
	return false
}

// AppendComment attaches a comment to the move.
func (m *Move) AppendComment(text string) {
	m.Comments = append(m.Comments, &Comment{Text: text})
}

// AppendNAG attaches an annotation glyph to the move.
func (m *Move) AppendNAG(text string) {
	m.NAGs = append(m.NAGs, &NAG{Text: text})
}

// AppendVariation attaches an alternative line to the move.
func (m *Move) AppendVariation(v *Variation) {
	m.Variations = append(m.Variations, v)
}
