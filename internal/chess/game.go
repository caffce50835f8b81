package chess

// Game is one input game: its tag pairs, move list and the replay
// bookkeeping filled in by the engine. Games are built by the parser,
// consumed by the matching pass and discarded after output.
type Game struct {
	Tags           map[string]string
	PrefixComments []*Comment
	Moves          *Move

	// Hash of the final position and the running sum of every weak hash
	// seen along the mainline, used together for duplicate detection.
	FinalHash      HashCode
	CumulativeHash HashCode

	// Weak hash snapshot at the configured fuzzy-match depth, if one
	// was requested.
	FuzzyHash      HashCode
	FuzzyHashKnown bool

	// Replay outcome. ErrorPly is the 1-based ply at which replay
	// failed, 0 when MovesOK.
	MovesChecked bool
	MovesOK      bool
	ErrorPly     int

	// Line numbers of the game in its source file, for diagnostics.
	StartLine uint
	EndLine   uint
}

// NewGame returns an empty game with an initialised tag table.
func NewGame() *Game {
	return &Game{Tags: make(map[string]string)}
}

// Tag returns a tag value, or "" when absent.
func (g *Game) Tag(name string) string {
	return g.Tags[name]
}

// SetTag stores a tag value.
func (g *Game) SetTag(name, value string) {
	if g.Tags == nil {
		g.Tags = make(map[string]string)
	}
	g.Tags[name] = value
}

// HasTag reports whether the tag is present.
func (g *Game) HasTag(name string) bool {
	_, ok := g.Tags[name]
	return ok
}

// FEN returns the starting-position tag value, or "" for a game from
// the standard starting position.
func (g *Game) FEN() string {
	return g.Tags[TagFEN]
}

// Result returns the Result tag value.
func (g *Game) Result() string {
	return g.Tags[TagResult]
}

// PlyCount counts the mainline half-moves.
func (g *Game) PlyCount() int {
	n := 0
	for m := g.Moves; m != nil; m = m.Next {
		n++
	}
	return n
}

// LastMove returns the final mainline move, or nil for an empty game.
func (g *Game) LastMove() *Move {
	m := g.Moves
	if m == nil {
		return nil
	}
	for m.Next != nil {
		m = m.Next
	}
	return m
}

// AppendMove links a move onto the end of the mainline.
func (g *Game) AppendMove(m *Move) {
	if g.Moves == nil {
		g.Moves = m
		return
	}
	last := g.LastMove()
	last.Next = m
	m.Prev = last
}

// AppendPrefixComment attaches a comment between the tags and the first
// move.
func (g *Game) AppendPrefixComment(text string) {
	g.PrefixComments = append(g.PrefixComments, &Comment{Text: text})
}
