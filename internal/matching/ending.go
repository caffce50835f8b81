package matching

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/errors"
)

// An ending specification describes a material balance to look for
// during a game. One line holds an optional leading stability depth in
// plies, then one or two side specifications separated by whitespace:
//
//	[depth] SIDE [SIDE]
//
// A side specification is a run of piece letters (P N B R Q K, plus L
// for a minor piece of either kind), each followed by an optional
// count (default 1) and an optional operator:
//
//	(none)  exactly that count
//	*       any number, count ignored
//	+       that count or more
//	-       that count or fewer
//	?       zero or one
//	=       same count as the opponent
//	#       different count from the opponent
//	<       fewer than the opponent
//	>       more than the opponent
//	<=      exactly count fewer than the opponent
//	>=      exactly count more than the opponent
//
// Unmentioned piece types must be absent; the king is obligatory and
// defaults to exactly one. An omitted second side is unconstrained
// beyond its king. The balance must then hold for the configured
// number of consecutive plies before the ending is reported, which
// skips positions a capture sequence passes through only transiently.

// DefaultStabilityDepth is the number of consecutive matching plies
// required when a specification does not name its own depth.
const DefaultStabilityDepth = 2

// occursOp is the comparison attached to one piece constraint.
type occursOp int

const (
	opExactly occursOp = iota
	opAny
	opOrMore
	opOrLess
	opZeroOrOne
	opSameAsOpponent
	opNotSameAsOpponent
	opFewerThanOpponent
	opMoreThanOpponent
	opExactlyFewer
	opExactlyMore
)

// pieceConstraint is one letter/count/operator triple.
type pieceConstraint struct {
	count     int
	op        occursOp
	specified bool
}

// sideSpec collects the constraints of one side of an ending line.
type sideSpec struct {
	pieces [chess.NumPieceTypes]pieceConstraint
	minor  pieceConstraint
	// An unconstrained side only demands its king.
	unconstrained bool
}

// Ending is one parsed ending specification.
type Ending struct {
	Raw   string
	Depth int
	sides [2]sideSpec
	// Set when a minor constraint is mixed with explicit B or N
	// constraints on the same side; counts then overlap.
	MixedMinors bool
}

// ParseEnding parses one specification line.
func ParseEnding(line string) (*Ending, error) {
	fields := strings.Fields(line)
	e := &Ending{Raw: line, Depth: DefaultStabilityDepth}

	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if n < 1 {
				return nil, fmt.Errorf("stability depth %d in %q: %w", n, line, errors.ErrBadEnding)
			}
			e.Depth = n
			fields = fields[1:]
		}
	}
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("ending %q needs one or two side specifications: %w", line, errors.ErrBadEnding)
	}

	for i, field := range fields {
		side, err := parseSideSpec(field)
		if err != nil {
			return nil, fmt.Errorf("ending %q: %w", line, err)
		}
		e.sides[i] = side
	}
	if len(fields) == 1 {
		e.sides[1] = sideSpec{unconstrained: true}
	}

	for i := range e.sides {
		s := &e.sides[i]
		if s.unconstrained {
			continue
		}
		// The king is obligatory whether or not it was written.
		if !s.pieces[chess.King].specified {
			s.pieces[chess.King] = pieceConstraint{count: 1, specified: true}
		}
		if s.minor.specified &&
			(s.pieces[chess.Knight].specified || s.pieces[chess.Bishop].specified) {
			e.MixedMinors = true
		}
	}
	return e, nil
}

// parseSideSpec parses one run of letter/count/operator triples.
func parseSideSpec(field string) (sideSpec, error) {
	var side sideSpec
	i := 0
	for i < len(field) {
		letter := unicode.ToUpper(rune(field[i]))
		i++

		var target *pieceConstraint
		if letter == 'L' {
			target = &side.minor
		} else {
			p := chess.PieceFromLetter(byte(letter))
			if p == chess.Empty {
				return side, fmt.Errorf("bad piece letter %q in %q: %w", string(letter), field, errors.ErrBadEnding)
			}
			target = &side.pieces[p]
		}

		count := 1
		if i < len(field) && field[i] >= '0' && field[i] <= '9' {
			start := i
			for i < len(field) && field[i] >= '0' && field[i] <= '9' {
				i++
			}
			count, _ = strconv.Atoi(field[start:i])
		}

		op := opExactly
		if i < len(field) {
			switch field[i] {
			case '*':
				op = opAny
				i++
			case '+':
				op = opOrMore
				i++
			case '-':
				op = opOrLess
				i++
			case '?':
				op = opZeroOrOne
				i++
			case '=':
				op = opSameAsOpponent
				i++
			case '#':
				op = opNotSameAsOpponent
				i++
			case '<':
				op = opFewerThanOpponent
				i++
				if i < len(field) && field[i] == '=' {
					op = opExactlyFewer
					i++
				}
			case '>':
				op = opMoreThanOpponent
				i++
				if i < len(field) && field[i] == '=' {
					op = opExactlyMore
					i++
				}
			}
		}

		*target = pieceConstraint{count: count, op: op, specified: true}
	}
	return side, nil
}

// holds evaluates one constraint given the side's own count and the
// opponent's count of the same kind.
func (pc pieceConstraint) holds(own, opp int) bool {
	switch pc.op {
	case opExactly:
		return own == pc.count
	case opAny:
		return true
	case opOrMore:
		return own >= pc.count
	case opOrLess:
		return own <= pc.count
	case opZeroOrOne:
		return own <= 1
	case opSameAsOpponent:
		return own == opp
	case opNotSameAsOpponent:
		return own != opp
	case opFewerThanOpponent:
		return own < opp
	case opMoreThanOpponent:
		return own > opp
	case opExactlyFewer:
		return own == opp-pc.count
	case opExactlyMore:
		return own == opp+pc.count
	}
	return false
}

// pieceCounts is the live material of both colours by type.
type pieceCounts [chess.NumColours][chess.NumPieceTypes]int

func (c pieceCounts) minors(colour chess.Colour) int {
	return c[colour][chess.Knight] + c[colour][chess.Bishop]
}

// sideHolds tests one side specification against one colour.
func (s *sideSpec) holds(counts pieceCounts, colour chess.Colour) bool {
	opp := colour.Opposite()
	if s.unconstrained {
		return counts[colour][chess.King] == 1
	}
	for p := chess.Pawn; p <= chess.King; p++ {
		pc := s.pieces[p]
		if !pc.specified {
			// Minor-covered kinds are checked through the minor
			// constraint instead of demanded absent.
			if s.minor.specified && (p == chess.Knight || p == chess.Bishop) {
				continue
			}
			pc = pieceConstraint{count: 0}
		}
		if !pc.holds(counts[colour][p], counts[opp][p]) {
			return false
		}
	}
	if s.minor.specified && !s.minor.holds(counts.minors(colour), counts.minors(opp)) {
		return false
	}
	return true
}

// matches tests the full specification under one colour assignment:
// side 0 plays first, side 1 plays first.Opposite().
func (e *Ending) matches(counts pieceCounts, first chess.Colour) bool {
	return e.sides[0].holds(counts, first) && e.sides[1].holds(counts, first.Opposite())
}

// EndingMatcher holds the registered specifications shared by every
// game scan.
type EndingMatcher struct {
	endings []*Ending
	// Receives one advisory per mixed-minor specification.
	diag func(msg string)
}

// NewEndingMatcher returns an empty matcher reporting advisories
// through diag, which may be nil.
func NewEndingMatcher(diag func(msg string)) *EndingMatcher {
	return &EndingMatcher{diag: diag}
}

// Add parses and registers one specification line.
func (em *EndingMatcher) Add(line string) error {
	e, err := ParseEnding(line)
	if err != nil {
		return err
	}
	if e.MixedMinors && em.diag != nil {
		em.diag(fmt.Sprintf("ending %q mixes L with explicit B or N; the minor count includes both kinds", line))
	}
	em.endings = append(em.endings, e)
	return nil
}

// EndingCount returns the number of registered specifications.
func (em *EndingMatcher) EndingCount() int {
	return len(em.endings)
}

// EndingScan tracks one game's progress against the registered
// specifications. Piece counts are carried incrementally between plies
// and each specification keeps a consecutive-match counter per colour
// assignment, reset to zero the first ply the balance breaks.
type EndingScan struct {
	matcher *EndingMatcher
	counts  pieceCounts
	streak  [][chess.NumColours]int
}

// NewScan starts a scan from an initial board.
func (em *EndingMatcher) NewScan(board *chess.Board) *EndingScan {
	return &EndingScan{
		matcher: em,
		counts:  board.CountPieces(),
		streak:  make([][chess.NumColours]int, len(em.endings)),
	}
}

// Advance updates the live counts for one applied move.
func (s *EndingScan) Advance(move *chess.Move, mover chess.Colour) {
	if move.Captured != chess.Empty {
		s.counts[mover.Opposite()][move.Captured]--
	}
	if move.Promoted != chess.Empty {
		s.counts[mover][chess.Pawn]--
		s.counts[mover][move.Promoted]++
	}
}

// Test examines the current counts and returns the first specification
// whose balance has now held for its stability depth, under either
// colour assignment.
func (s *EndingScan) Test() (*Ending, bool) {
	var hit *Ending
	for i, e := range s.matcher.endings {
		for first := chess.Colour(0); first < chess.NumColours; first++ {
			if e.matches(s.counts, first) {
				s.streak[i][first]++
				if hit == nil && s.streak[i][first] >= e.Depth {
					hit = e
				}
			} else {
				s.streak[i][first] = 0
			}
		}
	}
	return hit, hit != nil
}
