// Package matching evaluates positions and games against user-supplied
// criteria: whole-board FEN patterns, material endings and tag filters.
package matching

import (
	"fmt"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/errors"
)

// A FEN pattern is eight rank globs. Per rank the language is:
//
//	piece letter  that piece, case giving the colour
//	1-8           that many empty squares
//	?             any occupant, empty included
//	!             any non-empty occupant
//	A / a         any white / black piece
//	m             any non-pawn occupant
//	[...] [^...]  character class / negated class, no nesting
//	*             zero or more of anything for the rest of the rank
//
// Board ranks are compared in their EPD-like one-character-per-square
// form with '_' for an empty square.

// patternNode is one edge of the shared pattern tree. Patterns that
// share leading rank globs share nodes; alternatives at the same depth
// sit side by side in the parent's child list, so matching hundreds of
// patterns costs little more than matching one when prefixes coincide.
type patternNode struct {
	rankGlob string
	children []*patternNode

	// Set on depth-8 nodes that complete a registered pattern.
	terminal bool
	label    string
}

// PatternMatcher matches board snapshots against a set of FEN
// patterns merged into one shared tree.
type PatternMatcher struct {
	roots []*patternNode
	count int
}

// NewPatternMatcher returns an empty matcher.
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{}
}

// PatternCount returns the number of registered patterns, inverted
// copies included.
func (pm *PatternMatcher) PatternCount() int {
	return pm.count
}

// Add registers a pattern with an optional label. With addInverted set
// a colour-reversed copy (rank order flipped, letter case swapped) is
// registered too, labelled with the original label plus "I", so one
// match call covers both the position and its mirror. Malformed
// patterns are rejected here and never reach the matcher.
func (pm *PatternMatcher) Add(pattern, label string, addInverted bool) error {
	ranks, err := splitPattern(pattern)
	if err != nil {
		return err
	}
	pm.roots = pm.insert(pm.roots, ranks, label)
	pm.count++

	if addInverted {
		inverted := invertRanks(ranks)
		pm.roots = pm.insert(pm.roots, inverted, label+"I")
		pm.count++
	}
	return nil
}

// insert threads the rank globs into the node list, sharing existing
// edges and branching where the pattern diverges.
func (pm *PatternMatcher) insert(nodes []*patternNode, ranks []string, label string) []*patternNode {
	var node *patternNode
	for _, n := range nodes {
		if n.rankGlob == ranks[0] {
			node = n
			break
		}
	}
	if node == nil {
		node = &patternNode{rankGlob: ranks[0]}
		nodes = append(nodes, node)
	}
	if len(ranks) == 1 {
		node.terminal = true
		node.label = label
	} else {
		node.children = pm.insert(node.children, ranks[1:], label)
	}
	return nodes
}

// splitPattern validates a pattern line and returns its eight rank
// globs, rank 8 first.
func splitPattern(pattern string) ([]string, error) {
	ranks := strings.Split(pattern, "/")
	if len(ranks) != chess.BoardSize {
		return nil, fmt.Errorf("pattern %q has %d ranks, want %d: %w",
			pattern, len(ranks), chess.BoardSize, errors.ErrBadPattern)
	}
	for _, rank := range ranks {
		if rank == "" {
			return nil, fmt.Errorf("pattern %q has an empty rank: %w", pattern, errors.ErrBadPattern)
		}
		if err := checkRankGlob(rank); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
	}
	return ranks, nil
}

// checkRankGlob rejects unterminated or nested character classes and
// tokens outside the pattern language.
func checkRankGlob(rank string) error {
	inClass := false
	for i := 0; i < len(rank); i++ {
		c := rank[i]
		switch {
		case c == '[':
			if inClass {
				return fmt.Errorf("nested class at %q: %w", rank, errors.ErrBadPattern)
			}
			inClass = true
		case c == ']':
			if !inClass {
				return fmt.Errorf("unopened class at %q: %w", rank, errors.ErrBadPattern)
			}
			inClass = false
		case inClass:
			// Class members are literals; anything printable goes.
		case c >= '1' && c <= '8', c == '?', c == '!', c == '*', c == '^', c == '_':
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		default:
			return fmt.Errorf("bad pattern character %q in %q: %w", c, rank, errors.ErrBadPattern)
		}
	}
	if inClass {
		return fmt.Errorf("unterminated class in %q: %w", rank, errors.ErrBadPattern)
	}
	return nil
}

// invertRanks produces the colour-reversed form: rank order flipped and
// letter case swapped. The colour-agnostic 'm' token is left alone.
func invertRanks(ranks []string) []string {
	out := make([]string, len(ranks))
	for i, rank := range ranks {
		var sb strings.Builder
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			switch {
			case c == 'm':
			case c >= 'A' && c <= 'Z':
				c += 'a' - 'A'
			case c >= 'a' && c <= 'z':
				c -= 'a' - 'A'
			}
			sb.WriteByte(c)
		}
		out[len(ranks)-1-i] = sb.String()
	}
	return out
}

// Match walks the board down the pattern tree, rank 8 first. Rank text
// is materialized lazily: a rank is rendered only when the walk
// actually reaches its depth, since most branches die on an early rank.
// The first complete pattern found wins; its label is returned.
func (pm *PatternMatcher) Match(board *chess.Board) (string, bool) {
	if len(pm.roots) == 0 {
		return "", false
	}

	var ranks [chess.BoardSize]string
	var rendered [chess.BoardSize]bool
	rankText := func(depth int) string {
		if !rendered[depth] {
			ranks[depth] = renderRank(board, chess.LastRank-chess.Rank(depth))
			rendered[depth] = true
		}
		return ranks[depth]
	}

	var walk func(nodes []*patternNode, depth int) (string, bool)
	walk = func(nodes []*patternNode, depth int) (string, bool) {
		for _, n := range nodes {
			if !matchRank(n.rankGlob, rankText(depth)) {
				continue
			}
			if n.terminal {
				return n.label, true
			}
			if label, ok := walk(n.children, depth+1); ok {
				return label, ok
			}
			// Fall through to sibling alternatives at this depth.
		}
		return "", false
	}
	return walk(pm.roots, 0)
}

// renderRank converts one board rank to its glob-comparable text.
func renderRank(board *chess.Board, r chess.Rank) string {
	var sb strings.Builder
	for f := chess.FirstFile; f <= chess.LastFile; f++ {
		cp := board.At(chess.Sq(f, r))
		if cp.IsOccupied() {
			sb.WriteByte(chess.FENLetter(cp))
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// matchRank matches a full rank text against a rank glob. A match must
// consume the whole rank.
func matchRank(glob, text string) bool {
	return matchHere(glob, text, 0, 0)
}

// matchHere consumes one glob token against one text position,
// recursing down the rank.
func matchHere(glob, text string, gi, ti int) bool {
	if gi >= len(glob) {
		return ti >= len(text)
	}

	c := glob[gi]
	if c == '*' {
		return matchStar(glob, text, gi+1, ti)
	}

	if c >= '1' && c <= '8' {
		n := int(c - '0')
		if ti+n > len(text) {
			return false
		}
		for i := 0; i < n; i++ {
			if text[ti+i] != '_' {
				return false
			}
		}
		return matchHere(glob, text, gi+1, ti+n)
	}

	if ti >= len(text) {
		return false
	}
	occ := text[ti]

	var ok bool
	switch c {
	case '?':
		ok = true
	case '!':
		ok = occ != '_'
	case '_':
		ok = occ == '_'
	case 'A':
		ok = occ >= 'A' && occ <= 'Z'
	case 'a':
		ok = occ >= 'a' && occ <= 'z'
	case 'm':
		ok = occ != '_' && occ != 'P' && occ != 'p'
	case '[':
		var width int
		ok, width = matchClass(glob[gi:], occ)
		if width == 0 {
			return false
		}
		if ok {
			return matchHere(glob, text, gi+width, ti+1)
		}
		return false
	default:
		ok = occ == c
	}
	if !ok {
		return false
	}
	return matchHere(glob, text, gi+1, ti+1)
}

// matchStar implements a trailing closure with the leftmost-longest
// policy: it binds the longest feasible suffix to the rest of the glob
// first and shortens one square at a time on failure.
func matchStar(glob, text string, gi, ti int) bool {
	for bind := len(text); bind >= ti; bind-- {
		if matchHere(glob, text, gi, bind) {
			return true
		}
	}
	return false
}

// matchClass tests an occupant against a [...] or [^...] class starting
// at glob[0] == '['. It returns the outcome and the class width in
// glob bytes; width 0 flags a malformed class, which registration
// should have rejected.
func matchClass(glob string, occ byte) (bool, int) {
	i := 1
	negate := false
	if i < len(glob) && glob[i] == '^' {
		negate = true
		i++
	}
	found := false
	for ; i < len(glob); i++ {
		if glob[i] == ']' {
			return found != negate, i + 1
		}
		if glob[i] == occ {
			found = true
		}
	}
	return false, 0
}
