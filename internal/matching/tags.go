package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/errors"
)

// tagRelation is the comparison a tag criterion applies.
type tagRelation int

const (
	relEqual tagRelation = iota
	relNotEqual
	relLess
	relLessOrEqual
	relGreater
	relGreaterOrEqual
	relContains
	relPattern
	relSoundex
)

// playerPseudoTag names a criterion satisfied by either the White or
// the Black tag, for searches by player regardless of colour.
const playerPseudoTag = "_Player"

// tagCriterion is one tag-value test.
type tagCriterion struct {
	tag      string
	value    string
	relation tagRelation
	pattern  *regexp.Regexp
	soundex  string
	lowered  string
}

// TagFilter selects games by their tag pairs. Criteria combine with
// AND by default.
type TagFilter struct {
	criteria []*tagCriterion
	anyOf    bool
	soundex  bool
}

// NewTagFilter returns an empty filter that matches every game.
func NewTagFilter() *TagFilter {
	return &TagFilter{}
}

// SetAnyOf makes the filter accept a game when any criterion holds,
// instead of requiring all of them.
func (tf *TagFilter) SetAnyOf(any bool) {
	tf.anyOf = any
}

// SetSoundex makes player-name criteria compare Soundex codes instead
// of substrings.
func (tf *TagFilter) SetSoundex(use bool) {
	tf.soundex = use
}

// CriteriaCount returns the number of registered criteria.
func (tf *TagFilter) CriteriaCount() int {
	return len(tf.criteria)
}

// Add registers one criterion.
func (tf *TagFilter) Add(tag, value string, relation tagRelation) error {
	c := &tagCriterion{tag: tag, value: value, relation: relation}
	switch relation {
	case relPattern:
		re, err := regexp.Compile(value)
		if err != nil {
			return fmt.Errorf("tag pattern %q: %w", value, errors.ErrBadPattern)
		}
		c.pattern = re
	case relSoundex:
		c.soundex = Soundex(value)
	case relContains:
		c.lowered = strings.ToLower(value)
	}
	tf.criteria = append(tf.criteria, c)
	return nil
}

// AddEqual registers an exact-value criterion.
func (tf *TagFilter) AddEqual(tag, value string) {
	tf.Add(tag, value, relEqual)
}

// AddPlayer registers a criterion met when either player has the given
// name, by substring or by Soundex per SetSoundex.
func (tf *TagFilter) AddPlayer(name string) {
	rel := relContains
	if tf.soundex {
		rel = relSoundex
	}
	tf.Add(playerPseudoTag, name, rel)
}

// ParseLine registers a criterion written in the tag-file form, for
// example `WhiteElo >= "2600"` or `Date < 1970`. Blank lines and lines
// starting with # are skipped. Relations: = != <> < <= > >= and ~ for
// a regular expression.
func (tf *TagFilter) ParseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	end := strings.IndexAny(line, " \t<>=!~")
	if end < 0 {
		return nil
	}
	tag := line[:end]
	rest := strings.TrimSpace(line[end:])

	relation := relEqual
	switch {
	case strings.HasPrefix(rest, "<="):
		relation, rest = relLessOrEqual, rest[2:]
	case strings.HasPrefix(rest, ">="):
		relation, rest = relGreaterOrEqual, rest[2:]
	case strings.HasPrefix(rest, "<>"), strings.HasPrefix(rest, "!="):
		relation, rest = relNotEqual, rest[2:]
	case strings.HasPrefix(rest, "<"):
		relation, rest = relLess, rest[1:]
	case strings.HasPrefix(rest, ">"):
		relation, rest = relGreater, rest[1:]
	case strings.HasPrefix(rest, "~"):
		relation, rest = relPattern, rest[1:]
	case strings.HasPrefix(rest, "="):
		rest = rest[1:]
	}

	value := strings.TrimSpace(rest)
	value = strings.Trim(value, `"`)
	return tf.Add(tag, value, relation)
}

// Match reports whether the game satisfies the filter.
func (tf *TagFilter) Match(game *chess.Game) bool {
	if len(tf.criteria) == 0 {
		return true
	}
	for _, c := range tf.criteria {
		hit := tf.criterionHolds(game, c)
		if tf.anyOf && hit {
			return true
		}
		if !tf.anyOf && !hit {
			return false
		}
	}
	return !tf.anyOf
}

// Name implements GameMatcher.
func (tf *TagFilter) Name() string {
	return fmt.Sprintf("tags(%d criteria)", len(tf.criteria))
}

func (tf *TagFilter) criterionHolds(game *chess.Game, c *tagCriterion) bool {
	if c.tag == playerPseudoTag {
		return valueHolds(game.Tag(chess.TagWhite), c) ||
			valueHolds(game.Tag(chess.TagBlack), c)
	}
	value, ok := game.Tags[c.tag]
	if !ok {
		// A missing tag only satisfies an inequality test.
		return c.relation == relNotEqual
	}
	return valueHolds(value, c)
}

func valueHolds(value string, c *tagCriterion) bool {
	switch c.relation {
	case relEqual:
		return strings.EqualFold(value, c.value)
	case relNotEqual:
		return !strings.EqualFold(value, c.value)
	case relContains:
		return strings.Contains(strings.ToLower(value), c.lowered)
	case relPattern:
		return c.pattern != nil && c.pattern.MatchString(value)
	case relSoundex:
		return Soundex(value) == c.soundex
	default:
		return orderedHolds(value, c.value, c.relation)
	}
}

// orderedHolds compares two tag values for a relational criterion,
// understanding dates in YYYY.MM.DD form and plain numbers before
// falling back to case-folded string order.
func orderedHolds(value, want string, relation tagRelation) bool {
	if vd, wd := dateKey(value), dateKey(want); vd > 0 && wd > 0 {
		return relationHolds(compareInts(vd, wd), relation)
	}
	vn, errV := strconv.ParseFloat(value, 64)
	wn, errW := strconv.ParseFloat(want, 64)
	if errV == nil && errW == nil {
		return relationHolds(compareFloats(vn, wn), relation)
	}
	cmp := strings.Compare(strings.ToLower(value), strings.ToLower(want))
	return relationHolds(cmp, relation)
}

func relationHolds(cmp int, relation tagRelation) bool {
	switch relation {
	case relLess:
		return cmp < 0
	case relLessOrEqual:
		return cmp <= 0
	case relGreater:
		return cmp > 0
	case relGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// dateKey encodes a YYYY.MM.DD tag value as an orderable integer.
// Missing or unreadable month and day components count as 1; an
// unreadable year yields 0.
func dateKey(s string) int {
	parts := strings.Split(s, ".")
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || year < 100 || year > 3000 {
		return 0
	}
	month, day := 1, 1
	if len(parts) > 1 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	if len(parts) > 2 {
		if d, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}
	return year*10000 + month*100 + day
}
