package matching

import (
	"fmt"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// GameMatcher decides whether a fully replayed game is selected for
// output.
type GameMatcher interface {
	Match(game *chess.Game) bool
	Name() string
}

// CombineMode says how a MatcherSet combines its members.
type CombineMode int

const (
	// RequireAll accepts a game only when every member accepts it.
	RequireAll CombineMode = iota
	// RequireAny accepts a game as soon as one member accepts it.
	RequireAny
)

// MatcherSet combines several matchers under one CombineMode. An empty
// RequireAll set accepts everything; an empty RequireAny set nothing.
type MatcherSet struct {
	members []GameMatcher
	mode    CombineMode
}

// NewMatcherSet builds a set from the given members.
func NewMatcherSet(mode CombineMode, members ...GameMatcher) *MatcherSet {
	return &MatcherSet{members: members, mode: mode}
}

// Append adds a member to the set.
func (ms *MatcherSet) Append(m GameMatcher) {
	ms.members = append(ms.members, m)
}

// Match implements GameMatcher.
func (ms *MatcherSet) Match(game *chess.Game) bool {
	for _, m := range ms.members {
		hit := m.Match(game)
		if ms.mode == RequireAny && hit {
			return true
		}
		if ms.mode == RequireAll && !hit {
			return false
		}
	}
	return ms.mode == RequireAll
}

// Name implements GameMatcher.
func (ms *MatcherSet) Name() string {
	if len(ms.members) == 0 {
		return "set(empty)"
	}
	names := make([]string, len(ms.members))
	for i, m := range ms.members {
		names[i] = m.Name()
	}
	join := "all"
	if ms.mode == RequireAny {
		join = "any"
	}
	return fmt.Sprintf("set(%s: %s)", join, strings.Join(names, ", "))
}
