package testutil

import (
	"strings"
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/parser"
)

// MustParseGame parses a PGN string and returns its first game,
// aborting the test on failure.
func MustParseGame(t *testing.T, pgn string) *chess.Game {
	t.Helper()
	games := MustParseGames(t, pgn)
	return games[0]
}

// MustParseGames parses a PGN string and returns every game in it,
// aborting the test when none parse.
func MustParseGames(t *testing.T, pgn string) []*chess.Game {
	t.Helper()
	p := parser.NewParser(strings.NewReader(pgn))
	games, err := p.ParseAll()
	if err != nil {
		t.Fatalf("parsing test games: %v", err)
	}
	if len(games) == 0 {
		t.Fatalf("no games parsed from:\n%s", pgn)
	}
	return games
}

// GameWithMoves builds a game from movetext alone, with just enough
// tags to be written back out.
func GameWithMoves(t *testing.T, movetext string) *chess.Game {
	t.Helper()
	return MustParseGame(t, "[Event \"?\"]\n\n"+movetext+" *\n")
}
