package matching

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

func TestSoundex(t *testing.T) {
	cases := []struct{ name, want string }{
		{"Robert", "R163"},
		{"Rupert", "R163"},
		{"Kasparov", "K216"},
		{"Kasparow", "K216"},
		{"Tymczak", "T522"},
		{"Pfister", "P236"},
		{"Lee", "L000"},
		{"", "0000"},
		{"123", "0000"},
	}
	for _, c := range cases {
		if got := Soundex(c.name); got != c.want {
			t.Errorf("Soundex(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func testGame(tags map[string]string) *chess.Game {
	g := chess.NewGame()
	for name, value := range tags {
		g.SetTag(name, value)
	}
	return g
}

func TestTagFilterEquality(t *testing.T) {
	game := testGame(map[string]string{
		chess.TagWhite:  "Kasparov, Garry",
		chess.TagBlack:  "Karpov, Anatoly",
		chess.TagResult: "1-0",
	})

	tf := NewTagFilter()
	tf.AddEqual(chess.TagResult, "1-0")
	testutil.True(t, tf.Match(game))

	tf = NewTagFilter()
	tf.AddEqual(chess.TagResult, "0-1")
	testutil.False(t, tf.Match(game))

	// Equality is case-insensitive.
	tf = NewTagFilter()
	tf.AddEqual(chess.TagWhite, "kasparov, garry")
	testutil.True(t, tf.Match(game))
}

func TestTagFilterPlayer(t *testing.T) {
	game := testGame(map[string]string{
		chess.TagWhite: "Kasparov, Garry",
		chess.TagBlack: "Karpov, Anatoly",
	})

	// Substring match against either colour.
	tf := NewTagFilter()
	tf.AddPlayer("karpov")
	testutil.True(t, tf.Match(game))

	tf = NewTagFilter()
	tf.AddPlayer("Fischer")
	testutil.False(t, tf.Match(game))

	// Soundex tolerates transliteration.
	tf = NewTagFilter()
	tf.SetSoundex(true)
	tf.AddPlayer("Kasparow")
	testutil.True(t, tf.Match(game))

	tf = NewTagFilter()
	tf.SetSoundex(true)
	tf.AddPlayer("Short")
	testutil.False(t, tf.Match(game))
}

func TestTagFilterParseLine(t *testing.T) {
	game := testGame(map[string]string{
		chess.TagWhite:    "Adams, Michael",
		chess.TagDate:     "1993.06.12",
		chess.TagWhiteElo: "2640",
	})

	lines := []struct {
		line string
		want bool
	}{
		{`WhiteElo >= "2600"`, true},
		{`WhiteElo > 2640`, false},
		{`WhiteElo <= 2640`, true},
		{`Date < 1994`, true},
		{`Date < 1993.06.12`, false},
		{`Date >= 1993.06`, true},
		{`White ~ "Adams.*"`, true},
		{`White ~ "^Michael"`, false},
		{`White != "Short, Nigel"`, true},
		{`# a comment line`, true},
		{``, true},
	}
	for _, c := range lines {
		tf := NewTagFilter()
		testutil.NoError(t, tf.ParseLine(c.line), "line %q", c.line)
		testutil.Equal(t, tf.Match(game), c.want, "line %q", c.line)
	}

	tf := NewTagFilter()
	testutil.Error(t, tf.ParseLine(`White ~ "(unclosed"`))
}

func TestTagFilterMissingTag(t *testing.T) {
	game := testGame(map[string]string{chess.TagWhite: "Adams, Michael"})

	// A missing tag satisfies only an inequality.
	tf := NewTagFilter()
	tf.AddEqual(chess.TagECO, "B22")
	testutil.False(t, tf.Match(game))

	tf = NewTagFilter()
	testutil.NoError(t, tf.ParseLine(`ECO != "B22"`))
	testutil.True(t, tf.Match(game))
}

func TestTagFilterCombination(t *testing.T) {
	game := testGame(map[string]string{
		chess.TagWhite:  "Adams, Michael",
		chess.TagResult: "1-0",
	})

	// All criteria must hold by default.
	tf := NewTagFilter()
	tf.AddEqual(chess.TagResult, "1-0")
	tf.AddEqual(chess.TagWhite, "Short, Nigel")
	testutil.False(t, tf.Match(game))

	// Any-of mode accepts on the first hit.
	tf.SetAnyOf(true)
	testutil.True(t, tf.Match(game))

	// An empty filter matches everything.
	testutil.True(t, NewTagFilter().Match(game))
	testutil.Equal(t, tf.CriteriaCount(), 2)
}
