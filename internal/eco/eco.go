// Package eco classifies games against an openings database in PGN
// form, attaching ECO code and opening name tags.
package eco

import (
	"fmt"
	"io"
	"os"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/parser"
)

// tableSize is the bucket count of the classifier's chain table.
// Prime, so weak hashes spread evenly over the buckets.
const tableSize = 4093

// Entry is one opening line from the database: its classification
// tags plus the hashes of the position ending the line.
type Entry struct {
	Code         string
	Opening      string
	Variation    string
	SubVariation string

	// Weak hash of the final position, the running sum of every weak
	// hash along the line, and the line's length in half-moves. All
	// three must agree for a game position to take this entry.
	Weak       chess.HashCode
	Cumulative chess.HashCode
	HalfMoves  int

	next *Entry
}

// Classifier holds the loaded openings database. Build one per run
// and share it read-only across worker goroutines.
type Classifier struct {
	buckets [tableSize]*Entry
	loaded  int
	deepest int
}

// NewClassifier returns an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// EntryCount returns the number of database lines loaded.
func (c *Classifier) EntryCount() int {
	return c.loaded
}

// LoadFile loads an openings database from a PGN file.
func (c *Classifier) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("openings database: %w", err)
	}
	defer f.Close()
	return c.Load(f)
}

// Load reads an openings database in PGN form. Lines without an ECO
// tag or without moves are skipped; replay failures in the database
// abandon the entry at the failing ply.
func (c *Classifier) Load(r io.Reader) error {
	p := parser.NewParser(r)
	for {
		game, err := p.NextGame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openings database: %w", err)
		}
		c.addLine(game)
	}
}

// addLine replays one database game and records the position at the
// end of its mainline.
func (c *Classifier) addLine(game *chess.Game) {
	code := game.Tag(chess.TagECO)
	if code == "" {
		return
	}

	board := engine.MustBoardFromFEN(engine.InitialFEN)
	var cumulative chess.HashCode
	halfMoves := 0
	for move := game.Moves; move != nil; move = move.Next {
		if err := engine.Apply(board, move); err != nil {
			break
		}
		halfMoves++
		cumulative += board.WeakHash
	}
	if halfMoves == 0 {
		return
	}

	entry := &Entry{
		Code:         code,
		Opening:      game.Tag(chess.TagOpening),
		Variation:    game.Tag(chess.TagVariation),
		SubVariation: game.Tag(chess.TagSubVar),
		Weak:         board.WeakHash,
		Cumulative:   cumulative,
		HalfMoves:    halfMoves,
	}

	ix := uint64(entry.Weak) % tableSize
	for e := c.buckets[ix]; e != nil; e = e.next {
		if e.Weak == entry.Weak && e.Cumulative == entry.Cumulative &&
			e.HalfMoves == entry.HalfMoves {
			return
		}
	}
	entry.next = c.buckets[ix]
	c.buckets[ix] = entry
	c.loaded++
	if halfMoves > c.deepest {
		c.deepest = halfMoves
	}
}

// Lookup finds the database entry for one position, identified by its
// weak hash, the running sum of weak hashes reaching it, and the
// half-moves played. An entry is taken only when all three agree and
// the entry is not longer than the line played. The scan keeps the
// last acceptable entry of the chain; inserts prepend, so among
// colliding entries the one loaded first wins.
func (c *Classifier) Lookup(weak, cumulative chess.HashCode, halfMoves int) *Entry {
	var found *Entry
	for e := c.buckets[uint64(weak)%tableSize]; e != nil; e = e.next {
		if e.Weak == weak && e.Cumulative == cumulative && e.HalfMoves <= halfMoves {
			found = e
		}
	}
	return found
}

// DeepestLine returns the length in half-moves of the longest database
// line. Replay loops can stop consulting the classifier past it.
func (c *Classifier) DeepestLine() int {
	return c.deepest
}

// Classify replays a game's mainline and returns the deepest matching
// database entry. Later matches supersede earlier ones, so a game is
// filed under the longest opening line it actually followed; among
// candidates at the same ply the entry loaded first wins.
func (c *Classifier) Classify(game *chess.Game) *Entry {
	if c.loaded == 0 {
		return nil
	}
	board := engine.NewBoardForGame(game, nil)

	var best *Entry
	var cumulative chess.HashCode
	halfMoves := 0
	for move := game.Moves; move != nil; move = move.Next {
		if err := engine.Apply(board, move); err != nil {
			break
		}
		halfMoves++
		if halfMoves > c.deepest {
			break
		}
		cumulative += board.WeakHash
		if e := c.Lookup(board.WeakHash, cumulative, halfMoves); e != nil {
			best = e
		}
	}
	return best
}

// AddTags classifies a game and writes the entry's tags onto it,
// reporting whether a classification was found. Existing tag values
// are overwritten; empty entry fields leave the game's tags alone.
func (c *Classifier) AddTags(game *chess.Game) bool {
	entry := c.Classify(game)
	if entry == nil {
		return false
	}
	game.SetTag(chess.TagECO, entry.Code)
	if entry.Opening != "" {
		game.SetTag(chess.TagOpening, entry.Opening)
	}
	if entry.Variation != "" {
		game.SetTag(chess.TagVariation, entry.Variation)
	}
	if entry.SubVariation != "" {
		game.SetTag(chess.TagSubVar, entry.SubVariation)
	}
	return true
}
