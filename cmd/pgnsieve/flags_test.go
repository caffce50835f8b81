package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/config"
	pgnerr "github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/matching"
)

// saveRestoreBool sets a flag pointer for the test and returns the
// deferred restore. Usage: defer saveRestoreBool(anyMatch, true)()
func saveRestoreBool(ptr *bool, val bool) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func saveRestoreString(ptr *string, val string) func() {
	old := *ptr
	*ptr = val
	return func() { *ptr = old }
}

func TestApplyFlagsMatching(t *testing.T) {
	defer saveRestoreBool(anyMatch, true)()
	defer saveRestoreBool(useSoundex, true)()
	defer saveRestoreString(tagFile, "criteria.txt")()

	cfg := config.NewConfig()
	applyFlags(cfg)
	if !cfg.MatchAnyCriteria {
		t.Error("anymatch flag not copied to MatchAnyCriteria")
	}
	if !cfg.UseSoundex {
		t.Error("S flag not copied to UseSoundex")
	}
	if cfg.TagFile != "criteria.txt" {
		t.Errorf("TagFile = %q; want criteria.txt", cfg.TagFile)
	}
}

func TestNewRunAppliesAnyMatch(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MatchAnyCriteria = true
	r, err := newRun(cfg, func(string) {})
	if err != nil {
		t.Fatalf("newRun: %v", err)
	}
	defer r.close()

	r.tags.AddEqual("White", "Carlsen")
	r.tags.AddEqual("Black", "Anand")

	game := chess.NewGame()
	game.SetTag(chess.TagWhite, "Carlsen")
	game.SetTag(chess.TagBlack, "Niemann")
	if !r.tags.Match(game) {
		t.Error("any-of filter rejected a game satisfying one criterion")
	}
}

func TestEachLineReportsFilePosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.txt")
	content := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR\n# comment\n\nr%r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := loadPatterns(matching.NewPatternMatcher(), path, "")
	if err == nil {
		t.Fatal("malformed pattern line accepted")
	}
	if !errors.Is(err, pgnerr.ErrBadPattern) {
		t.Errorf("error %v does not unwrap to ErrBadPattern", err)
	}
	var pe *pgnerr.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v carries no ParseError", err)
	}
	if pe.Line != 4 || pe.Text != "r%r" {
		t.Errorf("ParseError at line %d text %q; want line 4 text %q", pe.Line, pe.Text, "r%r")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}
