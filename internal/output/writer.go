// Package output renders processed games back to PGN and exports
// match reports.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/config"
)

// lineWriter wraps movetext at the configured column, inserting the
// separating space or newline before each element.
type lineWriter struct {
	w       io.Writer
	col     int
	max     int
	pending bool
}

func newLineWriter(w io.Writer, max int) *lineWriter {
	if max <= 0 {
		max = 80
	}
	return &lineWriter{w: w, max: max}
}

func (lw *lineWriter) write(s string) {
	if s == "" {
		return
	}
	if lw.pending {
		if lw.col+1+len(s) > lw.max {
			fmt.Fprintln(lw.w)
			lw.col = 0
		} else {
			fmt.Fprint(lw.w, " ")
			lw.col++
		}
	}
	fmt.Fprint(lw.w, s)
	lw.col += len(s)
	lw.pending = true
}

func (lw *lineWriter) newline() {
	fmt.Fprintln(lw.w)
	lw.col = 0
	lw.pending = false
}

// PGNWriter writes games in PGN form, honouring the run's keep/strip
// settings.
type PGNWriter struct {
	w   io.Writer
	cfg *config.Config
}

// NewPGNWriter wraps a destination stream.
func NewPGNWriter(w io.Writer, cfg *config.Config) *PGNWriter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &PGNWriter{w: w, cfg: cfg}
}

// WriteGame emits one game: tags, a blank line, wrapped movetext and a
// trailing blank line.
func (pw *PGNWriter) WriteGame(game *chess.Game) error {
	pw.writeTags(game)
	fmt.Fprintln(pw.w)
	pw.writeMovetext(game)
	fmt.Fprintln(pw.w)
	return nil
}

// writeTags emits the seven-tag roster in its fixed order, then the
// remaining tags sorted by name so output is stable.
func (pw *PGNWriter) writeTags(game *chess.Game) {
	if pw.cfg.TagOutput == config.NoTags {
		return
	}
	for _, tag := range chess.SevenTagRoster {
		value := game.Tag(tag)
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(pw.w, "[%s \"%s\"]\n", tag, escapeTagValue(value))
	}
	if pw.cfg.TagOutput == config.SevenTagRosterOnly {
		return
	}
	rest := make([]string, 0, len(game.Tags))
	for tag := range game.Tags {
		if !chess.IsRosterTag(tag) {
			rest = append(rest, tag)
		}
	}
	sort.Strings(rest)
	for _, tag := range rest {
		fmt.Fprintf(pw.w, "[%s \"%s\"]\n", tag, escapeTagValue(game.Tags[tag]))
	}
}

func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, `\"`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// writeMovetext emits the mainline with numbering, annotations and
// variations, then the result.
func (pw *PGNWriter) writeMovetext(game *chess.Game) {
	lw := newLineWriter(pw.w, pw.cfg.MaxLineLength)

	moveNum, whiteToMove := startingCount(game)
	for _, c := range game.PrefixComments {
		if pw.cfg.KeepComments {
			lw.write("{" + c.Text + "}")
		}
	}
	pw.writeLine(lw, game.Moves, moveNum, whiteToMove, true)

	if pw.cfg.KeepResults {
		lw.write(gameResult(game))
	}
	lw.newline()
}

// writeLine emits one move list. numberNext forces a move number on
// the first move even for Black, as at a variation start.
func (pw *PGNWriter) writeLine(lw *lineWriter, moves *chess.Move, moveNum int, whiteToMove, numberNext bool) {
	for move := moves; move != nil; move = move.Next {
		if pw.cfg.KeepMoveNumbers {
			if whiteToMove {
				lw.write(fmt.Sprintf("%d.", moveNum))
			} else if numberNext {
				lw.write(fmt.Sprintf("%d...", moveNum))
			}
		}
		numberNext = false

		lw.write(move.Text)
		pw.writeAnnotations(lw, move)

		if pw.cfg.KeepVariations {
			for _, v := range move.Variations {
				lw.write("(")
				for _, c := range v.PrefixComments {
					if pw.cfg.KeepComments {
						lw.write("{" + c.Text + "}")
					}
				}
				pw.writeLine(lw, v.Moves, moveNum, whiteToMove, true)
				lw.write(")")
				for _, c := range v.SuffixComments {
					if pw.cfg.KeepComments {
						lw.write("{" + c.Text + "}")
					}
				}
				numberNext = true
			}
		}

		if !whiteToMove {
			moveNum++
		}
		whiteToMove = !whiteToMove
	}
}

// writeAnnotations emits the move's glyphs, comments and the position
// snapshots the replay pass attached.
func (pw *PGNWriter) writeAnnotations(lw *lineWriter, move *chess.Move) {
	if pw.cfg.KeepNAGs {
		for _, nag := range move.NAGs {
			lw.write(nag.Text)
		}
	}
	if pw.cfg.KeepComments {
		for _, c := range move.Comments {
			lw.write("{" + c.Text + "}")
		}
	}
	if move.EPD != "" {
		lw.write("{ \"" + move.EPD + "\" }")
	}
	if move.HasEvaluation {
		lw.write(fmt.Sprintf("{%+.2f}", move.Evaluation))
	}
}

// startingCount derives the first move number and side to move from a
// FEN tag without a full board parse.
func startingCount(game *chess.Game) (int, bool) {
	fen := game.FEN()
	if fen == "" {
		return 1, true
	}
	fields := strings.Fields(fen)
	moveNum, whiteToMove := 1, true
	if len(fields) > 1 && fields[1] == "b" {
		whiteToMove = false
	}
	if len(fields) > 5 {
		if _, err := fmt.Sscanf(fields[5], "%d", &moveNum); err != nil || moveNum < 1 {
			moveNum = 1
		}
	}
	return moveNum, whiteToMove
}

// gameResult prefers the terminating result seen in the movetext over
// the Result tag.
func gameResult(game *chess.Game) string {
	if last := game.LastMove(); last != nil && last.TerminatingResult != "" {
		return last.TerminatingResult
	}
	if r := game.Result(); r != "" {
		return r
	}
	return "*"
}
