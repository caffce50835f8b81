// Package processing drives the per-game work: replaying the moves,
// maintaining the hashes, consulting the matchers and annotating the
// game for output.
package processing

import (
	"fmt"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/config"
	"github.com/pgnsieve/pgnsieve/internal/eco"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
	"github.com/pgnsieve/pgnsieve/internal/matching"
)

// Replayer owns the run-level collaborators a game is evaluated
// against. Build one per run; it is safe for concurrent use when its
// collaborators are, which holds for all the read-only ones here.
type Replayer struct {
	cfg      *config.Config
	patterns *matching.PatternMatcher
	endings  *matching.EndingMatcher
	openings *eco.Classifier
	wanted   *hashing.PositionLog
	dups     *hashing.SharedDetector
	diag     engine.Diagnostic
}

// NewReplayer builds a replayer. Any collaborator may be nil to switch
// its concern off.
func NewReplayer(cfg *config.Config, patterns *matching.PatternMatcher,
	endings *matching.EndingMatcher, openings *eco.Classifier,
	wanted *hashing.PositionLog, diag engine.Diagnostic) *Replayer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Replayer{
		cfg:      cfg,
		patterns: patterns,
		endings:  endings,
		openings: openings,
		wanted:   wanted,
		diag:     diag,
	}
}

// UseDuplicateDetector routes every replayed game through a duplicate
// check. Replay runs concurrently across workers, so the detector is
// taken in its locked form.
func (r *Replayer) UseDuplicateDetector(d *hashing.SharedDetector) {
	r.dups = d
}

// Result is the outcome of replaying one game.
type Result struct {
	Game       *chess.Game
	FinalBoard *chess.Board

	// Verdicts for the caller's keep/drop decision.
	PatternMatched bool
	PatternLabel   string
	EndingMatched  bool
	EndingSpec     string
	PositionFound  bool
	Duplicate      bool

	// Features noticed along the way.
	FiftyMoveRule  bool
	Repetition     bool
	Underpromotion bool
	InsufficientAt bool
}

// Replay replays a game's mainline from its starting position,
// maintaining the weak and cumulative hashes, consulting the matchers
// at the initial and every later position and filling the per-move
// annotation fields the writer needs. A move that cannot be applied
// invalidates the game from that ply; with KeepBroken set the
// unplayable tail is preserved as a comment instead of discarding the
// game.
func (r *Replayer) Replay(game *chess.Game) (*Result, error) {
	board := engine.NewBoardForGame(game, r.diag)
	res := &Result{Game: game}
	scan := r.startScan(board, res)
	r.testPosition(board, res)

	seen := map[chess.HashCode]int{board.WeakHash: 1}
	var cumulative chess.HashCode
	ply := 0
	chess960 := r.cfg.Chess960 ||
		engine.IsChess960Game(game) || engine.IsChess960Position(board)

	for move := game.Moves; move != nil; move = move.Next {
		if chess960 {
			engine.RewriteCastlingTarget(board, move)
		}
		before := board.Copy()
		if err := engine.Apply(board, move); err != nil {
			game.MovesChecked = true
			game.MovesOK = false
			game.ErrorPly = ply + 1
			r.reportFailure(game, move, ply+1, err)
			if r.cfg.KeepBroken {
				salvageTail(game, move)
				break
			}
			return res, &errors.GameError{
				Err:      err,
				White:    game.Tag(chess.TagWhite),
				Black:    game.Tag(chess.TagBlack),
				Ply:      ply + 1,
				MoveText: move.Text,
			}
		}
		ply++
		cumulative += board.WeakHash

		// The lexer consumed any check markers the source carried, so
		// the text is rebuilt from the resolved move and the status
		// the application just established.
		move.Text = engine.RenderSAN(before, move)

		if ply == r.cfg.FuzzyDepth {
			game.FuzzyHash = board.WeakHash
			game.FuzzyHashKnown = true
		}

		r.annotate(board, move)
		r.testPosition(board, res)
		if scan != nil {
			scan.Advance(move, board.ToMove.Opposite())
			if e, ok := scan.Test(); ok && !res.EndingMatched {
				res.EndingMatched = true
				res.EndingSpec = e.Raw
			}
		}

		seen[board.WeakHash]++
		if seen[board.WeakHash] >= 3 {
			res.Repetition = true
		}
		if board.HalfmoveClock >= 100 {
			res.FiftyMoveRule = true
		}
		if move.Promoted != chess.Empty && move.Promoted != chess.Queen {
			res.Underpromotion = true
		}
	}

	if game.ErrorPly == 0 {
		game.MovesChecked = true
		game.MovesOK = true
	}
	game.FinalHash = board.WeakHash
	game.CumulativeHash = cumulative
	res.FinalBoard = board
	res.InsufficientAt = engine.HasInsufficientMaterial(board)
	if r.dups != nil {
		res.Duplicate = r.dups.CheckAndAdd(game)
	}

	if r.cfg.SearchVariations && !res.PatternMatched {
		r.searchVariations(game, res)
	}
	r.applyVerdictTags(res)
	if r.openings != nil && r.cfg.AddECO {
		r.openings.AddTags(game)
	}
	return res, nil
}

// startScan begins an ending scan and takes its verdict on the
// starting position.
func (r *Replayer) startScan(board *chess.Board, res *Result) *matching.EndingScan {
	if r.endings == nil || r.endings.EndingCount() == 0 {
		return nil
	}
	scan := r.endings.NewScan(board)
	if e, ok := scan.Test(); ok {
		res.EndingMatched = true
		res.EndingSpec = e.Raw
	}
	return scan
}

// testPosition runs the position-keyed checks: the pattern tree and
// the wanted-position log.
func (r *Replayer) testPosition(board *chess.Board, res *Result) {
	if r.patterns != nil && !res.PatternMatched {
		if label, ok := r.patterns.Match(board); ok {
			res.PatternMatched = true
			res.PatternLabel = label
		}
	}
	if r.wanted != nil && !res.PositionFound {
		if r.wanted.Contains(board.WeakHash) {
			res.PositionFound = true
		}
	}
}

// annotate fills the post-move snapshot fields the writer may emit.
func (r *Replayer) annotate(board *chess.Board, move *chess.Move) {
	if r.cfg.AddEPD {
		move.EPD = engine.BoardToEPD(board)
	}
	if r.cfg.AddFENSuffix {
		move.FENSuffix = engine.FENSuffix(board)
	}
	if r.cfg.AddZobrist {
		move.Zobrist = hashing.PolyglotHash(board)
	}
	if r.cfg.Evaluate {
		move.Evaluation = engine.Evaluate(board)
		move.HasEvaluation = true
	}
}

// applyVerdictTags records match outcomes as tags so the writer and
// later runs can see them.
func (r *Replayer) applyVerdictTags(res *Result) {
	if res.PatternMatched && res.PatternLabel != "" {
		res.Game.SetTag(chess.TagMatchLabel, res.PatternLabel)
	}
	if res.EndingMatched {
		res.Game.SetTag(chess.TagMaterialMatch, res.EndingSpec)
	}
}

// reportFailure logs a replay failure with enough context to find the
// game again.
func (r *Replayer) reportFailure(game *chess.Game, move *chess.Move, ply int, err error) {
	if r.diag == nil {
		return
	}
	r.diag(fmt.Sprintf("%s - %s (line %d): ply %d (%s): %v",
		game.Tag(chess.TagWhite), game.Tag(chess.TagBlack),
		game.StartLine, ply, move.Text, err))
}

// salvageTail detaches the moves from the failing one onward and
// preserves their text as a comment on the last good move, or as a
// game prefix comment when the first move already failed.
func salvageTail(game *chess.Game, bad *chess.Move) {
	var texts []string
	for m := bad; m != nil; m = m.Next {
		texts = append(texts, m.Text)
	}
	tail := strings.Join(texts, " ")

	if bad.Prev != nil {
		bad.Prev.Next = nil
		bad.Prev.AppendComment(tail)
	} else {
		game.Moves = nil
		game.AppendPrefixComment(tail)
	}
	bad.Prev = nil
}

// searchVariations looks for pattern matches inside variations,
// exploring each alternative line on an independent board copy so the
// mainline replay is untouched.
func (r *Replayer) searchVariations(game *chess.Game, res *Result) {
	board := engine.NewBoardForGame(game, nil)
	r.walkVariations(board, game.Moves, res)
}

// walkVariations replays moves on the given board, descending into
// each variation on a copy. The first pattern match anywhere wins.
func (r *Replayer) walkVariations(board *chess.Board, moves *chess.Move, res *Result) {
	for move := moves; move != nil && !res.PatternMatched; move = move.Next {
		for _, v := range move.Variations {
			if v == nil || v.Moves == nil {
				continue
			}
			branch := board.Copy()
			r.walkVariations(branch, cloneLine(v.Moves), res)
			if res.PatternMatched {
				return
			}
		}
		if err := engine.Apply(board, move); err != nil {
			return
		}
		r.testPosition(board, res)
	}
}

// cloneLine copies a move list so variation replay cannot disturb the
// structured fields the mainline pass filled in.
func cloneLine(moves *chess.Move) *chess.Move {
	var head, tail *chess.Move
	for m := moves; m != nil; m = m.Next {
		c := chess.NewMove()
		c.Text = m.Text
		c.Class = m.Class
		c.From = m.From
		c.To = m.To
		c.Piece = m.Piece
		c.Promoted = m.Promoted
		c.Variations = m.Variations
		if head == nil {
			head = c
		} else {
			tail.Next = c
			c.Prev = tail
		}
		tail = c
	}
	return head
}
