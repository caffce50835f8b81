// pgnsieve filters PGN game collections by position patterns,
// material endings, tag criteria and duplicate detection.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/config"
	"github.com/pgnsieve/pgnsieve/internal/eco"
	"github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
	"github.com/pgnsieve/pgnsieve/internal/matching"
	"github.com/pgnsieve/pgnsieve/internal/output"
	"github.com/pgnsieve/pgnsieve/internal/parser"
	"github.com/pgnsieve/pgnsieve/internal/processing"
	"github.com/pgnsieve/pgnsieve/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Parse()
	if *version {
		fmt.Printf("pgnsieve version %s\n", programVersion)
		return
	}

	cfg := config.NewConfig()
	applyFlags(cfg)
	diag := func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	run, err := newRun(cfg, diag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer run.close()

	inputs := flag.Args()
	if len(inputs) == 0 {
		if err := run.processStream(os.Stdin, "<stdin>"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	for _, path := range inputs {
		if err := run.processFile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	run.reportCounts()
}

// run ties the per-run collaborators together.
type run struct {
	cfg          *config.Config
	diag         func(msg string)
	replayer     *processing.Replayer
	tags         *matching.TagFilter
	haveMatchers bool

	out       io.WriteCloser
	writer    *output.PGNWriter
	dupOut    io.WriteCloser
	dupWriter *output.PGNWriter
	report    *output.ParquetReporter

	games    int
	matched  int
	dupCount int
}

func newRun(cfg *config.Config, diag func(msg string)) (*run, error) {
	r := &run{cfg: cfg, diag: diag}

	patterns := matching.NewPatternMatcher()
	if err := loadPatterns(patterns, cfg.PatternFile, *patternInline); err != nil {
		return nil, err
	}
	endings := matching.NewEndingMatcher(diag)
	if err := loadEndings(endings, cfg.EndingFile, *endingInline); err != nil {
		return nil, err
	}
	r.tags = matching.NewTagFilter()
	r.tags.SetSoundex(cfg.UseSoundex)
	r.tags.SetAnyOf(cfg.MatchAnyCriteria)
	if err := loadTagCriteria(r.tags, cfg.TagFile, *playerFilter); err != nil {
		return nil, err
	}

	var wanted *hashing.PositionLog
	if *hashValues != "" {
		wanted = hashing.NewPositionLog()
		for _, hex := range strings.Split(*hashValues, ",") {
			if err := wanted.AddHexValue(strings.TrimSpace(hex)); err != nil {
				return nil, err
			}
		}
	}

	var openings *eco.Classifier
	if cfg.ECOFile != "" {
		openings = eco.NewClassifier()
		if err := openings.LoadFile(cfg.ECOFile); err != nil {
			return nil, err
		}
	}

	r.haveMatchers = patterns.PatternCount() > 0 || endings.EndingCount() > 0 || wanted != nil
	r.replayer = processing.NewReplayer(cfg, patterns, endings, openings, wanted, r.diag)
	if cfg.SuppressDuplicates {
		r.replayer.UseDuplicateDetector(
			hashing.NewSharedDetector(hashing.NewDuplicateDetector(cfg.FuzzyDepth > 0)))
	}

	if err := r.openOutputs(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *run) openOutputs() error {
	r.out = os.Stdout
	if r.cfg.OutputPath != "" {
		f, err := os.Create(r.cfg.OutputPath)
		if err != nil {
			return err
		}
		r.out = f
	}
	r.writer = output.NewPGNWriter(r.out, r.cfg)

	if r.cfg.DuplicatePath != "" {
		f, err := os.Create(r.cfg.DuplicatePath)
		if err != nil {
			return err
		}
		r.dupOut = f
		r.dupWriter = output.NewPGNWriter(f, r.cfg)
	}
	if r.cfg.ParquetPath != "" {
		rep, err := output.NewParquetReporter(r.cfg.ParquetPath)
		if err != nil {
			return err
		}
		r.report = rep
	}
	return nil
}

func (r *run) close() {
	if r.report != nil {
		if err := r.report.Close(); err != nil {
			r.diag(fmt.Sprintf("closing match report: %v", err))
		}
	}
	if r.dupOut != nil {
		r.dupOut.Close()
	}
	if r.out != nil && r.out != os.Stdout {
		r.out.Close()
	}
}

func (r *run) processFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.processStream(f, path)
}

// processStream replays every game of one input across the worker
// pool, then deals with the outcomes in input order so duplicate
// detection and output stay deterministic.
func (r *run) processStream(src io.Reader, name string) error {
	in, err := parser.NewDecodingReader(src, r.cfg.InputEncoding)
	if err != nil {
		return err
	}
	p := parser.NewParser(in, parser.WithDiagnostics(func(msg string) {
		r.diag(name + ": " + msg)
	}))

	pool := worker.NewPool(r.replayer.Replay, worker.WithWorkers(r.cfg.Workers))
	pool.Start(context.Background())

	go func() {
		seq := 0
		for {
			game, err := p.NextGame()
			if err == io.EOF {
				break
			}
			if err != nil {
				r.diag(name + ": " + err.Error())
				break
			}
			pool.Submit(worker.Job{Seq: seq, Game: game})
			seq++
		}
		pool.Close()
	}()

	pending := make(map[int]worker.Outcome)
	next := 0
	for outcome := range pool.Outcomes() {
		pending[outcome.Seq] = outcome
		for {
			o, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			r.handleOutcome(o)
		}
	}
	return nil
}

// handleOutcome applies the keep/drop decision to one replayed game.
func (r *run) handleOutcome(o worker.Outcome) {
	r.games++
	if o.Err != nil {
		r.diag(o.Err.Error())
		return
	}
	res := o.Result
	game := res.Game

	if res.Duplicate {
		r.dupCount++
		if r.dupWriter != nil {
			r.dupWriter.WriteGame(game)
		}
		return
	}

	keep := r.selects(res)
	if *negateMatch {
		keep = !keep
	}
	if !keep {
		return
	}
	r.matched++
	if r.report != nil {
		if err := r.report.Report(res); err != nil {
			r.diag(fmt.Sprintf("match report: %v", err))
		}
	}
	r.writer.WriteGame(game)
}

// selects combines the replay verdicts with the tag and feature
// filters.
func (r *run) selects(res *processing.Result) bool {
	if r.haveMatchers &&
		!res.PatternMatched && !res.EndingMatched && !res.PositionFound {
		return false
	}
	if !r.tags.Match(res.Game) {
		return false
	}
	cfg := r.cfg
	if cfg.OnlyFiftyMoveRule && !res.FiftyMoveRule {
		return false
	}
	if cfg.OnlyRepetition && !res.Repetition {
		return false
	}
	if cfg.OnlyUnderpromotion && !res.Underpromotion {
		return false
	}
	if cfg.OnlyCheckmate {
		last := res.Game.LastMove()
		if last == nil || last.CheckStatus != chess.Checkmate {
			return false
		}
	}
	return true
}

func (r *run) reportCounts() {
	r.diag(fmt.Sprintf("%d game(s) read, %d matched, %d duplicate(s)",
		r.games, r.matched, r.dupCount))
}

// loadPatterns registers patterns from a file of "pattern [label]"
// lines plus an optional inline pattern.
func loadPatterns(pm *matching.PatternMatcher, path, inline string) error {
	if inline != "" {
		if err := pm.Add(inline, "", true); err != nil {
			return err
		}
	}
	if path == "" {
		return nil
	}
	return eachLine(path, func(line string) error {
		fields := strings.Fields(line)
		label := ""
		if len(fields) > 1 {
			label = fields[1]
		}
		return pm.Add(fields[0], label, true)
	})
}

// loadEndings registers ending specifications from a file plus an
// optional inline one.
func loadEndings(em *matching.EndingMatcher, path, inline string) error {
	if inline != "" {
		if err := em.Add(inline); err != nil {
			return err
		}
	}
	if path == "" {
		return nil
	}
	return eachLine(path, em.Add)
}

// loadTagCriteria registers criteria from a tag file plus the player
// shorthand flag.
func loadTagCriteria(tf *matching.TagFilter, path, player string) error {
	if player != "" {
		tf.AddPlayer(player)
	}
	if path == "" {
		return nil
	}
	return eachLine(path, tf.ParseLine)
}

// eachLine calls fn for every non-blank, non-comment line of a file.
// A failing line comes back with its file position attached.
func eachLine(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	lineNum := 0
	for scan.Scan() {
		lineNum++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return errors.Wrap(&errors.ParseError{Err: err, Line: lineNum, Text: line}, path)
		}
	}
	return scan.Err()
}
