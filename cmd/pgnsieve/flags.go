// flags.go - command-line flag definitions
package main

import (
	"flag"

	"github.com/pgnsieve/pgnsieve/internal/config"
)

var (
	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	sevenTagOnly = flag.Bool("7", false, "Output only the seven tag roster")
	noTags       = flag.Bool("notags", false, "Don't output any tags")
	lineLength   = flag.Int("w", 80, "Maximum line length")
	parquetFile  = flag.String("report", "", "Write a Parquet match report to this file")

	// Content options
	noComments   = flag.Bool("C", false, "Don't output comments")
	noNAGs       = flag.Bool("N", false, "Don't output NAGs")
	noVariations = flag.Bool("V", false, "Don't output variations")
	noResults    = flag.Bool("noresults", false, "Don't output results")

	// Annotation options
	addEPD     = flag.Bool("epd", false, "Annotate each move with the position's EPD")
	addZobrist = flag.Bool("zobrist", false, "Record the polyglot hash after each move")
	evaluate   = flag.Bool("evaluate", false, "Annotate moves with a material+mobility score")
	addECOTags = flag.Bool("addeco", false, "Classify openings and add ECO tags")

	// Duplicate detection
	suppressDuplicates = flag.Bool("D", false, "Suppress duplicate games")
	duplicateFile      = flag.String("d", "", "Output duplicates to this file")
	fuzzyDepth         = flag.Int("fuzzy", 0, "Compare positions at this ply for duplicates")

	// Matching
	ecoFile       = flag.String("e", "", "Openings database in PGN form")
	patternFile   = flag.String("patterns", "", "File of FEN patterns, one per line")
	patternInline = flag.String("pattern", "", "Single FEN pattern to match")
	endingFile    = flag.String("endings", "", "File of ending specifications, one per line")
	endingInline  = flag.String("ending", "", "Single ending specification to match")
	tagFile       = flag.String("t", "", "Tag criteria file for filtering")
	playerFilter  = flag.String("p", "", "Filter by player name (either colour)")
	useSoundex    = flag.Bool("S", false, "Use Soundex for player name matching")
	anyMatch      = flag.Bool("anymatch", false, "Accept a game when any tag criterion holds, not all")
	hashValues    = flag.String("hash", "", "Comma-separated hex hashes of positions to find")
	negateMatch   = flag.Bool("n", false, "Output games that DON'T match")

	// Game feature filters
	fiftyMoveFilter      = flag.Bool("fifty", false, "Only games reaching the fifty-move rule")
	repetitionFilter     = flag.Bool("repetition", false, "Only games with threefold repetition")
	underpromotionFilter = flag.Bool("underpromotion", false, "Only games with an underpromotion")
	checkmateFilter      = flag.Bool("checkmate", false, "Only games ending in checkmate")

	// Replay behaviour
	keepBroken  = flag.Bool("keepbroken", false, "Keep games whose replay fails, tail as a comment")
	chess960    = flag.Bool("chess960", false, "Interpret castling per Chess960 rules")
	inVariation = flag.Bool("searchvariations", false, "Also match patterns inside variations")
	encoding    = flag.String("encoding", "", "Input encoding: utf-8, latin-1 or windows-1252")

	// Concurrency
	workers = flag.Int("workers", 0, "Worker goroutines (0 = one per CPU)")

	version = flag.Bool("version", false, "Print version and exit")
)

// applyFlags copies the parsed flags into the run configuration.
func applyFlags(cfg *config.Config) {
	cfg.OutputPath = *outputFile
	cfg.DuplicatePath = *duplicateFile
	cfg.ParquetPath = *parquetFile
	cfg.MaxLineLength = *lineLength
	if *sevenTagOnly {
		cfg.TagOutput = config.SevenTagRosterOnly
	}
	if *noTags {
		cfg.TagOutput = config.NoTags
	}
	cfg.KeepComments = !*noComments
	cfg.KeepNAGs = !*noNAGs
	cfg.KeepVariations = !*noVariations
	cfg.KeepResults = !*noResults

	cfg.AddEPD = *addEPD
	cfg.AddZobrist = *addZobrist
	cfg.Evaluate = *evaluate
	cfg.AddECO = *addECOTags

	cfg.SuppressDuplicates = *suppressDuplicates || *duplicateFile != ""
	cfg.FuzzyDepth = *fuzzyDepth

	cfg.ECOFile = *ecoFile
	cfg.PatternFile = *patternFile
	cfg.EndingFile = *endingFile
	cfg.TagFile = *tagFile
	cfg.UseSoundex = *useSoundex
	cfg.MatchAnyCriteria = *anyMatch

	cfg.OnlyFiftyMoveRule = *fiftyMoveFilter
	cfg.OnlyRepetition = *repetitionFilter
	cfg.OnlyUnderpromotion = *underpromotionFilter
	cfg.OnlyCheckmate = *checkmateFilter

	cfg.KeepBroken = *keepBroken
	cfg.Chess960 = *chess960
	cfg.SearchVariations = *inVariation
	cfg.InputEncoding = *encoding
	cfg.Workers = *workers
}
