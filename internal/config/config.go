// Package config holds the per-run settings. A Config is built once
// from the command line, then passed by reference to the components
// that need it; nothing here is process-global.
package config

// TagOutputForm selects which tags the writer emits.
type TagOutputForm int

const (
	AllTags TagOutputForm = iota
	SevenTagRosterOnly
	NoTags
)

// Config collects every switch of one run. The zero value is not
// useful; build with NewConfig.
type Config struct {
	// Replay and annotation.
	Chess960     bool
	KeepBroken   bool
	AddEPD       bool
	AddFENSuffix bool
	AddZobrist   bool
	Evaluate     bool
	AddECO       bool

	// Matching.
	SearchVariations bool
	UseSoundex       bool
	MatchAnyCriteria bool

	// Duplicate handling. FuzzyDepth > 0 compares positions at that
	// ply instead of final positions.
	SuppressDuplicates bool
	FuzzyDepth         int

	// Selection by game features.
	OnlyCheckmate      bool
	OnlyFiftyMoveRule  bool
	OnlyRepetition     bool
	OnlyUnderpromotion bool

	// Output shaping.
	TagOutput           TagOutputForm
	KeepComments        bool
	KeepNAGs            bool
	KeepVariations      bool
	KeepMoveNumbers     bool
	KeepResults         bool
	MaxLineLength       int
	SuppressRedundantEP bool

	// Input handling.
	InputEncoding string

	// Files named on the command line.
	ECOFile       string
	PatternFile   string
	EndingFile    string
	TagFile       string
	OutputPath    string
	DuplicatePath string
	ParquetPath   string

	// Worker pool width; 0 means one worker per CPU.
	Workers int
}

// NewConfig returns a Config with the defaults of a plain run: keep
// everything, SAN output, no matching switched on.
func NewConfig() *Config {
	return &Config{
		TagOutput:       AllTags,
		KeepComments:    true,
		KeepNAGs:        true,
		KeepVariations:  true,
		KeepMoveNumbers: true,
		KeepResults:     true,
		MaxLineLength:   80,
	}
}
