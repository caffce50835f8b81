package chess

// File is a board file as its algebraic character, 'a' to 'h'.
type File byte

// Rank is a board rank as its algebraic character, '1' to '8'.
type Rank byte

// Board geometry. The playing area is embedded in a grid bordered by a
// hedge of Off cells wide enough that a knight step from any playable
// square lands inside the grid, so direction-walking code needs no
// bounds checks.
const (
	BoardSize = 8
	HedgeSize = 2 // maximum knight step component
	GridSize  = HedgeSize + BoardSize + HedgeSize

	FirstFile File = 'a'
	LastFile  File = 'h'
	FirstRank Rank = '1'
	LastRank  Rank = '8'
)

// FileIndex converts a file character to a grid index. Out-of-range
// input folds to 0, which lies in the hedge; callers must not treat the
// result as a playable square without validating the input.
func FileIndex(f File) int {
	if f >= FirstFile && f <= LastFile {
		return int(f-FirstFile) + HedgeSize
	}
	return 0
}

// RankIndex converts a rank character to a grid index, folding
// out-of-range input to 0 like FileIndex.
func RankIndex(r Rank) int {
	if r >= FirstRank && r <= LastRank {
		return int(r-FirstRank) + HedgeSize
	}
	return 0
}

// IndexFile converts a grid index back to a file character.
func IndexFile(i int) File {
	return File(i - HedgeSize + int(FirstFile))
}

// IndexRank converts a grid index back to a rank character.
func IndexRank(i int) Rank {
	return Rank(i - HedgeSize + int(FirstRank))
}

// Square is an algebraic square reference. The zero value is "no
// square".
type Square struct {
	File File
	Rank Rank
}

// Sq builds a square from its file and rank characters.
func Sq(f File, r Rank) Square {
	return Square{File: f, Rank: r}
}

// IsSet reports whether the square names a real location.
func (s Square) IsSet() bool {
	return s.File != 0 && s.Rank != 0
}

// OnBoard reports whether the square lies on the playing area.
func (s Square) OnBoard() bool {
	return s.File >= FirstFile && s.File <= LastFile &&
		s.Rank >= FirstRank && s.Rank <= LastRank
}

// Offset returns the square df files and dr ranks away. The result may
// lie off the board; the hedge makes reading it safe.
func (s Square) Offset(df, dr int) Square {
	return Square{File: File(int(s.File) + df), Rank: Rank(int(s.Rank) + dr)}
}

func (s Square) String() string {
	if !s.IsSet() {
		return "-"
	}
	return string([]byte{byte(s.File), byte(s.Rank)})
}
