package chess

// Standard and tool-specific tag names. The seven-tag roster comes
// first; the trailing group is written by the matching pass.
const (
	TagEvent  = "Event"
	TagSite   = "Site"
	TagDate   = "Date"
	TagRound  = "Round"
	TagWhite  = "White"
	TagBlack  = "Black"
	TagResult = "Result"

	TagWhiteElo  = "WhiteElo"
	TagBlackElo  = "BlackElo"
	TagECO       = "ECO"
	TagOpening   = "Opening"
	TagVariation = "Variation"
	TagSubVar    = "SubVariation"
	TagFEN       = "FEN"
	TagSetup     = "SetUp"
	TagVariant   = "Variant"
	TagPlyCount  = "PlyCount"
	TagHashCode  = "HashCode"

	// Written when a game matches a labelled FEN pattern or an ending
	// specification.
	TagMatchLabel    = "MatchLabel"
	TagMaterialMatch = "MaterialMatch"
)

// SevenTagRoster lists the mandatory PGN tags in their required output
// order.
var SevenTagRoster = []string{
	TagEvent, TagSite, TagDate, TagRound, TagWhite, TagBlack, TagResult,
}

// IsRosterTag reports whether the tag belongs to the seven-tag roster.
func IsRosterTag(name string) bool {
	for _, t := range SevenTagRoster {
		if t == name {
			return true
		}
	}
	return false
}
