package parser

import "github.com/pgnsieve/pgnsieve/internal/chess"

// tokenKind classifies one lexical element of PGN input.
type tokenKind int

const (
	tokNone tokenKind = iota
	tokEOF
	tokTagName
	tokString
	tokComment
	tokNAG
	tokMoveNumber
	tokMove
	tokCheck
	tokVariationStart
	tokVariationEnd
	tokResult
)

// token is one lexical element with its payload.
type token struct {
	kind tokenKind
	text string
	move *chess.Move
	line uint
}
