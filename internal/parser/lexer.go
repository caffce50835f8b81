// Package parser turns PGN text into Game structures: tag pairs,
// a doubly linked mainline and nested variations, with moves decoded
// into their structured form but not yet resolved against a board.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// charClass drives the lexer's first-byte dispatch.
type charClass int

const (
	clBad charClass = iota
	clSpace
	clTagOpen
	clTagClose
	clQuote
	clBraceOpen
	clBraceClose
	clDollar
	clBang
	clCheck
	clDot
	clParenOpen
	clParenClose
	clPercent
	clBackslash
	clStar
	clDash
	clDigit
	clAlpha
)

var classTable [256]charClass

// moveChar marks bytes that can appear inside a movetext token.
var moveChar [256]bool

func init() {
	for _, c := range []byte{' ', '\t', '\r', '\n'} {
		classTable[c] = clSpace
	}
	classTable['['] = clTagOpen
	classTable[']'] = clTagClose
	classTable['"'] = clQuote
	classTable['{'] = clBraceOpen
	classTable['}'] = clBraceClose
	classTable['$'] = clDollar
	classTable['!'] = clBang
	classTable['?'] = clBang
	classTable['+'] = clCheck
	classTable['#'] = clCheck
	classTable['.'] = clDot
	classTable['('] = clParenOpen
	classTable[')'] = clParenClose
	classTable['%'] = clPercent
	classTable['\\'] = clBackslash
	classTable['*'] = clStar
	classTable['-'] = clDash
	for c := byte('0'); c <= '9'; c++ {
		classTable[c] = clDigit
	}
	for c := byte('A'); c <= 'Z'; c++ {
		classTable[c] = clAlpha
		classTable[c+'a'-'A'] = clAlpha
	}
	classTable['_'] = clAlpha

	for c := byte('a'); c <= 'h'; c++ {
		moveChar[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChar[c] = true
	}
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B', 'k', 'q', 'r', 'n', 'b',
		'D', 'T', 'S', 'P', 'L', // Dutch/German piece letters
		'x', 'X', ':', '-', '=', 'O', 'o', '0', 'p', '.'} {
		moveChar[c] = true
	}
}

// lexer produces one token at a time from line-buffered PGN text.
type lexer struct {
	scan    *bufio.Reader
	line    string
	pos     int
	lineNum uint
	eof     bool
	diag    func(msg string)
}

func newLexer(r io.Reader, diag func(msg string)) *lexer {
	return &lexer{scan: bufio.NewReader(r), diag: diag}
}

func (l *lexer) report(format string, args ...interface{}) {
	if l.diag != nil {
		l.diag(fmt.Sprintf(format, args...))
	}
}

func (l *lexer) readLine() bool {
	line, err := l.scan.ReadString('\n')
	if len(line) == 0 && err != nil {
		l.eof = true
		return false
	}
	l.line = line
	l.pos = 0
	l.lineNum++
	return true
}

func (l *lexer) cur() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

func (l *lexer) advance() {
	if l.pos < len(l.line) {
		l.pos++
	}
}

// next returns the next meaningful token, silently consuming
// whitespace, dots and escape lines.
func (l *lexer) next() token {
	for {
		t := l.scanOne()
		if t.kind != tokNone {
			t.line = l.lineNum
			return t
		}
		if l.eof {
			return token{kind: tokEOF, line: l.lineNum}
		}
	}
}

func (l *lexer) scanOne() token {
	if l.pos >= len(l.line) {
		if !l.readLine() {
			return token{kind: tokEOF}
		}
		return token{kind: tokNone}
	}

	start := l.pos
	c := l.cur()
	l.advance()

	switch classTable[c] {
	case clSpace:
		for classTable[l.cur()] == clSpace && l.pos < len(l.line) {
			l.advance()
		}
		return token{kind: tokNone}

	case clTagOpen:
		return l.scanTagName()

	case clTagClose:
		return token{kind: tokNone}

	case clQuote:
		return l.scanString()

	case clBraceOpen:
		return l.scanComment()

	case clBraceClose:
		l.report("unmatched '}' on line %d", l.lineNum)
		return token{kind: tokNone}

	case clDollar:
		digits := l.pos
		for l.cur() >= '0' && l.cur() <= '9' {
			l.advance()
		}
		return token{kind: tokNAG, text: "$" + l.line[digits:l.pos]}

	case clBang:
		for classTable[l.cur()] == clBang {
			l.advance()
		}
		return token{kind: tokNAG, text: glyphNAG(l.line[start:l.pos])}

	case clCheck:
		for classTable[l.cur()] == clCheck {
			l.advance()
		}
		return token{kind: tokCheck}

	case clDot:
		for classTable[l.cur()] == clDot {
			l.advance()
		}
		return token{kind: tokNone}

	case clParenOpen:
		return token{kind: tokVariationStart}

	case clParenClose:
		return token{kind: tokVariationEnd}

	case clPercent:
		// An escape line; ignored whole.
		l.pos = len(l.line)
		return token{kind: tokNone}

	case clBackslash:
		l.advance()
		return token{kind: tokNone}

	case clStar:
		return token{kind: tokResult, text: "*"}

	case clDash:
		if l.cur() == '-' {
			l.advance()
			return nullMoveToken()
		}
		l.report("stray '-' on line %d", l.lineNum)
		return token{kind: tokNone}

	case clDigit:
		return l.scanNumeric(c)

	case clAlpha:
		return l.scanMove(c, start)

	default:
		l.report("unexpected character %q (0x%x) on line %d", string(c), c, l.lineNum)
		for l.pos < len(l.line) && classTable[l.cur()] == clBad {
			l.advance()
		}
		return token{kind: tokNone}
	}
}

// scanTagName reads the symbol following '['.
func (l *lexer) scanTagName() token {
	for classTable[l.cur()] == clSpace && l.pos < len(l.line) {
		l.advance()
	}
	start := l.pos
	for {
		c := l.cur()
		if classTable[c] == clAlpha || classTable[c] == clDigit {
			l.advance()
		} else {
			break
		}
	}
	if l.pos == start {
		return token{kind: tokNone}
	}
	return token{kind: tokTagName, text: l.line[start:l.pos]}
}

// scanString reads a quoted tag value, honouring backslash escapes.
// PGN strings do not span lines; a missing closing quote takes the
// rest of the line.
func (l *lexer) scanString() token {
	var sb strings.Builder
	escaped := false
	for l.pos < len(l.line) {
		c := l.cur()
		l.advance()
		switch {
		case escaped:
			sb.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return token{kind: tokString, text: sb.String()}
		default:
			sb.WriteByte(c)
		}
	}
	l.report("missing closing quote on line %d", l.lineNum)
	return token{kind: tokString, text: strings.TrimRight(sb.String(), "\r\n")}
}

// scanComment reads a brace comment, which may span lines.
func (l *lexer) scanComment() token {
	var sb strings.Builder
	for {
		for l.pos < len(l.line) {
			c := l.cur()
			l.advance()
			if c == '}' {
				return token{kind: tokComment, text: strings.TrimSpace(sb.String())}
			}
			sb.WriteByte(c)
		}
		if !l.readLine() {
			l.report("unterminated comment at end of input")
			return token{kind: tokComment, text: strings.TrimSpace(sb.String())}
		}
	}
}

// scanMove gathers a movetext token starting with a letter.
func (l *lexer) scanMove(c byte, start int) token {
	// Z0 is an alternative null-move spelling.
	if c == 'Z' && l.cur() == '0' {
		l.advance()
		return nullMoveToken()
	}
	if !moveChar[c] {
		l.report("unexpected character %q on line %d", string(c), l.lineNum)
		return token{kind: tokNone}
	}
	for moveChar[l.cur()] && l.pos < len(l.line) {
		l.advance()
	}
	text := strings.TrimRight(l.line[start:l.pos], ".")

	if !plausibleMove(text) {
		l.report("unrecognised move text %q on line %d", text, l.lineNum)
		return token{kind: tokNone}
	}
	return token{kind: tokMove, move: DecodeMove(text)}
}

// scanNumeric distinguishes results and zero-spelled castling from
// move numbers.
func (l *lexer) scanNumeric(first byte) token {
	rest := l.line[l.pos:]
	switch first {
	case '0':
		switch {
		case strings.HasPrefix(rest, "-1"):
			l.pos += 2
			return token{kind: tokResult, text: "0-1"}
		case strings.HasPrefix(rest, "-0-0"):
			l.pos += 4
			return token{kind: tokMove, move: DecodeMove("O-O-O")}
		case strings.HasPrefix(rest, "-0"):
			l.pos += 2
			return token{kind: tokMove, move: DecodeMove("O-O")}
		}
	case '1':
		switch {
		case strings.HasPrefix(rest, "-0"):
			l.pos += 2
			return token{kind: tokResult, text: "1-0"}
		case strings.HasPrefix(rest, "/2"):
			l.pos += 2
			if strings.HasPrefix(l.line[l.pos:], "-1/2") {
				l.pos += 4
			}
			return token{kind: tokResult, text: "1/2-1/2"}
		}
	}

	for l.cur() >= '0' && l.cur() <= '9' {
		l.advance()
	}
	for l.cur() == '.' {
		l.advance()
	}
	return token{kind: tokMoveNumber}
}

func nullMoveToken() token {
	return token{kind: tokMove, move: DecodeMove("--")}
}

// plausibleMove filters out symbols that cannot be moves before the
// decoder sees them.
func plausibleMove(text string) bool {
	if len(text) < 2 {
		return false
	}
	switch strings.ToUpper(strings.ReplaceAll(text, "0", "O")) {
	case "O-O", "O-O-O", "OO", "OOO":
		return true
	}
	hasFile, hasRank := false, false
	for i := 0; i < len(text); i++ {
		if text[i] >= 'a' && text[i] <= 'h' {
			hasFile = true
		}
		if text[i] >= '1' && text[i] <= '8' {
			hasRank = true
		}
	}
	return hasFile && hasRank
}

// glyphNAG converts suffix annotation glyphs to their numeric form.
func glyphNAG(text string) string {
	switch text {
	case "!":
		return "$1"
	case "?":
		return "$2"
	case "!!":
		return "$3"
	case "??":
		return "$4"
	case "!?":
		return "$5"
	case "?!":
		return "$6"
	}
	return "$0"
}
