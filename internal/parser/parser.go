package parser

import (
	"io"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// Parser reads games one at a time from PGN input. It owns no global
// state; build one per input stream.
type Parser struct {
	lex      *lexer
	tok      token
	started  bool
	ravDepth int
	diag     func(msg string)
}

// Option adjusts parser behaviour.
type Option func(*Parser)

// WithDiagnostics routes grammar complaints to fn. Without it the
// parser recovers silently.
func WithDiagnostics(fn func(msg string)) Option {
	return func(p *Parser) { p.diag = fn }
}

// NewParser wraps a reader of PGN text.
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.lex = newLexer(r, p.diag)
	return p
}

func (p *Parser) report(msg string) {
	if p.diag != nil {
		p.diag(msg)
	}
}

func (p *Parser) next() {
	p.tok = p.lex.next()
}

// NextGame parses and returns the next game. It returns io.EOF when
// the input is exhausted.
func (p *Parser) NextGame() (*chess.Game, error) {
	if !p.started {
		p.next()
		p.started = true
	}
	p.skipToGame()

	game := chess.NewGame()
	game.StartLine = p.tok.line

	for _, c := range p.comments() {
		game.PrefixComments = append(game.PrefixComments, c)
	}
	p.tagSection(game)
	for _, c := range p.comments() {
		game.PrefixComments = append(game.PrefixComments, c)
	}
	for p.tok.kind == tokNAG {
		p.next()
	}

	game.Moves = p.moveList()
	trailing := p.comments()
	result := p.result()
	game.EndLine = p.tok.line

	if last := game.LastMove(); last != nil {
		last.Comments = append(last.Comments, trailing...)
		if result != "" {
			last.TerminatingResult = result
		}
	}
	if result != "" {
		if r := game.Result(); r == "" || r == "?" {
			game.SetTag(chess.TagResult, result)
		}
	}

	if game.Moves == nil && len(game.Tags) == 0 {
		if p.tok.kind == tokEOF {
			return nil, io.EOF
		}
		// A stray result with no game around it; try again.
		return p.NextGame()
	}
	return game, nil
}

// ParseAll reads every remaining game.
func (p *Parser) ParseAll() ([]*chess.Game, error) {
	var games []*chess.Game
	for {
		game, err := p.NextGame()
		if err == io.EOF {
			return games, nil
		}
		if err != nil {
			return games, err
		}
		games = append(games, game)
	}
}

// skipToGame discards tokens until something that can start a game.
func (p *Parser) skipToGame() {
	for {
		switch p.tok.kind {
		case tokEOF, tokTagName, tokMove, tokComment:
			return
		default:
			p.next()
		}
	}
}

// tagSection reads consecutive tag pairs.
func (p *Parser) tagSection(game *chess.Game) {
	for {
		switch p.tok.kind {
		case tokTagName:
			name := p.tok.text
			p.next()
			if p.tok.kind == tokString {
				game.SetTag(name, p.tok.text)
				p.next()
			} else {
				p.report("tag " + name + " has no value")
			}
		case tokString:
			p.report("tag value " + p.tok.text + " has no tag name")
			p.next()
		default:
			return
		}
	}
}

// moveList reads moves until something that cannot continue the line.
func (p *Parser) moveList() *chess.Move {
	var head, tail *chess.Move
	for {
		move := p.moveWithTrimmings()
		if move == nil {
			return head
		}
		if head == nil {
			head = move
		} else {
			tail.Next = move
			move.Prev = tail
		}
		tail = move
	}
}

// moveWithTrimmings reads one move plus its glyphs, variations and
// comments.
func (p *Parser) moveWithTrimmings() *chess.Move {
	for p.tok.kind == tokMoveNumber {
		p.next()
	}
	if p.tok.kind != tokMove {
		return nil
	}
	move := p.tok.move
	p.next()

	for p.tok.kind == tokCheck {
		p.next()
	}
	for p.tok.kind == tokNAG {
		move.AppendNAG(p.tok.text)
		p.next()
	}
	move.Comments = append(move.Comments, p.comments()...)
	for {
		v := p.variation()
		if v == nil {
			break
		}
		move.AppendVariation(v)
		move.Comments = append(move.Comments, p.comments()...)
	}
	return move
}

// variation reads one parenthesised line.
func (p *Parser) variation() *chess.Variation {
	if p.tok.kind != tokVariationStart {
		return nil
	}
	p.ravDepth++
	p.next()

	v := &chess.Variation{
		PrefixComments: p.comments(),
		Moves:          p.moveList(),
	}
	if v.Moves == nil {
		p.report("empty variation")
	}
	if result := p.result(); result != "" && v.Moves != nil {
		last := v.Moves
		for last.Next != nil {
			last = last.Next
		}
		last.TerminatingResult = result
	}

	if p.tok.kind == tokVariationEnd {
		p.ravDepth--
		p.next()
	} else {
		p.report("variation not closed")
	}
	v.SuffixComments = p.comments()
	return v
}

func (p *Parser) comments() []*chess.Comment {
	var out []*chess.Comment
	for p.tok.kind == tokComment {
		out = append(out, &chess.Comment{Text: p.tok.text})
		p.next()
	}
	return out
}

func (p *Parser) result() string {
	if p.tok.kind != tokResult {
		return ""
	}
	result := p.tok.text
	p.next()
	return result
}
