package parser

import (
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// DecodeMove parses one movetext token into a structured move. The
// token is classified and any origin hints it carries are recorded as
// a partial From square; resolving the full origin needs the board and
// is the engine's job. Unreadable tokens come back with UnknownMove
// rather than an error so the caller can report them in game context.
func DecodeMove(text string) *chess.Move {
	move := chess.NewMove()
	move.Text = text

	d := &moveDecoder{text: text}
	d.run(move)
	if !d.ok {
		move.Class = chess.UnknownMove
	}
	return move
}

// moveDecoder steps through a movetext token byte by byte.
type moveDecoder struct {
	text string
	pos  int
	ok   bool
}

func (d *moveDecoder) cur() byte {
	if d.pos >= len(d.text) {
		return 0
	}
	return d.text[d.pos]
}

func (d *moveDecoder) next() {
	if d.pos < len(d.text) {
		d.pos++
	}
}

func (d *moveDecoder) rest() string {
	if d.pos >= len(d.text) {
		return ""
	}
	return d.text[d.pos:]
}

func isFileChar(c byte) bool {
	return c >= byte(chess.FirstFile) && c <= byte(chess.LastFile)
}

func isRankChar(c byte) bool {
	return c >= byte(chess.FirstRank) && c <= byte(chess.LastRank)
}

// isSeparator accepts the capture and move separators seen in the
// wild: x, X, the colon and the long-algebraic hyphen.
func isSeparator(c byte) bool {
	return c == 'x' || c == 'X' || c == ':' || c == '-'
}

func isCastleChar(c byte) bool {
	return c == 'O' || c == 'o' || c == '0'
}

// pieceLetter maps an uppercase SAN letter to its piece type, Empty
// for anything else. The Dutch/German letters are accepted alongside
// the English ones; lowercase letters are left alone since b is a
// file, not a bishop.
func pieceLetter(c byte) chess.Piece {
	switch c {
	case 'K':
		return chess.King
	case 'Q', 'D': // D = dame
		return chess.Queen
	case 'R', 'T': // T = toren/Turm
		return chess.Rook
	case 'B', 'L': // L = loper/Laeufer
		return chess.Bishop
	case 'N', 'S', 'P': // S = Springer, P = paard
		return chess.Knight
	}
	return chess.Empty
}

func (d *moveDecoder) run(move *chess.Move) {
	d.ok = true
	switch {
	case isFileChar(d.cur()):
		d.pawnMove(move)
	case pieceLetter(d.cur()) != chess.Empty:
		d.pieceMove(move)
	case isCastleChar(d.cur()):
		d.castle(move)
	case d.text == chess.NullMoveText:
		move.Class = chess.NullMove
		return
	default:
		d.ok = false
		return
	}
	if !d.ok {
		return
	}
	d.suffixes(move)
}

// pawnMove reads e4, ed, exd5, e2e4, e8=Q and their variants.
func (d *moveDecoder) pawnMove(move *chess.Move) {
	move.Class = chess.PawnMove
	move.Piece = chess.Pawn

	file := chess.File(d.cur())
	d.next()

	if isRankChar(d.cur()) {
		rank := chess.Rank(d.cur())
		d.next()
		if isSeparator(d.cur()) {
			d.next()
		}
		if isFileChar(d.cur()) {
			// Long algebraic: the first pair was the origin.
			move.From = chess.Sq(file, rank)
			move.To.File = chess.File(d.cur())
			d.next()
			if isRankChar(d.cur()) {
				move.To.Rank = chess.Rank(d.cur())
				d.next()
			}
		} else {
			move.To = chess.Sq(file, rank)
		}
	} else {
		if isSeparator(d.cur()) {
			d.next()
		}
		if !isFileChar(d.cur()) {
			d.ok = false
			return
		}
		// Abbreviated capture: ed or exd5.
		move.From.File = file
		move.To.File = chess.File(d.cur())
		d.next()
		if isRankChar(d.cur()) {
			move.To.Rank = chess.Rank(d.cur())
			d.next()
		}
		if fileDistance(move.From.File, move.To.File) != 1 {
			d.ok = false
			return
		}
	}

	if d.cur() == '=' {
		d.next()
	}
	if p := pieceLetter(d.cur()); p != chess.Empty {
		move.Class = chess.PawnMoveWithPromotion
		move.Promoted = p
		d.next()
	}
}

// pieceMove reads Nf3, Nbd2, N1d2, Rxe1, Re1d1 and their variants.
func (d *moveDecoder) pieceMove(move *chess.Move) {
	move.Class = chess.PieceMove
	move.Piece = pieceLetter(d.cur())
	d.next()

	switch {
	case isRankChar(d.cur()):
		// Rank disambiguator: R1e1.
		move.From.Rank = chess.Rank(d.cur())
		d.next()
		if isSeparator(d.cur()) {
			d.next()
		}
		d.ok = d.readTarget(move)
	case isSeparator(d.cur()):
		// Plain capture: Rxe1.
		d.next()
		d.ok = d.readTarget(move)
	case isFileChar(d.cur()):
		file := chess.File(d.cur())
		d.next()
		if isSeparator(d.cur()) {
			// File disambiguator then capture: Raxe1.
			move.From.File = file
			d.next()
			d.ok = d.readTarget(move)
			return
		}
		switch {
		case isRankChar(d.cur()):
			rank := chess.Rank(d.cur())
			d.next()
			if isSeparator(d.cur()) {
				d.next()
			}
			if isFileChar(d.cur()) {
				// Full origin: Re1d1.
				move.From = chess.Sq(file, rank)
				d.ok = d.readTarget(move)
			} else {
				move.To = chess.Sq(file, rank)
			}
		case isFileChar(d.cur()):
			// File disambiguator: Rae1.
			move.From.File = file
			d.ok = d.readTarget(move)
		default:
			d.ok = false
		}
	default:
		d.ok = false
	}
}

// readTarget reads a mandatory file+rank destination.
func (d *moveDecoder) readTarget(move *chess.Move) bool {
	if !isFileChar(d.cur()) {
		return false
	}
	move.To.File = chess.File(d.cur())
	d.next()
	if !isRankChar(d.cur()) {
		return false
	}
	move.To.Rank = chess.Rank(d.cur())
	d.next()
	return true
}

// castle reads O-O and O-O-O, tolerating zeros, lowercase and missing
// hyphens.
func (d *moveDecoder) castle(move *chess.Move) {
	d.next()
	if d.cur() == '-' {
		d.next()
	}
	if !isCastleChar(d.cur()) {
		d.ok = false
		return
	}
	d.next()
	if d.cur() == '-' {
		d.next()
	}
	if isCastleChar(d.cur()) {
		move.Class = chess.QueensideCastle
		d.next()
	} else {
		move.Class = chess.KingsideCastle
	}
	move.Piece = chess.King
}

// suffixes consumes trailing check markers and explicit en passant
// annotations; anything else left over fails the token.
func (d *moveDecoder) suffixes(move *chess.Move) {
	for d.cur() == '+' || d.cur() == '#' {
		d.next()
	}
	rest := d.rest()
	switch {
	case rest == "":
	case (strings.HasSuffix(rest, "ep") || strings.HasSuffix(rest, "e.p.")) &&
		move.Class == chess.PawnMove:
		move.Class = chess.EnPassantPawnMove
	default:
		d.ok = false
	}
}

func fileDistance(a, b chess.File) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
