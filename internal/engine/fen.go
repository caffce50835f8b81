// Package engine replays structured moves on a board: it resolves SAN
// ambiguity, applies moves with incremental hash maintenance, detects
// check and mate, and converts positions to and from FEN/EPD text.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
)

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Diagnostic receives non-fatal parse findings. A nil Diagnostic
// discards them.
type Diagnostic func(msg string)

func (d Diagnostic) report(format string, args ...interface{}) {
	if d != nil {
		d(fmt.Sprintf(format, args...))
	}
}

// NewBoardFromFEN parses a six-field FEN string. Parsing is
// best-effort: the placement, side-to-move and castling fields must be
// sound, but a malformed en-passant or counter field only produces a
// diagnostic and the board remains playable, since many corpora carry
// damaged trailer fields on otherwise good positions.
func NewBoardFromFEN(fen string, diag Diagnostic) (*chess.Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty FEN: %w", errors.ErrInvalidFEN)
	}

	board := chess.NewBoard()
	if err := parsePlacement(board, fields[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(board, fields); err != nil {
		return nil, err
	}
	if err := parseCastling(board, fields); err != nil {
		return nil, err
	}

	parseEnPassant(board, fields, diag)
	parseCounters(board, fields, diag)

	board.WeakHash = hashing.WeakHashOf(board)
	return board, nil
}

// parsePlacement fills the board from the piece placement field and
// seeds the king cache.
func parsePlacement(board *chess.Board, placement string) error {
	file := chess.FirstFile
	rank := chess.LastRank

	for i := 0; i < len(placement); i++ {
		c := placement[i]
		switch {
		case c == '/':
			rank--
			file = chess.FirstFile
		case c >= '1' && c <= '8':
			file += chess.File(c - '0')
		default:
			piece := chess.PieceFromLetter(c)
			if piece == chess.Empty {
				return fmt.Errorf("placement character %q: %w", c, errors.ErrInvalidFEN)
			}
			sq := chess.Sq(file, rank)
			if !sq.OnBoard() {
				return fmt.Errorf("placement overflows the board: %w", errors.ErrInvalidFEN)
			}
			colour := chess.White
			if c >= 'a' {
				colour = chess.Black
			}
			board.Put(sq, chess.Coloured(colour, piece))
			if piece == chess.King {
				board.SetKing(colour, sq)
			}
			file++
		}
	}
	return nil
}

func parseSideToMove(board *chess.Board, fields []string) error {
	if len(fields) < 2 {
		return nil
	}
	switch fields[1] {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fmt.Errorf("side to move %q: %w", fields[1], errors.ErrInvalidFEN)
	}
	return nil
}

// parseCastling reads the castling field. Classical K/Q/k/q letters
// resolve to the outermost rook of that side at parse time; a bare file
// letter is taken directly as a Chess960 rook file.
func parseCastling(board *chess.Board, fields []string) error {
	if len(fields) < 3 || fields[2] == "-" {
		return nil
	}
	for i := 0; i < len(fields[2]); i++ {
		c := fields[2][i]
		var colour chess.Colour
		switch {
		case c >= 'A' && c <= 'Z':
			colour = chess.White
			c += 'a' - 'A'
		case c >= 'a' && c <= 'z':
			colour = chess.Black
		default:
			return fmt.Errorf("castling character %q: %w", fields[2][i], errors.ErrInvalidFEN)
		}

		king := board.King(colour)
		switch c {
		case 'k':
			rook := outermostRook(board, colour, chess.KingSide)
			if rook == 0 {
				return fmt.Errorf("castling %q names no rook: %w", fields[2][i], errors.ErrInvalidFEN)
			}
			board.CastlingRook[colour][chess.KingSide] = rook
		case 'q':
			rook := outermostRook(board, colour, chess.QueenSide)
			if rook == 0 {
				return fmt.Errorf("castling %q names no rook: %w", fields[2][i], errors.ErrInvalidFEN)
			}
			board.CastlingRook[colour][chess.QueenSide] = rook
		default:
			file := chess.File(c)
			if file < chess.FirstFile || file > chess.LastFile {
				return fmt.Errorf("castling character %q: %w", fields[2][i], errors.ErrInvalidFEN)
			}
			if file > king.File {
				board.CastlingRook[colour][chess.KingSide] = file
			} else {
				board.CastlingRook[colour][chess.QueenSide] = file
			}
		}
	}
	return nil
}

// outermostRook finds the rook furthest from the king on the given
// side of it, on the colour's back rank.
func outermostRook(board *chess.Board, colour chess.Colour, side chess.CastleSide) chess.File {
	rank := backRank(colour)
	rook := chess.Coloured(colour, chess.Rook)
	king := board.King(colour)

	if side == chess.KingSide {
		for f := chess.LastFile; f > king.File; f-- {
			if board.At(chess.Sq(f, rank)) == rook {
				return f
			}
		}
	} else {
		for f := chess.FirstFile; f < king.File; f++ {
			if board.At(chess.Sq(f, rank)) == rook {
				return f
			}
		}
	}
	return 0
}

func backRank(colour chess.Colour) chess.Rank {
	if colour == chess.White {
		return chess.FirstRank
	}
	return chess.LastRank
}

// parseEnPassant reads the en-passant field, rejecting squares that are
// inconsistent with the side to move: the target can only be on rank 6
// when White is to move, rank 3 when Black is.
func parseEnPassant(board *chess.Board, fields []string, diag Diagnostic) {
	board.EnPassant = false
	if len(fields) < 4 || fields[3] == "-" {
		return
	}
	if len(fields[3]) != 2 {
		diag.report("en passant field %q ignored", fields[3])
		return
	}
	sq := chess.Sq(chess.File(fields[3][0]), chess.Rank(fields[3][1]))
	if !sq.OnBoard() {
		diag.report("en passant square %q off the board", fields[3])
		return
	}
	want := chess.Rank('6')
	if board.ToMove == chess.Black {
		want = '3'
	}
	if sq.Rank != want {
		diag.report("en passant square %q inconsistent with %v to move", fields[3], board.ToMove)
		return
	}
	board.EnPassant = true
	board.EPSquare = sq
}

func parseCounters(board *chess.Board, fields []string, diag Diagnostic) {
	if len(fields) >= 5 {
		if n, err := strconv.ParseUint(fields[4], 10, 32); err == nil {
			board.HalfmoveClock = uint(n)
		} else {
			diag.report("halfmove clock %q ignored", fields[4])
		}
	}
	if len(fields) >= 6 {
		if n, err := strconv.ParseUint(fields[5], 10, 32); err == nil && n > 0 {
			board.MoveNumber = uint(n)
		} else {
			diag.report("fullmove number %q ignored", fields[5])
		}
	}
}

// FENOptions controls serialization.
type FENOptions struct {
	// SuppressRedundantEP drops the en-passant field when no legal,
	// check-safe capture onto the target square exists.
	SuppressRedundantEP bool
}

// BoardToFEN serializes a board to its six-field FEN string.
func BoardToFEN(board *chess.Board) string {
	return BoardToFENOptions(board, FENOptions{})
}

// BoardToFENOptions serializes a board with explicit options.
func BoardToFENOptions(board *chess.Board, opts FENOptions) string {
	return BoardToEPDOptions(board, opts) + " " + FENSuffix(board)
}

// BoardToEPD serializes the placement, side, castling and en-passant
// fields without the counters.
func BoardToEPD(board *chess.Board) string {
	return BoardToEPDOptions(board, FENOptions{})
}

// BoardToEPDOptions serializes the EPD fields with explicit options.
func BoardToEPDOptions(board *chess.Board, opts FENOptions) string {
	var sb strings.Builder
	writePlacement(&sb, board)
	sb.WriteByte(' ')
	if board.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	writeCastling(&sb, board)
	sb.WriteByte(' ')
	if board.EnPassant && !(opts.SuppressRedundantEP && EPIsRedundant(board)) {
		sb.WriteString(board.EPSquare.String())
	} else {
		sb.WriteByte('-')
	}
	return sb.String()
}

// FENSuffix returns the halfmove clock and fullmove number fields.
func FENSuffix(board *chess.Board) string {
	return fmt.Sprintf("%d %d", board.HalfmoveClock, board.MoveNumber)
}

func writePlacement(sb *strings.Builder, board *chess.Board) {
	for r := chess.LastRank; r >= chess.FirstRank; r-- {
		empty := 0
		for f := chess.FirstFile; f <= chess.LastFile; f++ {
			cp := board.At(chess.Sq(f, r))
			if cp == chess.Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(chess.FENLetter(cp))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > chess.FirstRank {
			sb.WriteByte('/')
		}
	}
}

// writeCastling emits X-FEN castling: the KQkq shorthand when the rook
// stands on its classical file on the classical side of the king, the
// literal rook file letter otherwise.
func writeCastling(sb *strings.Builder, board *chess.Board) {
	any := false
	emit := func(colour chess.Colour, side chess.CastleSide) {
		rook := board.CastlingRook[colour][side]
		if rook == 0 {
			return
		}
		any = true
		king := board.King(colour)
		var letter byte
		switch {
		case side == chess.KingSide && rook == 'h' && rook > king.File:
			letter = 'K'
		case side == chess.QueenSide && rook == 'a' && rook < king.File:
			letter = 'Q'
		default:
			letter = byte(rook) - 'a' + 'A'
		}
		if colour == chess.Black {
			letter += 'a' - 'A'
		}
		sb.WriteByte(letter)
	}

	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		emit(colour, chess.KingSide)
		emit(colour, chess.QueenSide)
	}
	if !any {
		sb.WriteByte('-')
	}
}

// EPIsRedundant reports whether the recorded en-passant square is
// unreachable: no pawn of the side to move can legally capture onto it
// without exposing its own king. Computed by trial-applying each
// candidate capture.
func EPIsRedundant(board *chess.Board) bool {
	if !board.EnPassant {
		return true
	}
	colour := board.ToMove
	pawn := chess.Coloured(colour, chess.Pawn)
	victimSq := board.EPSquare.Offset(0, -colour.PawnStep())

	for _, df := range []int{-1, 1} {
		from := victimSq.Offset(df, 0)
		if board.At(from) != pawn {
			continue
		}
		trial := board.Copy()
		trial.Put(from, chess.Empty)
		trial.Put(victimSq, chess.Empty)
		trial.Put(board.EPSquare, pawn)
		if !IsInCheck(trial, colour) {
			return false
		}
	}
	return true
}

// MustBoardFromFEN parses a FEN string that is known to be good.
func MustBoardFromFEN(fen string) *chess.Board {
	board, err := NewBoardFromFEN(fen, nil)
	if err != nil {
		panic(err)
	}
	return board
}

// NewBoardForGame builds the starting board of a game, honouring its
// FEN tag when present and falling back to the standard start when the
// tag is missing or unusable.
func NewBoardForGame(game *chess.Game, diag Diagnostic) *chess.Board {
	if fen := game.FEN(); fen != "" {
		if board, err := NewBoardFromFEN(fen, diag); err == nil {
			return board
		}
		diag.report("unusable FEN tag %q, using the standard start", fen)
	}
	return MustBoardFromFEN(InitialFEN)
}
