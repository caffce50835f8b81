package engine

import (
	"fmt"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/errors"
	"github.com/pgnsieve/pgnsieve/internal/hashing"
)

// Apply resolves a structured move against the board, applies it and
// records the check status of the resulting position on the move.
// Resolution failure leaves the board untouched and returns a wrapped
// ErrIllegalMove; it invalidates the one game, never the run.
func Apply(board *chess.Board, move *chess.Move) error {
	if move == nil {
		return fmt.Errorf("empty move node: %w", errors.ErrInternal)
	}

	switch move.Class {
	case chess.NullMove:
		// Nothing moves, but the ply still counts against the clocks.
		board.EnPassant = false
		board.HalfmoveClock++
		finishPly(board)
		return nil

	case chess.KingsideCastle:
		if err := applyCastle(board, chess.KingSide); err != nil {
			return err
		}

	case chess.QueensideCastle:
		if err := applyCastle(board, chess.QueenSide); err != nil {
			return err
		}

	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		if err := applyPawnMove(board, move); err != nil {
			return err
		}

	case chess.PieceMove:
		if err := applyPieceMove(board, move); err != nil {
			return err
		}

	default:
		return fmt.Errorf("move %q has class %d: %w", move.Text, move.Class, errors.ErrIllegalMove)
	}

	move.CheckStatus = checkStatusAfter(board)
	return nil
}

// checkStatusAfter inspects the post-move board: is the side now to
// move in check, and if so does any legal reply exist. A pure function
// of the position; it needs nothing from the move that produced it.
func checkStatusAfter(board *chess.Board) chess.CheckStatus {
	if !IsInCheck(board, board.ToMove) {
		return chess.NoCheck
	}
	if HasLegalMoves(board, board.ToMove) {
		return chess.Check
	}
	return chess.Checkmate
}

// hashOut removes a square's occupant from the incremental weak hash.
func hashOut(board *chess.Board, s chess.Square) {
	board.WeakHash ^= hashing.WeakKey(board.At(s), s)
}

// hashIn adds a square's occupant to the incremental weak hash.
func hashIn(board *chess.Board, s chess.Square) {
	board.WeakHash ^= hashing.WeakKey(board.At(s), s)
}

// lift removes the piece from a square, maintaining the hash, and
// returns it.
func lift(board *chess.Board, s chess.Square) chess.Piece {
	cp := board.At(s)
	if cp.IsOccupied() {
		hashOut(board, s)
		board.Put(s, chess.Empty)
	}
	return cp
}

// place puts a piece on a square, hashing out whatever stood there.
func place(board *chess.Board, s chess.Square, cp chess.Piece) {
	if board.At(s).IsOccupied() {
		hashOut(board, s)
	}
	board.Put(s, cp)
	hashIn(board, s)
}

// finishPly flips the side to move and advances the move number after
// Black's move.
func finishPly(board *chess.Board) {
	if board.ToMove == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = board.ToMove.Opposite()
}

// applyCastle castles the side to move. King and rook are lifted
// before either is placed so Chess960 starts where the two squares
// overlap their destinations stay consistent.
func applyCastle(board *chess.Board, side chess.CastleSide) error {
	colour := board.ToMove
	rookFile := board.CastlingRook[colour][side]
	if rookFile == 0 {
		return fmt.Errorf("%v has no %s castling right: %w", colour, sideName(side), errors.ErrIllegalMove)
	}

	rank := backRank(colour)
	kingTo := chess.Sq('g', rank)
	rookTo := chess.Sq('f', rank)
	if side == chess.QueenSide {
		kingTo = chess.Sq('c', rank)
		rookTo = chess.Sq('d', rank)
	}

	kingFrom := board.King(colour)
	rookFrom := chess.Sq(rookFile, rank)

	king := lift(board, kingFrom)
	rook := lift(board, rookFrom)
	place(board, kingTo, king)
	place(board, rookTo, rook)

	board.SetKing(colour, kingTo)
	board.ClearCastlingRights(colour)
	board.EnPassant = false
	board.HalfmoveClock++
	finishPly(board)
	return nil
}

func sideName(side chess.CastleSide) string {
	if side == chess.KingSide {
		return "kingside"
	}
	return "queenside"
}

// applyPawnMove applies a pawn advance, capture, en-passant capture or
// promotion.
func applyPawnMove(board *chess.Board, move *chess.Move) error {
	colour := board.ToMove

	// A capture onto the empty en-passant target square is an
	// en-passant capture whether or not the source notated it.
	if move.Class == chess.PawnMove && move.From.File != 0 && move.From.File != move.To.File &&
		board.EnPassant && move.To == board.EPSquare && board.At(move.To) == chess.Empty {
		move.Class = chess.EnPassantPawnMove
	}

	from := move.From
	if !from.IsSet() {
		from = findPawnOrigin(board, move, colour)
		if !from.IsSet() {
			return fmt.Errorf("no pawn reaches %v: %w", move.To, errors.ErrIllegalMove)
		}
		move.From = from
	}

	to := move.To

	if move.Class == chess.EnPassantPawnMove {
		victim := to.Offset(0, -colour.PawnStep())
		if board.At(victim).Type() != chess.Pawn {
			return fmt.Errorf("en passant with no pawn on %v: %w", victim, errors.ErrIllegalMove)
		}
		lift(board, victim)
		move.Captured = chess.Pawn
	} else if taken := board.At(to); taken.IsOccupied() {
		move.Captured = taken.Type()
	}

	pawn := lift(board, from)
	place(board, to, pawn)

	// Promotion is a second sub-step: the arrived pawn is swapped for
	// the promoted piece.
	if move.Class == chess.PawnMoveWithPromotion {
		promoted := move.Promoted
		if promoted == chess.Empty {
			promoted = chess.Queen
		}
		lift(board, to)
		place(board, to, chess.Coloured(colour, promoted))
	}

	// A capture of a rook on its home square removes the right with it.
	if move.Captured == chess.Rook {
		revokeRookRight(board, colour.Opposite(), to)
	}

	// The en-passant flag is set only on the ply straight after a
	// two-square push and cleared on every other ply.
	board.EnPassant = false
	if move.Class == chess.PawnMove && absInt(int(to.Rank)-int(from.Rank)) == 2 {
		board.EnPassant = true
		board.EPSquare = from.Offset(0, colour.PawnStep())
	}

	board.HalfmoveClock = 0
	finishPly(board)
	return nil
}

// applyPieceMove applies a non-pawn move, resolving the origin when the
// move text left it partial.
func applyPieceMove(board *chess.Board, move *chess.Move) error {
	colour := board.ToMove
	from := move.From
	if !from.IsSet() {
		candidates := originCandidates(board, move.Piece, colour, move.To, move.From)
		if len(candidates) == 0 {
			return fmt.Errorf("no %v reaches %v: %w", move.Piece, move.To, errors.ErrIllegalMove)
		}
		from = candidates[0]
		move.From = from
	}

	to := move.To
	if taken := board.At(to); taken.IsOccupied() {
		move.Captured = taken.Type()
		if taken.Type() == chess.Rook {
			revokeRookRight(board, taken.ColourOf(), to)
		}
	}

	piece := lift(board, from)
	place(board, to, piece)

	if move.Piece == chess.King {
		board.SetKing(colour, to)
		board.ClearCastlingRights(colour)
	}
	if move.Piece == chess.Rook {
		revokeRookRight(board, colour, from)
	}

	board.EnPassant = false
	if move.Captured != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
	finishPly(board)
	return nil
}

// revokeRookRight drops a castling right when the rook on the named
// square moves or is captured.
func revokeRookRight(board *chess.Board, colour chess.Colour, s chess.Square) {
	if s.Rank != backRank(colour) {
		return
	}
	for side := chess.CastleSide(0); side < chess.NumCastleSides; side++ {
		if board.CastlingRook[colour][side] == s.File {
			board.CastlingRook[colour][side] = 0
		}
	}
}

// findPawnOrigin locates the single pawn that can make the move. The
// origin file is known for captures; for advances it is the target
// file, one or two ranks back.
func findPawnOrigin(board *chess.Board, move *chess.Move, colour chess.Colour) chess.Square {
	pawn := chess.Coloured(colour, chess.Pawn)
	step := colour.PawnStep()
	to := move.To

	if move.From.File != 0 && move.From.File != to.File {
		// Capture: one rank back on the declared file. The target must
		// be an enemy piece, or the en-passant square for an ep take.
		target := board.At(to)
		ok := target.IsOccupied() && target.ColourOf() != colour
		if move.Class == chess.EnPassantPawnMove {
			ok = target == chess.Empty
		}
		from := chess.Sq(move.From.File, chess.Rank(int(to.Rank)-step))
		if ok && board.At(from) == pawn && legalAfter(board, from, to, colour) {
			return from
		}
		return chess.Square{}
	}

	if board.At(to) != chess.Empty {
		return chess.Square{}
	}
	from := to.Offset(0, -step)
	if board.At(from) == pawn && legalAfter(board, from, to, colour) {
		return from
	}

	// Two-square push from the home rank, middle square clear.
	if board.At(from) == chess.Empty {
		from2 := to.Offset(0, -2*step)
		homeRank := chess.Rank('2')
		if colour == chess.Black {
			homeRank = '7'
		}
		if from2.Rank == homeRank && board.At(from2) == pawn && legalAfter(board, from2, to, colour) {
			return from2
		}
	}
	return chess.Square{}
}

// originCandidates returns every square holding the given piece that
// can legally move to the destination, honouring any partial origin
// declared by the move text and excluding moves that would leave the
// mover's own king in check.
func originCandidates(board *chess.Board, piece chess.Piece, colour chess.Colour, to chess.Square, partial chess.Square) []chess.Square {
	want := chess.Coloured(colour, piece)
	var candidates []chess.Square

	for f := chess.FirstFile; f <= chess.LastFile; f++ {
		if partial.File != 0 && f != partial.File {
			continue
		}
		for r := chess.FirstRank; r <= chess.LastRank; r++ {
			if partial.Rank != 0 && r != partial.Rank {
				continue
			}
			from := chess.Sq(f, r)
			if board.At(from) != want || from == to {
				continue
			}
			if target := board.At(to); target.IsOccupied() && target.ColourOf() == colour {
				continue
			}
			if !canReach(board, piece, from, to) {
				continue
			}
			if legalAfter(board, from, to, colour) {
				candidates = append(candidates, from)
			}
		}
	}
	return candidates
}

// canReach reports whether the piece's movement pattern connects the
// two squares over an otherwise clear path.
func canReach(board *chess.Board, piece chess.Piece, from, to chess.Square) bool {
	df := absInt(int(to.File) - int(from.File))
	dr := absInt(int(to.Rank) - int(from.Rank))

	switch piece {
	case chess.Knight:
		return df*dr == 2
	case chess.Bishop:
		return df == dr && clearPath(board, from, to)
	case chess.Rook:
		return (df == 0 || dr == 0) && clearPath(board, from, to)
	case chess.Queen:
		return (df == dr || df == 0 || dr == 0) && clearPath(board, from, to)
	case chess.King:
		return df <= 1 && dr <= 1
	}
	return false
}

// clearPath walks from one square towards another along their shared
// line and reports whether every intermediate square is empty. The
// hedge terminates any walk that would leave the grid.
func clearPath(board *chess.Board, from, to chess.Square) bool {
	df := signInt(int(to.File) - int(from.File))
	dr := signInt(int(to.Rank) - int(from.Rank))
	for s := from.Offset(df, dr); s != to; s = s.Offset(df, dr) {
		if board.At(s) != chess.Empty {
			return false
		}
	}
	return true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func signInt(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
