// Package errors defines the failure taxonomy of the tool. Sentinels
// cover the recoverable per-item conditions; GameError and ParseError
// carry the positional context diagnostics need. Configuration-time
// problems are ordinary errors returned from constructors and handled
// before any game is processed.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFEN marks a FEN whose placement, side-to-move or
	// castling field is unusable.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove marks a move that cannot be resolved to a legal
	// origin on the current board.
	ErrIllegalMove = errors.New("illegal move")

	// ErrBadPattern marks a malformed FEN pattern rejected at
	// registration time.
	ErrBadPattern = errors.New("malformed FEN pattern")

	// ErrBadEnding marks a malformed ending specification line.
	ErrBadEnding = errors.New("malformed ending specification")

	// ErrParseFailure marks a PGN syntax problem.
	ErrParseFailure = errors.New("parse failure")

	// ErrInternal marks an invariant violation inside the engine. It is
	// still a per-game condition, never a process abort.
	ErrInternal = errors.New("internal error")
)

// GameError wraps a per-game failure with enough context to identify
// the game and ply in diagnostics.
type GameError struct {
	Err      error
	White    string
	Black    string
	Ply      int
	MoveText string
}

func (e *GameError) Error() string {
	var parts []string
	if e.White != "" || e.Black != "" {
		parts = append(parts, fmt.Sprintf("%s-%s", e.White, e.Black))
	}
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}
	context := strings.Join(parts, ", ")
	if e.Err == nil {
		return context
	}
	if context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", context, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError wraps a syntax failure with its source location.
type ParseError struct {
	Err  error
	Line int
	Text string
}

func (e *ParseError) Error() string {
	var parts []string
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Text != "" {
		parts = append(parts, fmt.Sprintf("near %q", e.Text))
	}
	context := strings.Join(parts, ", ")
	if e.Err == nil {
		return context
	}
	if context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", context, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context while keeping the underlying error visible to
// errors.Is and errors.As.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
