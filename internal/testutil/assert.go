// Package testutil carries the assertion and game-building helpers
// the package tests share.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pgnsieve/pgnsieve/internal/chess"
)

// Equal compares got against want with cmp.Diff and fails on any
// difference.
func Equal(t *testing.T, got, want interface{}, context ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%smismatch (-want +got):\n%s", prefix(context...), diff)
	}
}

// EqualMoves compares two move lists ignoring the back-links and
// unexported state that make full moves awkward to diff.
func EqualMoves(t *testing.T, got, want *chess.Move, context ...interface{}) {
	t.Helper()
	opts := cmpopts.IgnoreFields(chess.Move{}, "Prev")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("%smove mismatch (-want +got):\n%s", prefix(context...), diff)
	}
}

// NoError fails when err is set.
func NoError(t *testing.T, err error, context ...interface{}) {
	t.Helper()
	if err != nil {
		t.Errorf("%sunexpected error: %v", prefix(context...), err)
	}
}

// Error fails when err is nil.
func Error(t *testing.T, err error, context ...interface{}) {
	t.Helper()
	if err == nil {
		t.Errorf("%sexpected an error, got nil", prefix(context...))
	}
}

// True fails when the condition is false.
func True(t *testing.T, condition bool, context ...interface{}) {
	t.Helper()
	if !condition {
		t.Errorf("%sexpected true", prefix(context...))
	}
}

// False fails when the condition is true.
func False(t *testing.T, condition bool, context ...interface{}) {
	t.Helper()
	if condition {
		t.Errorf("%sexpected false", prefix(context...))
	}
}

// Contains fails when substr is absent from got.
func Contains(t *testing.T, got, substr string, context ...interface{}) {
	t.Helper()
	if !strings.Contains(got, substr) {
		t.Errorf("%s%q does not contain %q", prefix(context...), got, substr)
	}
}

func prefix(context ...interface{}) string {
	if len(context) == 0 {
		return ""
	}
	format, ok := context[0].(string)
	if !ok {
		return fmt.Sprint(context...) + ": "
	}
	return fmt.Sprintf(format, context[1:]...) + ": "
}
