package eco

import "testing"

// Chain collisions cannot be produced through the public loader, so
// the bucket order rule is checked on a hand-built chain.
func TestLookupPrefersChainLastEntry(t *testing.T) {
	c := NewClassifier()
	first := &Entry{Code: "A00", Weak: 7, Cumulative: 9, HalfMoves: 2}
	second := &Entry{Code: "B99", Weak: 7, Cumulative: 9, HalfMoves: 2, next: first}
	deeper := &Entry{Code: "C50", Weak: 7, Cumulative: 11, HalfMoves: 6, next: second}
	c.buckets[7%tableSize] = deeper

	// Inserts prepend, so the chain tail is the entry loaded first;
	// that one wins among equals.
	got := c.Lookup(7, 9, 2)
	if got == nil {
		t.Fatal("Lookup found nothing")
	}
	if got.Code != "A00" {
		t.Errorf("Lookup chose %s; want the first-loaded A00", got.Code)
	}

	// The six-ply entry is too long for a two-ply game.
	if e := c.Lookup(7, 11, 2); e != nil {
		t.Errorf("Lookup accepted %s before enough plies were played", e.Code)
	}
	if e := c.Lookup(7, 11, 6); e == nil || e.Code != "C50" {
		t.Errorf("deep lookup = %v; want C50 once enough plies are played", e)
	}
	if e := c.Lookup(8, 9, 2); e != nil {
		t.Errorf("Lookup on a different weak hash found %s", e.Code)
	}
}
