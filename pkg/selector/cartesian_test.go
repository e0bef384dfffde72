package selector

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func startedProduct(t *testing.T, children []MoveSelector, opts ...CompositeOption) (*CartesianProductMoveSelector, *PhaseScope) {
	t.Helper()
	p, err := NewCartesianProductMoveSelector(children, opts...)
	if err != nil {
		t.Fatalf("NewCartesianProductMoveSelector: %v", err)
	}
	ps := newPhase(5)
	if err := p.PhaseStarted(ps); err != nil {
		t.Fatalf("PhaseStarted: %v", err)
	}
	t.Cleanup(func() { p.PhaseEnded(ps) })
	return p, ps
}

func TestCartesian_DeterministicOdometer(t *testing.T) {
	a := &stubSelector{name: "A", moves: moves("a1", "a2")}
	b := &stubSelector{name: "B", moves: moves("b1", "b2", "b3")}
	p, ps := startedProduct(t, []MoveSelector{a, b})

	got := moveNames(Collect(p.Iterator(ps.NextStep()), 0))
	want := []string{
		"[a1, b1]", "[a1, b2]", "[a1, b3]",
		"[a2, b1]", "[a2, b2]", "[a2, b3]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if size, ok := p.Size(nil); ok {
		t.Errorf("Size = %d, want unknown for unsized children", size)
	}
}

func TestCartesian_ThreeDimensions(t *testing.T) {
	a := &stubSelector{name: "A", moves: moves("a1", "a2")}
	b := &stubSelector{name: "B", moves: moves("b1")}
	c := &stubSelector{name: "C", moves: moves("c1", "c2")}
	p, ps := startedProduct(t, []MoveSelector{a, b, c})

	got := moveNames(Collect(p.Iterator(ps.NextStep()), 0))
	want := []string{"[a1, b1, c1]", "[a1, b1, c2]", "[a2, b1, c1]", "[a2, b1, c2]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCartesian_EmptyDimension(t *testing.T) {
	a := &stubSelector{name: "A", moves: moves("a1")}
	b := &stubSelector{name: "B"}
	for _, random := range []bool{false, true} {
		p, ps := startedProduct(t, []MoveSelector{a, b}, WithRandomSelection(random))
		if got := Collect(p.Iterator(ps.NextStep()), 10); len(got) != 0 {
			t.Errorf("random=%t: product with an empty dimension yielded %v", random, moveNames(got))
		}
	}
}

func TestCartesian_NeverEnding(t *testing.T) {
	finite := func() MoveSelector { return &stubSelector{name: "f", moves: moves("f")} }
	endless := func() MoveSelector { return &stubSelector{name: "e", moves: moves("e"), neverEnding: true} }

	cases := []struct {
		name     string
		children []MoveSelector
		random   bool
		want     bool
	}{
		{"empty", nil, false, false},
		{"finite", []MoveSelector{finite(), finite()}, false, false},
		{"last never-ending", []MoveSelector{finite(), endless()}, false, true},
		{"random finite", []MoveSelector{finite(), finite()}, true, true},
		{"random empty", nil, true, true},
	}
	for _, tc := range cases {
		p, err := NewCartesianProductMoveSelector(tc.children, WithRandomSelection(tc.random))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := p.IsNeverEnding(); got != tc.want {
			t.Errorf("%s: IsNeverEnding = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCartesian_RandomRestartsExhaustedChildren(t *testing.T) {
	a := &stubSelector{name: "A", moves: moves("a1", "a2")}
	b := &stubSelector{name: "B", moves: moves("b1")}
	p, ps := startedProduct(t, []MoveSelector{a, b}, WithRandomSelection(true))

	got := moveNames(Collect(p.Iterator(ps.NextStep()), 5))
	want := []string{"[a1, b1]", "[a2, b1]", "[a1, b1]", "[a2, b1]", "[a1, b1]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCartesian_Size(t *testing.T) {
	a := &sizedSelector{stubSelector: &stubSelector{name: "A"}, size: 2}
	b := &sizedSelector{stubSelector: &stubSelector{name: "B"}, size: 3}
	p, err := NewCartesianProductMoveSelector([]MoveSelector{a, b})
	if err != nil {
		t.Fatalf("NewCartesianProductMoveSelector: %v", err)
	}
	if size, ok := p.Size(nil); !ok || size != 6 {
		t.Errorf("Size = %d, %v; want 6, true", size, ok)
	}
}

func TestCartesian_SizeSaturates(t *testing.T) {
	dims := make([]MoveSelector, 5)
	for i := range dims {
		dims[i] = &sizedSelector{stubSelector: &stubSelector{name: "d"}, size: 1 << 20}
	}
	p, err := NewCartesianProductMoveSelector(dims)
	if err != nil {
		t.Fatalf("NewCartesianProductMoveSelector: %v", err)
	}
	if size, ok := p.Size(nil); !ok || size != math.MaxInt64 {
		t.Errorf("Size = %d, %v; want saturated MaxInt64, true", size, ok)
	}

	withEmpty := append([]MoveSelector{&sizedSelector{stubSelector: &stubSelector{name: "e"}, size: 0}}, dims...)
	if p, err = NewCartesianProductMoveSelector(withEmpty); err != nil {
		t.Fatalf("NewCartesianProductMoveSelector: %v", err)
	}
	if size, ok := p.Size(nil); !ok || size != 0 {
		t.Errorf("Size with an empty dimension = %d, %v; want 0, true", size, ok)
	}
}

func TestCompositeMove_DoAndUndo(t *testing.T) {
	var log []string
	m := NewCompositeMove(&stubMove{name: "x", log: &log}, &stubMove{name: "y", log: &log})
	if !m.IsDoable(nil) {
		t.Fatal("composite of doable parts is not doable")
	}
	m.Do(nil)
	m.Undo().Do(nil)

	want := []string{"do x", "do y", "do y'", "do x'"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

type blockedMove struct{ stubMove }

func (*blockedMove) IsDoable(ScoreDirector) bool { return false }

func TestCompositeMove_NotDoableWhenAnyPartIsNot(t *testing.T) {
	m := NewCompositeMove(&stubMove{name: "x"}, &blockedMove{})
	if m.IsDoable(nil) {
		t.Error("composite with a non-doable part reports doable")
	}
}
