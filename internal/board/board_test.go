package board

import "testing"

func TestCoordsIndexRoundTrip(t *testing.T) {
	for u := 0; u < Size; u++ {
		for v := 0; v < Size-u; v++ {
			f := CoordsToIndex(u, v)
			gu, gv := IndexToCoords(f)
			if gu != u || gv != v {
				t.Fatalf("CoordsToIndex(%d,%d)=%d, IndexToCoords=(%d,%d)", u, v, f, gu, gv)
			}
		}
	}
}

func TestIndexRangeIsContiguous(t *testing.T) {
	seen := make(map[Field]bool)
	for u := 0; u < Size; u++ {
		for v := 0; v < Size-u; v++ {
			seen[CoordsToIndex(u, v)] = true
		}
	}
	if len(seen) != NumFields {
		t.Fatalf("expected %d distinct fields, got %d", NumFields, len(seen))
	}
	for f := Field(0); int(f) < NumFields; f++ {
		if !seen[f] {
			t.Errorf("field index %d unused", f)
		}
	}
}

func TestFieldNameRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		u, v int
	}{
		{"A1", 0, 0},
		{"H1", 7, 0},
		{"A8", 0, 7},
		{"C3", 2, 2},
	}
	for _, c := range cases {
		f := CoordsToIndex(c.u, c.v)
		if got := FieldName(f); got != c.name {
			t.Errorf("FieldName(%d)=%q, want %q", f, got, c.name)
		}
		parsed, err := ParseFieldName(c.name)
		if err != nil {
			t.Fatalf("ParseFieldName(%q): %v", c.name, err)
		}
		if parsed != f {
			t.Errorf("ParseFieldName(%q)=%d, want %d", c.name, parsed, f)
		}
	}
}

func TestParseFieldNameRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "A", "I1", "A9", "H2", "a1", "12", "A0"} {
		if _, err := ParseFieldName(s); err == nil {
			t.Errorf("ParseFieldName(%q) should have failed", s)
		}
	}
}

func TestNeighboursAreSymmetric(t *testing.T) {
	for f := Field(0); int(f) < NumFields; f++ {
		for _, g := range Neighbours(f) {
			found := false
			for _, h := range Neighbours(g) {
				if h == f {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("neighbour relation not symmetric: %d -> %d", f, g)
			}
		}
	}
}

func TestCornerNeighbourCounts(t *testing.T) {
	a1 := CoordsToIndex(0, 0)
	if got := len(Neighbours(a1)); got != 2 {
		t.Errorf("A1 has %d neighbours, want 2", got)
	}
	h1 := CoordsToIndex(7, 0)
	if got := len(Neighbours(h1)); got != 2 {
		t.Errorf("H1 has %d neighbours, want 2", got)
	}
}
