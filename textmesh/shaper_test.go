package textmesh

import (
	"sync"
	"testing"
)

func TestShapeSimpleText(t *testing.T) {
	f := loadTestFont(t)
	s := NewShaper()

	glyphs := s.Shape(f, "Hello", 32, DirectionLTR)
	if len(glyphs) != 5 {
		t.Fatalf("expected 5 glyphs, got %d", len(glyphs))
	}

	// Pen positions advance monotonically for LTR text.
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].X <= glyphs[i-1].X {
			t.Errorf("glyph %d at x=%v does not advance past glyph %d at x=%v",
				i, glyphs[i].X, i-1, glyphs[i-1].X)
		}
	}
	for i, g := range glyphs {
		if g.XAdvance <= 0 {
			t.Errorf("glyph %d has non-positive advance %v", i, g.XAdvance)
		}
		if g.Cluster != i {
			t.Errorf("glyph %d maps to cluster %d", i, g.Cluster)
		}
	}
}

func TestShapeEmptyText(t *testing.T) {
	f := loadTestFont(t)
	s := NewShaper()

	if glyphs := s.Shape(f, "", 32, DirectionLTR); glyphs != nil {
		t.Errorf("expected nil for empty text, got %d glyphs", len(glyphs))
	}
	if glyphs := s.Shape(nil, "x", 32, DirectionLTR); glyphs != nil {
		t.Errorf("expected nil for nil font, got %d glyphs", len(glyphs))
	}
}

func TestShapeScalesWithSize(t *testing.T) {
	f := loadTestFont(t)
	s := NewShaper()

	small := s.Shape(f, "mm", 16, DirectionLTR)
	large := s.Shape(f, "mm", 64, DirectionLTR)
	if len(small) != 2 || len(large) != 2 {
		t.Fatalf("expected 2 glyphs each, got %d and %d", len(small), len(large))
	}
	if large[1].X <= small[1].X {
		t.Errorf("64px advance (%v) should exceed 16px advance (%v)", large[1].X, small[1].X)
	}
}

func TestShapeConcurrent(t *testing.T) {
	f := loadTestFont(t)
	s := NewShaper()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if glyphs := s.Shape(f, "concurrent", 24, DirectionLTR); len(glyphs) == 0 {
					t.Error("concurrent shape returned no glyphs")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestGuessDirection(t *testing.T) {
	cases := map[string]Direction{
		"hello":  DirectionLTR,
		"":       DirectionLTR,
		"123":    DirectionLTR,
		"שלום":   DirectionRTL,
		"مرحبا":  DirectionRTL,
		"a שלום": DirectionLTR,
	}
	for text, want := range cases {
		if got := GuessDirection(text); got != want {
			t.Errorf("GuessDirection(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestDetectScript(t *testing.T) {
	latin := detectScript([]rune("abc"))
	hebrew := detectScript([]rune("שלום"))
	if latin == hebrew {
		t.Error("expected different scripts for Latin and Hebrew text")
	}

	// Leading whitespace is skipped.
	if detectScript([]rune("  abc")) != latin {
		t.Error("expected whitespace to be skipped in script detection")
	}
}
