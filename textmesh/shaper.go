package textmesh

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Direction is the text layout direction.
type Direction int

const (
	// DirectionLTR lays text out left to right.
	DirectionLTR Direction = iota

	// DirectionRTL lays text out right to left.
	DirectionRTL

	// DirectionTTB lays text out top to bottom.
	DirectionTTB

	// DirectionBTT lays text out bottom to top.
	DirectionBTT
)

// ShapedGlyph is one positioned glyph produced by shaping.
type ShapedGlyph struct {
	// GID is the glyph ID in the font.
	GID uint16

	// Cluster is the rune index in the input text this glyph maps to.
	Cluster int

	// X and Y are the pen position of the glyph in pixels, including
	// shaping offsets.
	X, Y float64

	// XAdvance and YAdvance are the pen advances contributed by this
	// glyph.
	XAdvance, YAdvance float64
}

// Shaper shapes text into positioned glyphs using HarfBuzz via
// go-text/typesetting.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances carry
// internal buffers and are pooled; font.Face wrappers are created per
// call since they are not concurrent-safe.
type Shaper struct {
	pool sync.Pool
}

// NewShaper creates a shaper.
func NewShaper() *Shaper {
	return &Shaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape shapes text at the given pixel size and direction. Kerning,
// ligatures, and script-specific substitutions all apply. The returned
// glyphs carry absolute pen positions starting at (0, 0).
func (s *Shaper) Shape(f *Font, text string, size float64, dir Direction) []ShapedGlyph {
	if text == "" || f == nil {
		return nil
	}

	runes := []rune(text)
	gtDir := mapDirection(dir)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: gtDir,
		Face:      font.NewFace(f.shapeFont),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	return convertGlyphs(output.Glyphs, gtDir)
}

// GuessDirection inspects the text with the Unicode bidi algorithm and
// returns the dominant paragraph direction.
func GuessDirection(text string) Direction {
	if text == "" {
		return DirectionLTR
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return DirectionLTR
	}
	if p.Direction() == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}

// mapDirection converts a Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	switch d {
	case DirectionRTL:
		return di.DirectionRTL
	case DirectionTTB:
		return di.DirectionTTB
	case DirectionBTT:
		return di.DirectionBTT
	default:
		return di.DirectionLTR
	}
}

// detectScript returns the script of the first non-space rune. Mixed
// script text should be split into runs before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// convertGlyphs accumulates pen positions over the shaped glyphs.
func convertGlyphs(glyphs []shaping.Glyph, dir di.Direction) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}

	result := make([]ShapedGlyph, len(glyphs))
	var x, y float64
	for i, g := range glyphs {
		result[i] = ShapedGlyph{
			GID:     uint16(g.GlyphID),
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       y + fixedToFloat(g.YOffset),
		}
		adv := fixedToFloat(g.Advance)
		if dir.IsVertical() {
			result[i].YAdvance = adv
			y += adv
		} else {
			result[i].XAdvance = adv
			x += adv
		}
	}
	return result
}
