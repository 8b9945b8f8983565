// Package textmesh shapes text with HarfBuzz and turns the shaped glyphs
// into curve-fill triangle meshes ready for GPU rendering.
package textmesh

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/curvefill/tessellate"
)

// Font errors.
var (
	// ErrEmptyFontData is returned when loading a font from no bytes.
	ErrEmptyFontData = errors.New("textmesh: empty font data")

	// ErrGlyphNotFound is returned when a glyph has no outline data.
	ErrGlyphNotFound = errors.New("textmesh: glyph not found")
)

// Font is a parsed font usable for both shaping and outline extraction.
// The same font bytes are parsed twice: go-text/typesetting drives
// HarfBuzz shaping, x/image/font/sfnt provides scaled glyph outlines.
//
// Font is safe for concurrent use.
type Font struct {
	shapeFont *font.Font
	sfntFont  *sfnt.Font

	// mu guards buffer; sfnt.Buffer is not safe for concurrent use.
	mu     sync.Mutex
	buffer sfnt.Buffer
}

// LoadFont parses TTF or OTF font data.
func LoadFont(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("textmesh: parse font for shaping: %w", err)
	}

	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("textmesh: parse font outlines: %w", err)
	}

	return &Font{shapeFont: face.Font, sfntFont: sf}, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.sfntFont.NumGlyphs()
}

// GlyphOutline extracts the outline of a glyph scaled to the given pixel
// size. Coordinates are in pixels with y growing downward and the origin
// at the glyph's baseline start. Glyphs without an outline, such as the
// space, return an empty outline.
func (f *Font) GlyphOutline(gid uint16, size float64) (*tessellate.Outline, error) {
	ppem := fixed.Int26_6(size * 64)

	f.mu.Lock()
	segments, err := f.sfntFont.LoadGlyph(&f.buffer, sfnt.GlyphIndex(gid), ppem, nil)
	f.mu.Unlock()
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return nil, fmt.Errorf("%w: gid %d", ErrGlyphNotFound, gid)
		}
		return nil, fmt.Errorf("textmesh: load glyph %d: %w", gid, err)
	}

	outline := &tessellate.Outline{}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			p := fixedPoint(seg.Args[0])
			outline.MoveTo(p.X, p.Y)
		case sfnt.SegmentOpLineTo:
			p := fixedPoint(seg.Args[0])
			outline.LineTo(p.X, p.Y)
		case sfnt.SegmentOpQuadTo:
			c, p := fixedPoint(seg.Args[0]), fixedPoint(seg.Args[1])
			outline.QuadTo(c.X, c.Y, p.X, p.Y)
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := fixedPoint(seg.Args[0]), fixedPoint(seg.Args[1]), fixedPoint(seg.Args[2])
			outline.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
		}
	}
	return outline, nil
}

// GlyphAdvance returns the horizontal advance of a glyph in pixels at the
// given size.
func (f *Font) GlyphAdvance(gid uint16, size float64) float64 {
	ppem := fixed.Int26_6(size * 64)

	f.mu.Lock()
	advance, err := f.sfntFont.GlyphAdvance(&f.buffer, sfnt.GlyphIndex(gid), ppem, 0)
	f.mu.Unlock()
	if err != nil {
		return 0
	}
	return fixedToFloat(advance)
}

func fixedPoint(p fixed.Point26_6) tessellate.Point {
	return tessellate.Point{
		X: float32(p.X) / 64.0,
		Y: float32(p.Y) / 64.0,
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
