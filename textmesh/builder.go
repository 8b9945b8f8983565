package textmesh

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/curvefill"
	"github.com/gogpu/curvefill/tessellate"
)

// LayoutConfig positions a run of text inside a viewport.
type LayoutConfig struct {
	// Width and Height are the viewport dimensions in pixels. Vertex
	// positions are emitted in normalized device coordinates relative to
	// this viewport.
	Width, Height uint32

	// Size is the font size in pixels.
	Size float64

	// X and Y are the baseline origin of the run in pixels, measured
	// from the top-left corner of the viewport.
	X, Y float64

	// Direction is the layout direction of the run.
	Direction Direction
}

// meshKey identifies a cached glyph mesh.
type meshKey struct {
	font *Font
	gid  uint16
	size uint64
}

// Builder shapes text and assembles curve-fill meshes from the shaped
// glyphs. Tessellated glyph meshes are cached per (font, glyph, size),
// so repeated text reuses geometry and only pays for placement.
//
// Builder is safe for concurrent use.
type Builder struct {
	shaper *Shaper

	mu    sync.Mutex
	cache map[meshKey]*tessellate.Mesh
}

// NewBuilder creates a builder with its own shaper.
func NewBuilder() *Builder {
	return &Builder{
		shaper: NewShaper(),
		cache:  make(map[meshKey]*tessellate.Mesh),
	}
}

// BuildFlat shapes text and returns a flat-color mesh in normalized
// device coordinates.
func (b *Builder) BuildFlat(f *Font, text string, cfg LayoutConfig, color [3]float32) ([]curvefill.Vertex, []uint16, error) {
	mesh, err := b.buildMesh(f, text, cfg)
	if err != nil {
		return nil, nil, err
	}
	return mesh.FlatVertices(color), mesh.Indices, nil
}

// BuildIndexed shapes text and returns an indexed-color mesh in
// normalized device coordinates, interning the color into the table.
func (b *Builder) BuildIndexed(f *Font, text string, cfg LayoutConfig, table *curvefill.ColorTable, color curvefill.RGBA) ([]curvefill.IndexedVertex, []uint16, error) {
	mesh, err := b.buildMesh(f, text, cfg)
	if err != nil {
		return nil, nil, err
	}
	return mesh.IndexedVertices(table, color), mesh.Indices, nil
}

// ClearCache drops all cached glyph meshes.
func (b *Builder) ClearCache() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache = make(map[meshKey]*tessellate.Mesh)
}

// buildMesh shapes the text, places each glyph's cached mesh at its pen
// position, and maps the combined mesh from pixels to normalized device
// coordinates.
func (b *Builder) buildMesh(f *Font, text string, cfg LayoutConfig) (*tessellate.Mesh, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("textmesh: viewport %dx%d is empty", cfg.Width, cfg.Height)
	}

	glyphs := b.shaper.Shape(f, text, cfg.Size, cfg.Direction)

	combined := &tessellate.Mesh{}
	for _, g := range glyphs {
		mesh, err := b.glyphMesh(f, g.GID, cfg.Size)
		if err != nil {
			return nil, err
		}
		if len(mesh.Vertices) == 0 {
			continue
		}

		placed := mesh.Clone()
		// Glyph outlines are y-down with the origin on the baseline;
		// shaping offsets are y-up.
		placed.Transform(1, float32(cfg.X+g.X), float32(cfg.Y-g.Y))
		if err := combined.Append(placed); err != nil {
			return nil, err
		}
	}

	toNDC(combined, cfg.Width, cfg.Height)
	return combined, nil
}

// glyphMesh returns the tessellated mesh for one glyph, cached.
func (b *Builder) glyphMesh(f *Font, gid uint16, size float64) (*tessellate.Mesh, error) {
	key := meshKey{font: f, gid: gid, size: math.Float64bits(size)}

	b.mu.Lock()
	cached, ok := b.cache[key]
	b.mu.Unlock()
	if ok {
		return cached, nil
	}

	outline, err := f.GlyphOutline(gid, size)
	if err != nil {
		return nil, err
	}
	// Glyph outlines are y-down, so the orientation convention flips
	// relative to font units; let the tessellator infer it per glyph.
	mesh, err := tessellate.Tessellate(outline, tessellate.WindingAuto)
	if err != nil {
		return nil, fmt.Errorf("textmesh: tessellate glyph %d: %w", gid, err)
	}

	b.mu.Lock()
	b.cache[key] = mesh
	b.mu.Unlock()
	return mesh, nil
}

// toNDC maps pixel positions to normalized device coordinates with y up.
func toNDC(m *tessellate.Mesh, width, height uint32) {
	w := float32(width)
	h := float32(height)
	for i := range m.Vertices {
		m.Vertices[i].Pos[0] = m.Vertices[i].Pos[0]/w*2 - 1
		m.Vertices[i].Pos[1] = 1 - m.Vertices[i].Pos[1]/h*2
	}
}
