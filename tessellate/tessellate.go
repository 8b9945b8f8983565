// Package tessellate converts vector outlines into curve-fill triangle
// meshes.
//
// Interior regions are triangulated with ear clipping. Each quadratic
// bezier contributes one extra triangle (start, control, end) whose
// fragments are resolved against the canonical parabola by the GPU fill
// test; cubics are approximated by two quadratics split at the control
// midpoint. Convex curve triangles lie outside the interior polygon and
// fill the region below the curve, concave ones are marked inverse and
// their control point joins the interior polygon so the triangle can
// carve the curve back out.
package tessellate

import (
	"errors"
	"fmt"

	earcut "github.com/mmp/earcut-go"

	"github.com/gogpu/curvefill"
)

// ErrTooManyVertices is returned when a mesh exceeds the uint16 index
// range.
var ErrTooManyVertices = errors.New("tessellate: mesh exceeds uint16 index range")

// Winding selects how contour orientation is interpreted when deciding
// which contours are holes and which curve triangles are inverse.
type Winding int

const (
	// WindingAuto infers the orientation convention from the outline
	// itself: the largest contour is assumed to be a filled region.
	WindingAuto Winding = iota

	// WindingNormal treats clockwise contours as filled regions, the
	// TrueType (glyf) convention.
	WindingNormal

	// WindingReverse treats counter-clockwise contours as filled
	// regions, the PostScript (CFF) convention.
	WindingReverse
)

// MeshVertex is one tessellated vertex before color assignment.
type MeshVertex struct {
	Pos      [2]float32
	UV       [2]float32
	Metadata int32
}

// Mesh is a tessellated outline: shared triangle geometry that can be
// colored into flat or indexed vertex slices.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// curveUV is the canonical parabola parameterization of a curve
// triangle's start, control, and end vertices.
var curveUV = [3][2]float32{{0, 0}, {0.5, 0}, {1, 1}}

// curveTriangle is one quadratic bezier awaiting emission.
type curveTriangle struct {
	pts     [3]Point
	inverse bool
}

// Tessellate converts an outline into a triangle mesh.
func Tessellate(outline *Outline, winding Winding) (*Mesh, error) {
	if outline == nil || outline.IsEmpty() {
		return &Mesh{}, nil
	}

	reverse := false
	switch winding {
	case WindingReverse:
		reverse = true
	case WindingAuto:
		reverse = detectReverseWinding(outline)
	}

	contours, curves := buildContours(outline, reverse)

	mesh := &Mesh{}
	if err := mesh.triangulateInterior(contours, reverse); err != nil {
		return nil, err
	}
	if err := mesh.emitCurveTriangles(curves); err != nil {
		return nil, err
	}
	return mesh, nil
}

// FlatVertices colors the mesh with a single flat color.
func (m *Mesh) FlatVertices(color [3]float32) []curvefill.Vertex {
	verts := make([]curvefill.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = curvefill.Vertex{
			Position: [3]float32{v.Pos[0], v.Pos[1], 0},
			UV:       v.UV,
			Metadata: v.Metadata,
			Color:    color,
		}
	}
	return verts
}

// IndexedVertices colors the mesh with an interned color table index.
func (m *Mesh) IndexedVertices(table *curvefill.ColorTable, color curvefill.RGBA) []curvefill.IndexedVertex {
	idx := table.Intern(color)
	verts := make([]curvefill.IndexedVertex, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = curvefill.IndexedVertex{
			Position:   [3]float32{v.Pos[0], v.Pos[1], 0},
			UV:         v.UV,
			Metadata:   v.Metadata,
			ColorIndex: idx,
		}
	}
	return verts
}

// Transform scales every vertex position and then translates it. UV and
// metadata are untouched; the fill test is position independent.
func (m *Mesh) Transform(scale, dx, dy float32) {
	for i := range m.Vertices {
		m.Vertices[i].Pos[0] = m.Vertices[i].Pos[0]*scale + dx
		m.Vertices[i].Pos[1] = m.Vertices[i].Pos[1]*scale + dy
	}
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	clone := &Mesh{
		Vertices: make([]MeshVertex, len(m.Vertices)),
		Indices:  make([]uint16, len(m.Indices)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}

// Append merges another mesh into this one, offsetting its indices.
func (m *Mesh) Append(other *Mesh) error {
	base := len(m.Vertices)
	if base+len(other.Vertices) > 1<<16 {
		return fmt.Errorf("%w: %d vertices", ErrTooManyVertices, base+len(other.Vertices))
	}
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+uint16(base))
	}
	return nil
}

// buildContours walks the outline once, producing the interior polygons
// and the curve triangles. Inverse curve control points join the interior
// polygon so the inverse triangle can carve the curve out of it.
func buildContours(o *Outline, reverse bool) ([][]Point, []curveTriangle) {
	var contours [][]Point
	var curves []curveTriangle

	current := func() []Point {
		if len(contours) == 0 {
			return nil
		}
		return contours[len(contours)-1]
	}
	appendPoint := func(p Point) {
		if len(contours) == 0 {
			contours = append(contours, []Point{p})
			return
		}
		contours[len(contours)-1] = append(contours[len(contours)-1], p)
	}
	lastPoint := func() Point {
		c := current()
		if len(c) == 0 {
			return Point{}
		}
		return c[len(c)-1]
	}
	addQuad := func(start, ctrl, end Point) {
		tri := [3]Point{start, ctrl, end}
		inverse := isCCW(tri[:]) != reverse
		curves = append(curves, curveTriangle{pts: tri, inverse: inverse})
		if inverse {
			appendPoint(ctrl)
		}
		appendPoint(end)
	}

	for _, seg := range o.Segments {
		switch seg.Op {
		case OutlineOpMoveTo:
			contours = append(contours, []Point{seg.Points[0]})
		case OutlineOpLineTo:
			appendPoint(seg.Points[0])
		case OutlineOpQuadTo:
			addQuad(lastPoint(), seg.Points[0], seg.Points[1])
		case OutlineOpCubicTo:
			// Split at the control midpoint into two quadratics.
			c1, c2, end := seg.Points[0], seg.Points[1], seg.Points[2]
			mid := Point{X: c1.X + (c2.X-c1.X)/2, Y: c1.Y + (c2.Y-c1.Y)/2}
			addQuad(lastPoint(), c1, mid)
			addQuad(mid, c2, end)
		}
	}
	return contours, curves
}

// triangulateInterior ear-clips the interior polygons. Contours whose
// orientation marks them as holes attach to the most recent filled
// contour, matching the contour order fonts emit.
func (m *Mesh) triangulateInterior(contours [][]Point, reverse bool) error {
	var groups [][][]Point
	for _, contour := range contours {
		if len(contour) < 3 {
			continue
		}
		hole := isCCW(contour) != reverse
		if hole && len(groups) > 0 {
			last := len(groups) - 1
			groups[last] = append(groups[last], contour)
		} else {
			// A hole with no enclosing contour degrades to a filled
			// region rather than being dropped.
			groups = append(groups, [][]Point{contour})
		}
	}

	for _, group := range groups {
		rings := make([][]earcut.Vertex, len(group))
		for i, contour := range group {
			ring := make([]earcut.Vertex, len(contour))
			for j, p := range contour {
				ring[j].P = [2]float64{float64(p.X), float64(p.Y)}
			}
			rings[i] = ring
		}

		for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: rings}) {
			if len(m.Vertices)+3 > 1<<16 {
				return fmt.Errorf("%w: interior triangulation", ErrTooManyVertices)
			}
			base := uint16(len(m.Vertices))
			for _, v := range tri.Vertices {
				m.Vertices = append(m.Vertices, MeshVertex{
					Pos: [2]float32{float32(v.P[0]), float32(v.P[1])},
				})
			}
			m.Indices = append(m.Indices, base, base+1, base+2)
		}
	}
	return nil
}

// emitCurveTriangles appends one triangle per quadratic bezier with the
// canonical parabola UVs.
func (m *Mesh) emitCurveTriangles(curves []curveTriangle) error {
	for _, c := range curves {
		if len(m.Vertices)+3 > 1<<16 {
			return fmt.Errorf("%w: curve triangles", ErrTooManyVertices)
		}
		metadata := curvefill.MetaCurve
		if c.inverse {
			metadata |= curvefill.MetaInverse
		}
		base := uint16(len(m.Vertices))
		for i, p := range c.pts {
			m.Vertices = append(m.Vertices, MeshVertex{
				Pos:      [2]float32{p.X, p.Y},
				UV:       curveUV[i],
				Metadata: metadata,
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	return nil
}

// detectReverseWinding infers the orientation convention: the contour
// with the largest area is assumed filled, and the winding is chosen so
// its orientation does not mark it as a hole. Curve control points are
// left out of the area sum; they cannot flip a contour's orientation.
func detectReverseWinding(o *Outline) bool {
	var largest float64
	var largestCCW bool
	var contour []Point

	flush := func() {
		if len(contour) < 3 {
			contour = contour[:0]
			return
		}
		area := signedArea(contour)
		abs := area
		if abs < 0 {
			abs = -abs
		}
		if abs > largest {
			largest = abs
			largestCCW = area >= 0
		}
		contour = contour[:0]
	}

	for _, seg := range o.Segments {
		switch seg.Op {
		case OutlineOpMoveTo:
			flush()
			contour = append(contour, seg.Points[0])
		case OutlineOpLineTo:
			contour = append(contour, seg.Points[0])
		case OutlineOpQuadTo:
			contour = append(contour, seg.Points[1])
		case OutlineOpCubicTo:
			contour = append(contour, seg.Points[2])
		}
	}
	flush()
	return largestCCW
}

// signedArea is twice the signed area of a closed polygon, positive for
// counter-clockwise orientation in a y-up coordinate space.
func signedArea(pts []Point) float64 {
	var sum float64
	for i := range pts {
		cur := pts[i]
		next := pts[(i+1)%len(pts)]
		sum += float64(cur.X)*float64(next.Y) - float64(next.X)*float64(cur.Y)
	}
	return sum
}

func isCCW(pts []Point) bool {
	return signedArea(pts) >= 0
}
