package tessellate

// Point is a 2D point in outline coordinate space.
type Point struct {
	X, Y float32
}

// OutlineOp is the type of path operation.
type OutlineOp uint8

const (
	// OutlineOpMoveTo moves to a new point, starting a new contour.
	OutlineOpMoveTo OutlineOp = iota

	// OutlineOpLineTo draws a line to the target point.
	OutlineOpLineTo

	// OutlineOpQuadTo draws a quadratic bezier curve.
	OutlineOpQuadTo

	// OutlineOpCubicTo draws a cubic bezier curve.
	OutlineOpCubicTo
)

// String returns a string representation of the operation.
func (op OutlineOp) String() string {
	switch op {
	case OutlineOpMoveTo:
		return "MoveTo"
	case OutlineOpLineTo:
		return "LineTo"
	case OutlineOpQuadTo:
		return "QuadTo"
	case OutlineOpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// Segment represents one segment of an outline.
type Segment struct {
	// Op is the segment operation type.
	Op OutlineOp

	// Points contains the control and end points for this segment.
	//   - MoveTo: Points[0] is the target point
	//   - LineTo: Points[0] is the target point
	//   - QuadTo: Points[0] is control, Points[1] is target
	//   - CubicTo: Points[0], Points[1] are controls, Points[2] is target
	Points [3]Point
}

// Outline is a vector outline made of one or more closed contours. Each
// MoveTo starts a new contour; contours close implicitly.
type Outline struct {
	Segments []Segment
}

// MoveTo starts a new contour at (x, y).
func (o *Outline) MoveTo(x, y float32) {
	o.Segments = append(o.Segments, Segment{
		Op:     OutlineOpMoveTo,
		Points: [3]Point{{X: x, Y: y}},
	})
}

// LineTo draws a line to (x, y).
func (o *Outline) LineTo(x, y float32) {
	o.Segments = append(o.Segments, Segment{
		Op:     OutlineOpLineTo,
		Points: [3]Point{{X: x, Y: y}},
	})
}

// QuadTo draws a quadratic bezier through control (cx, cy) to (x, y).
func (o *Outline) QuadTo(cx, cy, x, y float32) {
	o.Segments = append(o.Segments, Segment{
		Op:     OutlineOpQuadTo,
		Points: [3]Point{{X: cx, Y: cy}, {X: x, Y: y}},
	})
}

// CubicTo draws a cubic bezier through controls (c1x, c1y) and (c2x, c2y)
// to (x, y).
func (o *Outline) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	o.Segments = append(o.Segments, Segment{
		Op:     OutlineOpCubicTo,
		Points: [3]Point{{X: c1x, Y: c1y}, {X: c2x, Y: c2y}, {X: x, Y: y}},
	})
}

// IsEmpty returns true if the outline has no segments.
func (o *Outline) IsEmpty() bool {
	return len(o.Segments) == 0
}
