package tessellate

import "testing"

func TestOutlineBuilding(t *testing.T) {
	var o Outline
	if !o.IsEmpty() {
		t.Error("new outline should be empty")
	}

	o.MoveTo(1, 2)
	o.LineTo(3, 4)
	o.QuadTo(5, 6, 7, 8)
	o.CubicTo(9, 10, 11, 12, 13, 14)

	if o.IsEmpty() {
		t.Error("outline with segments should not be empty")
	}
	if len(o.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(o.Segments))
	}

	if o.Segments[0].Op != OutlineOpMoveTo || o.Segments[0].Points[0] != (Point{X: 1, Y: 2}) {
		t.Errorf("unexpected MoveTo segment: %+v", o.Segments[0])
	}
	if o.Segments[1].Op != OutlineOpLineTo || o.Segments[1].Points[0] != (Point{X: 3, Y: 4}) {
		t.Errorf("unexpected LineTo segment: %+v", o.Segments[1])
	}
	if o.Segments[2].Op != OutlineOpQuadTo {
		t.Errorf("unexpected QuadTo op: %v", o.Segments[2].Op)
	}
	if o.Segments[2].Points[0] != (Point{X: 5, Y: 6}) || o.Segments[2].Points[1] != (Point{X: 7, Y: 8}) {
		t.Errorf("unexpected QuadTo points: %+v", o.Segments[2].Points)
	}
	if o.Segments[3].Op != OutlineOpCubicTo || o.Segments[3].Points[2] != (Point{X: 13, Y: 14}) {
		t.Errorf("unexpected CubicTo segment: %+v", o.Segments[3])
	}
}

func TestOutlineOpString(t *testing.T) {
	cases := map[OutlineOp]string{
		OutlineOpMoveTo:  "MoveTo",
		OutlineOpLineTo:  "LineTo",
		OutlineOpQuadTo:  "QuadTo",
		OutlineOpCubicTo: "CubicTo",
		OutlineOp(99):    "Unknown",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("OutlineOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}
