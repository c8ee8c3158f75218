package geom

import (
	"math"
	"testing"
)

const tolerance = 1e-10

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// 先平移再缩放
	m := NewTranslationMatrix(10, 20).Multiply(NewScaleMatrix(2, 3))
	got := m.Transform(Point{1, 1})
	if !near(got, Point{22, 63}) {
		t.Errorf("translate then scale: got %v, want (22, 63)", got)
	}

	// 先缩放再平移
	m = NewScaleMatrix(2, 3).Multiply(NewTranslationMatrix(10, 20))
	got = m.Transform(Point{1, 1})
	if !near(got, Point{12, 23}) {
		t.Errorf("scale then translate: got %v, want (12, 23)", got)
	}
}

func TestMatrixTransformDistance(t *testing.T) {
	m := NewTranslationMatrix(10, 20).Multiply(NewScaleMatrix(2, 2))
	dx, dy := m.TransformDistance(5, 15)
	if dx != 10 || dy != 30 {
		t.Errorf("TransformDistance ignored scale or applied translation: got (%f, %f)", dx, dy)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := NewTranslationMatrix(3, -7).Multiply(NewScaleMatrix(4, 0.5))
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	p := Point{12.5, -3}
	if got := inv.Transform(m.Transform(p)); !near(got, p) {
		t.Errorf("inverse round trip: got %v, want %v", got, p)
	}
	id := m.Multiply(inv)
	if math.Abs(id.XX-1) > tolerance || math.Abs(id.YY-1) > tolerance || math.Abs(id.X0) > tolerance || math.Abs(id.Y0) > tolerance {
		t.Errorf("m * inv(m) = %v, want identity", id)
	}

	if _, err := NewScaleMatrix(0, 1).Invert(); err == nil {
		t.Errorf("singular matrix should not be invertible")
	}
}

func TestScaleAboutKeepsFixedPoint(t *testing.T) {
	p := Point{40, 25}
	m := NewScaleAboutMatrix(p, 1.7)
	if got := m.Transform(p); !near(got, p) {
		t.Errorf("fixed point moved: got %v, want %v", got, p)
	}
	if got := m.Transform(Point{41, 25}); !near(got, Point{41.7, 25}) {
		t.Errorf("unexpected scaling: got %v", got)
	}
}

func TestPagePlacementFlipsY(t *testing.T) {
	crop := Rect{X: 0, Y: 0, W: 200, H: 100}
	slot := Rect{X: 10, Y: 20, W: 400, H: 300}
	m := PagePlacement(crop, slot, false)

	if got := m.Transform(Point{0, 100}); !near(got, Point{10, 20}) {
		t.Errorf("top-left of page: got %v, want slot origin", got)
	}
	if got := m.Transform(Point{200, 0}); !near(got, Point{410, 220}) {
		t.Errorf("bottom-right of page: got %v, want (410, 220)", got)
	}
}

func TestPagePlacementCentered(t *testing.T) {
	crop := Rect{X: 0, Y: 0, W: 100, H: 100}
	slot := Rect{X: 0, Y: 0, W: 400, H: 200}
	m := PagePlacement(crop, slot, true)

	if got := m.Transform(Point{0, 100}); !near(got, Point{100, 0}) {
		t.Errorf("centered placement: got %v, want (100, 0)", got)
	}
	if got := m.Transform(Point{100, 0}); !near(got, Point{300, 200}) {
		t.Errorf("centered placement: got %v, want (300, 200)", got)
	}
}

func TestRectFromCornersAndContains(t *testing.T) {
	r := RectFromCorners(50, 80, 10, 20)
	if r != (Rect{X: 10, Y: 20, W: 40, H: 60}) {
		t.Errorf("RectFromCorners = %+v", r)
	}
	if !r.Contains(Point{10, 20}) || !r.Contains(Point{50, 80}) || r.Contains(Point{51, 50}) {
		t.Errorf("Contains boundary handling wrong for %+v", r)
	}
}
