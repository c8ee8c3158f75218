package geom

import "math"

// Point 二维点
type Point struct {
	X, Y float64
}

// Dist 两点间距离
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect 轴对齐矩形，(X, Y) 为最小角
type Rect struct {
	X, Y float64
	W, H float64
}

// RectFromCorners 由 PDF 的 [llx lly urx ury] 构造，自动规整顺序
func RectFromCorners(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X: math.Min(x1, x2),
		Y: math.Min(y1, y2),
		W: math.Abs(x2 - x1),
		H: math.Abs(y2 - y1),
	}
}

// Contains 点是否在矩形内（含边界）
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Empty 宽或高为零
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// PagePlacement 把 PDF 页面坐标（原点左下，Y 向上）映射到窗口槽位（原点左上，Y 向下）。
// 页面按宽度缩放到槽位宽；center 为 true 时改为完整放入槽位并居中。
func PagePlacement(crop, slot Rect, center bool) Matrix {
	if crop.Empty() {
		return NewTranslationMatrix(slot.X, slot.Y)
	}
	s := slot.W / crop.W
	x, y := slot.X, slot.Y
	if center {
		s = math.Min(slot.W/crop.W, slot.H/crop.H)
		x += (slot.W - crop.W*s) / 2
		y += (slot.H - crop.H*s) / 2
	}
	return NewTranslationMatrix(-crop.X, -(crop.Y + crop.H)).
		Multiply(NewScaleMatrix(s, -s)).
		Multiply(NewTranslationMatrix(x, y))
}
