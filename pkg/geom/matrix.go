package geom

import (
	"fmt"
	"math"
)

// Matrix 仿射变换矩阵，字段布局与 cairo_matrix_t 相同
//
//	x' = XX*x + XY*y + X0
//	y' = YX*x + YY*y + Y0
type Matrix struct {
	XX, YX float64
	XY, YY float64
	X0, Y0 float64
}

// NewIdentityMatrix 创建单位矩阵
func NewIdentityMatrix() Matrix {
	return Matrix{XX: 1, YY: 1}
}

// NewTranslationMatrix 创建平移矩阵
func NewTranslationMatrix(tx, ty float64) Matrix {
	return Matrix{XX: 1, YY: 1, X0: tx, Y0: ty}
}

// NewScaleMatrix 创建缩放矩阵
func NewScaleMatrix(sx, sy float64) Matrix {
	return Matrix{XX: sx, YY: sy}
}

// NewScaleAboutMatrix 以点 p 为不动点的均匀缩放
func NewScaleAboutMatrix(p Point, s float64) Matrix {
	return NewTranslationMatrix(-p.X, -p.Y).
		Multiply(NewScaleMatrix(s, s)).
		Multiply(NewTranslationMatrix(p.X, p.Y))
}

// Multiply 组合变换：先应用 m，再应用 other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		XX: m.XX*other.XX + m.YX*other.XY,
		YX: m.XX*other.YX + m.YX*other.YY,
		XY: m.XY*other.XX + m.YY*other.XY,
		YY: m.XY*other.YX + m.YY*other.YY,
		X0: m.X0*other.XX + m.Y0*other.XY + other.X0,
		Y0: m.X0*other.YX + m.Y0*other.YY + other.Y0,
	}
}

// Transform 对点进行变换
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m.XX*p.X + m.XY*p.Y + m.X0,
		Y: m.YX*p.X + m.YY*p.Y + m.Y0,
	}
}

// TransformDistance 对距离向量进行变换（不包括平移）
func (m Matrix) TransformDistance(dx, dy float64) (float64, float64) {
	return m.XX*dx + m.XY*dy, m.YX*dx + m.YY*dy
}

// Invert 计算逆矩阵
func (m Matrix) Invert() (Matrix, error) {
	det := m.XX*m.YY - m.YX*m.XY
	if math.Abs(det) < 1e-10 {
		return Matrix{}, fmt.Errorf("matrix is not invertible (determinant is zero)")
	}

	invDet := 1.0 / det
	return Matrix{
		XX: m.YY * invDet,
		YX: -m.YX * invDet,
		XY: -m.XY * invDet,
		YY: m.XX * invDet,
		X0: (m.XY*m.Y0 - m.YY*m.X0) * invDet,
		Y0: (m.YX*m.X0 - m.XX*m.Y0) * invDet,
	}, nil
}

// PreTranslate 在 m 之前先平移
func (m Matrix) PreTranslate(tx, ty float64) Matrix {
	return NewTranslationMatrix(tx, ty).Multiply(m)
}

// PreScaleAbout 在 m 之前先以 p 为中心缩放
func (m Matrix) PreScaleAbout(p Point, s float64) Matrix {
	return NewScaleAboutMatrix(p, s).Multiply(m)
}

// ScaleFactor 返回 x 方向的线性缩放量，用于线宽和字号换算
func (m Matrix) ScaleFactor() float64 {
	return math.Hypot(m.XX, m.YX)
}

// IsIdentity 是否为单位矩阵
func (m Matrix) IsIdentity() bool {
	return m == NewIdentityMatrix()
}

// String 返回矩阵的字符串表示
func (m Matrix) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f %.3f %.3f]", m.XX, m.YX, m.XY, m.YY, m.X0, m.Y0)
}
