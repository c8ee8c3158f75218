package web

// ZoomStep 每次放大或缩小的倍数
const ZoomStep = 1.1

// Zoom 网页视图的缩放系数
type Zoom struct {
	factor float64
}

// NewZoom 初始缩放为 1
func NewZoom() *Zoom {
	return &Zoom{factor: 1}
}

// Factor 当前缩放系数
func (z *Zoom) Factor() float64 {
	return z.factor
}

// IsZoomKey 是否为网页缩放键
func IsZoomKey(key rune) bool {
	switch key {
	case '+', '=', '-', '_', '0':
		return true
	}
	return false
}

// ApplyKey '+'/'=' 放大，'-'/'_' 缩小，'0' 复位
func (z *Zoom) ApplyKey(key rune) bool {
	switch key {
	case '+', '=':
		z.factor *= ZoomStep
	case '-', '_':
		z.factor /= ZoomStep
	case '0':
		z.factor = 1
	default:
		return false
	}
	return true
}
