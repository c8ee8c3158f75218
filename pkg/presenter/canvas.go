package presenter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/novvoo/go-cairo/pkg/cairo"

	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/overlay"
	"github.com/novvoo/go-presentation/pkg/raster"
)

// 界面文字字体。go-cairo 把 "sans" 解析为嵌入字体表中的 "sans-regular"，
// Metrics 用同一字体测量，右对齐的文字才不会偏移
const (
	fontFamily = "sans"
	fontKey    = "sans-regular"
)

// RGB 颜色
type RGB struct {
	R, G, B float64
}

var (
	black = RGB{0, 0, 0}
	white = RGB{1, 1, 1}
	gray  = RGB{0.5, 0.5, 0.5}
	blue  = RGB{0, 0, 1}
)

// canvas 一帧画面：ARGB32 image surface、其 RGBA 绘制缓冲及绘图上下文
type canvas struct {
	surface cairo.ImageSurface
	pixels  *image.RGBA
	ctx     cairo.Context
	width   int
	height  int
}

func newCanvas(width, height int, background RGB) (*canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	surface := cairo.NewImageSurface(cairo.FormatARGB32, width, height)
	imgSurf, ok := surface.(cairo.ImageSurface)
	if !ok {
		surface.Destroy()
		return nil, fmt.Errorf("failed to create image surface")
	}
	pixels, err := raster.SurfaceImage(imgSurf)
	if err != nil {
		imgSurf.Destroy()
		return nil, err
	}
	ctx := cairo.NewContext(imgSurf)
	ctx.SetSourceRGB(background.R, background.G, background.B)
	ctx.Paint()
	return &canvas{surface: imgSurf, pixels: pixels, ctx: ctx, width: width, height: height}, nil
}

func (c *canvas) destroy() {
	c.ctx.Destroy()
	c.surface.Destroy()
}

// encodePNG 把画面编码为 PNG
func (c *canvas) encodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.pixels); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *canvas) fillRect(r geom.Rect, col RGB, alpha float64) {
	c.ctx.SetSourceRGBA(col.R, col.G, col.B, alpha)
	c.ctx.Rectangle(r.X, r.Y, r.W, r.H)
	c.ctx.Fill()
}

func (c *canvas) strokeRect(r geom.Rect, col RGB, width float64) {
	c.ctx.SetSourceRGB(col.R, col.G, col.B)
	c.ctx.SetLineWidth(width)
	c.ctx.Rectangle(r.X, r.Y, r.W, r.H)
	c.ctx.Stroke()
}

// text 以 (x, y) 为左上角绘制单行文本
func (c *canvas) text(s string, x, y, size float64, col RGB, alpha float64) {
	if s == "" {
		return
	}
	c.ctx.Save()
	c.ctx.SetSourceRGBA(col.R, col.G, col.B, alpha)
	c.ctx.MoveTo(x, y)
	layout := c.ctx.PangoCairoCreateLayout().(*cairo.PangoCairoLayout)
	fd := cairo.NewPangoFontDescription()
	fd.SetFamily(fontFamily)
	fd.SetSize(size)
	layout.SetFontDescription(fd)
	layout.SetText(s)
	c.ctx.PangoCairoShowText(layout)
	c.ctx.Restore()
}

// outlinedText 深色描边、浅色填充的文本，在任意背景上可读
func (c *canvas) outlinedText(s string, x, y, size float64) {
	d := size / 15
	for _, off := range [][2]float64{{-d, -d}, {0, -d}, {d, -d}, {-d, 0}, {d, 0}, {-d, d}, {0, d}, {d, d}} {
		c.text(s, x+off[0], y+off[1], size, black, 0.75)
	}
	c.text(s, x, y, size, white, 0.75)
}

// windowRect 页面坐标矩形经 m 变换后的窗口外接矩形
func windowRect(m geom.Matrix, r geom.Rect) geom.Rect {
	a := m.Transform(geom.Point{X: r.X, Y: r.Y})
	b := m.Transform(geom.Point{X: r.X + r.W, Y: r.Y + r.H})
	return geom.RectFromCorners(a.X, a.Y, b.X, b.Y)
}

// drawPage 在 m 给出的位置绘制页面位图；白底先行，位图缺失时仍有页面轮廓
func (c *canvas) drawPage(src PageSource, index int, crop geom.Rect, m geom.Matrix) error {
	dst := windowRect(m, crop)
	c.fillRect(dst, white, 1)
	if src == nil {
		return nil
	}
	px := int(math.Round(dst.W))
	if px < 1 {
		return nil
	}
	img, err := src.Page(index, crop.W, px)
	if err != nil {
		return err
	}
	// go-cairo 的 surface pattern 只是纯色近似，位图直接合成到绘制缓冲
	r := image.Rect(
		int(math.Round(dst.X)), int(math.Round(dst.Y)),
		int(math.Round(dst.X+dst.W)), int(math.Round(dst.Y+dst.H)))
	raster.Composite(c.pixels, r, img)
	return nil
}

// drawStrokes 白色 2 像素打底、黑色 1 像素描线，圆角端点
func (c *canvas) drawStrokes(strokes []*overlay.Stroke, m geom.Matrix) {
	c.ctx.Save()
	c.ctx.SetLineCap(cairo.LineCapRound)
	c.ctx.SetLineJoin(cairo.LineJoinRound)
	for _, pass := range []struct {
		col   RGB
		width float64
	}{{white, 2}, {black, 1}} {
		c.ctx.SetSourceRGB(pass.col.R, pass.col.G, pass.col.B)
		c.ctx.SetLineWidth(pass.width)
		for _, s := range strokes {
			if len(s.Points) == 0 {
				continue
			}
			p := m.Transform(s.Points[0])
			c.ctx.MoveTo(p.X, p.Y)
			for _, q := range s.Points[1:] {
				p = m.Transform(q)
				c.ctx.LineTo(p.X, p.Y)
			}
			c.ctx.Stroke()
		}
	}
	c.ctx.Restore()
}
