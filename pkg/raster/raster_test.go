package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/novvoo/go-cairo/pkg/cairo"
	"golang.org/x/image/draw"

	"github.com/novvoo/go-presentation/pkg/logger"
)

type fakeRasterizer struct {
	calls  int
	scales []float64
	err    error
}

func (f *fakeRasterizer) Rasterize(page int, scale float64) (image.Image, error) {
	f.calls++
	f.scales = append(f.scales, scale)
	if f.err != nil {
		return nil, f.err
	}
	// 模拟 DPI 取整导致的 1 像素误差
	w := int(100*scale) + 1
	h := int(50*scale) + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func (f *fakeRasterizer) Close() error { return nil }

func TestCacheScalesToExactWidth(t *testing.T) {
	r := &fakeRasterizer{}
	c := NewCache(r, 2, logger.Nop())

	img, err := c.Page(0, 100, 200)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("bounds = %v, want 200x100", img.Bounds())
	}
	if r.scales[0] != 2 {
		t.Errorf("scale = %v, want 2", r.scales[0])
	}
}

func TestCacheReusesAndEvicts(t *testing.T) {
	r := &fakeRasterizer{}
	c := NewCache(r, 2, logger.Nop())

	c.Page(0, 100, 100)
	c.Page(0, 100, 100)
	if r.calls != 1 {
		t.Errorf("second lookup rasterized again: %d calls", r.calls)
	}
	c.Page(1, 100, 100)
	c.Page(2, 100, 100)
	if c.Len() != 2 {
		t.Errorf("cache size = %d, want 2", c.Len())
	}
	c.Page(0, 100, 100)
	if r.calls != 4 {
		t.Errorf("evicted entry should be rasterized again, calls = %d", r.calls)
	}
}

func TestCacheKeepsRecentlyUsed(t *testing.T) {
	r := &fakeRasterizer{}
	c := NewCache(r, 2, logger.Nop())

	c.Page(0, 100, 100)
	c.Page(1, 100, 100)
	c.Page(0, 100, 100)
	c.Page(2, 100, 100)
	if r.calls != 3 {
		t.Fatalf("calls = %d, want 3", r.calls)
	}
	c.Page(0, 100, 100)
	if r.calls != 3 {
		t.Errorf("recently used page was evicted, calls = %d", r.calls)
	}
	c.Page(1, 100, 100)
	if r.calls != 4 {
		t.Errorf("least recently used page should have been evicted, calls = %d", r.calls)
	}
}

func TestCacheErrors(t *testing.T) {
	r := &fakeRasterizer{err: errors.New("broken")}
	c := NewCache(r, 2, logger.Nop())
	if _, err := c.Page(0, 100, 100); err == nil {
		t.Error("expected rasterizer error")
	}
	if _, err := c.Page(0, 0, 100); err == nil {
		t.Error("expected error for zero page width")
	}
}

func TestCairoDrawingReachesImage(t *testing.T) {
	surf, ok := cairo.NewImageSurface(cairo.FormatARGB32, 40, 20).(cairo.ImageSurface)
	if !ok {
		t.Fatal("NewImageSurface did not return an image surface")
	}
	defer surf.Destroy()
	ctx := cairo.NewContext(surf)
	defer ctx.Destroy()

	ctx.SetSourceRGB(0, 0, 0)
	ctx.Paint()
	ctx.SetSourceRGB(1, 1, 1)
	ctx.Rectangle(0, 0, 20, 20)
	ctx.Fill()

	pixels, err := SurfaceImage(surf)
	if err != nil {
		t.Fatalf("SurfaceImage: %v", err)
	}
	page := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	Composite(pixels, image.Rect(25, 5, 35, 15), page)

	out := SurfaceToImage(surf)
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{22, 2, color.NRGBA{A: 255}},
		{30, 10, color.NRGBA{R: 255, A: 255}},
		{38, 18, color.NRGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCompositeScalesToRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{B: 255, A: 255}), image.Point{}, draw.Src)

	Composite(dst, image.Rect(0, 0, 10, 10), src)
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("inside = %v, want opaque blue", got)
	}
	if got := dst.RGBAAt(15, 15); got.A != 0 {
		t.Errorf("outside the target rect = %v, want untouched", got)
	}
}
