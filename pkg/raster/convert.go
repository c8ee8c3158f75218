package raster

import (
	"fmt"
	"image"

	"github.com/novvoo/go-cairo/pkg/cairo"
	"golang.org/x/image/draw"
)

// SurfaceImage 返回 surface 的绘制缓冲。
// go-cairo 的绘图操作直接写入 GetGoImage 返回的 *image.RGBA，GetData 的 ARGB 字节不随之更新
func SurfaceImage(imgSurf cairo.ImageSurface) (*image.RGBA, error) {
	rgba, ok := imgSurf.GetGoImage().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("surface has no RGBA buffer (format %v)", imgSurf.GetFormat())
	}
	return rgba, nil
}

// SurfaceToImage 将 surface 内容复制为非预乘的 image.NRGBA
func SurfaceToImage(imgSurf cairo.ImageSurface) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, imgSurf.GetWidth(), imgSurf.GetHeight()))
	src, err := SurfaceImage(imgSurf)
	if err != nil {
		return out
	}
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// Composite 把 src 以 Over 方式画到 dst 的 r 区域，尺寸不一致时缩放到 r
func Composite(dst *image.RGBA, r image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if r.Empty() || sb.Empty() {
		return
	}
	if sb.Dx() == r.Dx() && sb.Dy() == r.Dy() {
		draw.Draw(dst, r, src, sb.Min, draw.Over)
		return
	}
	draw.CatmullRom.Scale(dst, r, src, sb, draw.Over, nil)
}
