package main

import (
	"image/png"
	"io"

	"github.com/novvoo/go-cairo/pkg/cairo"

	"github.com/novvoo/go-presentation/pkg/raster"
)

const iconSize = 128

// writeIcon 绘制应用图标：深色底上的投影幕布和一页幻灯片
func writeIcon(w io.Writer) error {
	surf := cairo.NewImageSurface(cairo.FormatARGB32, iconSize, iconSize).(cairo.ImageSurface)
	defer surf.Destroy()
	ctx := cairo.NewContext(surf)
	defer ctx.Destroy()

	ctx.SetSourceRGB(0.13, 0.15, 0.2)
	ctx.Paint()

	// 幕布
	ctx.SetSourceRGB(1, 1, 1)
	ctx.Rectangle(14, 18, 100, 70)
	ctx.Fill()
	ctx.SetSourceRGB(0.2, 0.4, 0.9)
	ctx.SetLineWidth(4)
	ctx.Rectangle(14, 18, 100, 70)
	ctx.Stroke()

	// 标题和正文行
	ctx.SetSourceRGB(0.2, 0.4, 0.9)
	ctx.Rectangle(26, 30, 60, 8)
	ctx.Fill()
	ctx.SetSourceRGB(0.6, 0.6, 0.6)
	for _, y := range []float64{46, 56, 66} {
		ctx.Rectangle(26, y, 76, 4)
		ctx.Fill()
	}

	// 支架
	ctx.SetSourceRGB(0.85, 0.85, 0.85)
	ctx.SetLineWidth(6)
	ctx.SetLineCap(cairo.LineCapRound)
	ctx.MoveTo(64, 92)
	ctx.LineTo(64, 112)
	ctx.MoveTo(44, 114)
	ctx.LineTo(84, 114)
	ctx.Stroke()

	return png.Encode(w, raster.SurfaceToImage(surf))
}
