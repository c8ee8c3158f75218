// Package presenter 负责两个窗口的画面合成：演讲者视图和观众视图
package presenter

import (
	"github.com/novvoo/go-presentation/pkg/geom"
)

const (
	// lineSpacing 行高与字号之比
	lineSpacing = 1.2
	// minHelpFontSize 帮助表的最小字号
	minHelpFontSize = 8.0
)

// Layout 演讲者窗口的布局，所有坐标以窗口左上角为原点
type Layout struct {
	Width, Height float64
	Margin        float64
	CurrentWidth  float64
	Windowed      bool
}

// NewLayout 按窗口尺寸计算布局。windowed 为窗口化演示模式，只显示当前页。
func NewLayout(width, height float64, windowed bool) Layout {
	margin := width / 40
	cw := (width - 3*margin) * 2 / 3
	if windowed {
		cw = width - 2*margin
	}
	return Layout{
		Width:        width,
		Height:       height,
		Margin:       margin,
		CurrentWidth: cw,
		Windowed:     windowed,
	}
}

// CurrentSlot 当前页区域；页面按宽度适配，高度不受限
func (l Layout) CurrentSlot() geom.Rect {
	return geom.Rect{X: l.Margin, Y: l.Margin, W: l.CurrentWidth, H: l.Height - 2*l.Margin}
}

// NextSlot 下一页预览区域，宽度为当前页的一半
func (l Layout) NextSlot() geom.Rect {
	return geom.Rect{
		X: 2*l.Margin + l.CurrentWidth,
		Y: 2.5 * l.Margin,
		W: l.CurrentWidth / 2,
		H: l.Height - 3.5*l.Margin,
	}
}

// CurrentPlacement 当前页裁剪框到窗口的放置变换
func (l Layout) CurrentPlacement(crop geom.Rect) geom.Matrix {
	return geom.PagePlacement(crop, l.CurrentSlot(), false)
}

// NextPlacement 下一页裁剪框到窗口的放置变换
func (l Layout) NextPlacement(crop geom.Rect) geom.Matrix {
	return geom.PagePlacement(crop, l.NextSlot(), false)
}

// FontSize 页码字号
func (l Layout) FontSize() float64 {
	return l.Margin
}

// ClockFontSize 时钟字号
func (l Layout) ClockFontSize() float64 {
	return 1.5 * l.Margin
}

// NoteFontSize 备注字号
func (l Layout) NoteFontSize() float64 {
	return 0.6 * l.Margin
}

// HelpFontSize 帮助表字号
func (l Layout) HelpFontSize() float64 {
	if s := 0.4 * l.Margin; s > minHelpFontSize {
		return s
	}
	return minHelpFontSize
}

// ClockOrigin 时钟文本左上角；文本右对齐到右边距，底边距顶部 2·margin
func (l Layout) ClockOrigin(textWidth float64) geom.Point {
	return geom.Point{
		X: l.Width - l.Margin - textWidth,
		Y: 2*l.Margin - lineHeight(l.ClockFontSize()),
	}
}

// CounterOrigin 页码文本左上角；底边距顶部 1.4·margin
func (l Layout) CounterOrigin() geom.Point {
	return geom.Point{
		X: 1.5*l.Margin + l.CurrentWidth,
		Y: 1.4*l.Margin - lineHeight(l.FontSize()),
	}
}

// NotesOrigin n 行备注的左上角，底边贴齐窗口底部
func (l Layout) NotesOrigin(lines int) geom.Point {
	return geom.Point{
		X: l.Margin,
		Y: l.Height - float64(lines)*lineHeight(l.NoteFontSize()),
	}
}

// HelpOrigin n 行帮助的左上角，位于下一页预览下方，底边贴齐窗口底部
func (l Layout) HelpOrigin(lines int) geom.Point {
	return geom.Point{
		X: 2*l.Margin + l.CurrentWidth,
		Y: l.Height - float64(lines)*lineHeight(l.HelpFontSize()),
	}
}

func lineHeight(size float64) float64 {
	return lineSpacing * size
}

// AudiencePlacement 观众窗口中页面居中完整显示的放置变换
func AudiencePlacement(crop geom.Rect, width, height float64) geom.Matrix {
	return geom.PagePlacement(crop, geom.Rect{W: width, H: height}, true)
}
