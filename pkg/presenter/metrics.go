package presenter

import (
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"github.com/novvoo/go-cairo/pkg/cairo"
	"golang.org/x/image/math/fixed"
)

// Metrics 文本宽度测量，用于右对齐和自动换行
type Metrics struct {
	face   font.Face
	shaper shaping.HarfbuzzShaper
}

// NewMetrics 使用与画面文字相同的 go-cairo 字体
func NewMetrics() (*Metrics, error) {
	face, _, err := cairo.LoadEmbeddedFont(fontKey)
	if err != nil {
		return nil, err
	}
	return &Metrics{face: face}, nil
}

// Width 返回 s 在字号 size 下的前进宽度
func (m *Metrics) Width(s string, size float64) float64 {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      m.face,
		Size:      fixed.Int26_6(size * 64),
	}
	out := m.shaper.Shape(input)
	return float64(out.Advance) / 64
}

// Wrap 按最大宽度贪心换行；超长单词单独成行
func (m *Metrics) Wrap(s string, size, maxWidth float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if m.Width(candidate, size) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
