package presenter

import (
	"fmt"
	"image"
	"net/url"
	"path"

	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/overlay"
	"github.com/novvoo/go-presentation/pkg/view"
	"github.com/novvoo/go-presentation/pkg/web"
)

const (
	linkFrameWidth = 0.5
	nextPageDim    = 0.25
	feedOffset     = 4.0
)

// PageSource 提供按像素宽度栅格化的页面位图
type PageSource interface {
	Page(page int, pageWidth float64, width int) (*image.RGBA, error)
}

// Renderer 合成演讲者与观众两个窗口的画面
type Renderer struct {
	doc     *document.Document
	pages   PageSource
	metrics *Metrics
	log     *logger.Logger
}

// NewRenderer 创建渲染器；pages 为 nil 时页面只绘制白底
func NewRenderer(doc *document.Document, pages PageSource, metrics *Metrics, log *logger.Logger) *Renderer {
	return &Renderer{doc: doc, pages: pages, metrics: metrics, log: log}
}

// Measure 文本宽度
func (r *Renderer) Measure(s string, size float64) float64 {
	return r.metrics.Width(s, size)
}

// Blank 纯黑画面，窗口隐藏时使用
func (r *Renderer) Blank(width, height int) ([]byte, error) {
	c, err := newCanvas(width, height, black)
	if err != nil {
		return nil, err
	}
	defer c.destroy()
	return c.encodePNG()
}

// PresenterState 演讲者窗口一帧所需的状态快照
type PresenterState struct {
	Page     int
	Viewport geom.Matrix
	Drawing  bool
	Windowed bool
	Clock    string
	ShowHelp bool
	Help     HelpState
	Strokes  []*overlay.Stroke
	Notes    []string
	Status   string
}

// Counter 页码文本 "label/lastLabel (n/count)"
func Counter(doc *document.Document, page int) string {
	return fmt.Sprintf("%s/%s (%d/%d)", doc.Label(page), doc.LastLabel(), page+1, doc.PageCount())
}

// Presenter 渲染演讲者窗口，返回 PNG
func (r *Renderer) Presenter(width, height int, st PresenterState) ([]byte, error) {
	c, err := newCanvas(width, height, black)
	if err != nil {
		return nil, err
	}
	defer c.destroy()

	l := NewLayout(float64(width), float64(height), st.Windowed)
	page, ok := r.doc.Page(st.Page)
	if !ok {
		return c.encodePNG()
	}

	m := st.Viewport.Multiply(l.CurrentPlacement(page.CropBox))
	r.page(c, st.Page, page.CropBox, m)
	c.drawStrokes(st.Strokes, m)
	if st.Drawing {
		return c.encodePNG()
	}

	for _, link := range page.Links() {
		c.strokeRect(windowRect(m, link.Bounds), blue, linkFrameWidth*m.ScaleFactor())
	}
	if st.Windowed {
		return c.encodePNG()
	}
	c.strokeRect(windowRect(m, page.CropBox), gray, 1)

	// 时钟
	cs := l.ClockFontSize()
	o := l.ClockOrigin(r.metrics.Width(st.Clock, cs))
	c.text(st.Clock, o.X, o.Y, cs, white, 1)

	// 页码
	o = l.CounterOrigin()
	c.text(Counter(r.doc, st.Page), o.X, o.Y, l.FontSize(), white, 1)
	if st.Status != "" {
		c.text(st.Status, o.X, 1.6*l.Margin, l.NoteFontSize(), RGB{1, 0.6, 0.2}, 1)
	}

	// 备注
	if len(st.Notes) > 0 {
		ns := l.NoteFontSize()
		o = l.NotesOrigin(len(st.Notes))
		for i, note := range st.Notes {
			c.text(note, o.X, o.Y+float64(i)*lineHeight(ns), ns, white, 1)
		}
	}

	if st.ShowHelp {
		r.help(c, l, Help(st.Help))
	}

	// 下一页
	next, ok := r.doc.Page(st.Page + 1)
	if !ok {
		return c.encodePNG()
	}
	nm := st.Viewport.Multiply(l.NextPlacement(next.CropBox))
	r.page(c, st.Page+1, next.CropBox, nm)
	c.fillRect(windowRect(nm, next.CropBox), RGB{nextPageDim, nextPageDim, nextPageDim}, nextPageDim)

	return c.encodePNG()
}

func (r *Renderer) page(c *canvas, index int, crop geom.Rect, m geom.Matrix) {
	if err := c.drawPage(r.pages, index, crop, m); err != nil {
		r.log.Warn("page render failed", "page", index, "error", err)
	}
}

// help 两列表格：按键右对齐，说明左对齐
func (r *Renderer) help(c *canvas, l Layout, entries []HelpEntry) {
	size := l.HelpFontSize()
	var keyWidth float64
	for _, e := range entries {
		if w := r.metrics.Width(e.Key, size); w > keyWidth {
			keyWidth = w
		}
	}
	pad := size
	o := l.HelpOrigin(len(entries))
	for i, e := range entries {
		y := o.Y + float64(i)*lineHeight(size)
		kx := o.X + pad + keyWidth - r.metrics.Width(e.Key, size)
		c.text(e.Key, kx, y, size, white, 1)
		c.text(e.Text, o.X+2*pad+keyWidth, y, size, white, 1)
	}
}

// FeedLine 消息条当前行及其横坐标
type FeedLine struct {
	Text string
	X    float64
	Size float64
}

// AudienceState 观众窗口一帧所需的状态快照
type AudienceState struct {
	Page      int
	Viewport  geom.Matrix
	View      view.Selection
	Strokes   []*overlay.Stroke
	Questions []string
	Web       *web.Page
	WebZoom   float64
	MovieURL  string
	Feed      *FeedLine
}

// Audience 渲染观众窗口，返回 PNG
func (r *Renderer) Audience(width, height int, st AudienceState) ([]byte, error) {
	c, err := newCanvas(width, height, black)
	if err != nil {
		return nil, err
	}
	defer c.destroy()

	w, h := float64(width), float64(height)
	switch st.View {
	case view.Slide:
		if page, ok := r.doc.Page(st.Page); ok {
			m := st.Viewport.Multiply(AudiencePlacement(page.CropBox, w, h))
			r.page(c, st.Page, page.CropBox, m)
			c.drawStrokes(st.Strokes, m)
		}
	case view.Poll:
		r.poll(c, w, h, st.Questions)
	case view.Web:
		r.web(c, w, h, st.Web, st.WebZoom)
	case view.Movie:
		r.movie(c, w, h, st.MovieURL)
	}

	if st.Feed != nil {
		size := st.Feed.Size
		if size <= 0 {
			size = 30
		}
		c.outlinedText(st.Feed.Text, st.Feed.X, h-feedOffset-lineHeight(size), size)
	}
	return c.encodePNG()
}

func (r *Renderer) poll(c *canvas, w, h float64, questions []string) {
	size := h / 16
	margin := w / 20
	y := margin
	for _, q := range questions {
		for _, line := range r.metrics.Wrap(q, size, w-2*margin) {
			c.text(line, margin, y, size, white, 1)
			y += lineHeight(size)
		}
		y += size / 2
	}
}

func (r *Renderer) web(c *canvas, w, h float64, page *web.Page, zoom float64) {
	c.fillRect(geom.Rect{W: w, H: h}, white, 1)
	if page == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	margin := 24 * zoom
	maxWidth := w - 2*margin
	y := margin

	emit := func(s string, size float64, col RGB, indent float64) bool {
		for _, line := range r.metrics.Wrap(s, size, maxWidth-indent) {
			if y > h {
				return false
			}
			c.text(line, margin+indent, y, size, col, 1)
			y += lineHeight(size)
		}
		y += size / 2
		return true
	}

	if !emit(page.Title, 28*zoom, black, 0) || !emit(page.URL, 12*zoom, gray, 0) {
		return
	}
	for _, b := range page.Blocks {
		size, indent, text := 16*zoom, 0.0, b.Text
		switch b.Kind {
		case web.BlockHeading:
			size = (30 - 2*float64(b.Level)) * zoom
		case web.BlockItem:
			indent, text = 16*zoom, "• "+b.Text
		}
		if !emit(text, size, black, indent) {
			return
		}
	}
}

func (r *Renderer) movie(c *canvas, w, h float64, rawURL string) {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = path.Base(u.Path)
	}
	label := "▶ " + name
	size := h / 20
	tw := r.metrics.Width(label, size)
	c.text(label, (w-tw)/2, (h-lineHeight(size))/2, size, white, 1)
}
