package document

import (
	"strconv"

	"github.com/novvoo/go-presentation/pkg/geom"
)

// SectionMarks 当前页章节标记给出的章节起始页
type SectionMarks struct {
	Current int
	Next    int
}

// Page 文档中的一页，加载后不再修改
type Page struct {
	Index       int
	Label       string
	CropBox     geom.Rect
	Annotations []Annotation
	Sections    SectionMarks

	notes     []string
	questions []string
}

// Notes 该页的演讲者笔记
func (p *Page) Notes() []string {
	return p.notes
}

// Questions 该页的投票问题
func (p *Page) Questions() []string {
	return p.questions
}

// Links 可点击的普通链接（不含章节标记）
func (p *Page) Links() []Annotation {
	var links []Annotation
	for _, a := range p.Annotations {
		if a.IsLink() {
			links = append(links, a)
		}
	}
	return links
}

// LinkAt 返回覆盖页面坐标 pt 的最上层普通链接
func (p *Page) LinkAt(pt geom.Point) (Annotation, bool) {
	for i := len(p.Annotations) - 1; i >= 0; i-- {
		a := p.Annotations[i]
		if a.IsLink() && a.Bounds.Contains(pt) {
			return a, true
		}
	}
	return Annotation{}, false
}

// classify 根据注释分类计算笔记、问题和章节标记
func (p *Page) classify() {
	p.notes, p.questions = nil, nil
	p.Sections = SectionMarks{Current: NoPage, Next: NoPage}
	for _, a := range p.Annotations {
		switch a.Kind {
		case KindNote:
			p.notes = append(p.notes, a.Text)
		case KindQuestion:
			p.questions = append(p.questions, a.Text)
		case KindSectionMarker:
			if a.Link.HasDest() {
				p.Sections.Current = p.Sections.Next
				p.Sections.Next = a.Link.Dest
			}
		}
	}
}

// Document 已打开的演示文档
type Document struct {
	Title string
	Path  string

	pages     []Page
	lastLabel string
}

// New 由页面列表构建文档，补齐索引、默认标签和注释分类
func New(pages []Page) *Document {
	d := &Document{pages: make([]Page, len(pages))}
	copy(d.pages, pages)
	for i := range d.pages {
		p := &d.pages[i]
		p.Index = i
		if p.Label == "" {
			p.Label = strconv.Itoa(i + 1)
		}
		p.classify()
	}
	if n := len(d.pages); n > 0 {
		d.lastLabel = d.pages[n-1].Label
	}
	return d
}

// PageCount 页数
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page 返回第 i 页（从 0 开始）
func (d *Document) Page(i int) (*Page, bool) {
	if i < 0 || i >= len(d.pages) {
		return nil, false
	}
	return &d.pages[i], true
}

// Label 第 i 页的标签，越界时为空串
func (d *Document) Label(i int) string {
	if p, ok := d.Page(i); ok {
		return p.Label
	}
	return ""
}

// LastLabel 最后一页的标签，用于页码显示
func (d *Document) LastLabel() string {
	return d.lastLabel
}

// Notes 第 i 页的笔记，不存在时为空
func (d *Document) Notes(i int) []string {
	if p, ok := d.Page(i); ok {
		return p.notes
	}
	return nil
}

// Questions 第 i 页的问题，不存在时为空
func (d *Document) Questions(i int) []string {
	if p, ok := d.Page(i); ok {
		return p.questions
	}
	return nil
}
