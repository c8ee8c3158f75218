package overlay

import (
	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/geom"
)

// Stroke 手绘路径，点位于未变换的页面坐标系
type Stroke struct {
	Points []geom.Point
}

// Append 延长路径
func (s *Stroke) Append(p geom.Point) {
	s.Points = append(s.Points, p)
}

// Store 按页保存手绘笔迹，并提供只读的笔记和问题查询
type Store struct {
	doc     *document.Document
	strokes map[int][]*Stroke
}

// NewStore 创建覆盖层存储
func NewStore(doc *document.Document) *Store {
	return &Store{
		doc:     doc,
		strokes: make(map[int][]*Stroke),
	}
}

// Notes 页面笔记
func (s *Store) Notes(page int) []string {
	return s.doc.Notes(page)
}

// Questions 页面问题
func (s *Store) Questions(page int) []string {
	return s.doc.Questions(page)
}

// AddStroke 在页面上新增一条路径。点数少于 2 时路径仍会保留，供后续拖动继续追加。
func (s *Store) AddStroke(page int, points ...geom.Point) *Stroke {
	stroke := &Stroke{Points: append([]geom.Point(nil), points...)}
	s.strokes[page] = append(s.strokes[page], stroke)
	return stroke
}

// Strokes 页面上的全部路径
func (s *Store) Strokes(page int) []*Stroke {
	return s.strokes[page]
}

// HasStrokes 页面上是否有路径
func (s *Store) HasStrokes(page int) bool {
	return len(s.strokes[page]) > 0
}

// EraseStrokes 清除该页的全部路径，不影响其它页
func (s *Store) EraseStrokes(page int) {
	delete(s.strokes, page)
}
