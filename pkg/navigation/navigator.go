package navigation

import (
	"github.com/novvoo/go-presentation/pkg/document"
)

// State 导航状态：当前页、历史栈和当前页的章节起点
type State struct {
	Current             int
	Past                []int
	Future              []int
	CurrentSectionStart int
	NextSectionStart    int
}

// Navigator 页面导航引擎。所有越界请求被静默截断，目标等于当前页时不做任何事。
type Navigator struct {
	doc      *document.Document
	state    State
	onChange func(from, to int)
}

// New 创建导航器，初始位于第一页
func New(doc *document.Document) *Navigator {
	n := &Navigator{doc: doc}
	n.state.CurrentSectionStart = document.NoPage
	n.state.NextSectionStart = document.NoPage
	n.Refresh()
	return n
}

// SetOnChange 设置页面切换回调
func (n *Navigator) SetOnChange(fn func(from, to int)) {
	n.onChange = fn
}

// Current 当前页索引
func (n *Navigator) Current() int {
	return n.state.Current
}

// State 返回状态快照
func (n *Navigator) State() State {
	s := n.state
	s.Past = append([]int(nil), n.state.Past...)
	s.Future = append([]int(nil), n.state.Future...)
	return s
}

// CurrentSectionStart 当前章节起始页，NoPage 表示未知
func (n *Navigator) CurrentSectionStart() int {
	return n.state.CurrentSectionStart
}

// NextSectionStart 下一章节起始页，NoPage 表示未知
func (n *Navigator) NextSectionStart() int {
	return n.state.NextSectionStart
}

// Refresh 根据当前页的章节标记重新计算章节起点
func (n *Navigator) Refresh() {
	p, ok := n.doc.Page(n.state.Current)
	if !ok {
		n.state.CurrentSectionStart = document.NoPage
		n.state.NextSectionStart = document.NoPage
		return
	}
	n.state.CurrentSectionStart = p.Sections.Current
	n.state.NextSectionStart = p.Sections.Next
}

func (n *Navigator) clamp(index int) int {
	last := n.doc.PageCount() - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	return index
}

func (n *Navigator) jump(index int) {
	from := n.state.Current
	n.state.Current = index
	n.Refresh()
	if n.onChange != nil {
		n.onChange(from, index)
	}
}

func top(stack []int) (int, bool) {
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}

// GotoPage 跳转到 index。目标恰为 forward/back 栈顶时按历史导航处理，否则是新导航。
func (n *Navigator) GotoPage(index int) {
	if n.doc.PageCount() == 0 {
		return
	}
	index = n.clamp(index)
	if index == n.state.Current {
		return
	}
	if t, ok := top(n.state.Future); ok && t == index {
		n.Forward()
		return
	}
	if t, ok := top(n.state.Past); ok && t == index {
		n.Back()
		return
	}
	n.state.Future = n.state.Future[:0]
	n.state.Past = append(n.state.Past, n.state.Current)
	n.jump(index)
}

// Back 回到上一次离开的页面
func (n *Navigator) Back() {
	n.popPush(&n.state.Past, &n.state.Future)
}

// Forward 重做最近一次被 Back 撤销的导航
func (n *Navigator) Forward() {
	n.popPush(&n.state.Future, &n.state.Past)
}

func (n *Navigator) popPush(pop, push *[]int) {
	index, ok := top(*pop)
	if !ok {
		return
	}
	*pop = (*pop)[:len(*pop)-1]
	*push = append(*push, n.state.Current)
	n.jump(index)
}

// NextPage 下一页
func (n *Navigator) NextPage() { n.GotoPage(n.state.Current + 1) }

// PrevPage 上一页
func (n *Navigator) PrevPage() { n.GotoPage(n.state.Current - 1) }

// HomePage 第一页
func (n *Navigator) HomePage() { n.GotoPage(0) }

// EndPage 最后一页
func (n *Navigator) EndPage() { n.GotoPage(n.doc.PageCount() - 1) }

// NextFrame 跳到下一个标签不同的页面，即下一帧的开头
func (n *Navigator) NextFrame() {
	count := n.doc.PageCount()
	label := n.doc.Label(n.state.Current)
	i := n.state.Current + 1
	for i < count && n.doc.Label(i) == label {
		i++
	}
	n.GotoPage(i)
}

// PrevFrame 跳到前一帧的开头；在第一页时不做任何事
func (n *Navigator) PrevFrame() {
	if n.state.Current <= 0 {
		return
	}
	i := n.state.Current - 1
	label := n.doc.Label(i)
	for i >= 0 && n.doc.Label(i) == label {
		i--
	}
	n.GotoPage(i + 1)
}

// NextSection 跳到下一章节起始页，没有章节标记时不做任何事
func (n *Navigator) NextSection() {
	if n.state.NextSectionStart == document.NoPage {
		return
	}
	n.GotoPage(n.state.NextSectionStart)
}

// PrevSection 当前章节起点在当前页之前时跳过去，
// 否则从当前章节起点前一页的标记推出上一章节的起点
func (n *Navigator) PrevSection() {
	start := n.state.CurrentSectionStart
	if start == document.NoPage {
		return
	}
	if start < n.state.Current {
		n.GotoPage(start)
		return
	}
	p, ok := n.doc.Page(start - 1)
	if !ok || p.Sections.Current == document.NoPage {
		return
	}
	n.GotoPage(p.Sections.Current)
}
