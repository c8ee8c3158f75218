package interaction

import (
	"math"

	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/overlay"
)

// DragThreshold 按下后移动超过该距离才开始手绘
const DragThreshold = 5.0

// ZoomRate 滚动一个单位对应的指数缩放系数
const ZoomRate = 0.01

// State 鼠标交互状态
type State int

const (
	Idle State = iota
	PanningViewport
	PendingClick
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case PanningViewport:
		return "BBOX"
	case PendingClick:
		return "CLIC"
	case Drawing:
		return "DRAW"
	}
	return "UNKNOWN"
}

// Modifiers 修饰键位
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// PanModifier 按住时拖动平移、滚动缩放
const PanModifier = ModAlt

// Has 是否包含修饰键 f
func (m Modifiers) Has(f Modifiers) bool {
	return m&f != 0
}

// EventKind 指针事件类型
type EventKind int

const (
	PointerDown EventKind = iota
	PointerDrag
	PointerUp
	Scroll
)

// PointerEvent 窗口坐标系下的指针事件
type PointerEvent struct {
	Kind   EventKind
	Pos    geom.Point
	DeltaY float64
	Mods   Modifiers
}

// ClickHandler 接收未越过拖动阈值的点击，pt 为页面坐标
type ClickHandler interface {
	Click(page int, pt geom.Point)
}

// Machine 指针交互状态机，同时持有全局视口变换（bbox）
type Machine struct {
	state     State
	viewport  geom.Matrix
	placement geom.Matrix

	press  geom.Point
	last   geom.Point
	stroke *overlay.Stroke

	store   *overlay.Store
	current func() int
	clicks  ClickHandler
}

// NewMachine 创建状态机。current 返回当前页索引。
func NewMachine(store *overlay.Store, current func() int, clicks ClickHandler) *Machine {
	return &Machine{
		viewport:  geom.NewIdentityMatrix(),
		placement: geom.NewIdentityMatrix(),
		store:     store,
		current:   current,
		clicks:    clicks,
	}
}

// State 当前状态
func (m *Machine) State() State {
	return m.state
}

// Viewport 全局视口变换，作用于页面坐标
func (m *Machine) Viewport() geom.Matrix {
	return m.viewport
}

// ResetViewport 视口恢复为单位变换
func (m *Machine) ResetViewport() {
	m.viewport = geom.NewIdentityMatrix()
}

// SetPlacement 由渲染器设置当前页到窗口的放置变换
func (m *Machine) SetPlacement(placement geom.Matrix) {
	m.placement = placement
}

// RenderTransform 页面坐标到窗口坐标：先视口再放置
func (m *Machine) RenderTransform() geom.Matrix {
	return m.viewport.Multiply(m.placement)
}

func (m *Machine) inverse() (geom.Matrix, bool) {
	inv, err := m.RenderTransform().Invert()
	return inv, err == nil
}

func (m *Machine) toPage(p geom.Point) (geom.Point, bool) {
	inv, ok := m.inverse()
	if !ok {
		return geom.Point{}, false
	}
	return inv.Transform(p), true
}

// Handle 处理一个指针事件，返回是否需要重绘
func (m *Machine) Handle(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		return m.down(ev)
	case PointerDrag:
		return m.drag(ev)
	case PointerUp:
		return m.up(ev)
	case Scroll:
		return m.scroll(ev)
	}
	return false
}

func (m *Machine) down(ev PointerEvent) bool {
	// 未收到抬起事件时按新的按下处理
	m.stroke = nil
	m.last = ev.Pos
	if ev.Mods.Has(PanModifier) {
		m.state = PanningViewport
		return true
	}
	m.press = ev.Pos
	m.state = PendingClick
	return true
}

func (m *Machine) drag(ev PointerEvent) bool {
	switch m.state {
	case PendingClick:
		if m.press.Dist(ev.Pos) < DragThreshold {
			return false
		}
		from, ok1 := m.toPage(m.press)
		to, ok2 := m.toPage(ev.Pos)
		if !ok1 || !ok2 {
			return false
		}
		m.stroke = m.store.AddStroke(m.current(), from, to)
		m.state = Drawing
		return true

	case Drawing:
		p, ok := m.toPage(ev.Pos)
		if !ok || m.stroke == nil {
			return false
		}
		m.stroke.Append(p)
		return true

	case PanningViewport:
		inv, ok := m.inverse()
		if !ok {
			return false
		}
		dx, dy := inv.TransformDistance(ev.Pos.X-m.last.X, ev.Pos.Y-m.last.Y)
		m.last = ev.Pos
		m.viewport = m.viewport.PreTranslate(dx, dy)
		return true
	}
	return false
}

func (m *Machine) up(ev PointerEvent) bool {
	if m.state == PendingClick && m.clicks != nil {
		if p, ok := m.toPage(ev.Pos); ok {
			m.clicks.Click(m.current(), p)
		}
	}
	m.state = Idle
	m.stroke = nil
	return true
}

func (m *Machine) scroll(ev PointerEvent) bool {
	if !ev.Mods.Has(PanModifier) {
		return false
	}
	p, ok := m.toPage(ev.Pos)
	if !ok {
		return false
	}
	m.viewport = m.viewport.PreScaleAbout(p, math.Exp(ZoomRate*ev.DeltaY))
	return true
}
