// Package session 在单个 goroutine 中持有全部展示状态，串行处理按键、指针、网页加载和定时刷新
package session

import (
	"context"
	"time"
	"unicode"

	"github.com/novvoo/go-presentation/pkg/clock"
	"github.com/novvoo/go-presentation/pkg/config"
	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/feed"
	"github.com/novvoo/go-presentation/pkg/interaction"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/navigation"
	"github.com/novvoo/go-presentation/pkg/overlay"
	"github.com/novvoo/go-presentation/pkg/presenter"
	"github.com/novvoo/go-presentation/pkg/view"
	"github.com/novvoo/go-presentation/pkg/web"
)

const (
	// RefreshInterval 时钟刷新周期
	RefreshInterval = time.Second
	// MessageTTL 演讲者窗口提示信息的显示时长
	MessageTTL = 5 * time.Second

	eventBuffer = 64
)

// WebService 异步网页加载，结果通过 Results 送回会话
type WebService interface {
	view.WebLoader
	Results() <-chan web.Result
}

// Options 会话配置
type Options struct {
	PresenterSize config.Size
	AudienceSize  config.Size
	Duration      time.Duration
	Feed          bool
	ScriptRunner  string
	Now           func() time.Time
	Logger        *logger.Logger
}

// Deps 会话的外部协作者
type Deps struct {
	Renderer *presenter.Renderer
	Sink     FrameSink
	Web      WebService
	Launcher view.Launcher
	Movies   view.MoviePlayer
}

// Session 展示会话
type Session struct {
	doc      *document.Document
	nav      *navigation.Navigator
	store    *overlay.Store
	machine  *interaction.Machine
	timer    *clock.Timer
	views    *view.Coordinator
	resolver *view.Resolver
	zoom     *web.Zoom
	feed     *feed.Feed

	renderer *presenter.Renderer
	sink     FrameSink
	web      WebService

	presenterSize config.Size
	audienceSize  config.Size

	webPage    *web.Page
	message    string
	messageAt  time.Time
	showHelp   bool
	fullscreen bool
	windowed   bool
	hidden     bool
	seq        uint64

	wasFullscreen bool

	keys      chan KeyEvent
	pointers  chan interaction.PointerEvent
	feedLines chan string

	now func() time.Time
	log *logger.Logger
}

// New 创建会话；所有状态对象在此初始化
func New(doc *document.Document, deps Deps, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		doc:           doc,
		nav:           navigation.New(doc),
		store:         overlay.NewStore(doc),
		timer:         clock.New(opts.Duration, now),
		views:         view.NewCoordinator(),
		zoom:          web.NewZoom(),
		renderer:      deps.Renderer,
		sink:          deps.Sink,
		web:           deps.Web,
		presenterSize: opts.PresenterSize,
		audienceSize:  opts.AudienceSize,
		showHelp:      true,
		keys:          make(chan KeyEvent, eventBuffer),
		pointers:      make(chan interaction.PointerEvent, eventBuffer),
		feedLines:     make(chan string, eventBuffer),
		now:           now,
		log:           log,
	}
	if opts.Feed {
		s.feed = feed.New(now)
	}

	var loader view.WebLoader
	if deps.Web != nil {
		loader = deps.Web
	}
	s.resolver = view.NewResolver(doc, s.nav, s.views, view.ResolverOptions{
		Web:          loader,
		Launcher:     deps.Launcher,
		Movies:       deps.Movies,
		ScriptRunner: opts.ScriptRunner,
		Logger:       log,
	})
	s.machine = interaction.NewMachine(s.store, s.nav.Current, s.resolver)

	// 换页后观众窗口回到幻灯片
	s.nav.SetOnChange(func(from, to int) {
		s.views.Show(view.Slide)
		s.log.Debug("page changed", "from", from, "to", to)
	})
	return s
}

// PostKey 从任意 goroutine 投递按键；队列满时丢弃并返回 false
func (s *Session) PostKey(ev KeyEvent) bool {
	select {
	case s.keys <- ev:
		return true
	default:
		return false
	}
}

// PostPointer 从任意 goroutine 投递演讲者窗口的指针事件
func (s *Session) PostPointer(ev interaction.PointerEvent) bool {
	select {
	case s.pointers <- ev:
		return true
	default:
		return false
	}
}

// FeedLines 消息条输入通道；仅在启用消息条时被消费
func (s *Session) FeedLines() chan<- string {
	return s.feedLines
}

// HandleKey 处理一次按键，返回是否退出
func (s *Session) HandleKey(ev KeyEvent) bool {
	if s.hidden {
		if ev.Key == KeyRune && ev.Rune == 'q' {
			return true
		}
		s.unhide()
		return false
	}

	if ev.Mods.Has(interaction.ModAlt) && ev.Key == KeyRune && unicode.ToLower(ev.Rune) == 'i' {
		s.machine.ResetViewport()
		return false
	}
	if ev.Mods.Has(interaction.ModCtrl) || ev.Mods.Has(interaction.ModMeta) {
		switch ev.Key {
		case KeyLeft:
			s.nav.Back()
			return false
		case KeyRight:
			s.nav.Forward()
			return false
		}
	}

	switch ev.Key {
	case KeyRune:
		return s.handleRune(ev.Rune)
	case KeyEscape:
		s.setFullscreen(false)
	case KeyF5:
		s.setFullscreen(!s.fullscreen)
	case KeyLeft, KeyBackspace, KeyDelete, KeyRemoteBack:
		s.nav.PrevPage()
	case KeyRight, KeyRemoteForward:
		s.nav.NextPage()
	case KeyUp:
		s.nav.PrevFrame()
	case KeyDown:
		s.nav.NextFrame()
	case KeyPageUp:
		s.nav.PrevSection()
	case KeyPageDown:
		s.nav.NextSection()
	case KeyHome:
		s.nav.HomePage()
	case KeyEnd:
		s.nav.EndPage()
	}
	return false
}

func (s *Session) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return true
	case r == 'h':
		s.hide()
	case r == '?':
		s.showHelp = !s.showHelp
	case r == 't':
		s.timer.Toggle()
	case clock.IsAdjustKey(r):
		s.timer.Adjust(r)
	case web.IsZoomKey(r):
		if s.views.Visible(view.Web) {
			s.zoom.ApplyKey(r)
		}
	case r == 'e':
		s.store.EraseStrokes(s.nav.Current())
	case r == 'F':
		s.toggleWindowed()
	case r == 'f':
		s.setFullscreen(!s.fullscreen)
	case r == '.' || r == 'b':
		s.views.Toggle(view.Black)
	case r == 'w':
		s.views.Toggle(view.Web)
	case r == 'm':
		s.views.Toggle(view.Movie)
	case r == 'p':
		s.views.Toggle(view.Poll)
	case r == 's':
		s.views.Show(view.Slide)
	case r == ' ':
		s.nav.NextPage()
	}
	return false
}

func (s *Session) setFullscreen(on bool) {
	s.windowed = false
	s.fullscreen = on
}

// toggleWindowed 窗口化演示：演讲者窗口只显示当前页
func (s *Session) toggleWindowed() {
	if s.windowed {
		s.windowed = false
		return
	}
	s.fullscreen = false
	s.windowed = true
}

// hide 隐藏时退出全屏，恢复时还原
func (s *Session) hide() {
	s.hidden = true
	s.wasFullscreen = s.fullscreen
	s.fullscreen = false
}

func (s *Session) unhide() {
	s.hidden = false
	s.fullscreen = s.wasFullscreen
}

// HandlePointer 处理演讲者窗口中的指针事件，返回是否需要重绘
func (s *Session) HandlePointer(ev interaction.PointerEvent) bool {
	if s.hidden {
		return false
	}
	s.syncPlacement()
	return s.machine.Handle(ev)
}

// HandleWebResult 网页加载完成后切换到网页视图；失败只提示
func (s *Session) HandleWebResult(res web.Result) {
	if res.Err != nil {
		s.log.Warn("web load failed", "url", res.URL, "error", res.Err)
		s.setMessage("cannot load " + res.URL)
		return
	}
	s.webPage = res.Page
	s.views.Show(view.Web)
}

func (s *Session) setMessage(msg string) {
	s.message = msg
	s.messageAt = s.now()
}

func (s *Session) currentMessage() string {
	if s.message != "" && s.now().Sub(s.messageAt) > MessageTTL {
		s.message = ""
	}
	return s.message
}

// syncPlacement 让状态机使用与渲染一致的页面放置
func (s *Session) syncPlacement() {
	page, ok := s.doc.Page(s.nav.Current())
	if !ok {
		return
	}
	l := presenter.NewLayout(float64(s.presenterSize.Width), float64(s.presenterSize.Height), s.windowed)
	s.machine.SetPlacement(l.CurrentPlacement(page.CropBox))
}

// Run 事件循环，直到 ctx 取消或按下退出键
func (s *Session) Run(ctx context.Context) error {
	refresh := time.NewTicker(RefreshInterval)
	defer refresh.Stop()

	var feedTick <-chan time.Time
	var feedLines <-chan string
	if s.feed != nil {
		t := time.NewTicker(time.Second / feed.FrameRate)
		defer t.Stop()
		feedTick = t.C
		feedLines = s.feedLines
	}
	var webResults <-chan web.Result
	if s.web != nil {
		webResults = s.web.Results()
	}

	s.log.Info("session started", "title", s.doc.Title, "pages", s.doc.PageCount())
	s.render(true)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.keys:
			if s.HandleKey(ev) {
				s.log.Info("quit requested")
				return nil
			}
			s.render(true)
		case ev := <-s.pointers:
			if s.HandlePointer(ev) {
				s.render(true)
			}
		case res := <-webResults:
			s.HandleWebResult(res)
			s.render(true)
		case line := <-feedLines:
			s.feed.Push(line)
		case <-refresh.C:
			s.render(true)
		case <-feedTick:
			s.render(false)
		}
	}
}

// render 渲染并发布画面；presenterToo 为 false 时只刷新观众窗口
func (s *Session) render(presenterToo bool) {
	if s.renderer == nil || s.sink == nil {
		return
	}
	s.nav.Refresh()
	s.syncPlacement()
	s.seq++

	if presenterToo {
		s.publish(WindowPresenter, s.presenterSize, func(w, h int) ([]byte, error) {
			if s.hidden {
				return s.renderer.Blank(w, h)
			}
			return s.renderer.Presenter(w, h, s.presenterState())
		})
		s.sink.PublishStatus(s.Status())
	}
	s.publish(WindowAudience, s.audienceSize, func(w, h int) ([]byte, error) {
		if s.hidden {
			return s.renderer.Blank(w, h)
		}
		return s.renderer.Audience(w, h, s.audienceState())
	})
}

func (s *Session) publish(window string, size config.Size, draw func(w, h int) ([]byte, error)) {
	data, err := draw(size.Width, size.Height)
	if err != nil {
		s.log.Error("render failed", err, "window", window)
		return
	}
	s.sink.PublishFrame(Frame{Window: window, Seq: s.seq, PNG: data})
}

func (s *Session) presenterState() presenter.PresenterState {
	cur := s.nav.Current()
	return presenter.PresenterState{
		Page:     cur,
		Viewport: s.machine.Viewport(),
		Drawing:  s.machine.State() == interaction.Drawing,
		Windowed: s.windowed,
		Clock:    s.timer.Display(),
		ShowHelp: s.showHelp,
		Help: presenter.HelpState{
			Absolute:   s.timer.Absolute(),
			View:       s.views.Selection(),
			HasStrokes: s.store.HasStrokes(cur),
		},
		Strokes: s.store.Strokes(cur),
		Notes:   s.store.Notes(cur),
		Status:  s.currentMessage(),
	}
}

func (s *Session) audienceState() presenter.AudienceState {
	cur := s.nav.Current()
	st := presenter.AudienceState{
		Page:      cur,
		Viewport:  s.machine.Viewport(),
		View:      s.views.Selection(),
		Strokes:   s.store.Strokes(cur),
		Questions: s.store.Questions(cur),
		Web:       s.webPage,
		WebZoom:   s.zoom.Factor(),
		MovieURL:  s.views.MovieURL(),
	}
	if s.feed != nil {
		text, x := s.feed.Frame(float64(s.audienceSize.Width), func(t string) float64 {
			return s.renderer.Measure(t, feed.FontSize)
		})
		st.Feed = &presenter.FeedLine{Text: text, X: x, Size: feed.FontSize}
	}
	return st
}

// Status 当前状态摘要
func (s *Session) Status() Status {
	cur := s.nav.Current()
	return Status{
		Seq:         s.seq,
		Title:       s.doc.Title,
		Page:        cur,
		PageCount:   s.doc.PageCount(),
		Label:       s.doc.Label(cur),
		Counter:     presenter.Counter(s.doc, cur),
		View:        s.views.Selection().String(),
		Interaction: s.machine.State().String(),
		Clock:       s.timer.Display(),
		Absolute:    s.timer.Absolute(),
		Fullscreen:  s.fullscreen,
		Windowed:    s.windowed,
		Hidden:      s.hidden,
		Message:     s.currentMessage(),
	}
}
