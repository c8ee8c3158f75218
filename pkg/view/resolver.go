package view

import (
	"net/url"
	"strings"

	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// Navigator 点击解析需要的导航操作
type Navigator interface {
	GotoPage(index int)
	NextPage()
	PrevPage()
	HomePage()
	EndPage()
	Back()
	Forward()
}

// WebLoader 异步加载网页，加载提交后由调用方切换到网页视图
type WebLoader interface {
	Load(rawURL string)
}

// Action 一次点击最终执行的动作
type Action int

const (
	ActionNone Action = iota
	ActionMovie
	ActionNamed
	ActionGoto
	ActionWeb
	ActionScript
	ActionOpen
)

func (a Action) String() string {
	return [...]string{"none", "movie", "named", "goto", "web", "script", "open"}[a]
}

// Resolver 把页面上的点击解析为导航、网页、脚本或系统打开
type Resolver struct {
	doc      *document.Document
	nav      Navigator
	views    *Coordinator
	web      WebLoader
	launcher Launcher
	movies   MoviePlayer
	runner   string
	log      *logger.Logger
}

// ResolverOptions 点击解析器的协作者
type ResolverOptions struct {
	Web          WebLoader
	Launcher     Launcher
	Movies       MoviePlayer
	ScriptRunner string
	Logger       *logger.Logger
}

// NewResolver 创建点击解析器
func NewResolver(doc *document.Document, nav Navigator, views *Coordinator, opts ResolverOptions) *Resolver {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{
		doc:      doc,
		nav:      nav,
		views:    views,
		web:      opts.Web,
		launcher: opts.Launcher,
		movies:   opts.Movies,
		runner:   opts.ScriptRunner,
		log:      log,
	}
}

// Click 实现 interaction.ClickHandler
func (r *Resolver) Click(page int, pt geom.Point) {
	r.ClickAt(page, pt)
}

// ClickAt 命中测试并分发，返回执行的动作
func (r *Resolver) ClickAt(page int, pt geom.Point) Action {
	p, ok := r.doc.Page(page)
	if !ok {
		return ActionNone
	}
	a, ok := p.LinkAt(pt)
	if !ok {
		return ActionNone
	}
	return r.Dispatch(a)
}

// Dispatch 按 影片 > 命名动作 > 目标页 > URL 的优先级处理链接
func (r *Resolver) Dispatch(a document.Annotation) Action {
	if !a.IsLink() {
		return ActionNone
	}
	link := a.Link

	if link.IsMovie() && r.movies != nil {
		r.views.SetMovie(link.URL)
		r.views.Show(Movie)
		if err := r.movies.Play(link.URL); err != nil {
			r.log.Error("movie playback failed", err, "url", link.URL)
		}
		return ActionMovie
	}

	if link.Named != document.NamedNone {
		if r.dispatchNamed(link.Named) {
			return ActionNamed
		}
	}

	if link.HasDest() {
		r.nav.GotoPage(link.Dest)
		return ActionGoto
	}

	if link.URL != "" {
		return r.dispatchURL(link.URL)
	}
	return ActionNone
}

func (r *Resolver) dispatchNamed(named document.NamedAction) bool {
	switch named {
	case document.NamedNextPage:
		r.nav.NextPage()
	case document.NamedPrevPage:
		r.nav.PrevPage()
	case document.NamedFirstPage:
		r.nav.HomePage()
	case document.NamedLastPage:
		r.nav.EndPage()
	case document.NamedGoBack:
		r.nav.Back()
	case document.NamedGoForward:
		r.nav.Forward()
	default:
		return false
	}
	return true
}

func (r *Resolver) dispatchURL(rawURL string) Action {
	u, err := url.Parse(rawURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if r.web == nil {
			return ActionNone
		}
		r.web.Load(rawURL)
		return ActionWeb
	}

	if argv, ok := ScriptCommand(rawURL, r.runner); ok {
		if r.launcher == nil {
			return ActionNone
		}
		if err := r.launcher.Spawn(argv); err != nil {
			r.log.Error("script launch failed", err, "url", rawURL)
		}
		return ActionScript
	}

	if r.launcher == nil {
		return ActionNone
	}
	if err := r.launcher.Open(rawURL); err != nil {
		r.log.Error("open failed", err, "url", rawURL)
	}
	return ActionOpen
}

// ScriptCommand 识别 file:…sh 形式的脚本链接。参数以 %20 分隔；
// runner 非空时作为解释程序放在最前。
func ScriptCommand(rawURL, runner string) ([]string, bool) {
	args := strings.Split(rawURL, "%20")
	first := args[0]
	if !strings.HasPrefix(first, "file:") || !strings.HasSuffix(first, ".sh") {
		return nil, false
	}
	path := strings.TrimPrefix(first, "file:")
	if strings.HasPrefix(path, "//") {
		path = path[2:]
	}
	argv := append([]string{path}, args[1:]...)
	if runner != "" {
		argv = append([]string{runner}, argv...)
	}
	return argv, true
}
