package document

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/novvoo/go-presentation/pkg/geom"
)

// NoPage 表示缺失的页面索引
const NoPage = -1

// SectionMarkerMaxWidth 宽度小于该值的链接被视为章节标记
const SectionMarkerMaxWidth = 2.0

// QuestionMarker 以此开头的文本注释是投票问题
const QuestionMarker = "Q:"

// Kind 注释分类，加载时确定一次
type Kind int

const (
	KindNote Kind = iota
	KindQuestion
	KindLink
	KindSectionMarker
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindQuestion:
		return "question"
	case KindLink:
		return "link"
	case KindSectionMarker:
		return "section-marker"
	}
	return "unknown"
}

// NamedAction 预定义的链接行为
type NamedAction int

const (
	NamedNone NamedAction = iota
	NamedNextPage
	NamedPrevPage
	NamedFirstPage
	NamedLastPage
	NamedGoBack
	NamedGoForward
)

// ParseNamedAction 解析 PDF /Named 动作的 /N 名称
func ParseNamedAction(name string) NamedAction {
	switch name {
	case "NextPage":
		return NamedNextPage
	case "PrevPage", "PreviousPage":
		return NamedPrevPage
	case "FirstPage":
		return NamedFirstPage
	case "LastPage":
		return NamedLastPage
	case "GoBack":
		return NamedGoBack
	case "GoForward":
		return NamedGoForward
	}
	return NamedNone
}

// Link 链接注释的目标
type Link struct {
	Dest    int // 目标页索引，NoPage 表示无
	Named   NamedAction
	URL     string
	Tooltip string
}

// HasDest 是否带有页面目标
func (l Link) HasDest() bool {
	return l.Dest != NoPage
}

// IsMovie 指向本地视频文件的链接
func (l Link) IsMovie() bool {
	u, err := url.Parse(l.URL)
	if err != nil || u.Scheme != "file" {
		return false
	}
	return isVideoExt(path.Ext(u.Path))
}

var videoExts = map[string]bool{
	".mp4": true, ".m4v": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".mpg": true, ".mpeg": true, ".ogv": true, ".wmv": true,
}

func isVideoExt(ext string) bool {
	ext = strings.ToLower(ext)
	if ext == "" {
		return false
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return strings.HasPrefix(t, "video/")
	}
	return videoExts[ext]
}

// Annotation 页面注释：文本注释（笔记/问题）或链接（普通链接/章节标记）
type Annotation struct {
	Kind   Kind
	Bounds geom.Rect
	Text   string
	Link   Link
}

// NewTextNote 创建文本注释，"Q:" 开头的归为问题并去掉前缀
func NewTextNote(bounds geom.Rect, contents string) Annotation {
	if strings.HasPrefix(contents, QuestionMarker) {
		return Annotation{Kind: KindQuestion, Bounds: bounds, Text: contents[len(QuestionMarker):]}
	}
	return Annotation{Kind: KindNote, Bounds: bounds, Text: contents}
}

// NewLink 创建链接注释，过窄的链接归为章节标记
func NewLink(bounds geom.Rect, link Link) Annotation {
	kind := KindLink
	if bounds.W < SectionMarkerMaxWidth {
		kind = KindSectionMarker
	}
	return Annotation{Kind: kind, Bounds: bounds, Link: link}
}

// IsLink 是否为可点击的普通链接
func (a Annotation) IsLink() bool {
	return a.Kind == KindLink
}
