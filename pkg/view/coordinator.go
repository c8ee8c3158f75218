package view

// Selection 观众窗口当前显示的视图
type Selection int

const (
	Slide Selection = iota
	Black
	Web
	Poll
	Movie
)

func (s Selection) String() string {
	switch s {
	case Slide:
		return "slide"
	case Black:
		return "black"
	case Web:
		return "web"
	case Poll:
		return "poll"
	case Movie:
		return "movie"
	}
	return "unknown"
}

// ParseSelection 解析视图名称
func ParseSelection(name string) (Selection, bool) {
	for _, s := range []Selection{Slide, Black, Web, Poll, Movie} {
		if s.String() == name {
			return s, true
		}
	}
	return Slide, false
}

// Coordinator 维护观众窗口的视图选择，任一时刻只有一个视图可见
type Coordinator struct {
	selection Selection
	movieURL  string
}

// NewCoordinator 初始显示幻灯片
func NewCoordinator() *Coordinator {
	return &Coordinator{selection: Slide}
}

// Selection 当前视图
func (c *Coordinator) Selection() Selection {
	return c.selection
}

// Visible 视图 s 是否可见
func (c *Coordinator) Visible(s Selection) bool {
	return c.selection == s
}

// Show 显示视图 s 并隐藏其它视图
func (c *Coordinator) Show(s Selection) {
	c.selection = s
}

// Toggle 再次选择已可见的替代视图时回到幻灯片；选择幻灯片总是幂等的
func (c *Coordinator) Toggle(s Selection) {
	if s != Slide && c.selection == s {
		c.selection = Slide
		return
	}
	c.selection = s
}

// SetMovie 记录影片视图正在播放的地址
func (c *Coordinator) SetMovie(url string) {
	c.movieURL = url
}

// MovieURL 影片视图的地址
func (c *Coordinator) MovieURL() string {
	return c.movieURL
}
