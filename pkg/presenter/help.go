package presenter

import (
	"github.com/novvoo/go-presentation/pkg/view"
)

// HelpEntry 帮助表的一行：按键及说明
type HelpEntry struct {
	Key  string
	Text string
}

var (
	helpGeneral = []HelpEntry{
		{"?", "show/hide this help"},
		{"h/q", "hide/quit"},
		{"b/w/m/s/p", "toggle black/web/movie/slide/poll view"},
		{"F5/f/F", "toggle fullscreen"},
	}
	helpClock = []HelpEntry{
		{"t", "start timer"},
	}
	helpTimer = []HelpEntry{
		{"t", "stop timer"},
		{"z", "set origin for timer"},
		{"[/]", "sub/add  1 minute to planned time"},
		{"{/}", "sub/add 10 minutes"},
	}
	helpSlides = []HelpEntry{
		{"←/↑/⇞", "previous slide/frame/section"},
		{"→/↓/⇟", "next slide/frame/section"},
		{"backspace/remote ←", "previous slide"},
		{"space/remote →", "next slide"},
		{"./remote ↓", "toggle black"},
		{"⌘←/⌘→", "back/forward"},
		{"↖", "first page"},
		{"↘", "last page"},
		{"⌥i", "reset zoom"},
	}
	helpAnnotations = []HelpEntry{
		{"e", "erase on-screen annotations"},
	}
	helpWeb = []HelpEntry{
		{"+/-/0", "zoom in/out/reset web view"},
	}
)

// HelpState 决定帮助内容的状态
type HelpState struct {
	Absolute   bool
	View       view.Selection
	HasStrokes bool
}

// Help 按当前状态拼装帮助表
func Help(st HelpState) []HelpEntry {
	help := append([]HelpEntry(nil), helpGeneral...)
	if st.Absolute {
		help = append(help, helpClock...)
	} else {
		help = append(help, helpTimer...)
	}
	switch st.View {
	case view.Web:
		help = append(help, helpWeb...)
	case view.Slide:
		help = append(help, helpSlides...)
		if st.HasStrokes {
			help = append(help, helpAnnotations...)
		}
	}
	return help
}
