package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/novvoo/go-presentation/pkg/interaction"
	"github.com/novvoo/go-presentation/pkg/session"
)

const defaultColumns = 80

// StatusLine 在终端当前行显示展示状态，实现 session.FrameSink
type StatusLine struct {
	w       io.Writer
	columns func() int
	last    string
}

// NewStatusLine 写到 f，列数跟随终端大小
func NewStatusLine(f *os.File) *StatusLine {
	fd := int(f.Fd())
	return &StatusLine{
		w: f,
		columns: func() int {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				return w
			}
			return defaultColumns
		},
	}
}

// PublishFrame 终端不显示画面
func (s *StatusLine) PublishFrame(session.Frame) {}

// PublishStatus 状态变化时重绘当前行
func (s *StatusLine) PublishStatus(st session.Status) {
	line := runewidth.Truncate(FormatStatus(st), s.columns()-1, "…")
	if line == s.last {
		return
	}
	s.last = line
	fmt.Fprintf(s.w, "\r\x1b[K%s", line)
}

// Clear 擦除状态行
func (s *StatusLine) Clear() {
	fmt.Fprint(s.w, "\r\x1b[K")
	s.last = ""
}

// FormatStatus 状态行文本
func FormatStatus(st session.Status) string {
	parts := []string{st.Counter, st.Clock, st.View}
	if st.Interaction != "" && st.Interaction != interaction.Idle.String() {
		parts = append(parts, st.Interaction)
	}
	var flags []string
	if st.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if st.Windowed {
		flags = append(flags, "windowed")
	}
	if st.Hidden {
		flags = append(flags, "hidden")
	}
	if len(flags) > 0 {
		parts = append(parts, strings.Join(flags, ","))
	}
	if st.Message != "" {
		parts = append(parts, st.Message)
	}
	return strings.Join(parts, " │ ")
}
