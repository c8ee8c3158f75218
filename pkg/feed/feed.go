// Package feed 实现观众窗口底部的滚动消息条
package feed

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

const (
	// FrameRate 消息条重绘频率（帧/秒）
	FrameRate = 20
	// Speed 滚动速度（像素/秒）
	Speed = 40.0
	// StripHeight 消息条高度
	StripHeight = 40.0
	// FontSize 消息字号
	FontSize = 30.0
	// InitialLine 启动时显示的第一行
	InitialLine = "…"
)

// Feed 按顺序从右向左滚动的文本行队列
type Feed struct {
	now     func() time.Time
	pending []string
	text    string
	start   time.Time
	advance bool
}

// New 创建消息队列，首行为 InitialLine
func New(now func() time.Time) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{
		now:     now,
		pending: []string{InitialLine},
		advance: true,
	}
}

// Push 追加一行；行尾空白被去除
func (f *Feed) Push(line string) {
	f.pending = append(f.pending, strings.TrimRight(line, " \t\r\n"))
}

// Pending 尚未显示的行数
func (f *Feed) Pending() int {
	return len(f.pending)
}

// Frame 返回当前行及其在宽度为 width 的消息条中的横坐标。
// 当前行完全移出左边界后，下一次调用切换到队列中的下一行；
// 队列为空时保持当前行继续左移（不可见），直到新行到达。
func (f *Feed) Frame(width float64, measure func(string) float64) (string, float64) {
	if f.advance && len(f.pending) > 0 {
		f.text = f.pending[0]
		f.pending = f.pending[1:]
		f.start = f.now()
		f.advance = false
	}
	x := width - Speed*f.now().Sub(f.start).Seconds()
	if x < -measure(f.text) {
		f.advance = true
	}
	return f.text, x
}

// ReadLines 逐行读取 r 并发送到 out，直到 EOF 或 ctx 取消
func ReadLines(ctx context.Context, r io.Reader, out chan<- string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
