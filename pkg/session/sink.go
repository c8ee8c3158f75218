package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/novvoo/go-presentation/pkg/logger"
)

// 窗口名
const (
	WindowPresenter = "presenter"
	WindowAudience  = "audience"
)

// Frame 一个窗口的一帧 PNG 画面
type Frame struct {
	Window string
	Seq    uint64
	PNG    []byte
}

// Status 展示状态摘要，供远程控制和终端状态行显示
type Status struct {
	Seq         uint64 `json:"seq"`
	Title       string `json:"title"`
	Page        int    `json:"page"`
	PageCount   int    `json:"page_count"`
	Label       string `json:"label"`
	Counter     string `json:"counter"`
	View        string `json:"view"`
	Interaction string `json:"interaction"`
	Clock       string `json:"clock"`
	Absolute    bool   `json:"absolute"`
	Fullscreen  bool   `json:"fullscreen"`
	Windowed    bool   `json:"windowed"`
	Hidden      bool   `json:"hidden"`
	Message     string `json:"message,omitempty"`
}

// FrameSink 接收渲染好的画面和状态；在会话 goroutine 中调用，实现不得阻塞
type FrameSink interface {
	PublishFrame(f Frame)
	PublishStatus(st Status)
}

// MultiSink 依次转发给多个 FrameSink
type MultiSink []FrameSink

// PublishFrame 实现 FrameSink
func (m MultiSink) PublishFrame(f Frame) {
	for _, s := range m {
		s.PublishFrame(f)
	}
}

// PublishStatus 实现 FrameSink
func (m MultiSink) PublishStatus(st Status) {
	for _, s := range m {
		s.PublishStatus(st)
	}
}

// DirSink 把每个窗口的最新画面写入目录下的 <window>.png
type DirSink struct {
	dir string
	log *logger.Logger
}

// NewDirSink 创建目录输出；目录不存在时创建
func NewDirSink(dir string, log *logger.Logger) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &DirSink{dir: dir, log: log}, nil
}

// PublishFrame 先写临时文件再改名，读者不会看到半写的 PNG
func (d *DirSink) PublishFrame(f Frame) {
	path := filepath.Join(d.dir, f.Window+".png")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, f.PNG, 0o644); err != nil {
		d.log.Warn("failed to write frame", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		d.log.Warn("failed to publish frame", "path", path, "error", err)
	}
}

// PublishStatus 目录输出不记录状态
func (d *DirSink) PublishStatus(Status) {}
