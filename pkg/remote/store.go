package remote

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/novvoo/go-presentation/pkg/session"
)

const (
	framePrefix = "frame:"
	statusKey   = "status"
)

// FrameStore 保存每个窗口的最新画面和状态，供 HTTP 处理器并发读取
type FrameStore struct {
	c *cache.Cache
}

// NewFrameStore 创建画面存储；条目不过期，由新画面覆盖
func NewFrameStore() *FrameStore {
	return &FrameStore{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

// PublishFrame 实现 session.FrameSink
func (s *FrameStore) PublishFrame(f session.Frame) {
	s.c.Set(framePrefix+f.Window, f, cache.NoExpiration)
}

// PublishStatus 实现 session.FrameSink
func (s *FrameStore) PublishStatus(st session.Status) {
	s.c.Set(statusKey, st, cache.NoExpiration)
}

// Frame 窗口的最新画面
func (s *FrameStore) Frame(window string) (session.Frame, bool) {
	v, ok := s.c.Get(framePrefix + window)
	if !ok {
		return session.Frame{}, false
	}
	f, ok := v.(session.Frame)
	return f, ok
}

// Status 最新状态
func (s *FrameStore) Status() (session.Status, bool) {
	v, ok := s.c.Get(statusKey)
	if !ok {
		return session.Status{}, false
	}
	st, ok := v.(session.Status)
	return st, ok
}
