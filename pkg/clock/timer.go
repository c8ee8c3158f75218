package clock

import (
	"fmt"
	"time"
)

// FlashDuration 调整计划时长后直接显示计划时长的时间窗口
const FlashDuration = time.Second

// adjustments 计时键对应的计划时长增量
var adjustments = map[rune]time.Duration{
	'z': 0,
	'[': -time.Minute,
	']': time.Minute,
	'{': -10 * time.Minute,
	'}': 10 * time.Minute,
}

// Timer 时钟/倒计时。初始为绝对时间模式。
type Timer struct {
	now func() time.Time

	planned  time.Duration
	absolute bool
	elapsed  time.Duration
	start    time.Time
	changed  time.Time
}

// New 创建计时器；now 为 nil 时使用 time.Now
func New(planned time.Duration, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	if planned < 0 {
		planned = 0
	}
	return &Timer{
		now:      now,
		planned:  planned,
		absolute: true,
		start:    now(),
	}
}

// Absolute 是否显示墙上时间
func (t *Timer) Absolute() bool {
	return t.absolute
}

// Planned 计划时长
func (t *Timer) Planned() time.Duration {
	return t.planned
}

// Toggle 在绝对时间和倒计时之间切换，离开绝对模式时重新计起点，进入时累计已用时长
func (t *Timer) Toggle() {
	n := t.now()
	t.absolute = !t.absolute
	if t.absolute {
		t.elapsed += n.Sub(t.start)
	} else {
		t.start = n
	}
}

// IsAdjustKey 是否为调整计划时长的按键
func IsAdjustKey(key rune) bool {
	_, ok := adjustments[key]
	return ok
}

// Adjust 按键调整计划时长：重置起点和已用时长，结果不小于 0
func (t *Timer) Adjust(key rune) bool {
	delta, ok := adjustments[key]
	if !ok {
		return false
	}
	n := t.now()
	t.start = n
	t.elapsed = 0
	t.planned += delta
	if t.planned < 0 {
		t.planned = 0
	}
	t.changed = n
	return true
}

// Running 倒计时模式下已经过的时长
func (t *Timer) Running() time.Duration {
	running := t.elapsed
	if !t.absolute {
		running += t.now().Sub(t.start)
	}
	return running
}

// Display 返回 HH:MM:SS 文本。刚调整过计划时长时显示计划时长；
// 绝对模式显示本地时间；否则显示 |计划 - 已用|，超时后继续正向计时。
func (t *Timer) Display() string {
	n := t.now()
	if !t.changed.IsZero() && n.Sub(t.changed) <= FlashDuration {
		return FormatDuration(t.planned)
	}
	if t.absolute {
		return n.Local().Format("15:04:05")
	}
	remaining := t.planned - (n.Sub(t.start) + t.elapsed)
	if remaining < 0 {
		remaining = -remaining
	}
	return FormatDuration(remaining)
}

// FormatDuration 把时长当作午夜后的时间格式化为 HH:MM:SS，小时按 24 取模
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = -secs
	}
	return fmt.Sprintf("%02d:%02d:%02d", (secs/3600)%24, (secs/60)%60, secs%60)
}
