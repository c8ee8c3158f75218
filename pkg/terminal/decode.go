// Package terminal 把控制终端当作第三个输入窗口：原始模式读取按键，并在一行内显示展示状态
package terminal

import (
	"strconv"
	"unicode/utf8"

	"github.com/novvoo/go-presentation/pkg/interaction"
	"github.com/novvoo/go-presentation/pkg/session"
)

const esc = 0x1b

// CtrlC 原始模式下 Ctrl+C 不再产生信号，解码为带 Ctrl 的 'c'
var CtrlC = session.KeyEvent{Key: session.KeyRune, Rune: 'c', Mods: interaction.ModCtrl}

// CSI 终止符对应的功能键
var csiFinal = map[byte]session.Key{
	'A': session.KeyUp,
	'B': session.KeyDown,
	'C': session.KeyRight,
	'D': session.KeyLeft,
	'H': session.KeyHome,
	'F': session.KeyEnd,
}

// "ESC [ n ~" 形式的功能键
var csiTilde = map[int]session.Key{
	1:  session.KeyHome,
	3:  session.KeyDelete,
	4:  session.KeyEnd,
	5:  session.KeyPageUp,
	6:  session.KeyPageDown,
	7:  session.KeyHome,
	8:  session.KeyEnd,
	15: session.KeyF5,
}

// Decoder 把终端字节流解码为按键；不完整的序列留到下次 Feed
type Decoder struct {
	pending []byte
}

// Feed 追加一段输入并返回其中完整的按键。
// 块末尾单独的 ESC 视为 Esc 键
func (d *Decoder) Feed(b []byte) []session.KeyEvent {
	buf := append(d.pending, b...)
	d.pending = nil

	var events []session.KeyEvent
	for len(buf) > 0 {
		ev, n, ok := decodeOne(buf)
		if n == 0 {
			d.pending = append([]byte(nil), buf...)
			break
		}
		if ok {
			events = append(events, ev)
		}
		buf = buf[n:]
	}
	return events
}

// decodeOne 解码 buf 开头的一个按键；n 为消耗的字节数，0 表示需要更多输入
func decodeOne(buf []byte) (ev session.KeyEvent, n int, ok bool) {
	c := buf[0]
	switch {
	case c == esc:
		return decodeEscape(buf)
	case c == 0x7f || c == 0x08:
		return session.SpecialKey(session.KeyBackspace), 1, true
	case c == 0x03:
		return CtrlC, 1, true
	case c == '\r' || c == '\n' || c == '\t':
		return session.KeyEvent{}, 1, false
	case c < 0x20:
		return session.KeyEvent{Key: session.KeyRune, Rune: rune('a' + c - 1), Mods: interaction.ModCtrl}, 1, true
	case c < utf8.RuneSelf:
		return session.RuneKey(rune(c)), 1, true
	}
	if !utf8.FullRune(buf) {
		return session.KeyEvent{}, 0, false
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return session.KeyEvent{}, size, false
	}
	return session.RuneKey(r), size, true
}

func decodeEscape(buf []byte) (session.KeyEvent, int, bool) {
	if len(buf) == 1 {
		return session.SpecialKey(session.KeyEscape), 1, true
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		// SS3：部分终端的方向键和 Home/End
		if len(buf) < 3 {
			return session.KeyEvent{}, 0, false
		}
		if k, ok := csiFinal[buf[2]]; ok {
			return session.SpecialKey(k), 3, true
		}
		return session.KeyEvent{}, 3, false
	case esc:
		return session.SpecialKey(session.KeyEscape), 1, true
	}
	// ESC 加普通字符：Alt 组合键
	ev, n, ok := decodeOne(buf[1:])
	if n == 0 {
		return session.KeyEvent{}, 0, false
	}
	ev.Mods |= interaction.ModAlt
	return ev, n + 1, ok
}

// decodeCSI 解析 "ESC [ 参数 终止符"
func decodeCSI(buf []byte) (session.KeyEvent, int, bool) {
	i := 2
	for i < len(buf) && (buf[i] >= '0' && buf[i] <= '9' || buf[i] == ';') {
		i++
	}
	if i >= len(buf) {
		return session.KeyEvent{}, 0, false
	}
	final := buf[i]
	params := splitParams(buf[2:i])
	n := i + 1

	var ev session.KeyEvent
	switch {
	case final == '~' && len(params) > 0:
		k, ok := csiTilde[params[0]]
		if !ok {
			return ev, n, false
		}
		ev = session.SpecialKey(k)
	default:
		k, ok := csiFinal[final]
		if !ok {
			return ev, n, false
		}
		ev = session.SpecialKey(k)
	}
	if len(params) > 1 {
		ev.Mods = modifiers(params[1])
	}
	return ev, n, true
}

func splitParams(b []byte) []int {
	var params []int
	start := 0
	for i := 0; i <= len(b); i++ {
		if i == len(b) || b[i] == ';' {
			v, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				v = 0
			}
			params = append(params, v)
			start = i + 1
		}
	}
	return params
}

// modifiers xterm 修饰参数：值减一后按位为 Shift、Alt、Ctrl、Meta
func modifiers(p int) interaction.Modifiers {
	if p < 2 {
		return 0
	}
	bits := p - 1
	var mods interaction.Modifiers
	if bits&1 != 0 {
		mods |= interaction.ModShift
	}
	if bits&2 != 0 {
		mods |= interaction.ModAlt
	}
	if bits&4 != 0 {
		mods |= interaction.ModCtrl
	}
	if bits&8 != 0 {
		mods |= interaction.ModMeta
	}
	return mods
}
