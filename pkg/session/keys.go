package session

import (
	"strings"
	"unicode/utf8"

	"github.com/novvoo/go-presentation/pkg/interaction"
)

// Key 功能键；KeyRune 表示普通字符，字符在 KeyEvent.Rune 中
type Key int

const (
	KeyRune Key = iota
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyF5
	KeyRemoteBack
	KeyRemoteForward
)

// keyNames 与浏览器 KeyboardEvent.key 的取值一致
var keyNames = map[string]Key{
	"Escape":         KeyEscape,
	"Backspace":      KeyBackspace,
	"Delete":         KeyDelete,
	"ArrowUp":        KeyUp,
	"ArrowDown":      KeyDown,
	"ArrowLeft":      KeyLeft,
	"ArrowRight":     KeyRight,
	"PageUp":         KeyPageUp,
	"PageDown":       KeyPageDown,
	"Home":           KeyHome,
	"End":            KeyEnd,
	"F5":             KeyF5,
	"BrowserBack":    KeyRemoteBack,
	"BrowserForward": KeyRemoteForward,
}

// String 功能键名称
func (k Key) String() string {
	for name, key := range keyNames {
		if key == k {
			return name
		}
	}
	return "Rune"
}

// KeyEvent 一次按键
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods interaction.Modifiers
}

// RuneKey 普通字符按键
func RuneKey(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r}
}

// SpecialKey 功能键
func SpecialKey(k Key) KeyEvent {
	return KeyEvent{Key: k}
}

// ParseKey 解析按键名：功能键名或单个字符
func ParseKey(name string) (KeyEvent, bool) {
	if k, ok := keyNames[name]; ok {
		return SpecialKey(k), true
	}
	if name == "Spacebar" {
		return RuneKey(' '), true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return RuneKey(r), true
	}
	return KeyEvent{}, false
}

// ParseModifiers 解析逗号或加号分隔的修饰键列表，如 "alt" 或 "ctrl+shift"
func ParseModifiers(s string) interaction.Modifiers {
	var mods interaction.Modifiers
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ',' || r == '+' || r == ' ' }) {
		switch part {
		case "shift":
			mods |= interaction.ModShift
		case "ctrl", "control":
			mods |= interaction.ModCtrl
		case "alt", "option":
			mods |= interaction.ModAlt
		case "meta", "cmd", "command":
			mods |= interaction.ModMeta
		}
	}
	return mods
}
