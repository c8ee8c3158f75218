package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelNone
)

// Logger 带键值字段的分级日志记录器
type Logger struct {
	mu     sync.RWMutex
	level  LogLevel
	logger *log.Logger
	fields []interface{}
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// Default 获取默认日志记录器（单例）
func Default() *Logger {
	loggerOnce.Do(func() {
		defaultLogger = New("info", os.Stderr)
	})
	return defaultLogger
}

// New 创建新的日志记录器
func New(levelStr string, output io.Writer) *Logger {
	return &Logger{
		level:  ParseLevel(levelStr),
		logger: log.New(output, "[presentation] ", log.LstdFlags),
	}
}

// Nop 返回丢弃所有输出的日志记录器，用于测试
func Nop() *Logger {
	return &Logger{
		level:  LogLevelNone,
		logger: log.New(io.Discard, "", 0),
	}
}

// ParseLevel 将字符串转换为日志级别，未知值按 info 处理
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LogLevelDebug
	case "info", "":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "none", "off":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level 返回当前日志级别
func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// With 返回附带固定字段的子记录器，共享输出
func (l *Logger) With(fields ...interface{}) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{
		level:  l.level,
		logger: l.logger,
		fields: merged,
	}
}

// Debug 记录调试信息
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.log(LogLevelDebug, "DEBUG", msg, fields...)
}

// Info 记录信息
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.log(LogLevelInfo, "INFO", msg, fields...)
}

// Warn 记录警告
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.log(LogLevelWarn, "WARN", msg, fields...)
}

// Error 记录错误
func (l *Logger) Error(msg string, err error, fields ...interface{}) {
	all := append([]interface{}{"error", err}, fields...)
	l.log(LogLevelError, "ERROR", msg, all...)
}

// log 内部日志记录方法
func (l *Logger) log(level LogLevel, levelStr, msg string, fields ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", levelStr, msg)
	writeFields(&b, l.fields)
	writeFields(&b, fields)
	l.logger.Println(b.String())
}

func writeFields(b *strings.Builder, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(b, " %v=%v", fields[i], fields[i+1])
	}
}
