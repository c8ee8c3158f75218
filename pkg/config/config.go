package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size 窗口尺寸（像素）
type Size struct {
	Width  int
	Height int
}

// String 以 WxH 形式表示
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Config 运行时配置，来自环境变量（可由 .env 预先加载）
type Config struct {
	LogLevel      string
	Duration      time.Duration
	ListenAddr    string
	PresenterSize Size
	AudienceSize  Size
	OutputDir     string
	Password      string
	ScriptRunner  string
	WebTimeout    time.Duration
	RemoteRate    int
}

// NewConfig 读取环境变量，非法值回退到默认值
func NewConfig() *Config {
	return &Config{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		Duration:      time.Duration(getEnvIntOrDefault("PRESENTATION_DURATION", 0)) * time.Minute,
		ListenAddr:    getEnvAllowEmpty("PRESENTATION_LISTEN", "127.0.0.1:7878"),
		PresenterSize: getEnvSizeOrDefault("PRESENTATION_PRESENTER_SIZE", Size{1024, 768}),
		AudienceSize:  getEnvSizeOrDefault("PRESENTATION_AUDIENCE_SIZE", Size{1024, 768}),
		OutputDir:     os.Getenv("PRESENTATION_OUTPUT_DIR"),
		Password:      os.Getenv("PRESENTATION_PASSWORD"),
		ScriptRunner:  os.Getenv("PRESENTATION_SCRIPT_RUNNER"),
		WebTimeout:    getEnvDurationOrDefault("PRESENTATION_WEB_TIMEOUT", 10*time.Second),
		RemoteRate:    getEnvIntOrDefault("PRESENTATION_REMOTE_RATE", 50),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty 区分未设置与显式设为空
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvSizeOrDefault(key string, defaultValue Size) Size {
	if value := os.Getenv(key); value != "" {
		if s, err := ParseSize(value); err == nil {
			return s
		}
	}
	return defaultValue
}

// ParseSize 解析 "1024x768" 形式的尺寸
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("invalid size %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("size %q must be positive", s)
	}
	return Size{Width: width, Height: height}, nil
}
