package view

import (
	"os/exec"
	"runtime"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// Launcher 启动外部进程或交给系统默认程序打开
type Launcher interface {
	Spawn(argv []string) error
	Open(url string) error
}

// MoviePlayer 播放本地视频
type MoviePlayer interface {
	Play(url string) error
}

// ExecLauncher 基于 os/exec 的默认实现，不等待子进程结束
type ExecLauncher struct {
	log *logger.Logger
}

// NewExecLauncher 创建默认启动器
func NewExecLauncher(log *logger.Logger) *ExecLauncher {
	return &ExecLauncher{log: log}
}

// Spawn 启动 argv 描述的进程
func (l *ExecLauncher) Spawn(argv []string) error {
	if len(argv) == 0 {
		return apperrors.NewLaunchError("empty command", nil)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return apperrors.NewLaunchError("cannot start "+argv[0], err)
	}
	l.log.Info("process started", "command", argv[0], "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			l.log.Warn("process exited with error", "command", argv[0], "error", err)
		}
	}()
	return nil
}

// Open 交给操作系统的默认处理程序
func (l *ExecLauncher) Open(url string) error {
	return l.Spawn(OpenCommand(runtime.GOOS, url))
}

// Play 视频同样交给系统默认播放器
func (l *ExecLauncher) Play(url string) error {
	return l.Open(url)
}

// OpenCommand 返回各平台打开 url 的命令行
func OpenCommand(goos, url string) []string {
	switch goos {
	case "darwin":
		return []string{"open", url}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	default:
		return []string{"xdg-open", url}
	}
}
