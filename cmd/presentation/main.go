// presentation 双窗口 PDF 演示工具：演讲者窗口和观众窗口以 PNG 画面形式发布，
// 可在浏览器中通过远程服务查看和控制，也可在终端中直接按键操作
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/novvoo/go-presentation/pkg/config"
	"github.com/novvoo/go-presentation/pkg/document"
	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/feed"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/presenter"
	"github.com/novvoo/go-presentation/pkg/raster"
	"github.com/novvoo/go-presentation/pkg/remote"
	"github.com/novvoo/go-presentation/pkg/session"
	"github.com/novvoo/go-presentation/pkg/terminal"
	"github.com/novvoo/go-presentation/pkg/view"
	"github.com/novvoo/go-presentation/pkg/web"
)

// pageCacheSize 缓存的栅格化页面数：当前页、预览页及前后若干页
const pageCacheSize = 8

func main() {
	os.Exit(run(os.Args[0], os.Args[1:]))
}

func run(prog string, args []string) int {
	envErr := godotenv.Load()
	cfg := config.NewConfig()
	log := logger.New(cfg.LogLevel, os.Stderr)
	if envErr != nil {
		log.Debug("no .env file loaded", "error", envErr)
	}

	opts, err := parseArgs(prog, args, cfg.Duration, os.Stderr)
	if err != nil {
		if !stderrors.Is(err, apperrors.ErrHelpRequested) {
			fmt.Fprintln(os.Stderr, err)
		}
		return apperrors.ExitCode(err)
	}
	if opts.version {
		fmt.Println(version)
		return 0
	}
	if opts.icon {
		if err := writeIcon(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if err := present(opts, cfg, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return apperrors.ExitCode(err)
	}
	return 0
}

func present(opts options, cfg *config.Config, log *logger.Logger) error {
	path := opts.path
	if path == "" {
		p, err := promptPath(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
		path = p
	}

	doc, password, err := loadDocument(path, cfg.Password, log)
	if err != nil {
		return err
	}
	rast, err := raster.OpenWithPassword(path, password)
	if err != nil {
		return err
	}
	defer rast.Close()
	if n := rast.PageCount(); n != doc.PageCount() {
		log.Warn("page count mismatch", "document", doc.PageCount(), "rasterizer", n)
	}

	metrics, err := presenter.NewMetrics()
	if err != nil {
		return err
	}
	renderer := presenter.NewRenderer(doc, raster.NewCache(rast, pageCacheSize, log), metrics, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := remote.NewFrameStore()
	sinks := session.MultiSink{store}
	if cfg.OutputDir != "" {
		dir, err := session.NewDirSink(cfg.OutputDir, log)
		if err != nil {
			return err
		}
		sinks = append(sinks, dir)
	}

	// 标准输入用于滚动字幕时不能同时作为键盘输入
	var input *terminal.Input
	var status *terminal.StatusLine
	if !opts.feed && term.IsTerminal(int(os.Stdin.Fd())) {
		input, err = terminal.OpenInput(os.Stdin, log)
		if err != nil {
			log.Warn("terminal keys disabled", "error", err)
		} else {
			defer input.Close()
			status = terminal.NewStatusLine(os.Stdout)
			sinks = append(sinks, status)
		}
	}

	launcher := view.NewExecLauncher(log)
	sess := session.New(doc, session.Deps{
		Renderer: renderer,
		Sink:     sinks,
		Web:      web.NewService(ctx, web.NewFetcher(cfg.WebTimeout, log)),
		Launcher: launcher,
		Movies:   launcher,
	}, session.Options{
		PresenterSize: cfg.PresenterSize,
		AudienceSize:  cfg.AudienceSize,
		Duration:      opts.duration,
		Feed:          opts.feed,
		ScriptRunner:  cfg.ScriptRunner,
		Logger:        log,
	})

	if cfg.ListenAddr != "" {
		srv, err := remote.NewServer(store, sess, remote.Options{Rate: cfg.RemoteRate, Logger: log})
		if err != nil {
			return err
		}
		log.Info("remote control ready",
			"presenter", fmt.Sprintf("http://%s/presenter?token=%s", cfg.ListenAddr, srv.Token()),
			"audience", fmt.Sprintf("http://%s/audience?token=%s", cfg.ListenAddr, srv.Token()))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
				log.Error("remote server failed", err)
			}
		}()
	}

	if input != nil {
		go func() {
			err := input.Run(ctx, func(ev session.KeyEvent) {
				if ev == terminal.CtrlC {
					cancel()
					return
				}
				sess.PostKey(ev)
			})
			if err != nil {
				log.Warn("terminal input stopped", "error", err)
			}
		}()
	}
	if opts.feed {
		go func() {
			if err := feed.ReadLines(ctx, os.Stdin, sess.FeedLines()); err != nil {
				log.Warn("feed input stopped", "error", err)
			}
		}()
	}

	err = sess.Run(ctx)
	if status != nil {
		status.Clear()
	}
	return err
}

// loadDocument 加载文档；加密且未配置正确密码时在终端上询问一次
func loadDocument(path, password string, log *logger.Logger) (*document.Document, string, error) {
	doc, err := document.Load(path, document.LoadOptions{Password: password, Logger: log})
	fd := int(os.Stdin.Fd())
	if err == nil || !stderrors.Is(err, document.ErrEncrypted) || !term.IsTerminal(fd) {
		return doc, password, err
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, readErr := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if readErr != nil {
		return nil, "", err
	}
	password = string(pw)
	doc, err = document.Load(path, document.LoadOptions{Password: password, Logger: log})
	return doc, password, err
}
