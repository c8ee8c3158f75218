package terminal

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/session"
)

// Input 原始模式下的终端键盘输入
type Input struct {
	f     *os.File
	state *term.State
	log   *logger.Logger
}

// OpenInput 把 f 切换到原始模式；f 不是终端时返回用法错误
func OpenInput(f *os.File, log *logger.Logger) (*Input, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, apperrors.NewUsageError("standard input is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, apperrors.NewUsageError("cannot switch terminal to raw mode: " + err.Error())
	}
	return &Input{f: f, state: state, log: log}, nil
}

// Close 恢复终端模式
func (in *Input) Close() error {
	return term.Restore(int(in.f.Fd()), in.state)
}

// Run 读取按键并交给 post，直到 ctx 取消或输入结束。
// 阻塞中的 Read 无法被取消，ctx 取消后最多再处理一次输入
func (in *Input) Run(ctx context.Context, post func(session.KeyEvent)) error {
	return ReadKeys(ctx, in.f, post)
}

// ReadKeys 从 r 解码按键
func ReadKeys(ctx context.Context, r io.Reader, post func(session.KeyEvent)) error {
	var dec Decoder
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if ctx.Err() != nil {
			return nil
		}
		for _, ev := range dec.Feed(buf[:n]) {
			post(ev)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
