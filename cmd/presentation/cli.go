package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
)

const version = "presentation 1.2"

// options 命令行选项
type options struct {
	help     bool
	version  bool
	icon     bool
	feed     bool
	duration time.Duration
	path     string
}

// parseArgs 解析命令行；短选项和长选项共用同一变量
func parseArgs(prog string, args []string, defaultDuration time.Duration, stderr io.Writer) (options, error) {
	var opts options
	minutes := int(defaultDuration / time.Minute)

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.help, "h", false, "show this help")
	fs.BoolVar(&opts.help, "help", false, "show this help")
	fs.BoolVar(&opts.version, "v", false, "print the version")
	fs.BoolVar(&opts.version, "version", false, "print the version")
	fs.BoolVar(&opts.icon, "i", false, "write the application icon as PNG to stdout")
	fs.BoolVar(&opts.icon, "icon", false, "write the application icon as PNG to stdout")
	fs.IntVar(&minutes, "d", minutes, "planned talk duration in minutes")
	fs.IntVar(&minutes, "duration", minutes, "planned talk duration in minutes")
	fs.BoolVar(&opts.feed, "f", false, "scroll lines read from stdin over the audience window")
	fs.BoolVar(&opts.feed, "feed", false, "scroll lines read from stdin over the audience window")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [-hvid:f] <doc.pdf>\n", prog)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, apperrors.NewUsageError(err.Error())
	}
	if opts.help {
		fs.Usage()
		return opts, apperrors.ErrHelpRequested
	}
	if minutes < 0 {
		return opts, apperrors.NewUsageError("duration must not be negative")
	}
	opts.duration = time.Duration(minutes) * time.Minute

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		opts.path = rest[0]
	default:
		fs.Usage()
		return opts, apperrors.NewUsageError("expected a single document")
	}
	return opts, nil
}

// promptPath 未给出文档时在终端上询问路径
func promptPath(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Document: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	path := strings.TrimSpace(line)
	if path == "" {
		if err != nil && err != io.EOF {
			return "", apperrors.NewUsageError("cannot read document path: " + err.Error())
		}
		return "", apperrors.NewUsageError("no document given")
	}
	return path, nil
}
