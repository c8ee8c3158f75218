package main

import (
	"bytes"
	stderrors "errors"
	"image/png"
	"strings"
	"testing"
	"time"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPath string
		wantDur  time.Duration
		feed     bool
	}{
		{"path only", []string{"talk.pdf"}, "talk.pdf", 5 * time.Minute, false},
		{"short duration", []string{"-d", "20", "talk.pdf"}, "talk.pdf", 20 * time.Minute, false},
		{"long flags", []string{"--duration=45", "--feed", "talk.pdf"}, "talk.pdf", 45 * time.Minute, true},
		{"no path", []string{"-f"}, "", 5 * time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseArgs("presentation", tt.args, 5*time.Minute, &stderr)
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}
			if opts.path != tt.wantPath || opts.duration != tt.wantDur || opts.feed != tt.feed {
				t.Errorf("got %+v", opts)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs("presentation", []string{"a.pdf", "b.pdf"}, 0, &stderr)
	if !apperrors.IsType(err, apperrors.ErrorTypeUsage) || apperrors.ExitCode(err) != 1 {
		t.Errorf("two documents: %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: presentation [-hvid:f] <doc.pdf>") {
		t.Errorf("usage not printed: %q", stderr.String())
	}

	_, err = parseArgs("presentation", []string{"-x"}, 0, &stderr)
	if apperrors.ExitCode(err) != 1 {
		t.Errorf("unknown flag: %v", err)
	}

	_, err = parseArgs("presentation", []string{"-d", "-3", "a.pdf"}, 0, &stderr)
	if !apperrors.IsType(err, apperrors.ErrorTypeUsage) {
		t.Errorf("negative duration: %v", err)
	}

	_, err = parseArgs("presentation", []string{"--help"}, 0, &stderr)
	if !stderrors.Is(err, apperrors.ErrHelpRequested) || apperrors.ExitCode(err) != 0 {
		t.Errorf("help: %v", err)
	}
}

func TestPromptPath(t *testing.T) {
	var out bytes.Buffer
	path, err := promptPath(strings.NewReader("  slides/talk.pdf \n"), &out)
	if err != nil || path != "slides/talk.pdf" {
		t.Errorf("promptPath = %q, %v", path, err)
	}
	if _, err := promptPath(strings.NewReader(""), &out); !apperrors.IsType(err, apperrors.ErrorTypeUsage) {
		t.Errorf("empty input: %v", err)
	}
}

func TestWriteIcon(t *testing.T) {
	var buf bytes.Buffer
	if err := writeIcon(&buf); err != nil {
		t.Fatalf("writeIcon failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Errorf("icon size = %v", b)
	}
}
