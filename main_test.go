package main

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrform/api"
	"github.com/openclaw/qrform/config"
	"github.com/openclaw/qrform/qr"
	"github.com/openclaw/qrform/store"
)

func TestRunGenerate(t *testing.T) {
	tests := []struct {
		name   string
		format string
		magic  string
	}{
		{name: "png", format: "PNG", magic: "\x89PNG"},
		{name: "jpeg", format: "jpeg", magic: "\xff\xd8"},
		{name: "svg", format: "svg", magic: "<?xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "code."+tt.name)
			var stdout bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&stdout)

			err := runGenerate(cmd, "https://example.com", generateOptions{
				moduleSize: 10,
				border:     4,
				foreground: "#000000",
				background: "#FFFFFF",
				format:     tt.format,
				output:     out,
			})
			if err != nil {
				t.Fatalf("runGenerate() error = %v", err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !bytes.HasPrefix(data, []byte(tt.magic)) {
				t.Errorf("output does not start with %q", tt.magic)
			}
			if !strings.Contains(stdout.String(), "330x330 px") {
				t.Errorf("stdout = %q, want size summary", stdout.String())
			}
		})
	}
}

func TestRunGeneratePNGSize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "code.png")
	err := runGenerate(&cobra.Command{}, "https://example.com", generateOptions{
		moduleSize: 5, border: 4, foreground: "#000000", background: "#FFFFFF", format: "png", output: out,
	})
	if err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 165 {
		t.Errorf("width = %d, want 165", b.Dx())
	}
}

func TestRunGenerateErrors(t *testing.T) {
	base := generateOptions{moduleSize: 10, border: 4, foreground: "#000000", background: "#FFFFFF", format: "png"}

	badColor := base
	badColor.foreground = "#00000G"
	badFormat := base
	badFormat.format = "tiff"

	tests := []struct {
		name      string
		text      string
		opts      generateOptions
		wantColor bool
	}{
		{name: "empty text", text: "", opts: base},
		{name: "bad color", text: "hello", opts: badColor, wantColor: true},
		{name: "bad format", text: "hello", opts: badFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.output = filepath.Join(t.TempDir(), "out")
			err := runGenerate(&cobra.Command{}, tt.text, tt.opts)
			var colorErr *qr.InvalidColorError
			var inputErr *qr.InvalidInputError
			switch {
			case tt.wantColor && !errors.As(err, &colorErr):
				t.Errorf("error = %v, want *InvalidColorError", err)
			case !tt.wantColor && !errors.As(err, &inputErr):
				t.Errorf("error = %v, want *InvalidInputError", err)
			}
			if _, statErr := os.Stat(tt.opts.output); statErr == nil {
				t.Error("output file written despite error")
			}
		})
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(api.NewRouter(&api.Server{
		Results:   store.NewResultStore(),
		Sessions:  api.NewSessionStore("0123456789abcdef0123456789abcdef", false),
		Defaults:  config.Default().Defaults,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:   "test",
		StartTime: now,
		Now:       func() time.Time { return now },
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestStatusCommand(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		addr    string
		want    []string
		wantErr bool
	}{
		{name: "running server", addr: srv.URL, want: []string{`"status":"ok"`, `"version":"test"`, `"has_result":false`}},
		{name: "trailing slash", addr: srv.URL + "/", want: []string{`"status":"ok"`}},
		{name: "unreachable", addr: "http://127.0.0.1:1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "status", "--addr", tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("status error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output = %q, missing %s", out, want)
				}
			}
		})
	}
}

func TestRequestCommand(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		args     []string
		magic    string
		wantSide int
		wantErr  string
	}{
		{name: "server defaults", args: nil, magic: "\x89PNG", wantSide: 330},
		{name: "module size flag", args: []string{"-s", "5"}, magic: "\x89PNG", wantSide: 165},
		{name: "no border", args: []string{"-s", "1", "-b", "0"}, magic: "\x89PNG", wantSide: 25},
		{name: "svg", args: []string{"-f", "svg", "--fg", "#FF0000"}, magic: "<?xml"},
		{name: "jpeg", args: []string{"-f", "jpg"}, magic: "\xff\xd8"},
		{name: "bad color", args: []string{"--bg", "white"}, wantErr: "invalid color"},
		{name: "module size out of range", args: []string{"-s", "0"}, wantErr: "module size must be between 1 and 20"},
		{name: "bad format", args: []string{"-f", "gif"}, wantErr: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "code")
			args := append([]string{"request", "https://example.com", "--addr", srv.URL, "-o", out}, tt.args...)
			stdout, err := execute(t, args...)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("request error = %v, want %q", err, tt.wantErr)
				}
				if _, statErr := os.Stat(out); statErr == nil {
					t.Error("output file written despite error")
				}
				return
			}
			if err != nil {
				t.Fatalf("request error = %v", err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if !bytes.HasPrefix(data, []byte(tt.magic)) {
				t.Errorf("output does not start with %q", tt.magic)
			}
			if tt.wantSide != 0 {
				img, err := png.Decode(bytes.NewReader(data))
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if b := img.Bounds(); b.Dx() != tt.wantSide {
					t.Errorf("width = %d, want %d", b.Dx(), tt.wantSide)
				}
			}
			if !strings.Contains(stdout, "wrote "+out) {
				t.Errorf("stdout = %q", stdout)
			}
		})
	}
}

func TestRequestCommandServerFilename(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	if _, err := execute(t, "request", "hello", "--addr", srv.URL, "-f", "svg"); err != nil {
		t.Fatalf("request error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "qrcode_20240102_150405.svg")); err != nil {
		t.Errorf("server-named file missing: %v", err)
	}
}

func TestAttachmentName(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: `attachment; filename="qrcode_20240102_150405.png"`, want: "qrcode_20240102_150405.png"},
		{header: `attachment; filename="../../etc/passwd"`, want: "passwd"},
		{header: `attachment`, want: ""},
		{header: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := attachmentName(tt.header); got != tt.want {
				t.Errorf("attachmentName(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
