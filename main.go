package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrform/api"
	"github.com/openclaw/qrform/config"
	"github.com/openclaw/qrform/qr"
	"github.com/openclaw/qrform/store"
)

var version = "v0.1.0"

const defaultAddr = "http://localhost:8585"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "qrform",
		Short:        "Turn text into downloadable QR code images",
		SilenceUsage: true,
	}

	// --- serve command -------------------------------------------------------
	var configPath, envFile string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QR code web form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, envFile)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before the config")
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	var opts generateOptions
	generateCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Write a QR code image for text to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}
	defaults := config.Default().Defaults
	generateCmd.Flags().IntVarP(&opts.moduleSize, "module-size", "s", defaults.ModuleSize, "Pixels per module")
	generateCmd.Flags().IntVarP(&opts.border, "border", "b", defaults.Border, "Quiet zone width in modules")
	generateCmd.Flags().StringVar(&opts.foreground, "fg", defaults.Foreground, "Module color (#RRGGBB)")
	generateCmd.Flags().StringVar(&opts.background, "bg", defaults.Background, "Background color (#RRGGBB)")
	generateCmd.Flags().StringVarP(&opts.format, "format", "f", defaults.Format, "Output format: PNG, JPEG or SVG")
	generateCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default qrcode_<timestamp>.<ext>)")
	root.AddCommand(generateCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running qrform server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", defaultAddr, "qrform HTTP address")
	root.AddCommand(statusCmd)

	// --- request command -----------------------------------------------------
	var reqOpts requestOptions
	requestCmd := &cobra.Command{
		Use:   "request [text]",
		Short: "Ask a running qrform server for a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, args[0], reqOpts)
		},
	}
	requestCmd.Flags().StringVar(&reqOpts.addr, "addr", defaultAddr, "qrform HTTP address")
	requestCmd.Flags().IntVarP(&reqOpts.moduleSize, "module-size", "s", 0, "Pixels per module (server default when unset)")
	requestCmd.Flags().IntVarP(&reqOpts.border, "border", "b", 0, "Quiet zone width in modules (server default when unset)")
	requestCmd.Flags().StringVar(&reqOpts.foreground, "fg", "", "Module color (#RRGGBB)")
	requestCmd.Flags().StringVar(&reqOpts.background, "bg", "", "Background color (#RRGGBB)")
	requestCmd.Flags().StringVarP(&reqOpts.format, "format", "f", "", "Output format: PNG, JPEG or SVG")
	requestCmd.Flags().StringVarP(&reqOpts.output, "output", "o", "", "Output path (default: name sent by the server)")
	root.AddCommand(requestCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrform %s\n", version)
		},
	})

	return root
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// runServe is the main service entrypoint that wires all components together.
func runServe(configPath, envFile string) error {
	// 1. Load environment and config
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup logger
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting qrform", "version", version, "port", cfg.Port)

	// 3. Optional stylesheet
	css, err := cfg.ReadStylesheet()
	if err != nil {
		log.Warn("stylesheet ignored", "path", cfg.Stylesheet, "error", err)
	} else if css != "" {
		log.Info("stylesheet loaded", "path", cfg.Stylesheet)
	}

	if cfg.SessionSecret == "" {
		log.Warn("session_secret not set, form settings will reset on restart")
	}

	// 4. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Results:    store.NewResultStore(),
			Sessions:   api.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies),
			Defaults:   cfg.Defaults,
			Stylesheet: css,
			Log:        log,
			Version:    version,
			StartTime:  time.Now(),
		}),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("form is ready", "url", fmt.Sprintf("http://localhost:%d/", cfg.Port))

	// 5. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

type generateOptions struct {
	moduleSize int
	border     int
	foreground string
	background string
	format     string
	output     string
}

// runGenerate runs the encode and render pipeline once and writes the file.
func runGenerate(cmd *cobra.Command, text string, opts generateOptions) error {
	format, err := qr.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	sym, img, err := qr.Generate(qr.Request{
		Text:       text,
		ModuleSize: opts.moduleSize,
		Border:     opts.border,
		Foreground: opts.foreground,
		Background: opts.background,
		Format:     format,
	})
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = img.Filename(time.Now())
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d px, version %d)\n", path, img.Size, img.Size, sym.Version())
	return nil
}

// runStatus queries the server's status endpoint and prints the reply.
func runStatus(cmd *cobra.Command, addr string) error {
	resp, err := http.Get(strings.TrimSuffix(addr, "/") + "/status")
	if err != nil {
		return fmt.Errorf("failed to reach qrform at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status: %s", resp.Status)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
	return nil
}

type requestOptions struct {
	addr       string
	moduleSize int
	border     int
	foreground string
	background string
	format     string
	output     string
}

// runRequest posts text to the server's /api/qr endpoint and writes the
// returned attachment. Flags left unset fall back to the server's defaults.
func runRequest(cmd *cobra.Command, text string, opts requestOptions) error {
	req := api.GenerateRequest{
		Text:       text,
		Foreground: opts.foreground,
		Background: opts.background,
		Format:     opts.format,
	}
	if cmd.Flags().Changed("module-size") {
		req.ModuleSize = &opts.moduleSize
	}
	if cmd.Flags().Changed("border") {
		req.Border = &opts.border
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := http.Post(strings.TrimSuffix(opts.addr, "/")+"/api/qr", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("request failed: %s", resp.Status)
		}
		return fmt.Errorf("request failed: %s", apiErr.Error)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	path := opts.output
	if path == "" {
		path = attachmentName(resp.Header.Get("Content-Disposition"))
	}
	if path == "" {
		return errors.New("server sent no file name, use --output")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", path, resp.Header.Get("Content-Type"), len(data))
	return nil
}

// attachmentName extracts the base file name from a Content-Disposition header.
func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
