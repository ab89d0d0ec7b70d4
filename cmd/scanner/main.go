// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command scanner runs a scanner station: it reads QR codes from a keyboard
// wedge or camera frames, shows each result, and optionally marks attendance
// on the server for a logged-in student.
package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-scan/capture"
	"github.com/danielhkuo/quickly-scan/client"
	"github.com/danielhkuo/quickly-scan/display"
	"github.com/danielhkuo/quickly-scan/models"
	"github.com/danielhkuo/quickly-scan/scanner"
)

func main() {
	// Existing variables win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		slog.Error("scanner failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := display.NewTerminal(os.Stdout)
	opts := []scanner.Option{scanner.WithSessionConfig(cfg.SessionConfig())}

	var scans atomic.Int64
	opts = append(opts, scanner.WithDecodeHook(func(string) { scans.Add(1) }))

	if cfg.Enrollment != "" {
		hook, err := attendanceHook(ctx, cfg, term)
		if err != nil {
			return err
		}
		opts = append(opts, scanner.WithDecodeHook(hook))
	}

	capability := buildCapability(cfg)
	controller := scanner.NewController(capability, term, opts...)

	if err := controller.Init(ctx); err != nil {
		// The terminal already shows the reason
		return err
	}
	slog.Debug("scanning", "device", controller.Device(), "rate", cfg.ScanRate, "region", cfg.RegionSize)

	switch {
	case controller.Device() == capture.StdinDevice:
		term.Notef("Scan codes, one per line. Ctrl-C to stop.")
	case stopOnEnter(os.Stdin, stop):
		term.Notef("Scanning on %s. Press Enter to stop.", controller.Device())
	default:
		term.Notef("Scanning on %s. Send SIGTERM or Ctrl-C to stop.", controller.Device())
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := controller.Stop(stopCtx); err != nil {
		return err
	}

	term.Notef("%s codes scanned", humanize.Comma(scans.Load()))
	return nil
}

func buildCapability(cfg Config) scanner.Capability {
	if cfg.Kind == models.KindFrames {
		return &capture.Frames{Root: cfg.FramesRoot, Decoder: capture.QRDecoder{}}
	}

	w := &capture.Wedge{Patterns: cfg.Devices}
	if cfg.Stdin {
		w.Stdin = os.Stdin
	}
	return w
}

// attendanceHook logs in and returns a hook that marks each newly decoded code
func attendanceHook(ctx context.Context, cfg Config, term *display.Terminal) (scanner.DecodeHook, error) {
	api := client.New(cfg.ServerURL, cfg.DeviceUUID)

	login, err := api.Login(ctx, cfg.Enrollment, cfg.Password)
	if err != nil {
		return nil, err
	}
	term.Notef("Logged in as %s (%s)", login.Name, login.Enrollment)

	if _, err := api.RegisterDevice(ctx, cfg.Kind); err != nil {
		slog.Warn("station registration failed", "error", err)
	}

	m := &marker{ctx: ctx, api: api, term: term}
	return m.mark, nil
}

// marker posts decoded codes to the server. A code held in front of the
// camera decodes on every frame, so a code the server has already accepted
// is not sent again until a different code is marked.
type marker struct {
	ctx  context.Context
	api  *client.Client
	term *display.Terminal

	mu   sync.Mutex
	last string
}

func (m *marker) mark(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code == m.last {
		slog.Debug("code already marked", "code", code)
		return
	}

	markCtx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
	defer cancel()

	resp, err := m.api.Mark(markCtx, code)
	if err != nil {
		slog.Debug("mark failed", "code", code, "error", err)
		m.term.Notef("Attendance not recorded: %v", err)
		return
	}
	m.last = code
	m.term.Notef("%s", resp.Message)
}

// stopOnEnter calls stop when Enter is pressed on in. It only watches an
// interactive terminal; it reports whether the watcher was started.
func stopOnEnter(in *os.File, stop func()) bool {
	fd := in.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false
	}
	go waitForEnter(in, stop)
	return true
}

// waitForEnter calls stop after a full line is read. EOF or a read error
// leaves the scanner running.
func waitForEnter(in io.Reader, stop func()) {
	if _, err := bufio.NewReader(in).ReadString('\n'); err != nil {
		slog.Debug("stop watcher ended", "error", err)
		return
	}
	stop()
}
