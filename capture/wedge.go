// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/quickly-scan/scanner"
)

// StdinDevice is the device id of the standard input wedge
const StdinDevice = "stdin"

var ErrInvalidScanRate = errors.New("scan rate must be positive")

// Wedge reads codes from line-oriented devices: hardware scanners and RFID
// readers in keyboard mode, serial adapters, or standard input. Each
// non-empty line is one decode.
type Wedge struct {
	// Stdin enables the "stdin" device when non-nil
	Stdin io.Reader
	// Patterns are globs for device nodes, e.g. /dev/ttyACM*
	Patterns []string
	// Open defaults to os.Open
	Open func(path string) (io.ReadCloser, error)
}

func (w *Wedge) ListCaptureDevices(ctx context.Context) ([]scanner.DeviceDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	devices := []scanner.DeviceDescriptor{}
	if w.Stdin != nil {
		devices = append(devices, scanner.DeviceDescriptor{ID: StdinDevice, Label: "standard input"})
	}

	for _, pattern := range w.Patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad device pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			devices = append(devices, scanner.DeviceDescriptor{ID: m, Label: filepath.Base(m)})
		}
	}

	return devices, nil
}

func (w *Wedge) BeginSession(ctx context.Context, deviceID string, cfg scanner.SessionConfig,
	onDecode func(string), onDecodeFailure func(string)) (scanner.Session, error) {
	if cfg.ScanRate <= 0 {
		return nil, ErrInvalidScanRate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &wedgeSession{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	if deviceID == StdinDevice {
		if w.Stdin == nil {
			return nil, fmt.Errorf("device %s not available", deviceID)
		}
		// stdin cannot be closed under a blocked read
		s.rc = io.NopCloser(w.Stdin)
	} else {
		open := w.Open
		if open == nil {
			open = func(path string) (io.ReadCloser, error) { return os.Open(path) }
		}
		rc, err := open(deviceID)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", deviceID, err)
		}
		s.rc = rc
		s.closable = true
	}

	go s.read(time.Second/time.Duration(cfg.ScanRate), onDecode, onDecodeFailure)

	return s, nil
}

type wedgeSession struct {
	rc       io.ReadCloser
	closable bool

	stopped  atomic.Bool
	quit     chan struct{}
	done     chan struct{}
	endOnce  sync.Once
	closeErr error
}

func (s *wedgeSession) read(interval time.Duration, onDecode, onDecodeFailure func(string)) {
	defer close(s.done)

	lines := bufio.NewScanner(s.rc)
	var last time.Time

	for lines.Scan() {
		if s.stopped.Load() {
			return
		}

		code := strings.TrimSpace(lines.Text())
		if code == "" {
			onDecodeFailure("empty scan")
			continue
		}

		// Pace delivery to the scan rate
		if wait := interval - time.Since(last); !last.IsZero() && wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.quit:
				timer.Stop()
				return
			}
		}

		if s.stopped.Load() {
			return
		}
		onDecode(code)
		last = time.Now()
	}

	if err := lines.Err(); err != nil && !s.stopped.Load() {
		onDecodeFailure(err.Error())
	}
}

// End suppresses further callbacks, closes the device and waits for the
// reader to exit when the device can be closed.
func (s *wedgeSession) End(ctx context.Context) error {
	s.endOnce.Do(func() {
		s.stopped.Store(true)
		close(s.quit)
		s.closeErr = s.rc.Close()
	})
	if s.closeErr != nil {
		return fmt.Errorf("close device: %w", s.closeErr)
	}
	if !s.closable {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
