// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-scan/scanner"
)

type recorder struct {
	mu       sync.Mutex
	decoded  []string
	failures []string
	got      chan string
}

func newRecorder() *recorder {
	return &recorder{got: make(chan string, 64)}
}

func (r *recorder) onDecode(text string) {
	r.mu.Lock()
	r.decoded = append(r.decoded, text)
	r.mu.Unlock()
	r.got <- text
}

func (r *recorder) onDecodeFailure(detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, detail)
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case text := <-r.got:
		return text
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for decode")
		return ""
	}
}

func TestWedge_ListCaptureDevices(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ttyACM1", "ttyACM0", "ttyUSB0"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w := &Wedge{
		Stdin:    strings.NewReader(""),
		Patterns: []string{filepath.Join(dir, "ttyACM*")},
	}

	devices, err := w.ListCaptureDevices(context.Background())
	if err != nil {
		t.Fatalf("ListCaptureDevices() error = %v", err)
	}

	want := []string{StdinDevice, filepath.Join(dir, "ttyACM0"), filepath.Join(dir, "ttyACM1")}
	if len(devices) != len(want) {
		t.Fatalf("Expected %d devices, got %d: %v", len(want), len(devices), devices)
	}
	for i, id := range want {
		if devices[i].ID != id {
			t.Errorf("devices[%d] = '%s', want '%s'", i, devices[i].ID, id)
		}
	}
}

func TestWedge_NoDevices(t *testing.T) {
	w := &Wedge{Patterns: []string{filepath.Join(t.TempDir(), "ttyACM*")}}

	devices, err := w.ListCaptureDevices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 0 {
		t.Errorf("Expected no devices, got %v", devices)
	}
}

func TestWedge_BadPattern(t *testing.T) {
	w := &Wedge{Patterns: []string{"[unterminated"}}

	if _, err := w.ListCaptureDevices(context.Background()); err == nil {
		t.Error("Expected error for malformed pattern")
	}
}

func TestWedge_StdinSession(t *testing.T) {
	w := &Wedge{Stdin: strings.NewReader("ENR2025001\n\n  CLASSROOM-101  \n")}
	rec := newRecorder()

	session, err := w.BeginSession(context.Background(), StdinDevice,
		scanner.SessionConfig{ScanRate: 1000, RegionSize: 250}, rec.onDecode, rec.onDecodeFailure)
	if err != nil {
		t.Fatalf("BeginSession() error = %v", err)
	}

	if got := rec.wait(t); got != "ENR2025001" {
		t.Errorf("Expected 'ENR2025001', got '%s'", got)
	}
	if got := rec.wait(t); got != "CLASSROOM-101" {
		t.Errorf("Expected trimmed 'CLASSROOM-101', got '%s'", got)
	}

	if err := session.End(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.failures) != 1 || rec.failures[0] != "empty scan" {
		t.Errorf("Expected one empty scan failure, got %v", rec.failures)
	}
}

func TestWedge_EndClosesDevice(t *testing.T) {
	pr, pw := io.Pipe()
	w := &Wedge{
		Open: func(path string) (io.ReadCloser, error) {
			if path != "/dev/ttyACM0" {
				t.Errorf("Unexpected device path %s", path)
			}
			return pr, nil
		},
	}
	rec := newRecorder()

	session, err := w.BeginSession(context.Background(), "/dev/ttyACM0",
		scanner.DefaultSessionConfig(), rec.onDecode, rec.onDecodeFailure)
	if err != nil {
		t.Fatal(err)
	}

	go pw.Write([]byte("CLASSROOM-101\n"))
	if got := rec.wait(t); got != "CLASSROOM-101" {
		t.Errorf("Expected 'CLASSROOM-101', got '%s'", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.End(ctx); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	// Writes after End hit a closed pipe and never reach the callback
	if _, err := pw.Write([]byte("late\n")); err == nil {
		t.Error("Expected write to closed device to fail")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.decoded) != 1 {
		t.Errorf("Expected 1 decode, got %v", rec.decoded)
	}
}

func TestWedge_PacesToScanRate(t *testing.T) {
	w := &Wedge{Stdin: strings.NewReader("a\nb\nc\n")}
	rec := newRecorder()

	start := time.Now()
	session, err := w.BeginSession(context.Background(), StdinDevice,
		scanner.SessionConfig{ScanRate: 20}, rec.onDecode, rec.onDecodeFailure)
	if err != nil {
		t.Fatal(err)
	}
	defer session.End(context.Background())

	for i := 0; i < 3; i++ {
		rec.wait(t)
	}

	// Three decodes at 20/s need at least two 50ms gaps
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("Expected paced delivery, all decodes took %v", elapsed)
	}
}

func TestWedge_BeginSessionErrors(t *testing.T) {
	openErr := errors.New("permission denied")
	w := &Wedge{
		Open: func(string) (io.ReadCloser, error) { return nil, openErr },
	}

	tests := []struct {
		name     string
		deviceID string
		cfg      scanner.SessionConfig
		wantErr  error
	}{
		{"zero scan rate", "/dev/ttyACM0", scanner.SessionConfig{}, ErrInvalidScanRate},
		{"open failure", "/dev/ttyACM0", scanner.DefaultSessionConfig(), openErr},
		{"stdin disabled", StdinDevice, scanner.DefaultSessionConfig(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.BeginSession(context.Background(), tt.deviceID, tt.cfg,
				func(string) {}, func(string) {})
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWedge_DrivesController(t *testing.T) {
	pr, pw := io.Pipe()
	w := &Wedge{Open: func(string) (io.ReadCloser, error) { return pr, nil }}
	w.Patterns = []string{filepath.Join(t.TempDir(), "none*")}

	// No matching device: the controller reports it
	surface := &statusSurface{}
	c := scanner.NewController(w, surface)
	if err := c.Start(context.Background()); !errors.Is(err, scanner.ErrNoCamera) {
		t.Fatalf("Expected ErrNoCamera, got %v", err)
	}
	if surface.lastStatus() != scanner.StatusNoCamera {
		t.Errorf("Unexpected status '%s'", surface.lastStatus())
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ttyACM0"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w.Patterns = []string{filepath.Join(dir, "ttyACM*")}

	decoded := make(chan string, 1)
	c = scanner.NewController(w, surface, scanner.WithDecodeHook(func(text string) { decoded <- text }))
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	go pw.Write([]byte("CLASSROOM-101\n"))
	select {
	case <-decoded:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for decode")
	}

	if surface.lastResult() != "QR Code Detected: CLASSROOM-101" {
		t.Errorf("Unexpected result '%s'", surface.lastResult())
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if surface.lastStatus() != scanner.StatusStopped {
		t.Errorf("Unexpected status '%s'", surface.lastStatus())
	}
}

type statusSurface struct {
	mu     sync.Mutex
	status string
	result string
}

func (s *statusSurface) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

func (s *statusSurface) ShowResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = text
}

func (s *statusSurface) lastStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *statusSurface) lastResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
