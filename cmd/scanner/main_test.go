// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-scan/display"
	"github.com/danielhkuo/quickly-scan/models"
	"github.com/danielhkuo/quickly-scan/router"
	"github.com/danielhkuo/quickly-scan/testutil"
)

// newMarkServer serves the API for one student and counts mark requests
func newMarkServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	d := testutil.SetupTestDB(t)
	testutil.CreateTestStudent(t, d, "ENR2025001", "Alice")
	mux := router.NewRouter(d, testutil.GetTestConfig())

	var marks atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/attendance/mark" {
			marks.Add(1)
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &marks
}

func stationConfig(serverURL string) Config {
	return Config{
		Kind:       models.KindFrames,
		ServerURL:  serverURL,
		Enrollment: "ENR2025001",
		Password:   "ENR2025001",
		DeviceUUID: "station-1",
	}
}

func TestAttendanceHook_MarksHeldCodeOnce(t *testing.T) {
	srv, marks := newMarkServer(t)

	var out bytes.Buffer
	hook, err := attendanceHook(context.Background(), stationConfig(srv.URL), display.NewTerminal(&out))
	if err != nil {
		t.Fatalf("attendanceHook() error = %v", err)
	}

	// A code held in view decodes on every frame
	for range 10 {
		hook("CS101")
	}
	if got := marks.Load(); got != 1 {
		t.Errorf("Expected 1 mark request for a held code, got %d", got)
	}
	if !strings.Contains(out.String(), "Attendance marked") {
		t.Errorf("Expected the server message in the output, got %q", out.String())
	}

	hook("CS102")
	hook("CS102")
	if got := marks.Load(); got != 2 {
		t.Errorf("Expected a new code to be marked, got %d requests", got)
	}

	// Switching back sends again; the server reports it as already marked
	hook("CS101")
	if got := marks.Load(); got != 3 {
		t.Errorf("Expected 3 mark requests, got %d", got)
	}
	if !strings.Contains(out.String(), "Already marked") {
		t.Errorf("Expected an already-marked message, got %q", out.String())
	}
}

func TestAttendanceHook_AlreadyMarkedIsRemembered(t *testing.T) {
	srv, marks := newMarkServer(t)
	cfg := stationConfig(srv.URL)

	first, err := attendanceHook(context.Background(), cfg, display.NewTerminal(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("attendanceHook() error = %v", err)
	}
	first("CS101")

	second, err := attendanceHook(context.Background(), cfg, display.NewTerminal(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("attendanceHook() error = %v", err)
	}
	second("CS101")
	second("CS101")

	if got := marks.Load(); got != 2 {
		t.Errorf("Expected 2 mark requests, got %d", got)
	}
}

func TestAttendanceHook_RetriesRejectedCode(t *testing.T) {
	srv, marks := newMarkServer(t)

	var out bytes.Buffer
	hook, err := attendanceHook(context.Background(), stationConfig(srv.URL), display.NewTerminal(&out))
	if err != nil {
		t.Fatalf("attendanceHook() error = %v", err)
	}

	// A blank code is rejected with 400 and is not remembered
	hook("   ")
	hook("   ")
	if got := marks.Load(); got != 2 {
		t.Errorf("Expected rejected code to be sent again, got %d requests", got)
	}
	if !strings.Contains(out.String(), "Attendance not recorded") {
		t.Errorf("Expected a failure message, got %q", out.String())
	}
}

func TestAttendanceHook_BadPassword(t *testing.T) {
	srv, marks := newMarkServer(t)
	cfg := stationConfig(srv.URL)
	cfg.Password = "wrong"

	if _, err := attendanceHook(context.Background(), cfg, display.NewTerminal(&bytes.Buffer{})); err == nil {
		t.Error("Expected login error")
	}
	if got := marks.Load(); got != 0 {
		t.Errorf("Expected no mark requests, got %d", got)
	}
}

func TestStopOnEnter_NonTerminalStdin(t *testing.T) {
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	defer devNull.Close()

	orig := os.Stdin
	os.Stdin = devNull
	t.Cleanup(func() { os.Stdin = orig })

	stopped := make(chan struct{})
	if stopOnEnter(os.Stdin, func() { close(stopped) }) {
		t.Error("Expected no Enter watcher when stdin is not a terminal")
	}

	select {
	case <-stopped:
		t.Fatal("stop called without Enter")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWaitForEnter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stop  bool
	}{
		{"enter pressed", "\n", true},
		{"text then enter", "q\n", true},
		{"eof", "", false},
		{"partial line", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			waitForEnter(strings.NewReader(tt.input), func() { called = true })
			if called != tt.stop {
				t.Errorf("stop called = %v, want %v", called, tt.stop)
			}
		})
	}

	t.Run("closed stdin", func(t *testing.T) {
		devNull, err := os.Open(os.DevNull)
		if err != nil {
			t.Fatal(err)
		}
		defer devNull.Close()

		called := false
		waitForEnter(devNull, func() { called = true })
		if called {
			t.Error("Expected EOF on stdin to leave the scanner running")
		}
	})
}
