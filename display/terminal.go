// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Terminal renders the scanner's status line and result region as lines on
// a writer. The result region stays hidden until the first result.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	color   bool
	status  string
	result  string
	visible bool
}

// NewTerminal writes to w, using emphasis only when w is a terminal
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetStatus overwrites the status line
func (t *Terminal) SetStatus(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = msg
	if t.color {
		fmt.Fprintf(t.w, "%sstatus:%s %s\n", ansiDim, ansiReset, msg)
		return
	}
	fmt.Fprintf(t.w, "status: %s\n", msg)
}

// ShowResult shows the result region and overwrites its content
func (t *Terminal) ShowResult(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.result = text
	t.visible = true
	if t.color {
		fmt.Fprintf(t.w, "%s%s%s\n", ansiBold, text, ansiReset)
		return
	}
	fmt.Fprintln(t.w, text)
}

// Status returns the current status line
func (t *Terminal) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the result region content and whether it is shown
func (t *Terminal) Result() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.visible
}

// Notef writes an auxiliary line that is neither status nor result
func (t *Terminal) Notef(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf(format, args...)
	if t.color {
		fmt.Fprintf(t.w, "%s%s%s\n", ansiDim, line, ansiReset)
		return
	}
	fmt.Fprintln(t.w, line)
}
