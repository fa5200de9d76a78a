// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/ssh/terminal"
)

// VT100 control sequences
const (
	resetLine = "\r\x1b[2K"
	wrapOff   = "\x1b[?7l"
	wrapOn    = "\x1b[?7h"
)

// status reports progress. On a terminal, it keeps a single status
// line that each update overwrites. Otherwise, updates are printed as
// plain lines, and only if verbose is set.
type status struct {
	w       io.Writer
	vt100   bool
	verbose bool

	mu      sync.Mutex
	showing bool
}

func newStatus(f *os.File, verbose bool) *status {
	term := os.Getenv("TERM")
	vt100 := term != "" && term != "dumb" && terminal.IsTerminal(int(f.Fd()))
	return &status{w: f, vt100: vt100, verbose: verbose}
}

// Status replaces the current status line. It may be called
// concurrently.
func (s *status) Status(format string, a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := fmt.Sprintf(format, a...)
	if s.vt100 {
		fmt.Fprintf(s.w, "%s%s%s%s", resetLine, wrapOff, msg, wrapOn)
		s.showing = true
	} else if s.verbose {
		fmt.Fprintln(s.w, msg)
	}
}

// Logf prints a message that stays on screen after the status line
// is replaced.
func (s *status) Logf(format string, a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	fmt.Fprintf(s.w, format+"\n", a...)
}

// Stop clears the status line.
func (s *status) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *status) clear() {
	if s.showing {
		fmt.Fprint(s.w, resetLine)
		s.showing = false
	}
}
