// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Completion is the result of a Call, ready to be applied to the session on
// the goroutine that owns it.
type Completion struct {
	seq   uint64
	apply func(*Session)
}

// Call is an authority request detached from the session. Run may execute
// on any goroutine; it reads only values captured when the call was made.
type Call struct {
	Label string

	seq uint64
	run func(ctx context.Context) func(*Session)
}

// Run performs the request and returns the state change to apply.
func (c *Call) Run(ctx context.Context) Completion {
	return Completion{seq: c.seq, apply: c.run(ctx)}
}

// startCall enters PhaseBusy and detaches the wizard. A wizard captured by
// run is owned by the call until its completion re-attaches or drops it.
func (s *Session) startCall(label string, run func(ctx context.Context) func(*Session)) *Call {
	s.seq++
	s.wizard = nil
	s.confirm = ""
	s.input.Reset()
	s.input.Blur()
	s.phase = PhaseBusy
	s.busyLabel = label
	s.quitArmed = false
	return &Call{Label: label, seq: s.seq, run: run}
}

// Complete applies a finished call. A completion that belongs to an older
// call, or arrives when the session is no longer busy, is dropped.
func (s *Session) Complete(c Completion) {
	if c.apply == nil || c.seq != s.seq || s.phase != PhaseBusy {
		return
	}
	s.busyLabel = ""
	c.apply(s)
	if s.phase == PhaseBusy {
		s.phase = PhaseNormal
	}
	s.enforceGuard()
}

// BusyLabel describes the call in flight, or "".
func (s *Session) BusyLabel() string { return s.busyLabel }

// Dispatch handles a key and, if it produced a call, runs it and applies
// the completion before returning.
func (s *Session) Dispatch(ctx context.Context, msg tea.KeyMsg) {
	if call := s.HandleKey(msg); call != nil {
		s.Complete(call.Run(ctx))
	}
}
