// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

// asciiFrames render on every terminal, including serial consoles.
var asciiFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 8,
}

// =============================================================================
// BUSY SPINNER
// =============================================================================

// Spinner shows that an authority call is in flight.
type Spinner struct {
	spinner   spinner.Model
	label     string
	startTime time.Time
	active    bool
	now       func() time.Time

	theme *styles.Theme
}

// NewSpinner creates an inactive spinner.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = asciiFrames
	s.Style = theme.Spinner
	return Spinner{spinner: s, theme: theme, now: time.Now}
}

// Start activates the spinner with label and returns its first tick.
func (s *Spinner) Start(label string) tea.Cmd {
	s.label = label
	s.active = true
	s.startTime = s.now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
	s.label = ""
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.active
}

// Label returns the label of the running call.
func (s *Spinner) Label() string {
	return s.label
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if !s.active {
		return 0
	}
	return s.now().Sub(s.startTime)
}

// Update advances the animation. Ticks are ignored while stopped so the
// tick chain ends.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders "| Verifying access... (3s)".
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	out := s.spinner.View() + " " + s.theme.Value.Render(s.label)
	if elapsed := s.Elapsed(); elapsed >= time.Second {
		out += s.theme.Muted.Render(" (" + formatElapsed(elapsed) + ")")
	}
	return out
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return strconv.Itoa(secs) + "s"
	}
	return strconv.Itoa(secs/60) + "m" + strconv.Itoa(secs%60) + "s"
}
