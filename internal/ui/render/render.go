// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/components"
	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

// View is everything one frame shows.
type View struct {
	terminal.Snapshot

	// Spinner is the animated busy line. When empty a static busy label
	// is drawn instead.
	Spinner string
}

// Renderer draws snapshots. It holds no session state.
type Renderer struct {
	theme  *styles.Theme
	keys   KeyMap
	header *components.Header
	footer components.Footer

	permTree      string
	permTreeWidth int
}

// New creates a renderer for theme.
func New(theme *styles.Theme) *Renderer {
	return &Renderer{
		theme:  theme,
		keys:   Keys,
		header: components.NewHeader(theme),
		footer: components.NewFooter(theme),
	}
}

// Theme returns the theme in use.
func (r *Renderer) Theme() *styles.Theme { return r.theme }

// Render draws the frame at width x height. The output never exceeds
// height lines.
func (r *Renderer) Render(v View, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	r.header.SetWidth(width)
	r.header.Title = v.Mode.Title()
	r.header.Description = v.Mode.Description()
	r.header.Locked = v.Lifecycle == terminal.Locked
	r.header.Operator = ""
	if v.Operator != nil {
		r.header.Operator = v.Operator.FullName()
	}
	header := r.header.View()

	r.footer.SetWidth(width)
	footer := r.footer.View(r.keys.Hints(v.Snapshot))

	banner := components.Banner(r.theme, v.Banner, width)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if banner != "" {
		bodyHeight -= lipgloss.Height(banner)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := r.theme.Body.
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(r.body(v, width-4))

	parts := []string{header, body}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// body draws the content area. Phase-specific panels take precedence over
// the mode's normal screen.
func (r *Renderer) body(v View, width int) string {
	switch v.Phase {
	case terminal.PhaseAwaitingInput:
		return r.wizard(v.Snapshot, width)
	case terminal.PhaseAwaitingConfirmation:
		return r.confirmation(v.Snapshot, width)
	case terminal.PhaseBusy:
		if v.Spinner != "" {
			return v.Spinner
		}
		return r.theme.Spinner.Render("* ") + r.theme.Value.Render(v.BusyLabel)
	case terminal.PhaseShowingResult:
		if v.Result != nil {
			return r.gateResult(*v.Result, width)
		}
	case terminal.PhaseNormal:
	}

	switch v.Mode {
	case terminal.ModeLogin:
		return r.login(v.Snapshot)
	case terminal.ModeLocked:
		return r.locked(v.Snapshot)
	case terminal.ModeMenu:
		return r.menu(v.Snapshot)
	case terminal.ModeGatekeepingVerify, terminal.ModeGatekeepingProcess:
		return r.gatekeeping(v.Snapshot)
	case terminal.ModeCurrencyTransfer:
		return r.currency()
	case terminal.ModeUserSearch, terminal.ModeUserManagement:
		return r.userList(v.Snapshot, width)
	case terminal.ModeUserInfo:
		return r.userInfo(v.Snapshot, width)
	case terminal.ModePermissionTree:
		return r.permissionTree(width)
	case terminal.ModeTerminalManagement:
		return r.terminalManagement(v.Snapshot)
	case terminal.ModeConfiguration:
		return r.configuration(v.Snapshot)
	}
	return ""
}

// field renders "Label:           value".
func (r *Renderer) field(label, value string) string {
	return r.theme.Label.Render(label+":") + r.theme.Value.Render(value)
}

func (r *Renderer) lines(parts ...string) string {
	return strings.Join(parts, "\n")
}
