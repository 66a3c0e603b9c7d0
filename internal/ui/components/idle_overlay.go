// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

// =============================================================================
// IDLE LOCK OVERLAY
// =============================================================================

// IdleOverlay warns the operator that the terminal is about to lock.
type IdleOverlay struct {
	visible   bool
	remaining time.Duration
	width     int
	height    int

	theme *styles.Theme
}

// NewIdleOverlay creates a hidden overlay.
func NewIdleOverlay(theme *styles.Theme) IdleOverlay {
	return IdleOverlay{theme: theme}
}

// Show displays the warning with the time left before the lock.
func (o *IdleOverlay) Show(remaining time.Duration) {
	o.visible = true
	o.remaining = remaining
}

// Hide dismisses the warning.
func (o *IdleOverlay) Hide() {
	o.visible = false
	o.remaining = 0
}

// IsVisible reports whether the warning is showing.
func (o *IdleOverlay) IsVisible() bool {
	return o.visible
}

// SetSize sets the area the overlay is centred in.
func (o *IdleOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// View renders the centred warning box, or "" when hidden.
func (o IdleOverlay) View() string {
	if !o.visible {
		return ""
	}
	width, height := o.width, o.height
	if width == 0 {
		width = 60
	}
	if height == 0 {
		height = 24
	}

	boxWidth := width - 8
	if boxWidth < 36 {
		boxWidth = 36
	}
	if boxWidth > 56 {
		boxWidth = 56
	}

	title := o.theme.WarningStyle.Render(styles.StatusIndicators.Warning + " Inactivity Detected")
	msg := "Terminal will lock in " + o.theme.WarningStyle.Render(FormatCountdown(o.remaining))
	hint := o.theme.Muted.Italic(true).Render("Press any key to stay signed in")

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", msg, "", hint)
	box := o.theme.Overlay.Width(boxWidth).Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// FormatCountdown renders d as M:SS, rounding up to the next second.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
