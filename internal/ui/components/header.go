// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
	"github.com/jeranaias/shepard-terminal/internal/util"
)

// Brand is shown at the left of every header.
const Brand = "ShepardOS"

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the top bar: brand, screen title, and who is signed in.
type Header struct {
	Title       string
	Description string
	Operator    string
	Locked      bool
	Width       int

	theme *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: Brand,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. Below 60 columns the compact form is used.
func (h *Header) View() string {
	if h.Width < 60 {
		return h.ViewCompact()
	}

	left := h.theme.HeaderBrand.Render(Brand) + "  " + h.theme.HeaderTitle.Render(h.Title)
	right := h.badge()

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := h.theme.Header.Width(h.Width).Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)

	if h.Description == "" {
		return bar
	}
	desc := h.theme.Subtitle.PaddingLeft(1).Render(util.Truncate(h.Description, h.Width-2))
	return lipgloss.JoinVertical(lipgloss.Left, bar, desc)
}

// ViewCompact renders a single line for narrow terminals.
func (h *Header) ViewCompact() string {
	line := h.theme.HeaderTitle.Render(util.Truncate(h.Title, h.Width-12))
	if badge := h.badge(); badge != "" {
		line += " " + badge
	}
	return h.theme.Header.Width(h.Width).Render(line)
}

func (h *Header) badge() string {
	switch {
	case h.Locked:
		return h.theme.WarningStyle.Render("LOCKED")
	case h.Operator != "":
		return h.theme.Muted.Render("Operator: ") + h.theme.Value.Render(util.Truncate(h.Operator, 24))
	}
	return ""
}
