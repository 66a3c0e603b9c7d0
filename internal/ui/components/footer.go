// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

// =============================================================================
// FOOTER
// =============================================================================

// Footer renders the key hints for the current screen.
type Footer struct {
	help  help.Model
	width int

	theme *styles.Theme
}

// NewFooter creates a footer styled with theme.
func NewFooter(theme *styles.Theme) Footer {
	h := help.New()
	h.ShortSeparator = "  "
	h.Ellipsis = "…"
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.ShortSeparator = theme.ShortcutDesc
	h.Styles.Ellipsis = theme.ShortcutDesc
	return Footer{help: h, width: 80, theme: theme}
}

// SetWidth bounds the hint line; hints that do not fit are elided.
func (f *Footer) SetWidth(width int) {
	f.width = width
	f.help.Width = width - 2
}

// View renders bindings on one line.
func (f Footer) View(bindings []key.Binding) string {
	return f.theme.Footer.Width(f.width).Render(f.help.ShortHelpView(bindings))
}
