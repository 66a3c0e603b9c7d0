// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the terminal frame.

# Components

Header (header.go) - Brand, screen title, and the signed-in operator.
Footer (footer.go) - Key hints for the current screen, built on bubbles/help.
Banner (banner.go) - The session status line with a text indicator.
Spinner (spinner.go) - Busy indicator shown while an authority call runs.
IdleOverlay (idle_overlay.go) - Countdown shown before the idle lock.

All components take a *styles.Theme:

	theme := styles.NewTheme(styles.Options{Theme: "auto"})
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.Title = terminal.ModeMenu.Title()
	view := header.View()
*/
package components
