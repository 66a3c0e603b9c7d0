// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling for the terminal screens.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the same palette works on
light and dark terminals:

  - Purple - titles and the selected menu row
  - Cyan - brand, prompts and key hints
  - Emerald - granted access and success banners
  - Rose - denied access and error banners
  - Amber - warnings, the idle-lock countdown and confirmations

Status messages always carry a text indicator ([OK], [X], [!], [i]) next
to the color.

# Theme (theme.go)

NewTheme detects the terminal color profile with termenv. The "dark" and
"light" options override background detection, and NoColor forces the
ASCII profile:

	theme := styles.NewTheme(styles.Options{Theme: cfg.UI.Theme, NoColor: cfg.UI.NoColor})
	header := theme.Header.Render("ShepardOS")
*/
package styles
