// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
	"github.com/jeranaias/shepard-terminal/internal/util"
)

// Banner renders the session status line, or "" when there is none.
func Banner(theme *styles.Theme, b terminal.Banner, width int) string {
	if b.Text == "" {
		return ""
	}
	text := util.Truncate(util.SingleLine(b.Text), width-6)
	switch b.Kind {
	case terminal.BannerSuccess:
		return theme.SuccessStyle.Render(styles.StatusIndicators.Success + " " + text)
	case terminal.BannerError:
		return theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + text)
	case terminal.BannerInfo, terminal.BannerNone:
	}
	return theme.InfoStyle.Render(styles.StatusIndicators.Info + " " + text)
}
