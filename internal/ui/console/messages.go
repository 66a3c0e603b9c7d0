// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/shepard-terminal/internal/config"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
)

// =============================================================================
// MESSAGES
// =============================================================================

// CallDoneMsg carries a finished authority call back to the loop.
type CallDoneMsg struct {
	Completion terminal.Completion
}

// ShutdownMsg asks the console to log the operator out and exit.
type ShutdownMsg struct{}

// ConfigReloadMsg is a config file change picked up by the watcher.
type ConfigReloadMsg struct {
	config.Reload
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForReload blocks until the watcher delivers a reload. It returns nil
// once the channel is closed.
func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigReloadMsg{Reload: r}
	}
}
