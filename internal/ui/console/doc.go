// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console hosts a terminal.Session in a Bubble Tea program.
//
// The model is the session's only writer. Keys are debounced (except
// during text entry) and handed to Session.HandleKey; a returned Call runs
// as a tea.Cmd with the configured timeout and its Completion comes back
// as a CallDoneMsg. Idle ticks lock the terminal, and config reloads
// update debounce, idle timing, theme and log level without a restart.
package console
