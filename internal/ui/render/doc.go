// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render draws terminal.Snapshot values as text frames.
//
// A Renderer never reads or mutates a Session; it is given a snapshot and
// the window size and returns the frame. Phase panels (wizard prompt,
// confirmation, busy line, gatekeeping result) take precedence over the
// mode's normal screen.
package render
