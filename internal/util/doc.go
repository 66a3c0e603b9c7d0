// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util contains small helpers shared by the terminal packages.
//
// String helpers measure text in terminal columns (go-runewidth), so names
// and account numbers with wide characters line up in tables:
//
//	row := util.PadRight(user.FullName(), 24)
//
// AtomicWriteFile is the crash-safe writer used when saving configuration.
package util
