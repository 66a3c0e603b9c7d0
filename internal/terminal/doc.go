// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal implements the session state machine of an attended
// access-control terminal.
//
// A Session owns the operator lifecycle (LoggedOut, Locked, Active), the
// permission-gated menu, and the input wizards that collect barcodes,
// credentials, and transfer details before anything is sent to the
// authority. All mutation happens on the caller's goroutine through
// HandleKey, Complete, Lock, and Logout.
//
// # Calls
//
// When a wizard finishes and the authority must be consulted, HandleKey
// moves the session to PhaseBusy and returns a *Call. The host runs the
// call wherever it likes (the console runs it as a tea.Cmd) and hands the
// resulting Completion back to Complete on the loop goroutine. Keys are
// ignored while busy. Dispatch does all three steps synchronously.
//
// # Wizards
//
//	Login:    barcode -> (badge lookup) -> password -> authenticate
//	Unlock:   password (compared locally against the cached hash)
//	Scan:     barcode -> verify or process access
//	Transfer: from -> to -> amount -> description -> confirm (y/n)
//	Search:   query
//
// A validation failure keeps the wizard on the failing field with every
// earlier value intact. An authority failure discards the wizard.
package terminal
