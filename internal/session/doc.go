// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks operator inactivity for idle auto-lock.
//
// The console records activity on every key and checks the Manager on a
// one second Bubble Tea tick. When the terminal has been idle for the
// configured time the console locks the terminal session; a warning is
// raised shortly before.
//
// # Usage
//
//	mgr := session.NewManager(session.Config{
//	    LockAfter:     5 * time.Minute,
//	    WarningBefore: 30 * time.Second,
//	})
//
//	// in Init
//	return session.TickCmd()
//
//	// in Update
//	case session.TickMsg:
//	    return m, mgr.HandleTick()
//	case session.IdleLockMsg:
//	    m.terminal.Lock()
//
// A LockAfter of zero disables auto-lock.
package session
