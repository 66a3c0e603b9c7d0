// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

// =============================================================================
// LIFECYCLE
// =============================================================================

// Lifecycle is the authentication state of the terminal.
type Lifecycle int

const (
	// LoggedOut means no operator is authenticated.
	LoggedOut Lifecycle = iota
	// Locked means an operator is authenticated but the terminal is locked.
	Locked
	// Active means the operator may use privileged screens.
	Active
)

// String returns the lifecycle name.
func (l Lifecycle) String() string {
	switch l {
	case LoggedOut:
		return "logged_out"
	case Locked:
		return "locked"
	case Active:
		return "active"
	}
	return "unknown"
}

// =============================================================================
// UI PHASE
// =============================================================================

// Phase selects which key table is active.
type Phase int

const (
	PhaseNormal Phase = iota
	PhaseAwaitingInput
	PhaseAwaitingConfirmation
	PhaseBusy
	PhaseShowingResult
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	case PhaseBusy:
		return "busy"
	case PhaseShowingResult:
		return "showing_result"
	}
	return "unknown"
}

// =============================================================================
// MODES
// =============================================================================

// Mode is the active workflow screen.
type Mode int

const (
	ModeLogin Mode = iota
	ModeLocked
	ModeMenu
	ModeGatekeepingVerify
	ModeGatekeepingProcess
	ModeCurrencyTransfer
	ModeUserSearch
	ModeUserInfo
	ModeUserManagement
	ModePermissionTree
	ModeTerminalManagement
	ModeConfiguration
)

// Permission strings that gate management screens.
const (
	PermManageUsers     = "system.manage_users"
	PermAdmin           = "system.admin"
	PermManageTerminals = "system.manage_terminals"
)

// Title is the screen heading for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeLogin:
		return "ShepardOS - Terminal Login"
	case ModeLocked:
		return "ShepardOS - Terminal Locked"
	case ModeMenu:
		return "ShepardOS Terminal - Main Menu"
	case ModeGatekeepingVerify:
		return "Gatekeeping - Verify Access"
	case ModeGatekeepingProcess:
		return "Gatekeeping - Process Access"
	case ModeCurrencyTransfer:
		return "Currency Transfer"
	case ModeUserSearch:
		return "User Search"
	case ModeUserInfo:
		return "User Information"
	case ModeUserManagement:
		return "User Management"
	case ModePermissionTree:
		return "Permission Tree"
	case ModeTerminalManagement:
		return "Terminal Management"
	case ModeConfiguration:
		return "Terminal Configuration"
	}
	return "ShepardOS"
}

// Description is the one-line hint shown under the title.
func (m Mode) Description() string {
	switch m {
	case ModeLogin:
		return "Please authenticate to use this terminal"
	case ModeLocked:
		return "Terminal is locked - enter password to unlock"
	case ModeMenu:
		return "Select a mode to continue"
	case ModeGatekeepingVerify:
		return "Scan barcode to verify access permissions (read-only)"
	case ModeGatekeepingProcess:
		return "Scan barcode to process access and deduct currency"
	case ModeCurrencyTransfer:
		return "Transfer currency between accounts"
	case ModeUserSearch:
		return "Search for users by name, barcode, or account number"
	case ModeUserInfo:
		return "View detailed user information"
	case ModeUserManagement:
		return "Create, delete, or list users"
	case ModePermissionTree:
		return "View all permissions, roles, and groups"
	case ModeTerminalManagement:
		return "Manage terminal configurations"
	case ModeConfiguration:
		return "Configure terminal settings"
	}
	return ""
}

// RequiredPermission returns the permission string that gates the mode,
// or "" when the mode is open to any active operator.
func (m Mode) RequiredPermission() string {
	switch m {
	case ModeUserManagement:
		return PermManageUsers
	case ModePermissionTree:
		return PermAdmin
	case ModeTerminalManagement:
		return PermManageTerminals
	case ModeLogin, ModeLocked, ModeMenu, ModeGatekeepingVerify, ModeGatekeepingProcess,
		ModeCurrencyTransfer, ModeUserSearch, ModeUserInfo, ModeConfiguration:
		return ""
	}
	return ""
}

// Privileged reports whether the mode is only reachable while Active.
func (m Mode) Privileged() bool {
	return m != ModeLogin && m != ModeLocked
}
