// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
)

const quitPrompt = "Press 'q' again to quit, or any other key to cancel"

// HandleKey is the single entry point for keyboard input. It returns a
// non-nil Call when the key committed a wizard that needs the authority;
// the session is then Busy until the call's Completion is applied.
func (s *Session) HandleKey(msg tea.KeyMsg) *Call {
	if s.phase == PhaseBusy || s.exiting {
		return nil
	}
	key := msg.String()

	if s.quitArmed && key != "q" {
		s.quitArmed = false
		s.banner = Banner{}
	}

	s.enforceGuard()

	switch s.phase {
	case PhaseAwaitingInput:
		return s.handleInputKey(msg)
	case PhaseAwaitingConfirmation:
		return s.handleConfirmKey(key)
	case PhaseShowingResult:
		s.handleResultKey(key)
		return nil
	case PhaseNormal:
		return s.handleNormalKey(key)
	case PhaseBusy:
	}
	return nil
}

func (s *Session) handleInputKey(msg tea.KeyMsg) *Call {
	switch msg.String() {
	case "enter":
		return s.submit()
	case "esc":
		s.cancel()
		return nil
	}
	s.input, _ = s.input.Update(msg)
	return nil
}

func (s *Session) handleConfirmKey(key string) *Call {
	switch key {
	case "y", "Y":
		return s.confirmTransfer()
	case "n", "N", "esc":
		s.cancel()
		s.banner = Banner{Kind: BannerInfo, Text: "Transfer cancelled"}
	}
	return nil
}

func (s *Session) handleResultKey(key string) {
	switch key {
	case "enter", "esc":
		s.lastResult = nil
		s.phase = PhaseNormal
	}
}

// handleNormalKey routes a key by screen. Every mode has its own table.
func (s *Session) handleNormalKey(key string) *Call {
	switch s.mode {
	case ModeLogin:
		s.loginKeys(key)
	case ModeLocked:
		if key == "u" || key == "enter" {
			s.begin(WizardUnlock)
		}
	case ModeMenu:
		s.menuKeys(key)
	case ModeGatekeepingVerify, ModeGatekeepingProcess:
		s.gatekeepingKeys(key)
	case ModeCurrencyTransfer:
		s.currencyKeys(key)
	case ModeUserSearch:
		s.searchKeys(key)
	case ModeUserInfo:
		if key == "esc" || key == "b" {
			s.inspected = nil
			s.switchMode(s.returnMode)
		}
	case ModeUserManagement:
		return s.userManagementKeys(key)
	case ModePermissionTree:
		if key == "esc" {
			s.switchMode(ModeMenu)
		}
	case ModeTerminalManagement:
		switch key {
		case "c":
			s.banner = Banner{Kind: BannerInfo, Text: "Terminal registration is not yet available"}
		case "esc":
			s.switchMode(ModeMenu)
		}
	case ModeConfiguration:
		switch key {
		case "k":
			s.begin(WizardTerminalKey)
		case "esc":
			s.switchMode(ModeMenu)
		}
	}
	return nil
}

// loginKeys handles the login screen, including the two-keystroke quit
// guard. Quit is only honoured while logged out.
func (s *Session) loginKeys(key string) {
	switch key {
	case "l", "enter":
		s.begin(WizardLogin)
	case "q":
		if s.lifecycle != LoggedOut {
			return
		}
		if s.quitArmed {
			s.exiting = true
			s.logger.Info("quit confirmed")
			return
		}
		s.quitArmed = true
		s.banner = Banner{Kind: BannerInfo, Text: quitPrompt}
	}
}

func (s *Session) menuKeys(key string) {
	switch key {
	case "up":
		s.moveMenu(-1)
	case "down":
		s.moveMenu(1)
	case "enter":
		s.selectMenu()
	case "l":
		s.Lock()
	}
}

func (s *Session) gatekeepingKeys(key string) {
	switch key {
	case "s":
		if s.terminalKey == "" {
			s.banner = Banner{Kind: BannerError, Text: validationMessage(FieldScanBarcode, ErrNoTerminalKey)}
			return
		}
		s.begin(WizardScan)
	case "k":
		s.begin(WizardTerminalKey)
	case "esc":
		s.switchMode(ModeMenu)
	}
}

func (s *Session) currencyKeys(key string) {
	switch key {
	case "t":
		s.begin(WizardTransfer)
	case "b":
		s.begin(WizardBalance)
	case "esc":
		s.switchMode(ModeMenu)
	}
}

func (s *Session) searchKeys(key string) {
	switch key {
	case "s":
		s.begin(WizardSearch)
	case "a":
		s.begin(WizardAccountLookup)
	case "esc":
		s.switchMode(ModeMenu)
	default:
		s.resultKeys(key)
	}
}

func (s *Session) userManagementKeys(key string) *Call {
	switch key {
	case "l":
		return s.search("")
	case "s":
		s.begin(WizardSearch)
	case "c":
		s.banner = Banner{Kind: BannerInfo, Text: "User creation is not yet available"}
	case "esc":
		s.switchMode(ModeMenu)
	default:
		s.resultKeys(key)
	}
	return nil
}

// resultKeys moves the search cursor and opens the selected user. The
// cursor saturates at both ends.
func (s *Session) resultKeys(key string) {
	n := len(s.searchResults)
	switch key {
	case "up":
		if s.selected > 0 {
			s.selected--
		}
	case "down":
		if s.selected < n-1 {
			s.selected++
		}
	case "enter":
		if n > 0 {
			u := s.searchResults[s.selected]
			s.inspect(&u, s.mode)
		}
	}
}
