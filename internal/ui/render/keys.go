// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/shepard-terminal/internal/terminal"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap lists every key the terminal screens react to. The session owns
// what the keys do; these bindings only describe them.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Back     key.Binding
	Login    key.Binding
	Quit     key.Binding
	Unlock   key.Binding
	Lock     key.Binding
	Scan     key.Binding
	SetKey   key.Binding
	Transfer key.Binding
	Balance  key.Binding
	Search   key.Binding
	Account  key.Binding
	List     key.Binding
	Create   key.Binding
	Register key.Binding
	Return   key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Confirm  key.Binding
	Decline  key.Binding
	Dismiss  key.Binding
}

// Keys is the terminal key map.
var Keys = DefaultKeyMap()

// DefaultKeyMap returns the bindings shown in the footer.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "prev")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Login:    key.NewBinding(key.WithKeys("l", "enter"), key.WithHelp("l", "log in")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Unlock:   key.NewBinding(key.WithKeys("u", "enter"), key.WithHelp("u", "unlock")),
		Lock:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock")),
		Scan:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan badge")),
		SetKey:   key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "terminal key")),
		Transfer: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transfer")),
		Balance:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "balance")),
		Search:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		Account:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "account")),
		List:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list all")),
		Create:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "create")),
		Register: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "register")),
		Return:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Decline:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		Dismiss:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "continue")),
	}
}

// Hints returns the bindings that apply to the snapshot's screen and
// phase, in display order.
func (k KeyMap) Hints(snap terminal.Snapshot) []key.Binding {
	switch snap.Phase {
	case terminal.PhaseAwaitingInput:
		return []key.Binding{k.Submit, k.Cancel}
	case terminal.PhaseAwaitingConfirmation:
		return []key.Binding{k.Confirm, k.Decline}
	case terminal.PhaseShowingResult:
		return []key.Binding{k.Dismiss}
	case terminal.PhaseBusy:
		return nil
	case terminal.PhaseNormal:
	}

	switch snap.Mode {
	case terminal.ModeLogin:
		return []key.Binding{k.Login, k.Quit}
	case terminal.ModeLocked:
		return []key.Binding{k.Unlock}
	case terminal.ModeMenu:
		return []key.Binding{k.Up, k.Down, k.Select, k.Lock}
	case terminal.ModeGatekeepingVerify, terminal.ModeGatekeepingProcess:
		return []key.Binding{k.Scan, k.SetKey, k.Back}
	case terminal.ModeCurrencyTransfer:
		return []key.Binding{k.Transfer, k.Balance, k.Back}
	case terminal.ModeUserSearch:
		return withResults(snap, []key.Binding{k.Search, k.Account}, k)
	case terminal.ModeUserInfo:
		return []key.Binding{k.Return}
	case terminal.ModeUserManagement:
		return withResults(snap, []key.Binding{k.List, k.Search, k.Create}, k)
	case terminal.ModePermissionTree:
		return []key.Binding{k.Back}
	case terminal.ModeTerminalManagement:
		return []key.Binding{k.Register, k.Back}
	case terminal.ModeConfiguration:
		return []key.Binding{k.SetKey, k.Back}
	}
	return nil
}

// withResults adds cursor hints when there are results to move through.
func withResults(snap terminal.Snapshot, base []key.Binding, k KeyMap) []key.Binding {
	if len(snap.SearchResults) > 0 {
		base = append(base, k.Up, k.Down, k.Select)
	}
	return append(base, k.Back)
}
