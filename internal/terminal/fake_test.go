// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/shepard-terminal/internal/authority"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
)

// fakeAuthority is an in-memory Authority that records every call.
type fakeAuthority struct {
	mu        sync.Mutex
	users     map[string]*authority.User
	passwords map[string]string
	keys      map[string]bool
	calls     map[string]int
	failures  map[string]error
	transfers []authority.TransferRequest
	gateKeys  []string
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		users:     make(map[string]*authority.User),
		passwords: make(map[string]string),
		keys:      make(map[string]bool),
		calls:     make(map[string]int),
		failures:  make(map[string]error),
	}
}

func (f *fakeAuthority) addUser(u authority.User, password string) {
	f.users[u.Barcode] = &u
	f.passwords[u.Barcode] = password
}

func (f *fakeAuthority) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// failWith makes every later call to name return err.
func (f *fakeAuthority) failWith(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
}

// record counts a call and returns the failure configured for it.
func (f *fakeAuthority) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.failures[name]
}

func (f *fakeAuthority) gate(barcode, key string) (*authority.GatekeepingResponse, error) {
	f.gateKeys = append(f.gateKeys, key)
	if !f.keys[key] {
		return nil, authority.ErrUnauthorized
	}
	u, ok := f.users[barcode]
	if !ok {
		return &authority.GatekeepingResponse{Success: false, Message: "Unknown barcode"}, nil
	}
	return &authority.GatekeepingResponse{Success: !u.PassRevoked, User: u.Clone(), Message: "Access granted"}, nil
}

func (f *fakeAuthority) VerifyAccess(_ context.Context, barcode, key string) (*authority.GatekeepingResponse, error) {
	f.record("verify")
	return f.gate(barcode, key)
}

func (f *fakeAuthority) ProcessAccess(_ context.Context, barcode, key string) (*authority.GatekeepingResponse, error) {
	f.record("process")
	return f.gate(barcode, key)
}

func (f *fakeAuthority) Authenticate(_ context.Context, barcode, password string) (*authority.User, error) {
	f.record("authenticate")
	u, ok := f.users[barcode]
	if !ok || f.passwords[barcode] != password {
		return nil, authority.ErrUnauthorized
	}
	return u.Clone(), nil
}

func (f *fakeAuthority) GetUserByBarcode(_ context.Context, barcode string) (*authority.User, error) {
	f.record("barcode")
	u, ok := f.users[barcode]
	if !ok {
		return nil, authority.ErrNotFound
	}
	return u.Clone(), nil
}

func (f *fakeAuthority) GetUserByAccount(_ context.Context, account string) (*authority.User, error) {
	f.record("account")
	for _, u := range f.users {
		if u.AccountNumber == account {
			return u.Clone(), nil
		}
	}
	return nil, authority.ErrNotFound
}

func (f *fakeAuthority) SearchUsers(_ context.Context, query string) (*authority.SearchResult, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}
	res := &authority.SearchResult{}
	for _, barcode := range []string{"12345", "22222", "33333"} {
		u, ok := f.users[barcode]
		if !ok {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(u.FullName()), strings.ToLower(query)) {
			res.Users = append(res.Users, *u.Clone())
		}
	}
	res.Total = len(res.Users)
	return res, nil
}

func (f *fakeAuthority) GetBalance(_ context.Context, account string) (*authority.Balance, error) {
	f.record("balance")
	return &authority.Balance{AccountNumber: account, Balance: 12.5, TransactionCount: 3}, nil
}

func (f *fakeAuthority) Transfer(_ context.Context, req authority.TransferRequest) (*authority.Transaction, error) {
	f.transfers = append(f.transfers, req)
	if err := f.record("transfer"); err != nil {
		return nil, err
	}
	return &authority.Transaction{ID: len(f.transfers)}, nil
}

// =============================================================================
// FIXTURES
// =============================================================================

func standardAuthority() *fakeAuthority {
	f := newFakeAuthority()
	f.addUser(authority.User{
		ID: 1, Barcode: "12345", AccountNumber: "ACC1", FirstName: "Ada", LastName: "Admin",
		Permissions: []string{terminal.PermAdmin, terminal.PermManageUsers, terminal.PermManageTerminals},
	}, "pw1")
	f.addUser(authority.User{
		ID: 2, Barcode: "22222", AccountNumber: "ACC2", FirstName: "Otto", LastName: "Operator",
	}, "pw2")
	f.addUser(authority.User{
		ID: 3, Barcode: "33333", AccountNumber: "ACC3", FirstName: "Rex", LastName: "Revoked", PassRevoked: true,
	}, "pw3")
	f.keys["KEY-1"] = true
	return f
}

func newSession(t *testing.T, f *fakeAuthority) *terminal.Session {
	t.Helper()
	return terminal.New(f, terminal.WithBcryptCost(bcrypt.MinCost))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

// press sends each key through Dispatch.
func press(s *terminal.Session, keys ...tea.KeyMsg) {
	for _, k := range keys {
		s.Dispatch(context.Background(), k)
	}
}

// typeLine types text one rune at a time and presses enter.
func typeLine(s *terminal.Session, text string) {
	for _, r := range text {
		press(s, runes(string(r)))
	}
	press(s, keyEnter)
}

func login(t *testing.T, s *terminal.Session, barcode, password string) {
	t.Helper()
	press(s, runes("l"))
	typeLine(s, barcode)
	typeLine(s, password)
	require.Equal(t, terminal.Active, s.Lifecycle(), "login should succeed: %s", s.Banner().Text)
}

// open selects the menu item with the given label.
func open(t *testing.T, s *terminal.Session, label string) {
	t.Helper()
	for range s.MenuItems() {
		press(s, keyUp)
	}
	for i, item := range s.MenuItems() {
		if item.Label == label {
			for range i {
				press(s, keyDown)
			}
			press(s, keyEnter)
			return
		}
	}
	t.Fatalf("menu item %q not offered", label)
}
