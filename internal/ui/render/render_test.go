// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shepard-terminal/internal/authority"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

func newRenderer() *Renderer {
	return New(styles.NewTheme(styles.Options{Theme: "dark", NoColor: true}))
}

func operator() *authority.User {
	return &authority.User{ID: 1, FirstName: "Ada", LastName: "Admin", Barcode: "12345", AccountNumber: "ACC1"}
}

func active(mode terminal.Mode) terminal.Snapshot {
	return terminal.Snapshot{Lifecycle: terminal.Active, Mode: mode, Phase: terminal.PhaseNormal, Operator: operator()}
}

func maxLineWidth(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// =============================================================================
// FRAME TESTS
// =============================================================================

func TestRender_Login(t *testing.T) {
	out := newRenderer().Render(View{Snapshot: terminal.Snapshot{Mode: terminal.ModeLogin}}, 80, 24)

	assert.Contains(t, out, "ShepardOS - Terminal Login")
	assert.Contains(t, out, "Welcome to ShepardOS")
	assert.Contains(t, out, "log in")
	assert.Contains(t, out, "quit")
	assert.NotContains(t, out, "Operator:")
}

func TestRender_FitsWindow(t *testing.T) {
	r := newRenderer()
	snaps := []terminal.Snapshot{
		{Mode: terminal.ModeLogin},
		active(terminal.ModeMenu),
		active(terminal.ModeCurrencyTransfer),
		active(terminal.ModePermissionTree),
		active(terminal.ModeConfiguration),
	}
	for _, snap := range snaps {
		for _, size := range [][2]int{{80, 24}, {50, 16}, {120, 40}} {
			out := r.Render(View{Snapshot: snap}, size[0], size[1])
			assert.LessOrEqual(t, lipgloss.Height(out), size[1], "%s at %v", snap.Mode.Title(), size)
			assert.LessOrEqual(t, maxLineWidth(out), size[0], "%s at %v", snap.Mode.Title(), size)
		}
	}
}

func TestRender_HeaderShowsOperatorAndLock(t *testing.T) {
	r := newRenderer()

	out := r.Render(View{Snapshot: active(terminal.ModeMenu)}, 80, 24)
	assert.Contains(t, out, "Ada Admin")

	locked := active(terminal.ModeLocked)
	locked.Lifecycle = terminal.Locked
	out = r.Render(View{Snapshot: locked}, 80, 24)
	assert.Contains(t, out, "LOCKED")
	assert.Contains(t, out, "Locked by Ada Admin")
}

func TestRender_Banner(t *testing.T) {
	snap := active(terminal.ModeMenu)
	snap.Banner = terminal.Banner{Kind: terminal.BannerSuccess, Text: "Welcome, Ada Admin"}

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "[OK] Welcome, Ada Admin")
}

// =============================================================================
// SCREEN TESTS
// =============================================================================

func TestRender_MenuCursor(t *testing.T) {
	snap := active(terminal.ModeMenu)
	snap.Menu = []terminal.MenuItem{
		{Label: "Verify Access", Target: terminal.ModeGatekeepingVerify},
		{Label: "Currency Transfer", Target: terminal.ModeCurrencyTransfer},
	}
	snap.MenuCursor = 1

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "> Currency Transfer")
	assert.NotContains(t, out, "> Verify Access")
}

func TestRender_Wizard(t *testing.T) {
	snap := terminal.Snapshot{
		Mode:     terminal.ModeLogin,
		Phase:    terminal.PhaseAwaitingInput,
		Step:     2,
		Steps:    2,
		Prompt:   "Password",
		Input:    "> ***",
		Captured: []terminal.CapturedValue{{Name: "barcode", Value: "12345"}},
	}

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "Step 2 of 2")
	assert.Contains(t, out, "12345")
	assert.Contains(t, out, "Password")
	assert.Contains(t, out, "> ***")
	assert.Contains(t, out, "submit")
	assert.NotContains(t, out, "log in", "normal hints hidden during input")
}

func TestRender_Confirmation(t *testing.T) {
	snap := active(terminal.ModeCurrencyTransfer)
	snap.Phase = terminal.PhaseAwaitingConfirmation
	snap.Confirmation = "Transfer 50.00 from ACC1 to ACC2?"

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "Transfer 50.00 from ACC1 to ACC2?")
	assert.Contains(t, out, "confirm")
}

func TestRender_Busy(t *testing.T) {
	r := newRenderer()
	snap := active(terminal.ModeGatekeepingVerify)
	snap.Phase = terminal.PhaseBusy
	snap.BusyLabel = "Verifying access..."

	out := r.Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "Verifying access...")

	out = r.Render(View{Snapshot: snap, Spinner: "| spinning"}, 80, 24)
	assert.Contains(t, out, "| spinning")
}

func TestRender_GateResult(t *testing.T) {
	r := newRenderer()

	granted := active(terminal.ModeGatekeepingProcess)
	granted.Phase = terminal.PhaseShowingResult
	granted.Result = &terminal.GateResult{
		Processed: true,
		Barcode:   "22222",
		Response: authority.GatekeepingResponse{
			Success:          true,
			Message:          "Access granted",
			User:             &authority.User{FirstName: "Otto", LastName: "Operator", AccountNumber: "ACC2"},
			CurrencyRequired: true,
			CurrencyAmount:   2.5,
			CurrentBalance:   97.5,
		},
	}
	out := r.Render(View{Snapshot: granted}, 80, 24)
	assert.Contains(t, out, "ACCESS GRANTED")
	assert.Contains(t, out, "Otto Operator")
	assert.Contains(t, out, "2.50")
	assert.Contains(t, out, "97.50")
	assert.Contains(t, out, "Charged")

	denied := active(terminal.ModeGatekeepingVerify)
	denied.Phase = terminal.PhaseShowingResult
	denied.Result = &terminal.GateResult{
		Barcode: "33333",
		Response: authority.GatekeepingResponse{
			Message:            "Missing permissions",
			MissingPermissions: []string{"facility.entry"},
		},
	}
	out = r.Render(View{Snapshot: denied}, 80, 24)
	assert.Contains(t, out, "ACCESS DENIED")
	assert.Contains(t, out, "facility.entry")
}

func TestRender_UserList(t *testing.T) {
	snap := active(terminal.ModeUserSearch)
	snap.SearchResults = []authority.User{
		{FirstName: "Ada", LastName: "Admin", Barcode: "12345", AccountNumber: "ACC1"},
		{FirstName: "Rex", LastName: "Revoked", Barcode: "33333", AccountNumber: "ACC3", PassRevoked: true},
	}
	snap.Selected = 1

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "Barcode")
	assert.Contains(t, out, "> Rex Revoked")
	assert.Contains(t, out, "REVOKED")
	assert.Contains(t, out, "next")
}

func TestRender_UserListEmptyHint(t *testing.T) {
	out := newRenderer().Render(View{Snapshot: active(terminal.ModeUserManagement)}, 80, 24)
	assert.Contains(t, out, "list all users")
}

func TestRender_UserInfo(t *testing.T) {
	email := "ada@example.org"
	snap := active(terminal.ModeUserInfo)
	snap.Inspected = &authority.User{
		FirstName:     "Ada",
		LastName:      "Admin",
		Barcode:       "12345",
		AccountNumber: "ACC1",
		Email:         &email,
		Balance:       12.5,
		Permissions:   []string{terminal.PermAdmin},
	}

	out := newRenderer().Render(View{Snapshot: snap}, 80, 30)
	assert.Contains(t, out, "ada@example.org")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, terminal.PermAdmin)
	assert.Contains(t, out, "valid")
}

func TestRender_TerminalManagementShowsFingerprintOnly(t *testing.T) {
	snap := active(terminal.ModeTerminalManagement)
	snap.TerminalKeySet = true
	snap.TerminalKeyFingerprint = "deadbeef"

	out := newRenderer().Render(View{Snapshot: snap}, 80, 24)
	assert.Contains(t, out, "deadbeef")
	assert.Contains(t, out, "configured")
}

func TestRender_PermissionTree(t *testing.T) {
	r := newRenderer()
	out := r.Render(View{Snapshot: active(terminal.ModePermissionTree)}, 100, 40)

	assert.Contains(t, out, "System Permissions")
	assert.Contains(t, out, terminal.PermManageUsers)
	assert.Contains(t, out, "checkpoint.a.access")

	// cached per width
	first := r.permTree
	r.Render(View{Snapshot: active(terminal.ModePermissionTree)}, 100, 40)
	assert.Equal(t, first, r.permTree)
}

func TestPermissionMarkdown(t *testing.T) {
	md := PermissionMarkdown(terminal.PermissionCatalog)
	require.True(t, strings.HasPrefix(md, "## System Permissions"))
	assert.Contains(t, md, "- `system.admin` Full system administration")
}

// =============================================================================
// KEY MAP TESTS
// =============================================================================

func TestHints(t *testing.T) {
	helpOf := func(snap terminal.Snapshot) []string {
		var out []string
		for _, b := range Keys.Hints(snap) {
			out = append(out, b.Help().Desc)
		}
		return out
	}

	assert.Equal(t, []string{"log in", "quit"}, helpOf(terminal.Snapshot{Mode: terminal.ModeLogin}))
	assert.Equal(t, []string{"unlock"}, helpOf(terminal.Snapshot{Mode: terminal.ModeLocked}))
	assert.Equal(t, []string{"scan badge", "terminal key", "back"}, helpOf(active(terminal.ModeGatekeepingVerify)))

	busy := active(terminal.ModeMenu)
	busy.Phase = terminal.PhaseBusy
	assert.Empty(t, Keys.Hints(busy))

	result := active(terminal.ModeGatekeepingVerify)
	result.Phase = terminal.PhaseShowingResult
	assert.Equal(t, []string{"continue"}, helpOf(result))
}
