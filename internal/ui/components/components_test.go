// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

func plainTheme() *styles.Theme {
	return styles.NewTheme(styles.Options{Theme: "dark", NoColor: true})
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeader_View(t *testing.T) {
	h := NewHeader(plainTheme())
	h.SetWidth(80)
	h.Title = terminal.ModeMenu.Title()
	h.Description = terminal.ModeMenu.Description()
	h.Operator = "Ada Admin"

	view := h.View()
	for _, want := range []string{Brand, "Main Menu", "Operator:", "Ada Admin", "Select a mode"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q:\n%s", want, view)
		}
	}
}

func TestHeader_Locked(t *testing.T) {
	h := NewHeader(plainTheme())
	h.Operator = "Ada Admin"
	h.Locked = true

	view := h.View()
	if !strings.Contains(view, "LOCKED") {
		t.Errorf("locked header should show LOCKED:\n%s", view)
	}
	if strings.Contains(view, "Ada Admin") {
		t.Error("locked header should not show the operator")
	}
}

func TestHeader_CompactFitsWidth(t *testing.T) {
	h := NewHeader(plainTheme())
	h.SetWidth(40)
	h.Title = "A very long screen title that cannot possibly fit"

	view := h.View()
	if strings.Contains(view, "\n") {
		t.Errorf("compact header should be one line:\n%s", view)
	}
	if w := lipgloss.Width(view); w > 40 {
		t.Errorf("compact header width = %d, want <= 40", w)
	}
}

// =============================================================================
// FOOTER TESTS
// =============================================================================

func TestFooter_View(t *testing.T) {
	f := NewFooter(plainTheme())
	f.SetWidth(80)

	view := f.View([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
	})

	for _, want := range []string{"enter", "select", "esc", "back"} {
		if !strings.Contains(view, want) {
			t.Errorf("footer missing %q: %s", want, view)
		}
	}
	if strings.Contains(view, "hidden") {
		t.Error("disabled bindings should not be shown")
	}
}

// =============================================================================
// BANNER TESTS
// =============================================================================

func TestBanner(t *testing.T) {
	theme := plainTheme()

	tests := []struct {
		kind terminal.BannerKind
		want string
	}{
		{terminal.BannerSuccess, "[OK] done"},
		{terminal.BannerError, "[X] done"},
		{terminal.BannerInfo, "[i] done"},
	}
	for _, tt := range tests {
		got := Banner(theme, terminal.Banner{Kind: tt.kind, Text: "done"}, 80)
		if !strings.Contains(got, tt.want) {
			t.Errorf("Banner(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}

	if got := Banner(theme, terminal.Banner{}, 80); got != "" {
		t.Errorf("empty banner = %q, want empty", got)
	}
}

func TestBanner_SingleLine(t *testing.T) {
	got := Banner(plainTheme(), terminal.Banner{Kind: terminal.BannerError, Text: "line one\nline two"}, 80)
	if strings.Contains(got, "\n") {
		t.Errorf("banner should be a single line: %q", got)
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinner_Lifecycle(t *testing.T) {
	s := NewSpinner(plainTheme())
	if s.IsActive() || s.View() != "" {
		t.Fatal("new spinner should be inactive and empty")
	}

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if cmd := s.Start("Verifying access..."); cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !strings.Contains(s.View(), "Verifying access...") {
		t.Errorf("View = %q, want label", s.View())
	}

	now = now.Add(3 * time.Second)
	if !strings.Contains(s.View(), "(3s)") {
		t.Errorf("View = %q, want elapsed time", s.View())
	}

	s.Stop()
	if s.IsActive() || s.Label() != "" {
		t.Error("Stop should clear the spinner")
	}
	if _, cmd := s.Update(nil); cmd != nil {
		t.Error("stopped spinner should not keep ticking")
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(5 * time.Second); got != "5s" {
		t.Errorf("formatElapsed(5s) = %q", got)
	}
	if got := formatElapsed(75 * time.Second); got != "1m15s" {
		t.Errorf("formatElapsed(75s) = %q", got)
	}
}

// =============================================================================
// IDLE OVERLAY TESTS
// =============================================================================

func TestIdleOverlay(t *testing.T) {
	o := NewIdleOverlay(plainTheme())
	if o.View() != "" {
		t.Error("hidden overlay should render nothing")
	}

	o.SetSize(80, 24)
	o.Show(30 * time.Second)
	if !o.IsVisible() {
		t.Fatal("overlay should be visible after Show")
	}
	if !strings.Contains(o.View(), "Terminal will lock in 0:30") {
		t.Errorf("overlay missing countdown:\n%s", o.View())
	}

	o.Hide()
	if o.IsVisible() {
		t.Error("overlay should be hidden after Hide")
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{30 * time.Second, "0:30"},
		{90 * time.Second, "1:30"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.d); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
