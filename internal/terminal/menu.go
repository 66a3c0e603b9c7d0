// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

// MenuAction is what selecting a menu item does.
type MenuAction int

const (
	MenuOpen MenuAction = iota
	MenuLock
	MenuLogout
)

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Label  string
	Action MenuAction
	Target Mode
}

var baseMenu = []MenuItem{
	{Label: "Verify Access", Action: MenuOpen, Target: ModeGatekeepingVerify},
	{Label: "Process Access", Action: MenuOpen, Target: ModeGatekeepingProcess},
	{Label: "Currency Transfer", Action: MenuOpen, Target: ModeCurrencyTransfer},
	{Label: "User Search", Action: MenuOpen, Target: ModeUserSearch},
}

// gatedMenu entries appear only when the operator holds the target's
// required permission. Order is fixed.
var gatedMenu = []MenuItem{
	{Label: "User Management", Action: MenuOpen, Target: ModeUserManagement},
	{Label: "Permission Tree", Action: MenuOpen, Target: ModePermissionTree},
	{Label: "Terminal Management", Action: MenuOpen, Target: ModeTerminalManagement},
}

var tailMenu = []MenuItem{
	{Label: "Configuration", Action: MenuOpen, Target: ModeConfiguration},
	{Label: "Lock Terminal", Action: MenuLock},
	{Label: "Logout", Action: MenuLogout},
}

// MenuItems returns the menu offered to the operator. It is empty unless
// the session is Active.
func (s *Session) MenuItems() []MenuItem {
	if s.lifecycle != Active || s.operator == nil {
		return nil
	}
	items := make([]MenuItem, 0, len(baseMenu)+len(gatedMenu)+len(tailMenu))
	items = append(items, baseMenu...)
	for _, item := range gatedMenu {
		if s.operator.HasPermission(item.Target.RequiredPermission()) {
			items = append(items, item)
		}
	}
	return append(items, tailMenu...)
}

// MenuCursor returns the highlighted menu index.
func (s *Session) MenuCursor() int {
	if n := len(s.MenuItems()); s.menuCursor >= n {
		return max(n-1, 0)
	}
	return s.menuCursor
}

func (s *Session) moveMenu(delta int) {
	n := len(s.MenuItems())
	if n == 0 {
		return
	}
	s.menuCursor = min(max(s.MenuCursor()+delta, 0), n-1)
}

func (s *Session) selectMenu() {
	items := s.MenuItems()
	if len(items) == 0 {
		return
	}
	item := items[s.MenuCursor()]
	switch item.Action {
	case MenuOpen:
		if perm := item.Target.RequiredPermission(); perm != "" && !s.operator.HasPermission(perm) {
			return
		}
		s.switchMode(item.Target)
	case MenuLock:
		s.Lock()
	case MenuLogout:
		s.Logout()
	}
}

// =============================================================================
// PERMISSION CATALOG
// =============================================================================

// PermissionEntry describes one permission string.
type PermissionEntry struct {
	Name        string
	Description string
}

// PermissionGroup is a titled list of permissions.
type PermissionGroup struct {
	Title   string
	Entries []PermissionEntry
}

// PermissionCatalog is the reference tree shown on the permission screen.
var PermissionCatalog = []PermissionGroup{
	{
		Title: "System Permissions",
		Entries: []PermissionEntry{
			{PermAdmin, "Full system administration"},
			{PermManageUsers, "Manage users"},
			{PermManageTerminals, "Manage terminals"},
		},
	},
	{
		Title: "Custom Permissions",
		Entries: []PermissionEntry{
			{"checkpoint.a.access", "Access Checkpoint A"},
			{"checkpoint.b.access", "Access Checkpoint B"},
			{"store.purchase", "Make purchases"},
			{"facility.entry", "Enter facility"},
		},
	},
}
