// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"

	"github.com/jeranaias/shepard-terminal/internal/authority"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/util"
)

// =============================================================================
// LOGIN AND LOCK
// =============================================================================

func (r *Renderer) login(_ terminal.Snapshot) string {
	return r.lines(
		r.theme.HeaderBrand.Render("Welcome to ShepardOS"),
		"",
		r.theme.Value.Render("This terminal is for authorised operators only."),
		r.theme.Muted.Render("Press 'l' to log in with your badge and password."),
	)
}

func (r *Renderer) locked(snap terminal.Snapshot) string {
	name := "the signed-in operator"
	if snap.Operator != nil {
		name = snap.Operator.FullName()
	}
	return r.lines(
		r.theme.WarningStyle.Render("Terminal locked"),
		"",
		r.theme.Value.Render("Locked by "+name+"."),
		r.theme.Muted.Render("Press 'u' to unlock with the operator password."),
	)
}

// =============================================================================
// MENU
// =============================================================================

func (r *Renderer) menu(snap terminal.Snapshot) string {
	rows := make([]string, 0, len(snap.Menu))
	for i, item := range snap.Menu {
		if i == snap.MenuCursor {
			rows = append(rows, r.theme.MenuSelected.Render("> "+item.Label))
			continue
		}
		rows = append(rows, r.theme.MenuItem.Render("  "+item.Label))
	}
	return strings.Join(rows, "\n")
}

// =============================================================================
// WIZARD
// =============================================================================

// wizard shows the values captured so far, then the active prompt.
func (r *Renderer) wizard(snap terminal.Snapshot, width int) string {
	parts := []string{r.theme.Muted.Render(fmt.Sprintf("Step %d of %d", snap.Step, snap.Steps)), ""}
	for _, c := range snap.Captured {
		parts = append(parts, r.field(c.Name, util.Truncate(c.Value, width-20)))
	}
	if len(snap.Captured) > 0 {
		parts = append(parts, "")
	}

	boxWidth := width - 2
	if boxWidth > 60 {
		boxWidth = 60
	}
	parts = append(parts,
		r.theme.Prompt.Render(snap.Prompt),
		r.theme.InputBox.Width(boxWidth).Render(snap.Input),
	)
	return r.lines(parts...)
}

func (r *Renderer) confirmation(snap terminal.Snapshot, width int) string {
	var parts []string
	for _, c := range snap.Captured {
		parts = append(parts, r.field(c.Name, util.Truncate(c.Value, width-20)))
	}
	if len(parts) > 0 {
		parts = append(parts, "")
	}
	parts = append(parts, r.theme.ConfirmBox.Render(snap.Confirmation))
	return r.lines(parts...)
}

// =============================================================================
// GATEKEEPING
// =============================================================================

func (r *Renderer) gatekeeping(snap terminal.Snapshot) string {
	key := r.theme.ErrorStyle.Render("not configured")
	if snap.TerminalKeySet {
		key = r.theme.SuccessStyle.Render("configured") + r.theme.Muted.Render(" ("+snap.TerminalKeyFingerprint+")")
	}
	action := "verified without charging"
	if snap.Mode == terminal.ModeGatekeepingProcess {
		action = "processed and charged"
	}
	return r.lines(
		r.theme.Label.Render("Terminal key:")+key,
		"",
		r.theme.Value.Render("Scanned badges are "+action+"."),
		r.theme.Muted.Render("Press 's' to scan a badge."),
	)
}

// gateResult is the large granted/denied panel.
func (r *Renderer) gateResult(res terminal.GateResult, width int) string {
	resp := res.Response

	verdict := r.theme.Granted.Render("ACCESS GRANTED")
	if !resp.Success {
		verdict = r.theme.Denied.Render("ACCESS DENIED")
	}

	parts := []string{verdict, ""}
	if resp.Message != "" {
		parts = append(parts, r.theme.Value.Render(util.Truncate(util.SingleLine(resp.Message), width)), "")
	}
	if resp.User != nil {
		parts = append(parts,
			r.field("Name", util.Truncate(resp.User.FullName(), width-20)),
			r.field("Account", resp.User.AccountNumber),
		)
	}
	parts = append(parts, r.field("Barcode", res.Barcode))

	if resp.CurrencyRequired {
		charge := terminal.FormatAmount(resp.CurrencyAmount)
		if res.Processed && resp.Success {
			parts = append(parts, r.field("Charged", charge))
		} else {
			parts = append(parts, r.field("Cost", charge))
		}
		parts = append(parts, r.field("Balance", terminal.FormatAmount(resp.CurrentBalance)))
	}
	if len(resp.MissingPermissions) > 0 {
		parts = append(parts, r.field("Missing", util.Truncate(strings.Join(resp.MissingPermissions, ", "), width-20)))
	}
	return r.lines(parts...)
}

// =============================================================================
// CURRENCY
// =============================================================================

func (r *Renderer) currency() string {
	return r.lines(
		r.theme.Value.Render("Move currency between accounts or check a balance."),
		"",
		r.theme.Muted.Render("Press 't' to start a transfer or 'b' to look up a balance."),
	)
}

// =============================================================================
// USERS
// =============================================================================

// Column widths of the user table.
const (
	colName    = 24
	colBarcode = 12
	colAccount = 12
)

func (r *Renderer) userList(snap terminal.Snapshot, width int) string {
	if len(snap.SearchResults) == 0 {
		hint := "Press 's' to search or 'a' to look up an account."
		if snap.Mode == terminal.ModeUserManagement {
			hint = "Press 'l' to list all users or 's' to search."
		}
		return r.theme.Muted.Render(hint)
	}

	name := colName
	if rest := width - colBarcode - colAccount - 12; rest < name {
		name = max(rest, 8)
	}

	rows := []string{r.theme.TableHeader.Render(
		"  " + util.PadRight("Name", name) + " " +
			util.PadRight("Barcode", colBarcode) + " " +
			util.PadRight("Account", colAccount) + " Status")}
	for i, u := range snap.SearchResults {
		row := util.PadRight(util.SingleLine(u.FullName()), name) + " " +
			util.PadRight(u.Barcode, colBarcode) + " " +
			util.PadRight(u.AccountNumber, colAccount) + " " +
			passStatus(&u)
		if i == snap.Selected {
			rows = append(rows, r.theme.MenuSelected.PaddingLeft(0).Render("> "+row))
			continue
		}
		rows = append(rows, r.theme.Value.Render("  "+row))
	}
	return strings.Join(rows, "\n")
}

func (r *Renderer) userInfo(snap terminal.Snapshot, width int) string {
	u := snap.Inspected
	if u == nil {
		return r.theme.Muted.Render("No user selected.")
	}
	valueWidth := width - 20

	parts := []string{
		r.field("Name", util.Truncate(u.FullName(), valueWidth)),
		r.field("Barcode", u.Barcode),
		r.field("Account", u.AccountNumber),
		r.field("Balance", terminal.FormatAmount(u.Balance)),
		r.field("Pass", passStatus(u)),
	}
	if u.Email != nil {
		parts = append(parts, r.field("Email", util.Truncate(*u.Email, valueWidth)))
	}
	if u.Phone != nil {
		parts = append(parts, r.field("Phone", *u.Phone))
	}
	if u.DateOfBirth != nil {
		parts = append(parts, r.field("Date of birth", *u.DateOfBirth))
	}
	if u.CanGoNegative {
		parts = append(parts, r.field("Overdraft", "allowed"))
	}

	parts = append(parts, "", r.theme.TableHeader.Render("Permissions"))
	if len(u.Permissions) == 0 {
		parts = append(parts, r.theme.Muted.Render("  none"))
	}
	for _, p := range u.Permissions {
		parts = append(parts, r.theme.Value.Render("  "+util.Truncate(p, width-2)))
	}
	return r.lines(parts...)
}

func passStatus(u *authority.User) string {
	if u.PassRevoked {
		return "REVOKED"
	}
	return "valid"
}

// =============================================================================
// ADMINISTRATION
// =============================================================================

func (r *Renderer) terminalManagement(snap terminal.Snapshot) string {
	return r.lines(
		r.field("Terminal key", keyStatus(snap)),
		r.field("Fingerprint", snap.TerminalKeyFingerprint),
		"",
		r.theme.Muted.Render("The key itself is never displayed."),
	)
}

func (r *Renderer) configuration(snap terminal.Snapshot) string {
	return r.lines(
		r.field("Terminal key", keyStatus(snap)),
		"",
		r.theme.Muted.Render("Press 'k' to set the terminal key used for gatekeeping."),
	)
}

func keyStatus(snap terminal.Snapshot) string {
	if snap.TerminalKeySet {
		return "configured"
	}
	return "not configured"
}
