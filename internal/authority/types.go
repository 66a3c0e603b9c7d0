// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authority

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// User is the authority's snapshot of a user record.
type User struct {
	ID            int      `json:"id"`
	Barcode       string   `json:"barcode"`
	AccountNumber string   `json:"account_number"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         *string  `json:"email,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	PhotoURL      *string  `json:"photo_url,omitempty"`
	PassRevoked   bool     `json:"pass_revoked"`
	CanGoNegative bool     `json:"can_go_negative"`
	Permissions   []string `json:"permissions"`
	Balance       float64  `json:"balance"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasPermission reports whether the user holds the exact permission string.
func (u *User) HasPermission(perm string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Permissions, perm)
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = slices.Clone(u.Permissions)
	return &c
}

// GatekeepingRequest is the body of verify and process calls.
type GatekeepingRequest struct {
	Barcode     string `json:"barcode"`
	TerminalKey string `json:"terminal_key"`
}

// GatekeepingResponse is the authority's verdict for a scanned badge.
// A denial is a valid response with Success false, not an error.
type GatekeepingResponse struct {
	Success             bool     `json:"success"`
	User                *User    `json:"user,omitempty"`
	Message             string   `json:"message"`
	RequiredPermissions []string `json:"required_permissions"`
	UserPermissions     []string `json:"user_permissions"`
	MissingPermissions  []string `json:"missing_permissions"`
	CurrencyRequired    bool     `json:"currency_required"`
	CurrencyAmount      float64  `json:"currency_amount"`
	CurrentBalance      float64  `json:"current_balance"`
}

// SearchResult is an ordered page of users plus the total match count.
type SearchResult struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// Balance is an account balance summary.
type Balance struct {
	AccountNumber    string  `json:"account_number"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transaction_count"`
}

// TransferRequest moves currency between two accounts.
// Description and TerminalKey are omitted from the wire when nil.
type TransferRequest struct {
	FromAccount string
	ToAccount   string
	Amount      decimal.Decimal
	Description *string
	TerminalKey *string
}

// Transaction is the record created by a successful transfer.
type Transaction struct {
	ID            int     `json:"id"`
	FromAccountID int     `json:"from_account_id"`
	ToAccountID   int     `json:"to_account_id"`
	Amount        float64 `json:"amount"`
	Description   *string `json:"description,omitempty"`
	TerminalID    *int    `json:"terminal_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
