// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/shepard-terminal/internal/authority"
)

// =============================================================================
// LOGIN / UNLOCK
// =============================================================================

// lookupOperator is the first login step: the badge must exist and must
// not be revoked before a password is asked for.
func (s *Session) lookupOperator(w *Wizard) *Call {
	auth := s.authority
	barcode := w.values[FieldLoginBarcode]

	return s.startCall("Checking badge...", func(ctx context.Context) func(*Session) {
		user, err := auth.GetUserByBarcode(ctx, barcode)
		return func(s *Session) {
			switch {
			case err != nil:
				s.failLogin("Error: " + err.Error())
			case user.PassRevoked:
				s.logger.Warn("login refused, pass revoked", "user_id", user.ID)
				s.failLogin("Access denied: pass revoked")
			default:
				w.step++
				s.resume(w)
			}
		}
	})
}

// authenticate is the second login step.
func (s *Session) authenticate(w *Wizard) *Call {
	auth := s.authority
	cost := s.bcryptCost
	barcode := w.values[FieldLoginBarcode]
	password := w.values[FieldLoginPassword]

	return s.startCall("Authenticating...", func(ctx context.Context) func(*Session) {
		user, err := auth.Authenticate(ctx, barcode, password)
		var hash []byte
		if err == nil {
			hash, err = bcrypt.GenerateFromPassword(secretDigest(password), cost)
		}
		return func(s *Session) {
			if err != nil {
				s.failLogin("Login failed: " + err.Error())
				return
			}
			s.operator = user.Clone()
			s.secret = hash
			s.lifecycle = Active
			s.mode = ModeMenu
			s.menuCursor = 0
			s.phase = PhaseNormal
			s.banner = Banner{Kind: BannerSuccess, Text: "Welcome, " + user.FullName()}
			s.logger.Info("operator logged in", "operator_id", user.ID)
		}
	})
}

// failLogin returns to the login screen and drops the captured barcode.
func (s *Session) failLogin(msg string) {
	s.wizard = nil
	s.phase = PhaseNormal
	s.lifecycle = LoggedOut
	s.mode = ModeLogin
	s.banner = Banner{Kind: BannerError, Text: msg}
}

// secretDigest is the bcrypt input for a password. A hex SHA-256 stays
// under bcrypt's 72 byte limit and keeps every password byte significant.
func secretDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// unlock compares the entered password with the cached hash. There is no
// attempt counter; lockout policy belongs to the authority.
func (s *Session) unlock(w *Wizard) {
	password := w.values[FieldUnlockPassword]
	if len(s.secret) == 0 || bcrypt.CompareHashAndPassword(s.secret, secretDigest(password)) != nil {
		s.logger.Info("unlock rejected", "operator_id", s.operator.ID)
		delete(w.values, FieldUnlockPassword)
		s.banner = Banner{Kind: BannerError, Text: "Incorrect password"}
		s.prepareInput()
		return
	}
	s.wizard = nil
	s.input.Reset()
	s.input.Blur()
	s.phase = PhaseNormal
	s.lifecycle = Active
	s.mode = ModeMenu
	s.banner = Banner{Kind: BannerSuccess, Text: "Terminal unlocked"}
	s.logger.Info("terminal unlocked", "operator_id", s.operator.ID)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

func (s *Session) configureTerminalKey(w *Wizard) {
	s.terminalKey = w.values[FieldTerminalKey]
	s.cancel()
	s.banner = Banner{Kind: BannerSuccess, Text: "Terminal key configured"}
	s.logger.Info("terminal key configured", "fingerprint", s.TerminalKeyFingerprint())
}

// =============================================================================
// GATEKEEPING
// =============================================================================

// gatekeep verifies or processes a scanned badge depending on the screen
// the wizard was opened from.
func (s *Session) gatekeep(w *Wizard) *Call {
	if s.terminalKey == "" {
		s.cancel()
		s.banner = Banner{Kind: BannerError, Text: validationMessage(FieldScanBarcode, ErrNoTerminalKey)}
		return nil
	}

	auth := s.authority
	key := s.terminalKey
	barcode := w.values[FieldScanBarcode]
	process := w.owner == ModeGatekeepingProcess

	label := "Verifying access..."
	if process {
		label = "Processing access..."
	}
	return s.startCall(label, func(ctx context.Context) func(*Session) {
		var resp *authority.GatekeepingResponse
		var err error
		if process {
			resp, err = auth.ProcessAccess(ctx, barcode, key)
		} else {
			resp, err = auth.VerifyAccess(ctx, barcode, key)
		}
		return func(s *Session) {
			if err != nil {
				s.banner = Banner{Kind: BannerError, Text: "Error: " + err.Error()}
				return
			}
			s.refreshOperator(resp.User)
			s.lastResult = &GateResult{Processed: process, Barcode: barcode, Response: *resp}
			s.phase = PhaseShowingResult
			s.banner = Banner{}
			s.logger.Info("gatekeeping outcome",
				"processed", process,
				"success", resp.Success,
				"missing_permissions", len(resp.MissingPermissions),
			)
		}
	})
}

// =============================================================================
// TRANSFER
// =============================================================================

// requestTransferConfirmation restates the transfer and waits for y/n.
func (s *Session) requestTransferConfirmation(w *Wizard) {
	amount, err := parseAmount(w.values[FieldAmount])
	if err != nil {
		s.returnToField(w, FieldAmount, err)
		return
	}
	s.wizard = w
	s.phase = PhaseAwaitingConfirmation
	s.input.Blur()
	s.confirm = fmt.Sprintf("Transfer %s from %s to %s?\nPress 'y' to confirm, 'n' to cancel",
		amount.StringFixed(2), w.values[FieldFromAccount], w.values[FieldToAccount])
}

// returnToField reopens w at f after a validation failure, keeping every
// other captured value.
func (s *Session) returnToField(w *Wizard, f Field, err error) {
	delete(w.values, f)
	w.rewind(f)
	s.confirm = ""
	s.resume(w)
	s.banner = Banner{Kind: BannerError, Text: validationMessage(f, err)}
}

// confirmTransfer issues the transfer captured by the confirmed wizard.
func (s *Session) confirmTransfer() *Call {
	w := s.wizard
	amount, err := parseAmount(w.values[FieldAmount])
	if err != nil {
		s.returnToField(w, FieldAmount, err)
		return nil
	}

	req := authority.TransferRequest{
		FromAccount: w.values[FieldFromAccount],
		ToAccount:   w.values[FieldToAccount],
		Amount:      amount,
	}
	if desc := w.values[FieldDescription]; desc != "" {
		req.Description = &desc
	}
	if key := s.terminalKey; key != "" {
		req.TerminalKey = &key
	}

	auth := s.authority
	return s.startCall("Transferring...", func(ctx context.Context) func(*Session) {
		_, err := auth.Transfer(ctx, req)
		return func(s *Session) {
			if err != nil {
				s.banner = Banner{Kind: BannerError, Text: "Transfer error: " + err.Error()}
				return
			}
			s.banner = Banner{Kind: BannerSuccess, Text: fmt.Sprintf("Transfer of %s completed successfully", req.Amount.StringFixed(2))}
			s.logger.Info("transfer completed", "operator_id", s.operator.ID, "amount", req.Amount.String())
		}
	})
}

// =============================================================================
// SEARCH AND LOOKUPS
// =============================================================================

// search runs a user query. An empty query lists every user.
func (s *Session) search(query string) *Call {
	auth := s.authority
	return s.startCall("Searching...", func(ctx context.Context) func(*Session) {
		res, err := auth.SearchUsers(ctx, query)
		return func(s *Session) {
			if err != nil {
				s.searchResults = nil
				s.selected = 0
				s.banner = Banner{Kind: BannerError, Text: "Search error: " + err.Error()}
				return
			}
			for i := range res.Users {
				s.refreshOperator(&res.Users[i])
			}
			s.searchResults = res.Users
			s.selected = 0
			s.banner = Banner{Kind: BannerInfo, Text: fmt.Sprintf("Found %d users", res.Total)}
		}
	})
}

// lookupAccount opens the info screen for the owner of an account.
func (s *Session) lookupAccount(w *Wizard) *Call {
	auth := s.authority
	account := w.values[FieldLookupAccount]
	owner := w.owner
	return s.startCall("Looking up account...", func(ctx context.Context) func(*Session) {
		user, err := auth.GetUserByAccount(ctx, account)
		return func(s *Session) {
			if err != nil {
				s.banner = Banner{Kind: BannerError, Text: "Error: " + err.Error()}
				return
			}
			s.refreshOperator(user)
			s.inspect(user, owner)
		}
	})
}

// lookupBalance reports an account's balance in the banner.
func (s *Session) lookupBalance(w *Wizard) *Call {
	auth := s.authority
	account := w.values[FieldBalanceAccount]
	return s.startCall("Fetching balance...", func(ctx context.Context) func(*Session) {
		bal, err := auth.GetBalance(ctx, account)
		return func(s *Session) {
			if err != nil {
				s.banner = Banner{Kind: BannerError, Text: "Error: " + err.Error()}
				return
			}
			s.banner = Banner{Kind: BannerInfo, Text: fmt.Sprintf("Account %s: balance %s (%d transactions)",
				bal.AccountNumber, FormatAmount(bal.Balance), bal.TransactionCount)}
		}
	})
}

// inspect switches to the info screen for u, remembering where to return.
func (s *Session) inspect(u *authority.User, from Mode) {
	s.inspected = u.Clone()
	s.returnMode = from
	s.mode = ModeUserInfo
	s.banner = Banner{}
}

// FormatAmount renders a currency value with two decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
