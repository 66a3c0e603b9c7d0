// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/shepard-terminal/internal/authority"
)

// Authority is the remote service the session consults.
// *authority.Client satisfies it.
type Authority interface {
	VerifyAccess(ctx context.Context, barcode, terminalKey string) (*authority.GatekeepingResponse, error)
	ProcessAccess(ctx context.Context, barcode, terminalKey string) (*authority.GatekeepingResponse, error)
	Authenticate(ctx context.Context, barcode, password string) (*authority.User, error)
	GetUserByBarcode(ctx context.Context, barcode string) (*authority.User, error)
	GetUserByAccount(ctx context.Context, account string) (*authority.User, error)
	SearchUsers(ctx context.Context, query string) (*authority.SearchResult, error)
	GetBalance(ctx context.Context, account string) (*authority.Balance, error)
	Transfer(ctx context.Context, req authority.TransferRequest) (*authority.Transaction, error)
}

// BannerKind colors the status line.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerInfo
	BannerSuccess
	BannerError
)

// Banner is the single status message attached to the session. Each
// action replaces it.
type Banner struct {
	Kind BannerKind
	Text string
}

// GateResult is the outcome of a verify or process call.
type GateResult struct {
	Processed bool
	Barcode   string
	Response  authority.GatekeepingResponse
}

// Session is the terminal's root aggregate. It is not safe for concurrent
// use; the host drives it from one goroutine.
type Session struct {
	authority  Authority
	logger     *slog.Logger
	bcryptCost int

	lifecycle Lifecycle
	operator  *authority.User
	secret    []byte // bcrypt hash of the operator's password

	mode       Mode
	returnMode Mode
	phase      Phase
	wizard     *Wizard
	input      textinput.Model
	confirm    string

	seq       uint64 // bumped per call; stale completions are dropped
	busyLabel string

	terminalKey string
	lastResult  *GateResult
	banner      Banner

	menuCursor    int
	searchResults []authority.User
	selected      int
	inspected     *authority.User

	quitArmed bool
	exiting   bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the cost used to hash the cached credential.
func WithBcryptCost(cost int) Option {
	return func(s *Session) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// New creates a logged-out session at the login screen.
func New(auth Authority, opts ...Option) *Session {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.EchoCharacter = '*'
	ti.Cursor.SetMode(cursor.CursorStatic)

	s := &Session{
		authority:  auth,
		logger:     slog.New(slog.DiscardHandler),
		bcryptCost: bcrypt.DefaultCost,
		lifecycle:  LoggedOut,
		mode:       ModeLogin,
		returnMode: ModeMenu,
		phase:      PhaseNormal,
		input:      ti,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Lifecycle returns the authentication state.
func (s *Session) Lifecycle() Lifecycle { return s.lifecycle }

// Mode returns the active screen.
func (s *Session) Mode() Mode { return s.mode }

// Phase returns the key-handling phase.
func (s *Session) Phase() Phase { return s.phase }

// Operator returns a copy of the authenticated operator, or nil.
func (s *Session) Operator() *authority.User { return s.operator.Clone() }

// HasCachedSecret reports whether an unlock credential is held.
func (s *Session) HasCachedSecret() bool { return len(s.secret) > 0 }

// Banner returns the current status message.
func (s *Session) Banner() Banner { return s.banner }

// TerminalKeySet reports whether a terminal key has been configured.
func (s *Session) TerminalKeySet() bool { return s.terminalKey != "" }

// TerminalKeyFingerprint identifies the configured key without revealing it.
func (s *Session) TerminalKeyFingerprint() string {
	if s.terminalKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(s.terminalKey))
	return hex.EncodeToString(h[:4])
}

// SearchResults returns a copy of the last search results.
func (s *Session) SearchResults() []authority.User {
	out := make([]authority.User, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

// Selected returns the search cursor.
func (s *Session) Selected() int { return s.selected }

// Inspected returns the user shown on the info screen, or nil.
func (s *Session) Inspected() *authority.User { return s.inspected.Clone() }

// LastResult returns the most recent gatekeeping outcome, or nil.
func (s *Session) LastResult() *GateResult {
	if s.lastResult == nil {
		return nil
	}
	r := *s.lastResult
	return &r
}

// QuitArmed reports whether one quit keystroke has been seen.
func (s *Session) QuitArmed() bool { return s.quitArmed }

// Exiting reports whether the operator confirmed quit.
func (s *Session) Exiting() bool { return s.exiting }

// TextEntryActive reports whether keystrokes go to the text buffer.
func (s *Session) TextEntryActive() bool { return s.phase == PhaseAwaitingInput }

// CurrentField returns the field being edited.
func (s *Session) CurrentField() (Field, bool) {
	if s.wizard == nil {
		return 0, false
	}
	return s.wizard.Current(), true
}

// WizardValue returns a captured value of the active wizard.
func (s *Session) WizardValue(f Field) (string, bool) {
	if s.wizard == nil {
		return "", false
	}
	v, ok := s.wizard.values[f]
	return v, ok
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// Lock moves an active, idle session to Locked. The operator and the cached
// credential survive; any open wizard and workflow data are discarded.
func (s *Session) Lock() {
	if s.lifecycle != Active || s.phase == PhaseBusy {
		return
	}
	s.clearWorkflow()
	s.lifecycle = Locked
	s.mode = ModeLocked
	s.banner = Banner{Kind: BannerInfo, Text: "Terminal locked"}
	s.logger.Info("terminal locked", "operator_id", s.operator.ID)
}

// Logout clears the operator, the cached credential, and all workflow
// state from any mode. An in-flight call's completion will be ignored.
func (s *Session) Logout() {
	if s.lifecycle == LoggedOut && s.phase != PhaseBusy {
		s.clearWorkflow()
		return
	}
	if s.operator != nil {
		s.logger.Info("operator logged out", "operator_id", s.operator.ID)
	}
	s.seq++
	s.clearWorkflow()
	s.operator = nil
	for i := range s.secret {
		s.secret[i] = 0
	}
	s.secret = nil
	s.lifecycle = LoggedOut
	s.mode = ModeLogin
	s.menuCursor = 0
	s.quitArmed = false
	s.banner = Banner{Kind: BannerInfo, Text: "Logged out"}
}

// clearWorkflow drops every transient screen value and returns to Normal.
func (s *Session) clearWorkflow() {
	s.wizard = nil
	s.input.Reset()
	s.input.Blur()
	s.confirm = ""
	s.busyLabel = ""
	s.phase = PhaseNormal
	s.lastResult = nil
	s.searchResults = nil
	s.selected = 0
	s.inspected = nil
}

// switchMode changes screen and clears the banner.
func (s *Session) switchMode(m Mode) {
	if s.mode == ModeUserSearch || s.mode == ModeUserManagement {
		if m != ModeUserInfo {
			s.searchResults = nil
			s.selected = 0
		}
	}
	s.mode = m
	s.banner = Banner{}
}

// enforceGuard returns the session to a screen it is allowed to be on.
// Privileged screens need Active; gated screens need their permission.
func (s *Session) enforceGuard() {
	if s.phase == PhaseBusy {
		return
	}
	switch s.lifecycle {
	case LoggedOut:
		if s.mode != ModeLogin {
			s.clearWorkflow()
			s.mode = ModeLogin
		}
		return
	case Locked:
		if s.mode != ModeLocked {
			s.clearWorkflow()
			s.mode = ModeLocked
		}
		return
	case Active:
	}

	if !s.mode.Privileged() {
		s.clearWorkflow()
		s.mode = ModeMenu
		return
	}
	if perm := s.mode.RequiredPermission(); perm != "" && !s.operator.HasPermission(perm) {
		s.logger.Debug("permission no longer held, leaving screen", "mode", s.mode.Title(), "permission", perm)
		s.clearWorkflow()
		s.mode = ModeMenu
	}
	if s.mode == ModeUserInfo && s.inspected == nil {
		s.mode = s.returnMode
	}
}

// refreshOperator takes a newer snapshot of the operator from an authority
// response. Gated screens are re-checked when the call completes.
func (s *Session) refreshOperator(u *authority.User) {
	if u == nil || s.operator == nil || u.ID != s.operator.ID {
		return
	}
	s.operator = u.Clone()
	if s.menuCursor >= len(s.MenuItems()) {
		s.menuCursor = 0
	}
}
