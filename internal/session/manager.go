// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// TickInterval is how often the console checks for idleness.
const TickInterval = time.Second

// =============================================================================
// IDLE MANAGER
// =============================================================================

// Manager tracks operator inactivity and decides when an unattended
// terminal should warn and then lock.
type Manager struct {
	mu sync.Mutex

	sessionID    string
	startTime    time.Time
	lastActivity time.Time
	now          func() time.Time

	lockAfter     time.Duration // 0 disables auto-lock
	warningBefore time.Duration
	warningShown  bool
	lockFired     bool
}

// Config holds the idle thresholds.
type Config struct {
	// LockAfter is the idle time before the terminal locks. 0 disables it.
	LockAfter time.Duration

	// WarningBefore is how long before the lock a warning is raised.
	WarningBefore time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates an idle manager. The idle clock starts now.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.startTime = m.now()
	m.lastActivity = m.startTime
	m.apply(cfg)
	return m
}

func (m *Manager) apply(cfg Config) {
	m.lockAfter = max(cfg.LockAfter, 0)
	m.warningBefore = min(max(cfg.WarningBefore, 0), m.lockAfter)
}

// Reconfigure changes the thresholds, for example after a config reload.
// The idle clock is not reset.
func (m *Manager) Reconfigure(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(cfg)
}

// =============================================================================
// STATE
// =============================================================================

// SessionID identifies this terminal run in logs.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Enabled reports whether auto-lock is active.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lockAfter > 0
}

// IdleTime returns how long since the last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Sub(m.lastActivity)
}

// RemainingTime returns the time until the lock, or 0 when disabled or due.
func (m *Manager) RemainingTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining()
}

func (m *Manager) remaining() time.Duration {
	if m.lockAfter == 0 {
		return 0
	}
	return max(m.lockAfter-m.now().Sub(m.lastActivity), 0)
}

// RecordActivity restarts the idle clock and re-arms the warning and lock.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = m.now()
	m.warningShown = false
	m.lockFired = false
}

// =============================================================================
// CHECKING
// =============================================================================

// Action is what the host should do after a check.
type Action int

const (
	ActionNone Action = iota
	ActionWarn
	ActionLock
)

// Check evaluates idleness. The warning and the lock each fire once per
// idle period; RecordActivity re-arms them.
func (m *Manager) Check() (Action, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lockAfter == 0 || m.lockFired {
		return ActionNone, 0
	}

	remaining := m.remaining()
	if remaining == 0 {
		m.lockFired = true
		return ActionLock, 0
	}
	if !m.warningShown && m.warningBefore > 0 && remaining <= m.warningBefore {
		m.warningShown = true
		return ActionWarn, remaining
	}
	return ActionNone, remaining
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check idleness.
type TickMsg struct {
	Time time.Time
}

// IdleWarningMsg says the terminal will lock soon.
type IdleWarningMsg struct {
	Remaining time.Duration
}

// IdleLockMsg says the terminal has been idle long enough to lock.
type IdleLockMsg struct{}

// TickCmd returns a command that ticks once after TickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick checks idleness and schedules the next tick.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	switch action, remaining := m.Check(); action {
	case ActionWarn:
		cmds = append(cmds, func() tea.Msg {
			return IdleWarningMsg{Remaining: remaining}
		})
	case ActionLock:
		cmds = append(cmds, func() tea.Msg {
			return IdleLockMsg{}
		})
	case ActionNone:
	}

	cmds = append(cmds, TickCmd())
	return tea.Batch(cmds...)
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a snapshot of the manager for display.
type Status struct {
	SessionID     string
	StartTime     time.Time
	IdleTime      time.Duration
	RemainingTime time.Duration
	Enabled       bool
}

// GetStatus returns the current status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		SessionID:     m.sessionID,
		StartTime:     m.startTime,
		IdleTime:      m.now().Sub(m.lastActivity),
		RemainingTime: m.remaining(),
		Enabled:       m.lockAfter > 0,
	}
}

// FormatDuration returns a short human-readable duration, rounded up to
// the second.
func FormatDuration(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return strconv.Itoa(secs) + "s"
	}
	mins, secs := secs/60, secs%60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
