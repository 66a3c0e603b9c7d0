// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/jeranaias/shepard-terminal/internal/config"
	"github.com/jeranaias/shepard-terminal/internal/logging"
	"github.com/jeranaias/shepard-terminal/internal/session"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/components"
	"github.com/jeranaias/shepard-terminal/internal/ui/render"
	"github.com/jeranaias/shepard-terminal/internal/ui/styles"
)

// Options wires a Model to its collaborators.
type Options struct {
	Session *terminal.Session
	Config  *config.Config

	// Reloads, when set, delivers config file changes.
	Reloads <-chan config.Reload
	// LogLevel, when set, follows log.level across reloads.
	LogLevel *slog.LevelVar
	Logger   *slog.Logger

	// Overrides re-applies command-line settings to every reloaded config.
	Overrides func(*config.Config)

	// Now overrides the clock used for debouncing and idle tracking.
	Now func() time.Time
}

// Model is the Bubble Tea program that hosts a terminal session. It is the
// only writer of the session.
type Model struct {
	sess *terminal.Session
	cfg  *config.Config

	renderer *render.Renderer
	spinner  components.Spinner
	overlay  components.IdleOverlay
	idle     *session.Manager
	limiter  *rate.Limiter

	reloads   <-chan config.Reload
	overrides func(*config.Config)
	logLevel  *slog.LevelVar
	logger    *slog.Logger
	now       func() time.Time

	width  int
	height int
}

// New creates the console model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	idle := session.NewManager(idleConfig(cfg), session.WithClock(now))
	m := &Model{
		sess:      opts.Session,
		cfg:       cfg,
		reloads:   opts.Reloads,
		overrides: opts.Overrides,
		logLevel:  opts.LogLevel,
		logger:    logger.With("session_id", idle.SessionID()),
		now:       now,
		width:     80,
		height:    24,
		idle:      idle,
	}
	m.applyTheme(cfg.UI)
	m.limiter = newLimiter(cfg.Input.Debounce())
	return m
}

// newLimiter admits one key per interval. A zero interval disables it.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func idleConfig(cfg *config.Config) session.Config {
	return session.Config{
		LockAfter:     cfg.Session.IdleLock(),
		WarningBefore: cfg.Session.IdleWarning(),
	}
}

// applyTheme rebuilds everything that holds styles. A running spinner is
// restarted and its tick returned.
func (m *Model) applyTheme(ui config.UIConfig) tea.Cmd {
	theme := styles.NewTheme(styles.Options{Theme: ui.Theme, NoColor: ui.NoColor})
	theme.SetSize(m.width, m.height)
	m.renderer = render.New(theme)

	wasActive, label := m.spinner.IsActive(), m.spinner.Label()
	m.spinner = components.NewSpinner(theme)
	var cmd tea.Cmd
	if wasActive {
		cmd = m.spinner.Start(label)
	}

	visible := m.overlay.IsVisible()
	m.overlay = components.NewIdleOverlay(theme)
	m.overlay.SetSize(m.width, m.height)
	if visible {
		m.overlay.Show(m.idle.RemainingTime())
	}
	return cmd
}

// Session returns the hosted session.
func (m *Model) Session() *terminal.Session { return m.sess }

// SessionID identifies this terminal run in logs.
func (m *Model) SessionID() string { return m.idle.SessionID() }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the idle ticker and the reload listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(session.TickCmd(), waitForReload(m.reloads))
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.renderer.Theme().SetSize(msg.Width, msg.Height)
		m.overlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CallDoneMsg:
		m.sess.Complete(msg.Completion)
		if m.sess.Phase() != terminal.PhaseBusy {
			m.spinner.Stop()
		}
		m.idle.RecordActivity()
		return m, m.quitIfExiting()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case session.TickMsg:
		return m, m.handleIdleTick()

	case session.IdleWarningMsg:
		if m.sess.Lifecycle() == terminal.Active {
			m.overlay.Show(msg.Remaining)
		}
		return m, nil

	case session.IdleLockMsg:
		m.overlay.Hide()
		if m.sess.Lifecycle() == terminal.Active && m.sess.Phase() != terminal.PhaseBusy {
			status := m.idle.GetStatus()
			m.logger.Info("idle lock",
				"operator_id", m.sess.Operator().ID,
				"idle", session.FormatDuration(status.IdleTime),
			)
			m.sess.Lock()
		}
		return m, nil

	case ShutdownMsg:
		m.logger.Info("shutdown requested")
		m.sess.Logout()
		m.spinner.Stop()
		return m, tea.Quit

	case ConfigReloadMsg:
		return m, tea.Batch(m.applyReload(msg.Reload), waitForReload(m.reloads))
	}
	return m, nil
}

// View renders the current frame.
func (m *Model) View() string {
	if m.overlay.IsVisible() {
		return m.overlay.View()
	}
	frame := m.renderer.Render(render.View{
		Snapshot: m.sess.Snapshot(),
		Spinner:  m.spinner.View(),
	}, m.width, m.height)
	return lipgloss.NewStyle().MaxHeight(m.height).Render(frame)
}

// =============================================================================
// INPUT DISPATCH
// =============================================================================

// handleKey debounces and forwards a key. Keys typed into a text field are
// never debounced.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.idle.RecordActivity()
	if m.overlay.IsVisible() {
		m.overlay.Hide()
		return m, nil
	}

	if !m.sess.TextEntryActive() && !m.limiter.AllowN(m.now(), 1) {
		m.logger.Debug("key debounced", "key", msg.Type.String())
		return m, nil
	}

	call := m.sess.HandleKey(msg)
	if call == nil {
		return m, m.quitIfExiting()
	}
	return m, tea.Batch(m.spinner.Start(call.Label), m.run(call))
}

// run executes call off the loop, bounded by the authority timeout.
func (m *Model) run(call *terminal.Call) tea.Cmd {
	timeout := m.cfg.Authority.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return CallDoneMsg{Completion: call.Run(ctx)}
	}
}

func (m *Model) quitIfExiting() tea.Cmd {
	if m.sess.Exiting() {
		return tea.Quit
	}
	return nil
}

// =============================================================================
// IDLE LOCK
// =============================================================================

// handleIdleTick counts idle time only while an operator is signed in and
// no call is running.
func (m *Model) handleIdleTick() tea.Cmd {
	if m.sess.Lifecycle() != terminal.Active || m.sess.Phase() == terminal.PhaseBusy {
		m.idle.RecordActivity()
		m.overlay.Hide()
	}
	if m.overlay.IsVisible() {
		m.overlay.Show(m.idle.RemainingTime())
	}
	return m.idle.HandleTick()
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// applyReload takes the settings that can change while running. Flag
// overrides win over the file. The authority endpoint needs a restart.
func (m *Model) applyReload(r config.Reload) tea.Cmd {
	if r.Err != nil {
		m.logger.Warn("config reload ignored", "error", r.Err)
		return nil
	}
	next := r.Config
	prev := m.cfg
	if m.overrides != nil {
		m.overrides(next)
	}

	if next.Input.DebounceMs != prev.Input.DebounceMs {
		m.limiter = newLimiter(next.Input.Debounce())
	}
	if next.Session != prev.Session {
		m.idle.Reconfigure(idleConfig(next))
	}
	var cmd tea.Cmd
	if next.UI != prev.UI {
		cmd = m.applyTheme(next.UI)
	}
	if m.logLevel != nil && next.Log.Level != prev.Log.Level {
		if lvl, err := logging.ParseLevel(next.Log.Level); err == nil {
			m.logLevel.Set(lvl)
		}
	}
	if next.Authority.URL != prev.Authority.URL {
		m.logger.Warn("authority url change takes effect after restart", "url", next.Authority.URL)
	}

	// the client was built from the old authority settings
	next.Authority = prev.Authority
	m.cfg = next
	m.logger.Info("config applied", "idle_lock", m.idle.Enabled())
	return cmd
}
