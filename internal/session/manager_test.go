// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(lock, warn time.Duration) (*Manager, *fakeClock) {
	clock := newFakeClock()
	m := NewManager(Config{LockAfter: lock, WarningBefore: warn}, WithClock(clock.Now))
	return m, clock
}

func TestNewManager(t *testing.T) {
	m, _ := newTestManager(time.Minute, 10*time.Second)

	if _, err := uuid.Parse(m.SessionID()); err != nil {
		t.Errorf("SessionID should be a UUID, got %q", m.SessionID())
	}
	if !m.Enabled() {
		t.Error("Manager should be enabled with a non-zero LockAfter")
	}
	if m.RemainingTime() != time.Minute {
		t.Errorf("RemainingTime = %v, want 1m", m.RemainingTime())
	}
}

func TestNewManager_WarningClamped(t *testing.T) {
	m, _ := newTestManager(10*time.Second, time.Minute)

	if m.warningBefore != 10*time.Second {
		t.Errorf("warningBefore = %v, want clamped to 10s", m.warningBefore)
	}
}

// =============================================================================
// CHECK TESTS
// =============================================================================

func TestManager_WarnThenLock(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10*time.Second)

	clock.Advance(45 * time.Second)
	if action, _ := m.Check(); action != ActionNone {
		t.Errorf("at 45s action = %v, want none", action)
	}

	clock.Advance(5 * time.Second)
	action, remaining := m.Check()
	if action != ActionWarn {
		t.Fatalf("at 50s action = %v, want warn", action)
	}
	if remaining != 10*time.Second {
		t.Errorf("remaining = %v, want 10s", remaining)
	}

	// warning fires once
	clock.Advance(time.Second)
	if action, _ := m.Check(); action != ActionNone {
		t.Errorf("second warning check = %v, want none", action)
	}

	clock.Advance(9 * time.Second)
	if action, _ := m.Check(); action != ActionLock {
		t.Fatalf("at 60s action = %v, want lock", action)
	}

	// lock fires once
	clock.Advance(time.Minute)
	if action, _ := m.Check(); action != ActionNone {
		t.Errorf("after lock action = %v, want none", action)
	}
}

func TestManager_RecordActivityRearms(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10*time.Second)

	clock.Advance(time.Minute)
	if action, _ := m.Check(); action != ActionLock {
		t.Fatalf("action = %v, want lock", action)
	}

	m.RecordActivity()
	if m.IdleTime() != 0 {
		t.Errorf("IdleTime after activity = %v, want 0", m.IdleTime())
	}

	clock.Advance(55 * time.Second)
	if action, _ := m.Check(); action != ActionWarn {
		t.Errorf("action after re-arm = %v, want warn", action)
	}
	clock.Advance(5 * time.Second)
	if action, _ := m.Check(); action != ActionLock {
		t.Errorf("action after re-arm = %v, want lock", action)
	}
}

func TestManager_Disabled(t *testing.T) {
	m, clock := newTestManager(0, 10*time.Second)

	clock.Advance(24 * time.Hour)
	if action, _ := m.Check(); action != ActionNone {
		t.Errorf("disabled manager action = %v, want none", action)
	}
	if m.Enabled() {
		t.Error("Enabled() should be false")
	}
	if m.RemainingTime() != 0 {
		t.Errorf("RemainingTime = %v, want 0", m.RemainingTime())
	}
}

func TestManager_Reconfigure(t *testing.T) {
	m, clock := newTestManager(0, 0)

	clock.Advance(2 * time.Minute)
	m.Reconfigure(Config{LockAfter: time.Minute})

	if action, _ := m.Check(); action != ActionLock {
		t.Errorf("action after enabling = %v, want lock", action)
	}
}

// =============================================================================
// BUBBLE TEA TESTS
// =============================================================================

func TestTickCmd(t *testing.T) {
	if TickCmd() == nil {
		t.Fatal("TickCmd returned nil")
	}
}

func TestManager_HandleTick(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10*time.Second)
	clock.Advance(time.Minute)

	if cmd := m.HandleTick(); cmd == nil {
		t.Fatal("HandleTick returned nil")
	}
	if action, _ := m.Check(); action != ActionNone {
		t.Errorf("HandleTick should have consumed the lock, got %v", action)
	}
}

// =============================================================================
// STATUS TESTS
// =============================================================================

func TestManager_GetStatus(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10*time.Second)
	clock.Advance(20 * time.Second)

	status := m.GetStatus()
	if status.SessionID != m.SessionID() {
		t.Errorf("SessionID = %q, want %q", status.SessionID, m.SessionID())
	}
	if status.IdleTime != 20*time.Second {
		t.Errorf("IdleTime = %v, want 20s", status.IdleTime)
	}
	if status.RemainingTime != 40*time.Second {
		t.Errorf("RemainingTime = %v, want 40s", status.RemainingTime)
	}
	if !status.Enabled {
		t.Error("Enabled should be true")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{1500 * time.Millisecond, "2s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(Config{LockAfter: 5 * time.Minute, WarningBefore: 30 * time.Second})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.RecordActivity()
		}()
		go func() {
			defer wg.Done()
			m.Check()
			_ = m.GetStatus()
		}()
	}
	wg.Wait()
}
