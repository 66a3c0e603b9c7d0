// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"github.com/jeranaias/shepard-terminal/internal/authority"
	"github.com/jeranaias/shepard-terminal/internal/util"
)

// CapturedValue is a wizard value already entered, for display.
type CapturedValue struct {
	Name  string
	Value string
}

// Snapshot is a read-only copy of everything a renderer may show. Secrets
// never appear in it.
type Snapshot struct {
	Lifecycle Lifecycle
	Mode      Mode
	Phase     Phase
	Operator  *authority.User

	Menu       []MenuItem
	MenuCursor int

	Prompt       string
	Input        string
	Step         int
	Steps        int
	Captured     []CapturedValue
	Confirmation string
	BusyLabel    string

	Banner Banner
	Result *GateResult

	SearchResults []authority.User
	Selected      int
	Inspected     *authority.User

	TerminalKeySet         bool
	TerminalKeyFingerprint string
	QuitArmed              bool
}

// Snapshot copies the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Lifecycle:              s.lifecycle,
		Mode:                   s.mode,
		Phase:                  s.phase,
		Operator:               s.operator.Clone(),
		Menu:                   s.MenuItems(),
		MenuCursor:             s.MenuCursor(),
		Confirmation:           s.confirm,
		BusyLabel:              s.busyLabel,
		Banner:                 s.banner,
		Result:                 s.LastResult(),
		SearchResults:          s.SearchResults(),
		Selected:               s.selected,
		Inspected:              s.inspected.Clone(),
		TerminalKeySet:         s.TerminalKeySet(),
		TerminalKeyFingerprint: s.TerminalKeyFingerprint(),
		QuitArmed:              s.quitArmed,
	}

	if w := s.wizard; w != nil {
		snap.Steps = w.Steps()
		snap.Step = w.step + 1
		if s.phase == PhaseAwaitingInput {
			snap.Prompt = w.Current().Label()
			snap.Input = s.input.View()
		}
		for i, f := range wizardFields[w.kind] {
			if i >= w.step && s.phase == PhaseAwaitingInput {
				break
			}
			v, ok := w.values[f]
			if !ok {
				continue
			}
			if f.Secret() {
				v = util.Mask(v)
			}
			snap.Captured = append(snap.Captured, CapturedValue{Name: f.Name(), Value: v})
		}
	}
	return snap
}
