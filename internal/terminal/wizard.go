// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Validation errors. None of them reach the authority.
var (
	ErrEmptyField    = errors.New("value cannot be empty")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoTerminalKey = errors.New("terminal key not configured")
)

// =============================================================================
// FIELDS
// =============================================================================

// Field tags one value captured by a wizard.
type Field int

const (
	FieldLoginBarcode Field = iota
	FieldLoginPassword
	FieldUnlockPassword
	FieldTerminalKey
	FieldScanBarcode
	FieldFromAccount
	FieldToAccount
	FieldAmount
	FieldDescription
	FieldSearchQuery
	FieldLookupAccount
	FieldBalanceAccount
)

type fieldKind int

const (
	kindIdentifier fieldKind = iota // NFKC, trimmed, required
	kindSecret                      // verbatim, required
	kindKey                         // trimmed, required
	kindAmount                      // positive decimal
	kindText                        // trimmed, optional
)

type fieldSpec struct {
	label       string
	placeholder string
	name        string
	kind        fieldKind
}

var fieldSpecs = map[Field]fieldSpec{
	FieldLoginBarcode:   {"Scan or enter barcode:", "barcode", "Barcode", kindIdentifier},
	FieldLoginPassword:  {"Password:", "", "Password", kindSecret},
	FieldUnlockPassword: {"Password:", "", "Password", kindSecret},
	FieldTerminalKey:    {"Enter terminal key:", "terminal key", "Terminal key", kindKey},
	FieldScanBarcode:    {"Scan or enter barcode:", "barcode", "Barcode", kindIdentifier},
	FieldFromAccount:    {"From account number:", "account number", "From account", kindIdentifier},
	FieldToAccount:      {"To account number:", "account number", "To account", kindIdentifier},
	FieldAmount:         {"Amount:", "0.00", "Amount", kindAmount},
	FieldDescription:    {"Description (optional):", "", "Description", kindText},
	FieldSearchQuery:    {"Search users (name, barcode, account):", "leave empty to list all", "Query", kindText},
	FieldLookupAccount:  {"Account number:", "account number", "Account", kindIdentifier},
	FieldBalanceAccount: {"Account number:", "account number", "Account", kindIdentifier},
}

// Label returns the prompt shown for the field.
func (f Field) Label() string { return fieldSpecs[f].label }

// Name is the short field name used in captured-value listings.
func (f Field) Name() string { return fieldSpecs[f].name }

// Secret reports whether the field is masked.
func (f Field) Secret() bool { return fieldSpecs[f].kind == kindSecret }

// clean normalizes a raw buffer and validates it for the field.
func (f Field) clean(raw string) (string, error) {
	switch fieldSpecs[f].kind {
	case kindIdentifier:
		v := normalizeIdentifier(raw)
		if v == "" {
			return "", ErrEmptyField
		}
		return v, nil
	case kindSecret:
		if raw == "" {
			return "", ErrEmptyField
		}
		return raw, nil
	case kindKey:
		v := strings.TrimSpace(raw)
		if v == "" {
			return "", ErrEmptyField
		}
		return v, nil
	case kindAmount:
		if _, err := parseAmount(raw); err != nil {
			return "", err
		}
		return strings.TrimSpace(raw), nil
	case kindText:
		return strings.TrimSpace(raw), nil
	}
	return raw, nil
}

// normalizeIdentifier folds scanner and keyboard variants of the same
// identifier (full-width digits, stray whitespace) to one form.
func normalizeIdentifier(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// parseAmount accepts a strictly positive decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// validationMessage is the banner text for a local validation failure.
func validationMessage(f Field, err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, ErrNoTerminalKey):
		return "Please configure terminal key first (press 'k')"
	case errors.Is(err, ErrEmptyField):
		return fmt.Sprintf("%s cannot be empty", f.Name())
	}
	return "Error: " + err.Error()
}

// =============================================================================
// WIZARDS
// =============================================================================

// WizardKind names a multi-step input sequence.
type WizardKind int

const (
	WizardLogin WizardKind = iota
	WizardUnlock
	WizardTerminalKey
	WizardScan
	WizardTransfer
	WizardSearch
	WizardAccountLookup
	WizardBalance
)

var wizardFields = map[WizardKind][]Field{
	WizardLogin:         {FieldLoginBarcode, FieldLoginPassword},
	WizardUnlock:        {FieldUnlockPassword},
	WizardTerminalKey:   {FieldTerminalKey},
	WizardScan:          {FieldScanBarcode},
	WizardTransfer:      {FieldFromAccount, FieldToAccount, FieldAmount, FieldDescription},
	WizardSearch:        {FieldSearchQuery},
	WizardAccountLookup: {FieldLookupAccount},
	WizardBalance:       {FieldBalanceAccount},
}

// Wizard is an in-flight input sequence. Values are keyed by field tag so
// distinct fields never share a slot.
type Wizard struct {
	kind   WizardKind
	owner  Mode
	step   int
	values map[Field]string
}

func newWizard(kind WizardKind, owner Mode) *Wizard {
	return &Wizard{kind: kind, owner: owner, values: make(map[Field]string)}
}

// Current returns the field being edited.
func (w *Wizard) Current() Field { return wizardFields[w.kind][w.step] }

// Steps returns the number of fields.
func (w *Wizard) Steps() int { return len(wizardFields[w.kind]) }

func (w *Wizard) last() bool { return w.step == w.Steps()-1 }

func (w *Wizard) rewind(f Field) {
	for i, tag := range wizardFields[w.kind] {
		if tag == f {
			w.step = i
			return
		}
	}
}

// begin opens a wizard on the current screen.
func (s *Session) begin(kind WizardKind) {
	s.resume(newWizard(kind, s.mode))
	s.banner = Banner{}
}

// resume attaches w and prepares the text buffer for its current field.
func (s *Session) resume(w *Wizard) {
	s.wizard = w
	s.phase = PhaseAwaitingInput
	s.prepareInput()
}

func (s *Session) prepareInput() {
	spec := fieldSpecs[s.wizard.Current()]
	s.input.Reset()
	s.input.Placeholder = spec.placeholder
	if spec.kind == kindSecret {
		s.input.EchoMode = textinput.EchoPassword
	} else {
		s.input.EchoMode = textinput.EchoNormal
	}
	s.input.Focus()
}

// submit commits the buffer to the current field. Non-final fields advance;
// the final field hands the wizard to its finisher.
func (s *Session) submit() *Call {
	w := s.wizard
	field := w.Current()
	value, err := field.clean(s.input.Value())
	if err != nil {
		s.logger.Debug("field rejected", "field", field.Name(), "error", err)
		s.banner = Banner{Kind: BannerError, Text: validationMessage(field, err)}
		s.input.Reset()
		return nil
	}
	w.values[field] = value
	s.banner = Banner{}

	if field == FieldLoginBarcode {
		return s.lookupOperator(w)
	}
	if w.last() {
		return s.finish(w)
	}
	w.step++
	s.prepareInput()
	return nil
}

// cancel discards every partial value and returns to Normal.
func (s *Session) cancel() {
	s.wizard = nil
	s.confirm = ""
	s.input.Reset()
	s.input.Blur()
	s.phase = PhaseNormal
	s.banner = Banner{}
}

// finish dispatches a completed wizard to its finisher.
func (s *Session) finish(w *Wizard) *Call {
	switch w.kind {
	case WizardLogin:
		return s.authenticate(w)
	case WizardUnlock:
		s.unlock(w)
		return nil
	case WizardTerminalKey:
		s.configureTerminalKey(w)
		return nil
	case WizardScan:
		return s.gatekeep(w)
	case WizardTransfer:
		s.requestTransferConfirmation(w)
		return nil
	case WizardSearch:
		return s.search(w.values[FieldSearchQuery])
	case WizardAccountLookup:
		return s.lookupAccount(w)
	case WizardBalance:
		return s.lookupBalance(w)
	}
	s.cancel()
	return nil
}
