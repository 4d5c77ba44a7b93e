package quote

import (
	"strings"
	"sync"

	"github.com/mak3d/quotedesk/types"
)

// Placeholders substituted by the composer when a draft field is unset.
const (
	ReferencePlaceholder = "[Link]"
	PricePlaceholder     = "Quote Request"
)

// ErrEmptyReference is returned by ConfirmDraft when no model reference has been entered.
var ErrEmptyReference = types.NewInvalidRequestError("model reference is required")

// Draft is the in-progress quote message's inputs.
type Draft struct {
	ModelReference string `json:"model_reference"`
	EstimatedPrice string `json:"estimated_price"`
	IsFinalized    bool   `json:"is_finalized"`
}

// State is a point-in-time copy of a Desk.
type State struct {
	Draft Draft `json:"draft"`
	Open  bool  `json:"open"`
}

// Desk holds the quote draft and the contact panel visibility for one visitor.
// All mutation goes through its methods. The zero value is an empty, closed desk.
type Desk struct {
	mu    sync.RWMutex
	draft Draft
	open  bool
}

// NewDesk returns an empty, closed desk.
func NewDesk() *Desk {
	return &Desk{}
}

// OpenBlank shows the contact panel for manual entry. Existing reference and
// price are kept; the draft goes back to editable.
func (d *Desk) OpenBlank() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.draft.IsFinalized = false
}

// PrepareQuote fills the draft from an analysis and shows it ready to send.
func (d *Desk) PrepareQuote(reference, price string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = Draft{
		ModelReference: reference,
		EstimatedPrice: price,
		IsFinalized:    true,
	}
	d.open = true
}

// SetReference records a manually typed model reference. It does not finalize.
func (d *Desk) SetReference(reference string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft.ModelReference = reference
}

// ConfirmDraft finalizes a manually entered draft. A blank reference is
// rejected and leaves the desk unchanged.
func (d *Desk) ConfirmDraft() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(d.draft.ModelReference) == "" {
		return ErrEmptyReference
	}
	d.draft.IsFinalized = true
	return nil
}

// Reset clears the draft. Visibility is unchanged.
func (d *Desk) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = Draft{}
}

// Close hides the panel. Draft fields survive so reopening resumes the edit.
func (d *Desk) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

// Snapshot returns the current draft.
func (d *Desk) Snapshot() Draft {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.draft
}

// State returns the draft together with panel visibility.
func (d *Desk) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return State{Draft: d.draft, Open: d.open}
}

// IsOpen reports whether the contact panel is visible.
func (d *Desk) IsOpen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.open
}
