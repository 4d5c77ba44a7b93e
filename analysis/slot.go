package analysis

import (
	"sync"

	"github.com/mak3d/quotedesk/types"
)

// Snapshot is a point-in-time copy of a Slot.
type Snapshot struct {
	Busy       bool         `json:"busy"`
	Generation uint64       `json:"generation"`
	Reference  string       `json:"reference,omitempty"`
	Result     *Result      `json:"result,omitempty"`
	Failure    *types.Error `json:"failure,omitempty"`
}

// Slot holds the latest analysis for one visitor. Every Begin issues a new
// generation; only the completion of the most recent generation is published.
type Slot struct {
	mu        sync.Mutex
	gen       uint64
	busy      bool
	reference string
	result    *Result
	failure   *types.Error
}

// NewSlot returns an idle, empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Begin clears the previous outcome, marks the slot busy and returns the new
// generation.
func (s *Slot) Begin(reference string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.busy = true
	s.reference = reference
	s.result = nil
	s.failure = nil
	return s.gen
}

// Complete publishes the outcome of generation gen. It reports false, and
// changes nothing, when a newer generation has been issued since.
func (s *Slot) Complete(gen uint64, res *Result, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.busy = false
	if err != nil {
		s.result = nil
		s.failure = types.WrapError(err, types.ErrInternalError, "analysis failed")
		return true
	}
	s.result = res
	s.failure = nil
	return true
}

// Snapshot returns the current state.
func (s *Slot) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Busy:       s.busy,
		Generation: s.gen,
		Reference:  s.reference,
		Result:     s.result,
		Failure:    s.failure,
	}
}

// Result returns the published result, if any.
func (s *Slot) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
