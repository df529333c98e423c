// Package frames tracks the four fixed frame slots of the wall, which one is
// active for the current artist, and which ones currently show artwork.
package frames

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/example/spraywall/internal/artwork"
)

// ErrSlotOutOfRange is returned for indexes outside 0..FrameCount-1.
var ErrSlotOutOfRange = errors.New("frame slot out of range")

// Slot is one fixed display position and the mask bound to it.
type Slot struct {
	Index   int
	Name    string
	MaskRef string
}

// DefaultSlots returns Frame 1..Frame 4 bound to the builtin masks.
func DefaultSlots() []Slot {
	slots := make([]Slot, artwork.FrameCount)
	for i := range slots {
		slots[i] = Slot{
			Index:   i,
			Name:    fmt.Sprintf("Frame %d", i+1),
			MaskRef: fmt.Sprintf("builtin:mask/%d", i),
		}
	}
	return slots
}

// StartPolicy picks the slot a new session starts on.
type StartPolicy func(r *rand.Rand) int

// StartRandom selects uniformly across all slots.
func StartRandom() StartPolicy {
	return func(r *rand.Rand) int {
		if r == nil {
			return rand.IntN(artwork.FrameCount)
		}
		return r.IntN(artwork.FrameCount)
	}
}

// StartFixed always selects idx. Out-of-range values fall back to slot 0.
func StartFixed(idx int) StartPolicy {
	return func(*rand.Rand) int {
		if !artwork.ValidFrame(idx) {
			return 0
		}
		return idx
	}
}

// Registry is a lookup plus selection policy. It persists nothing.
type Registry struct {
	slots    []Slot
	current  int
	occupied [artwork.FrameCount]bool
}

// NewRegistry builds a registry from slots. Missing entries take their
// defaults, so a partial list from configuration is accepted.
func NewRegistry(slots []Slot) *Registry {
	all := DefaultSlots()
	for _, s := range slots {
		if !artwork.ValidFrame(s.Index) {
			continue
		}
		if s.Name != "" {
			all[s.Index].Name = s.Name
		}
		if s.MaskRef != "" {
			all[s.Index].MaskRef = s.MaskRef
		}
	}
	return &Registry{slots: all}
}

// Start chooses the active slot using policy and returns it. A policy
// result outside the valid range selects slot 0.
func (r *Registry) Start(policy StartPolicy, rng *rand.Rand) Slot {
	if policy == nil {
		policy = StartRandom()
	}
	idx := policy(rng)
	if !artwork.ValidFrame(idx) {
		idx = 0
	}
	r.current = idx
	return r.slots[r.current]
}

// Slots returns the slots in index order.
func (r *Registry) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Slot looks up one slot.
func (r *Registry) Slot(idx int) (Slot, error) {
	if !artwork.ValidFrame(idx) {
		return Slot{}, fmt.Errorf("%w: %d", ErrSlotOutOfRange, idx)
	}
	return r.slots[idx], nil
}

// Current returns the active slot.
func (r *Registry) Current() Slot {
	return r.slots[r.current]
}

// SetSlot makes idx the active slot.
func (r *Registry) SetSlot(idx int) (Slot, error) {
	s, err := r.Slot(idx)
	if err != nil {
		return Slot{}, err
	}
	r.current = idx
	return s, nil
}

// Occupancy reports, per slot, whether artwork is currently displayed.
func (r *Registry) Occupancy() []bool {
	out := make([]bool, artwork.FrameCount)
	copy(out, r.occupied[:])
	return out
}

// Refresh replaces the occupancy view with one derived from state.
func (r *Registry) Refresh(state artwork.DisplayState) {
	for i := range r.occupied {
		r.occupied[i] = state.Occupied(i)
	}
}

// MarkOccupied optimistically patches occupancy after a local submission.
func (r *Registry) MarkOccupied(idx int) {
	if artwork.ValidFrame(idx) {
		r.occupied[idx] = true
	}
}
