package frames

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/example/spraywall/internal/artwork"
)

func TestDefaultSlots(t *testing.T) {
	r := NewRegistry(nil)
	slots := r.Slots()
	if len(slots) != artwork.FrameCount {
		t.Fatalf("got %d slots", len(slots))
	}
	if slots[0].Name != "Frame 1" || slots[3].MaskRef != "builtin:mask/3" {
		t.Fatalf("unexpected defaults %+v", slots)
	}
}

func TestNewRegistryMergesOverrides(t *testing.T) {
	r := NewRegistry([]Slot{{Index: 2, Name: "Mural"}, {Index: 9, Name: "ignored"}})
	s, err := r.Slot(2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "Mural" || s.MaskRef != "builtin:mask/2" {
		t.Fatalf("unexpected slot %+v", s)
	}
}

func TestSetSlotRejectsOutOfRange(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.SetSlot(4); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
	if _, err := r.SetSlot(-1); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
	if s, err := r.SetSlot(3); err != nil || r.Current() != s {
		t.Fatalf("SetSlot(3) = %+v, %v", s, err)
	}
}

func TestStartPolicies(t *testing.T) {
	r := NewRegistry(nil)
	if s := r.Start(StartFixed(2), nil); s.Index != 2 {
		t.Fatalf("fixed start gave %d", s.Index)
	}
	if s := r.Start(StartFixed(7), nil); s.Index != 0 {
		t.Fatalf("invalid fixed start gave %d", s.Index)
	}

	if s := r.Start(func(*rand.Rand) int { return 9 }, nil); s.Index != 0 || r.Current().Index != 0 {
		t.Fatalf("out-of-range policy gave %d", s.Index)
	}
	if s := r.Start(func(*rand.Rand) int { return -3 }, nil); s.Index != 0 {
		t.Fatalf("negative policy gave %d", s.Index)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[r.Start(StartRandom(), rng).Index] = true
	}
	if len(seen) != artwork.FrameCount {
		t.Fatalf("random start only reached %v", seen)
	}
}

func TestOccupancy(t *testing.T) {
	r := NewRegistry(nil)
	state := artwork.EmptyDisplayState()
	state[1] = &artwork.Record{ID: "a", FrameIndex: 1}
	r.Refresh(state)
	if got := r.Occupancy(); got[0] || !got[1] || got[2] || got[3] {
		t.Fatalf("unexpected occupancy %v", got)
	}
	r.MarkOccupied(3)
	r.MarkOccupied(42)
	if got := r.Occupancy(); !got[3] {
		t.Fatalf("expected slot 3 occupied, got %v", got)
	}
	r.Refresh(artwork.EmptyDisplayState())
	for i, v := range r.Occupancy() {
		if v {
			t.Fatalf("slot %d still occupied after refresh", i)
		}
	}
}
