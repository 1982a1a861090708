package models

import (
	"math/rand"
	"testing"
)

func TestSlotIndexOrdering(t *testing.T) {
	if len(TimeSlotsOrder) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(TimeSlotsOrder))
	}
	for i, slot := range TimeSlotsOrder {
		if got := SlotIndex(slot); got != i {
			t.Fatalf("SlotIndex(%q) = %d, want %d", slot, got, i)
		}
	}
	if got := SlotIndex("11:00-12:00"); got != -1 {
		t.Fatalf("expected -1 for unknown slot, got %d", got)
	}
}

func TestSlotsOverlap(t *testing.T) {
	tests := []struct {
		name   string
		startA string
		durA   int
		startB string
		durB   int
		want   bool
	}{
		{"identical", Slot8to9, 1, Slot8to9, 1, true},
		{"adjacent morning", Slot7to8, 1, Slot8to9, 1, false},
		{"contained", Slot7to8, 4, Slot8to9, 1, true},
		{"tail overlap", Slot8to9, 2, Slot9to10, 2, true},
		{"across lunch gap indexes", Slot10to11, 1, Slot13to14, 1, false},
		{"afternoon same start", Slot14to15, 2, Slot14to15, 1, true},
		{"disjoint blocks", Slot7to8, 2, Slot15to16, 2, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SlotsOverlap(tc.startA, tc.durA, tc.startB, tc.durB); got != tc.want {
				t.Fatalf("SlotsOverlap(%q,%d,%q,%d) = %v, want %v",
					tc.startA, tc.durA, tc.startB, tc.durB, got, tc.want)
			}
			// Overlap is symmetric
			if got := SlotsOverlap(tc.startB, tc.durB, tc.startA, tc.durA); got != tc.want {
				t.Fatalf("overlap not symmetric for %q/%q", tc.startA, tc.startB)
			}
		})
	}
}

func TestSlotsOverlapRandomized(t *testing.T) {
	// Compare against a brute-force occupancy check over the 8-slot grid.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := rng.Intn(len(TimeSlotsOrder))
		b := rng.Intn(len(TimeSlotsOrder))
		durA := 1 + rng.Intn(4)
		durB := 1 + rng.Intn(4)

		occupied := make(map[int]bool)
		for s := a; s < a+durA; s++ {
			occupied[s] = true
		}
		want := false
		for s := b; s < b+durB; s++ {
			if occupied[s] {
				want = true
			}
		}

		got := SlotsOverlap(TimeSlotsOrder[a], durA, TimeSlotsOrder[b], durB)
		if got != want {
			t.Fatalf("iteration %d: SlotsOverlap(%d,%d,%d,%d) = %v, want %v",
				i, a, durA, b, durB, got, want)
		}
	}
}

func TestRemainingSlotsInBlock(t *testing.T) {
	tests := []struct {
		slot string
		want int
	}{
		{Slot7to8, 4},
		{Slot8to9, 3},
		{Slot10to11, 1},
		{Slot13to14, 4},
		{Slot16to17, 1},
		{"11:00-12:00", 0},
	}

	for _, tc := range tests {
		if got := RemainingSlotsInBlock(tc.slot); got != tc.want {
			t.Fatalf("RemainingSlotsInBlock(%q) = %d, want %d", tc.slot, got, tc.want)
		}
	}
}
