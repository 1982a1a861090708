package services

import (
	"campushub_go/models"
	"testing"
)

func TestGenerateScheduleColor(t *testing.T) {
	// Deterministic per course id
	a := GenerateScheduleColor("6f1a2b3c-0000-4000-8000-123456789abc")
	b := GenerateScheduleColor("6f1a2b3c-0000-4000-8000-123456789abc")
	if a != b {
		t.Fatalf("color not deterministic: %q vs %q", a, b)
	}

	// Always a palette member
	ids := []string{"", "a", "course-1", "course-2", "ffffffff-ffff-ffff-ffff-ffffffffffff"}
	for _, id := range ids {
		color := GenerateScheduleColor(id)
		found := false
		for _, c := range scheduleColors {
			if c == color {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("GenerateScheduleColor(%q) = %q, not in palette", id, color)
		}
	}
}

func TestFindOverlappingSchedule(t *testing.T) {
	schedules := []models.Schedule{
		{BaseModel: models.BaseModel{ID: 1}, StartSlot: models.Slot8to9, Duration: 2},
		{BaseModel: models.BaseModel{ID: 2}, StartSlot: models.Slot13to14, Duration: 1},
	}

	tests := []struct {
		name      string
		startSlot string
		duration  int
		excludeID uint
		wantID    uint
	}{
		{"hits first", models.Slot9to10, 1, 0, 1},
		{"hits second", models.Slot13to14, 2, 0, 2},
		{"no overlap", models.Slot15to16, 2, 0, 0},
		{"exclude self", models.Slot8to9, 2, 1, 0},
		{"exclusion leaves others", models.Slot13to14, 1, 1, 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := FindOverlappingSchedule(schedules, tc.startSlot, tc.duration, tc.excludeID)
			var gotID uint
			if got != nil {
				gotID = got.ID
			}
			if gotID != tc.wantID {
				t.Fatalf("FindOverlappingSchedule = id %d, want %d", gotID, tc.wantID)
			}
		})
	}
}

func TestBucketSchedulesByDay(t *testing.T) {
	schedules := []models.Schedule{
		{BaseModel: models.BaseModel{ID: 1}, DayOfWeek: "monday", StartSlot: models.Slot7to8},
		{BaseModel: models.BaseModel{ID: 2}, DayOfWeek: "monday", StartSlot: models.Slot9to10},
		{BaseModel: models.BaseModel{ID: 3}, DayOfWeek: "friday", StartSlot: models.Slot13to14},
	}

	buckets := BucketSchedulesByDay(schedules)
	if len(buckets) != len(models.DaysOfWeek) {
		t.Fatalf("expected %d day buckets, got %d", len(models.DaysOfWeek), len(buckets))
	}
	if got := len(buckets["monday"]); got != 2 {
		t.Fatalf("monday bucket has %d entries, want 2", got)
	}
	if buckets["monday"][0].ID != 1 || buckets["monday"][1].ID != 2 {
		t.Fatal("monday bucket lost incoming order")
	}
	if got := len(buckets["sunday"]); got != 0 {
		t.Fatalf("sunday bucket should be empty, has %d", got)
	}
	if buckets["sunday"] == nil {
		t.Fatal("empty days must still be present as empty lists")
	}
}
