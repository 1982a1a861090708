package services

import (
	"testing"
	"time"
)

func TestExpandLeaveWindow(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	start := time.Date(2026, 3, 2, 10, 30, 0, 0, loc)
	end := time.Date(2026, 3, 4, 0, 0, 0, 0, loc)

	windowStart, windowEnd := ExpandLeaveWindow(start, end)

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 3, 4, 23, 59, 59, 0, loc)
	if !windowStart.Equal(wantStart) {
		t.Fatalf("window start = %v, want %v", windowStart, wantStart)
	}
	if !windowEnd.Equal(wantEnd) {
		t.Fatalf("window end = %v, want %v", windowEnd, wantEnd)
	}

	// A session at 08:00 on the last day is inside the window
	session := time.Date(2026, 3, 4, 8, 0, 0, 0, loc)
	if session.Before(windowStart) || session.After(windowEnd) {
		t.Fatal("session on the last leave day should fall inside the window")
	}

	// A session the next morning is outside
	next := time.Date(2026, 3, 5, 8, 0, 0, 0, loc)
	if !next.After(windowEnd) {
		t.Fatal("session after the leave window should fall outside it")
	}
}

func TestExpandLeaveWindowSingleDay(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	windowStart, windowEnd := ExpandLeaveWindow(day, day)
	if !windowStart.Equal(day) {
		t.Fatalf("window start = %v, want %v", windowStart, day)
	}
	if got := windowEnd.Sub(windowStart); got != 23*time.Hour+59*time.Minute+59*time.Second {
		t.Fatalf("single day window spans %v", got)
	}
}
