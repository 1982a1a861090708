package services

import (
	"campushub_go/models"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestTimeRangesOverlap(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	h := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{"identical", h(0), h(2), h(0), h(2), true},
		{"partial overlap", h(0), h(2), h(1), h(3), true},
		{"contained", h(0), h(4), h(1), h(2), true},
		{"back to back", h(0), h(2), h(2), h(4), false},
		{"disjoint", h(0), h(1), h(3), h(4), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeRangesOverlap(tc.startA, tc.endA, tc.startB, tc.endB); got != tc.want {
				t.Fatalf("TimeRangesOverlap = %v, want %v", got, tc.want)
			}
			if got := TimeRangesOverlap(tc.startB, tc.endB, tc.startA, tc.endA); got != tc.want {
				t.Fatalf("overlap not symmetric")
			}
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		endTime time.Time
		want    bool
	}{
		{"active past end", models.SessionStatusActive, now.Add(-time.Minute), true},
		{"active ending exactly now", models.SessionStatusActive, now, false},
		{"active still running", models.SessionStatusActive, now.Add(time.Hour), false},
		{"scheduled past end", models.SessionStatusScheduled, now.Add(-time.Hour), false},
		{"completed past end", models.SessionStatusCompleted, now.Add(-time.Hour), false},
		{"cancelled past end", models.SessionStatusCancelled, now.Add(-time.Hour), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionExpired(tc.status, tc.endTime, now); got != tc.want {
				t.Fatalf("SessionExpired(%q, end=%v) = %v, want %v", tc.status, tc.endTime, got, tc.want)
			}
		})
	}
}

func TestSessionConflictError(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	candidates := []models.Session{
		{
			UUIDModel: models.UUIDModel{ID: "s1"},
			Title:     "Week 1 Lecture",
			Status:    models.SessionStatusScheduled,
			StartTime: start,
			EndTime:   end,
		},
		{
			UUIDModel: models.UUIDModel{ID: "s2"},
			Title:     "Cancelled Lab",
			Status:    models.SessionStatusCancelled,
			StartTime: start,
			EndTime:   end,
		},
	}

	tests := []struct {
		name       string
		excludeID  string
		title      string
		start, end time.Time
		wantErr    bool
	}{
		{"duplicate title different case", "", "week 1 lecture", end.Add(time.Hour), end.Add(2 * time.Hour), true},
		{"duplicate title with padding", "", "  Week 1 Lecture", end.Add(time.Hour), end.Add(2 * time.Hour), true},
		{"time overlap", "", "Week 2 Lecture", start.Add(30 * time.Minute), end.Add(time.Hour), true},
		{"no clash", "", "Week 2 Lecture", end, end.Add(time.Hour), false},
		{"self is excluded", "s1", "Week 1 Lecture", start, end, false},
		{"cancelled never conflicts", "", "Cancelled Lab", end.Add(3 * time.Hour), end.Add(4 * time.Hour), false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := sessionConflictError(candidates, tc.excludeID, tc.title, tc.start, tc.end)
			if (err != nil) != tc.wantErr {
				t.Fatalf("sessionConflictError = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				fe, ok := err.(*fiber.Error)
				if !ok || fe.Code != fiber.StatusConflict {
					t.Fatalf("expected 409 fiber error, got %v", err)
				}
			}
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(gorm.ErrDuplicatedKey) {
		t.Fatal("bare sentinel not recognized")
	}
	if !isDuplicateKey(fmt.Errorf("insert failed: %w", gorm.ErrDuplicatedKey)) {
		t.Fatal("wrapped sentinel not recognized")
	}
	if isDuplicateKey(gorm.ErrRecordNotFound) {
		t.Fatal("unrelated sentinel recognized as duplicate key")
	}
	if isDuplicateKey(nil) {
		t.Fatal("nil recognized as duplicate key")
	}
}

func TestCheckActivationWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	session := &models.Session{StartTime: start, EndTime: end}

	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"before start", start.Add(-time.Minute), true},
		{"at start", start, false},
		{"inside", start.Add(30 * time.Minute), false},
		{"at end", end, false},
		{"after end", end.Add(time.Second), true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := CheckActivationWindow(session, tc.now)
			if (err != nil) != tc.wantErr {
				t.Fatalf("CheckActivationWindow(now=%v) err = %v, wantErr %v", tc.now, err, tc.wantErr)
			}
			if err != nil {
				fe, ok := err.(*fiber.Error)
				if !ok || fe.Code != fiber.StatusBadRequest {
					t.Fatalf("expected 400 fiber error, got %v", err)
				}
			}
		})
	}
}
