package services

import (
	"campushub_go/models"
	"testing"
	"time"
)

func TestComputeCheckInStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"at start", start, models.AttendancePresent},
		{"ten minutes in", start.Add(10 * time.Minute), models.AttendancePresent},
		{"exactly at threshold", start.Add(15 * time.Minute), models.AttendancePresent},
		{"one second past threshold", start.Add(15*time.Minute + time.Second), models.AttendanceLate},
		{"sixteen minutes in", start.Add(16 * time.Minute), models.AttendanceLate},
		{"early check-in", start.Add(-5 * time.Minute), models.AttendancePresent},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeCheckInStatus(start, tc.now, 15); got != tc.want {
				t.Fatalf("ComputeCheckInStatus(now=%v) = %q, want %q", tc.now, got, tc.want)
			}
		})
	}
}

func TestSummarizeAttendances(t *testing.T) {
	attendances := []models.Attendance{
		{Status: models.AttendancePresent},
		{Status: models.AttendancePresent},
		{Status: models.AttendanceLate},
		{Status: models.AttendanceAbsent},
		{Status: models.AttendanceExcused},
		{Status: models.AttendanceExcused},
	}

	summary := SummarizeAttendances(attendances)
	if summary.Total != 6 {
		t.Fatalf("Total = %d, want 6", summary.Total)
	}
	if summary.Present != 2 || summary.Late != 1 || summary.Absent != 1 || summary.Excused != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	empty := SummarizeAttendances(nil)
	if empty.Total != 0 || empty.Present != 0 {
		t.Fatalf("empty ledger should produce zero summary, got %+v", empty)
	}
}

func TestApplyManualMark(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC)
	row := models.Attendance{
		UUIDModel:     models.UUIDModel{ID: "a1"},
		SessionID:     "s1",
		StudentID:     7,
		Status:        models.AttendancePresent,
		CheckInMethod: models.CheckInMethodCode,
		CheckInTime:   &checkIn,
	}

	applyManualMark(&row, models.AttendanceLate, "arrived late", 3)
	applyManualMark(&row, models.AttendanceExcused, "doctor's note", 4)

	if row.Status != models.AttendanceExcused {
		t.Fatalf("Status = %q, want latest mark to win", row.Status)
	}
	if row.Remarks != "doctor's note" {
		t.Fatalf("Remarks = %q, want latest remarks", row.Remarks)
	}
	if row.MarkedByID == nil || *row.MarkedByID != 4 {
		t.Fatalf("MarkedByID = %v, want 4", row.MarkedByID)
	}
	if row.CheckInMethod != models.CheckInMethodManual {
		t.Fatalf("CheckInMethod = %q, want manual", row.CheckInMethod)
	}
	if row.ID != "a1" || row.SessionID != "s1" || row.StudentID != 7 {
		t.Fatal("row identity changed by manual marks")
	}
	if row.CheckInTime == nil || !row.CheckInTime.Equal(checkIn) {
		t.Fatalf("CheckInTime = %v, want original preserved", row.CheckInTime)
	}
}

func TestIsValidAttendanceStatus(t *testing.T) {
	for _, status := range []string{
		models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceExcused,
	} {
		if !isValidAttendanceStatus(status) {
			t.Fatalf("isValidAttendanceStatus(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"", "unknown", "PRESENT", "checked-in"} {
		if isValidAttendanceStatus(status) {
			t.Fatalf("isValidAttendanceStatus(%q) = true, want false", status)
		}
	}
}
