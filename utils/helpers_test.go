package utils

import (
	"strings"
	"testing"
)

func TestGenerateAttendanceCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateAttendanceCode()
		if err != nil {
			t.Fatalf("GenerateAttendanceCode returned error: %v", err)
		}
		if len(code) != AttendanceCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), AttendanceCodeLength)
		}
		for _, ch := range code {
			if !strings.ContainsRune(attendanceCodeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
		seen[code] = true
	}
	// 200 draws from a 32^6 space should essentially never collide
	if len(seen) < 190 {
		t.Fatalf("suspiciously many duplicate codes: %d unique of 200", len(seen))
	}
}

func TestNormalizeAttendanceCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc234", "ABC234"},
		{"  XyZ789 ", "XYZ789"},
		{"ABCDEF", "ABCDEF"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeAttendanceCode(tc.in); got != tc.want {
			t.Fatalf("NormalizeAttendanceCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Fatal("CheckPassword rejected the correct password")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Fatal("CheckPassword accepted a wrong password")
	}
}
