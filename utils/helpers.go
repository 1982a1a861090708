package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Code alphabet excludes 0/O, 1/I and similar lookalikes so codes read
// unambiguously off a projector or a phone screen.
const attendanceCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// AttendanceCodeLength is the fixed length of session check-in codes.
const AttendanceCodeLength = 6

// GenerateAttendanceCode returns a random uppercase check-in code.
func GenerateAttendanceCode() (string, error) {
	var sb strings.Builder
	sb.Grow(AttendanceCodeLength)
	max := big.NewInt(int64(len(attendanceCodeAlphabet)))
	for i := 0; i < AttendanceCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(attendanceCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeAttendanceCode canonicalizes user input before lookup.
func NormalizeAttendanceCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
