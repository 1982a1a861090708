package models

// Daily scheduling grid: 8 fixed one-hour slots, 4 before the lunch break
// and 4 after it. A schedule never spans the 11:00-13:00 gap.

const (
	Slot7to8   = "07:00-08:00"
	Slot8to9   = "08:00-09:00"
	Slot9to10  = "09:00-10:00"
	Slot10to11 = "10:00-11:00"
	Slot13to14 = "13:00-14:00"
	Slot14to15 = "14:00-15:00"
	Slot15to16 = "15:00-16:00"
	Slot16to17 = "16:00-17:00"
)

// TimeSlotsOrder is the authoritative ordering used for all interval math.
var TimeSlotsOrder = []string{
	Slot7to8,
	Slot8to9,
	Slot9to10,
	Slot10to11,
	Slot13to14,
	Slot14to15,
	Slot15to16,
	Slot16to17,
}

var MorningSlots = TimeSlotsOrder[:4]
var AfternoonSlots = TimeSlotsOrder[4:]

// DaysOfWeek in calendar order, matching the stored enum values.
var DaysOfWeek = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// SlotIndex returns the position of slot in the fixed ordering, or -1 if unknown.
func SlotIndex(slot string) int {
	for i, s := range TimeSlotsOrder {
		if s == slot {
			return i
		}
	}
	return -1
}

// SlotsOverlap reports whether the closed slot intervals
// [startA, startA+durationA-1] and [startB, startB+durationB-1] intersect.
func SlotsOverlap(startA string, durationA int, startB string, durationB int) bool {
	a := SlotIndex(startA)
	b := SlotIndex(startB)
	if a < 0 || b < 0 {
		return false
	}
	aEnd := a + durationA - 1
	bEnd := b + durationB - 1
	return a <= bEnd && aEnd >= b
}

// RemainingSlotsInBlock counts the slots from startSlot to the end of the
// morning or afternoon block containing it. A duration larger than this
// would spill into the lunch gap or past 17:00.
func RemainingSlotsInBlock(startSlot string) int {
	for i, s := range MorningSlots {
		if s == startSlot {
			return len(MorningSlots) - i
		}
	}
	for i, s := range AfternoonSlots {
		if s == startSlot {
			return len(AfternoonSlots) - i
		}
	}
	return 0
}

// IsValidDayOfWeek reports whether day is one of the stored enum values.
func IsValidDayOfWeek(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// Session status values
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Attendance status values
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Check-in method values
const (
	CheckInMethodCode   = "code"
	CheckInMethodManual = "manual"
)

// Leave request status values
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)
