package models

import (
	"reflect"
	"strings"
	"testing"
)

// A deactivated schedule must not block a replacement active schedule in the
// same slot, so the composite slot index has to stay non-unique. The active-
// only conflict rule is enforced in the service layer.
func TestScheduleSlotIndexIsNotUnique(t *testing.T) {
	typ := reflect.TypeOf(Schedule{})
	for _, name := range []string{"GroupID", "Semester", "DayOfWeek", "StartSlot"} {
		field, ok := typ.FieldByName(name)
		if !ok {
			t.Fatalf("Schedule has no field %s", name)
		}
		tag := field.Tag.Get("gorm")
		if !strings.Contains(tag, "index:idx_group_day_slot_semester") {
			t.Errorf("Schedule.%s is missing the composite slot index: %q", name, tag)
		}
		if strings.Contains(tag, "uniqueIndex") {
			t.Errorf("Schedule.%s declares a unique slot index: %q", name, tag)
		}
	}
}
