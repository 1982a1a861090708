package services

import (
	"campushub_go/database"
	"campushub_go/models"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// scheduleColors is the fixed palette schedules are colored from when the
// caller does not pick a color.
var scheduleColors = []string{
	"#4CAF50",
	"#2196F3",
	"#FF9800",
	"#E91E63",
	"#9C27B0",
	"#00BCD4",
	"#795548",
	"#607D8B",
	"#F44336",
	"#3F51B5",
	"#009688",
	"#FFEB3B",
	"#673AB7",
	"#8BC34A",
	"#FF5722",
}

// GenerateScheduleColor picks a palette color deterministically from the
// course id, so every schedule of one course renders the same color.
func GenerateScheduleColor(courseID string) string {
	var hash int32
	for i := 0; i < len(courseID); i++ {
		hash = hash*31 + int32(courseID[i])
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return scheduleColors[idx%int64(len(scheduleColors))]
}

type ScheduleService struct{}

type CreateScheduleInput struct {
	CourseID      string `json:"course_id"`
	GroupID       uint   `json:"group_id"`
	Semester      int    `json:"semester"`
	SemesterWeeks int    `json:"semester_weeks"`
	DayOfWeek     string `json:"day_of_week"`
	StartSlot     string `json:"start_slot"`
	Duration      int    `json:"duration"`
	Type          string `json:"type"`
	RoomNumber    string `json:"room_number"`
	Color         string `json:"color"`
}

// UpdateScheduleInput uses pointers so omitted fields keep their stored values.
type UpdateScheduleInput struct {
	CourseID      *string `json:"course_id"`
	GroupID       *uint   `json:"group_id"`
	Semester      *int    `json:"semester"`
	SemesterWeeks *int    `json:"semester_weeks"`
	DayOfWeek     *string `json:"day_of_week"`
	StartSlot     *string `json:"start_slot"`
	Duration      *int    `json:"duration"`
	Type          *string `json:"type"`
	RoomNumber    *string `json:"room_number"`
	Color         *string `json:"color"`
	IsActive      *bool   `json:"is_active"`
}

// Create validates the slot geometry and both conflict dimensions, then
// persists the schedule.
func (s *ScheduleService) Create(input *CreateScheduleInput) (*models.Schedule, error) {
	if models.SlotIndex(input.StartSlot) == -1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid start time slot")
	}
	if !models.IsValidDayOfWeek(input.DayOfWeek) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid day of week")
	}
	if input.Duration < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Duration must be at least 1 hour")
	}

	// A meeting may not run past its morning or afternoon block
	if available := models.RemainingSlotsInBlock(input.StartSlot); input.Duration > available {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Duration of %d hours exceeds available slots. Maximum %d hours available in this session.", input.Duration, available))
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", input.CourseID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
	}

	if conflict, err := s.checkGroupConflict(input.GroupID, input.Semester, input.DayOfWeek, input.StartSlot, input.Duration, 0); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Schedule conflict: %s is already scheduled for this group at this time", conflict.Course.Name))
	}

	if course.TeacherID != nil {
		if conflict, err := s.checkTeacherConflict(*course.TeacherID, input.Semester, input.DayOfWeek, input.StartSlot, input.Duration, 0); err != nil {
			return nil, err
		} else if conflict != nil {
			groupName := "another group"
			if conflict.Group.Name != "" {
				groupName = conflict.Group.Name
			}
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Teacher conflict: Teacher is already scheduled for %s with %s at this time", conflict.Course.Name, groupName))
		}
	}

	color := input.Color
	if color == "" {
		color = GenerateScheduleColor(input.CourseID)
	}
	semesterWeeks := input.SemesterWeeks
	if semesterWeeks == 0 {
		semesterWeeks = 16
	}

	schedule := models.Schedule{
		CourseID:      input.CourseID,
		GroupID:       input.GroupID,
		Semester:      input.Semester,
		SemesterWeeks: semesterWeeks,
		DayOfWeek:     input.DayOfWeek,
		StartSlot:     input.StartSlot,
		Duration:      input.Duration,
		Type:          input.Type,
		RoomNumber:    input.RoomNumber,
		Color:         color,
		IsActive:      true,
	}
	if err := database.DB.Create(&schedule).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create schedule")
	}
	return &schedule, nil
}

// Update merges the changed fields over the stored row, re-running conflict
// checks (excluding the row itself) whenever a time-affecting field changes.
func (s *ScheduleService) Update(id uint, input *UpdateScheduleInput) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := database.DB.First(&schedule, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	groupID := schedule.GroupID
	semester := schedule.Semester
	dayOfWeek := schedule.DayOfWeek
	startSlot := schedule.StartSlot
	duration := schedule.Duration
	courseID := schedule.CourseID
	if input.GroupID != nil {
		groupID = *input.GroupID
	}
	if input.Semester != nil {
		semester = *input.Semester
	}
	if input.DayOfWeek != nil {
		dayOfWeek = *input.DayOfWeek
	}
	if input.StartSlot != nil {
		startSlot = *input.StartSlot
	}
	if input.Duration != nil {
		duration = *input.Duration
	}
	if input.CourseID != nil {
		courseID = *input.CourseID
	}

	if models.SlotIndex(startSlot) == -1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid start time slot")
	}
	if !models.IsValidDayOfWeek(dayOfWeek) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid day of week")
	}
	if available := models.RemainingSlotsInBlock(startSlot); duration > available || duration < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Duration of %d hours exceeds available slots. Maximum %d hours available in this session.", duration, available))
	}

	timeChanged := input.DayOfWeek != nil || input.StartSlot != nil || input.Duration != nil ||
		input.GroupID != nil || input.Semester != nil

	if timeChanged {
		if conflict, err := s.checkGroupConflict(groupID, semester, dayOfWeek, startSlot, duration, id); err != nil {
			return nil, err
		} else if conflict != nil {
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Schedule conflict: %s is already scheduled for this group at this time", conflict.Course.Name))
		}
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
	}
	if course.TeacherID != nil && (timeChanged || input.CourseID != nil) {
		if conflict, err := s.checkTeacherConflict(*course.TeacherID, semester, dayOfWeek, startSlot, duration, id); err != nil {
			return nil, err
		} else if conflict != nil {
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Teacher conflict: Teacher is already scheduled for %s at this time", conflict.Course.Name))
		}
	}

	schedule.CourseID = courseID
	schedule.GroupID = groupID
	schedule.Semester = semester
	schedule.DayOfWeek = dayOfWeek
	schedule.StartSlot = startSlot
	schedule.Duration = duration
	if input.SemesterWeeks != nil {
		schedule.SemesterWeeks = *input.SemesterWeeks
	}
	if input.Type != nil {
		schedule.Type = *input.Type
	}
	if input.RoomNumber != nil {
		schedule.RoomNumber = *input.RoomNumber
	}
	if input.Color != nil {
		schedule.Color = *input.Color
	}
	if input.IsActive != nil {
		schedule.IsActive = *input.IsActive
	}
	schedule.Course = models.Course{}
	schedule.Group = models.Group{}

	if err := database.DB.Save(&schedule).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update schedule")
	}
	return &schedule, nil
}

// Remove hard-deletes a schedule.
func (s *ScheduleService) Remove(id uint) error {
	result := database.DB.Unscoped().Delete(&models.Schedule{}, id)
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete schedule")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}
	return nil
}

// FindOne loads a schedule with its course and group.
func (s *ScheduleService) FindOne(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := database.DB.Preload("Course").Preload("Course.Teacher").Preload("Group").Preload("Group.Program").
		First(&schedule, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}
	return &schedule, nil
}

// FindByGroup lists a group's active schedules, optionally for one semester.
// semester <= 0 means all semesters.
func (s *ScheduleService) FindByGroup(groupID uint, semester int) ([]models.Schedule, error) {
	query := database.DB.Preload("Course").Preload("Course.Teacher").Preload("Group").Preload("Group.Program").
		Where("group_id = ? AND is_active = ?", groupID, true)
	if semester > 0 {
		query = query.Where("semester = ?", semester)
	}
	var schedules []models.Schedule
	if err := query.Order("day_of_week ASC, start_slot ASC").Find(&schedules).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch schedules")
	}
	return schedules, nil
}

// FindByGroupFormatted buckets a group's schedules per day of week, keeping
// days without meetings as empty lists so the caller gets a complete grid.
func (s *ScheduleService) FindByGroupFormatted(groupID uint, semester int) (map[string][]models.Schedule, error) {
	schedules, err := s.FindByGroup(groupID, semester)
	if err != nil {
		return nil, err
	}
	return BucketSchedulesByDay(schedules), nil
}

// BucketSchedulesByDay groups schedules by their day of week over the full
// calendar, preserving the incoming order within each day.
func BucketSchedulesByDay(schedules []models.Schedule) map[string][]models.Schedule {
	result := make(map[string][]models.Schedule, len(models.DaysOfWeek))
	for _, day := range models.DaysOfWeek {
		result[day] = []models.Schedule{}
	}
	for _, schedule := range schedules {
		result[schedule.DayOfWeek] = append(result[schedule.DayOfWeek], schedule)
	}
	return result
}

// FindByCourse lists the active schedules of one course.
func (s *ScheduleService) FindByCourse(courseID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := database.DB.Preload("Course").Preload("Group").
		Where("course_id = ? AND is_active = ?", courseID, true).
		Order("day_of_week ASC, start_slot ASC").Find(&schedules).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch schedules")
	}
	return schedules, nil
}

// FindByTeacherProfile lists a teacher's schedules given the directory profile
// id. Courses reference the account id, so the profile is resolved first.
func (s *ScheduleService) FindByTeacherProfile(teacherProfileID uint, semester int) ([]models.Schedule, error) {
	var teacher models.Teacher
	if err := database.DB.Select("user_id").First(&teacher, teacherProfileID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	}
	if teacher.UserID == nil {
		return []models.Schedule{}, nil
	}
	return s.FindByTeacherUser(*teacher.UserID, semester)
}

// FindByTeacherUser lists the active schedules of every course taught by the
// given account.
func (s *ScheduleService) FindByTeacherUser(userID uint, semester int) ([]models.Schedule, error) {
	query := database.DB.Preload("Course").Preload("Course.Teacher").Preload("Group").Preload("Group.Program").
		Joins("JOIN courses ON courses.id = schedules.course_id").
		Where("courses.teacher_id = ? AND schedules.is_active = ?", userID, true)
	if semester > 0 {
		query = query.Where("schedules.semester = ?", semester)
	}
	var schedules []models.Schedule
	if err := query.Order("schedules.day_of_week ASC, schedules.start_slot ASC").Find(&schedules).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch schedules")
	}
	return schedules, nil
}

func (s *ScheduleService) checkGroupConflict(groupID uint, semester int, dayOfWeek, startSlot string, duration int, excludeID uint) (*models.Schedule, error) {
	var existing []models.Schedule
	if err := database.DB.Preload("Course").
		Where("group_id = ? AND semester = ? AND day_of_week = ? AND is_active = ?", groupID, semester, dayOfWeek, true).
		Find(&existing).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check schedule conflicts")
	}
	return FindOverlappingSchedule(existing, startSlot, duration, excludeID), nil
}

func (s *ScheduleService) checkTeacherConflict(teacherUserID uint, semester int, dayOfWeek, startSlot string, duration int, excludeID uint) (*models.Schedule, error) {
	var existing []models.Schedule
	if err := database.DB.Preload("Course").Preload("Group").
		Joins("JOIN courses ON courses.id = schedules.course_id").
		Where("courses.teacher_id = ? AND schedules.semester = ? AND schedules.day_of_week = ? AND schedules.is_active = ?",
			teacherUserID, semester, dayOfWeek, true).
		Find(&existing).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check schedule conflicts")
	}
	return FindOverlappingSchedule(existing, startSlot, duration, excludeID), nil
}

// FindOverlappingSchedule returns the first schedule whose slot interval
// intersects [startSlot, startSlot+duration-1], skipping excludeID.
func FindOverlappingSchedule(schedules []models.Schedule, startSlot string, duration int, excludeID uint) *models.Schedule {
	for i := range schedules {
		existing := &schedules[i]
		if excludeID != 0 && existing.ID == excludeID {
			continue
		}
		if models.SlotsOverlap(startSlot, duration, existing.StartSlot, existing.Duration) {
			return existing
		}
	}
	return nil
}
