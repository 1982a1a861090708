package services

import (
	"campushub_go/config"
	"campushub_go/database"
	"campushub_go/middleware"
	"campushub_go/models"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceService struct{}

// MarkAttendanceInput identifies the student by directory profile id. The
// ledger itself is keyed on the linked account id, so the service resolves
// the profile before writing.
type MarkAttendanceInput struct {
	SessionID string `json:"session_id"`
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
}

type BulkMarkAttendanceInput struct {
	SessionID string `json:"session_id"`
	Records   []struct {
		StudentID uint   `json:"student_id"`
		Status    string `json:"status"`
		Remarks   string `json:"remarks"`
	} `json:"records"`
}

type AttendanceSummary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
}

// ComputeCheckInStatus derives the check-in outcome from the session start.
// Strictly later than start plus the threshold counts as late, so a check-in
// at exactly the threshold is still present.
func ComputeCheckInStatus(sessionStart, now time.Time, lateThresholdMinutes int) string {
	if now.After(sessionStart.Add(time.Duration(lateThresholdMinutes) * time.Minute)) {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}

// CheckIn records a student's self-reported presence via a session code.
func (s *AttendanceService) CheckIn(code string, principal *middleware.Principal) (*models.Attendance, error) {
	sessionSvc := SessionService{}
	session, err := sessionSvc.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if !session.IsCodeActive {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Attendance code is no longer active")
	}
	if session.Status != models.SessionStatusActive {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session is not active")
	}

	// Eligibility comes from group scheduling, not an enrollment record: the
	// student's group must have an active schedule for the session's course.
	if principal.GroupID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You are not scheduled for this course")
	}
	var scheduleCount int64
	if err := database.DB.Model(&models.Schedule{}).
		Where("group_id = ? AND course_id = ? AND is_active = ?", *principal.GroupID, session.CourseID, true).
		Count(&scheduleCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to verify course schedule")
	}
	if scheduleCount == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You are not scheduled for this course")
	}

	var existingCount int64
	if err := database.DB.Model(&models.Attendance{}).
		Where("session_id = ? AND student_id = ?", session.ID, principal.UserID).
		Count(&existingCount).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing attendance")
	}
	if existingCount > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "You have already checked in for this session")
	}

	now := time.Now()
	attendance := models.Attendance{
		SessionID:     session.ID,
		StudentID:     principal.UserID,
		Status:        ComputeCheckInStatus(session.StartTime, now, config.AppConfig.LateThresholdMinutes),
		CheckInMethod: models.CheckInMethodCode,
		CheckInTime:   &now,
	}
	if err := database.DB.Create(&attendance).Error; err != nil {
		if isDuplicateKey(err) {
			// Lost a concurrent check-in race; same outcome as the pre-check
			return nil, fiber.NewError(fiber.StatusConflict, "You have already checked in for this session")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to record attendance")
	}
	return &attendance, nil
}

// Mark upserts one attendance outcome on behalf of a teacher or admin.
func (s *AttendanceService) Mark(input *MarkAttendanceInput, principal *middleware.Principal) (*models.Attendance, error) {
	session, err := s.findOwnedSession(input.SessionID, principal)
	if err != nil {
		return nil, err
	}
	if !isValidAttendanceStatus(input.Status) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid attendance status")
	}

	var student models.Student
	if err := database.DB.First(&student, input.StudentID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
	}
	if student.UserID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Student profile has no linked account")
	}

	return s.upsert(session.ID, *student.UserID, input.Status, input.Remarks, principal.UserID)
}

// BulkMark applies up to the configured limit of outcomes against one session
// with a single ownership check. Profiles without a linked account are skipped
// with a warning so the loss stays observable. Results come back in input
// order, minus skipped entries.
func (s *AttendanceService) BulkMark(input *BulkMarkAttendanceInput, principal *middleware.Principal) ([]models.Attendance, error) {
	if len(input.Records) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No attendance records supplied")
	}
	if len(input.Records) > config.AppConfig.BulkMarkLimit {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Too many records: maximum %d per request", config.AppConfig.BulkMarkLimit))
	}

	session, err := s.findOwnedSession(input.SessionID, principal)
	if err != nil {
		return nil, err
	}

	profileIDs := make([]uint, 0, len(input.Records))
	for _, record := range input.Records {
		if !isValidAttendanceStatus(record.Status) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid attendance status")
		}
		profileIDs = append(profileIDs, record.StudentID)
	}

	// One pass resolves every directory profile to its account id
	var students []models.Student
	if err := database.DB.Where("id IN ?", profileIDs).Find(&students).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve student profiles")
	}
	userIDByProfile := make(map[uint]*uint, len(students))
	for i := range students {
		userIDByProfile[students[i].ID] = students[i].UserID
	}

	results := make([]models.Attendance, 0, len(input.Records))
	for _, record := range input.Records {
		userID, ok := userIDByProfile[record.StudentID]
		if !ok || userID == nil {
			logrus.WithFields(logrus.Fields{
				"student_profile_id": record.StudentID,
				"session_id":         session.ID,
			}).Warn("Skipping attendance record: student profile has no linked account")
			continue
		}
		attendance, err := s.upsert(session.ID, *userID, record.Status, record.Remarks, principal.UserID)
		if err != nil {
			return nil, err
		}
		results = append(results, *attendance)
	}
	return results, nil
}

// Update patches one attendance row by id.
func (s *AttendanceService) Update(id string, input *MarkAttendanceInput, principal *middleware.Principal) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := database.DB.First(&attendance, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Attendance record not found")
	}
	if _, err := s.findOwnedSession(attendance.SessionID, principal); err != nil {
		return nil, err
	}
	if input.Status != "" {
		if !isValidAttendanceStatus(input.Status) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid attendance status")
		}
		attendance.Status = input.Status
	}
	if input.Remarks != "" {
		attendance.Remarks = input.Remarks
	}
	attendance.CheckInMethod = models.CheckInMethodManual
	attendance.MarkedByID = &principal.UserID

	if err := database.DB.Save(&attendance).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update attendance")
	}
	return &attendance, nil
}

// Remove deletes one attendance row by id.
func (s *AttendanceService) Remove(id string, principal *middleware.Principal) error {
	var attendance models.Attendance
	if err := database.DB.First(&attendance, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Attendance record not found")
	}
	if _, err := s.findOwnedSession(attendance.SessionID, principal); err != nil {
		return err
	}
	if err := database.DB.Delete(&models.Attendance{}, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete attendance")
	}
	return nil
}

// FindBySession lists a session's full attendance ledger.
func (s *AttendanceService) FindBySession(sessionID string) ([]models.Attendance, error) {
	var count int64
	if err := database.DB.Model(&models.Session{}).Where("id = ?", sessionID).Count(&count).Error; err != nil || count == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	var attendances []models.Attendance
	if err := database.DB.Preload("Student").Preload("Student.Student").Preload("MarkedBy").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Find(&attendances).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	return attendances, nil
}

// SessionSummary counts the ledger rows FindBySession returns by status.
func (s *AttendanceService) SessionSummary(sessionID string) (*AttendanceSummary, error) {
	attendances, err := s.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}
	summary := SummarizeAttendances(attendances)
	return &summary, nil
}

// SummarizeAttendances tallies a ledger by status.
func SummarizeAttendances(attendances []models.Attendance) AttendanceSummary {
	summary := AttendanceSummary{Total: len(attendances)}
	for i := range attendances {
		switch attendances[i].Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		case models.AttendanceLate:
			summary.Late++
		case models.AttendanceExcused:
			summary.Excused++
		}
	}
	return summary
}

// FindByStudent lists a student's attendance history, most recent session first.
func (s *AttendanceService) FindByStudent(studentUserID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := database.DB.Preload("Session").Preload("Session.Course").
		Joins("JOIN sessions ON sessions.id = attendances.session_id").
		Where("attendances.student_id = ?", studentUserID).
		Order("sessions.start_time DESC").Find(&attendances).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	return attendances, nil
}

// FindByStudentAndCourse narrows the history to one course.
func (s *AttendanceService) FindByStudentAndCourse(studentUserID uint, courseID string) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := database.DB.Preload("Session").Preload("Session.Course").
		Joins("JOIN sessions ON sessions.id = attendances.session_id").
		Where("attendances.student_id = ? AND sessions.course_id = ?", studentUserID, courseID).
		Order("sessions.start_time DESC").Find(&attendances).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	return attendances, nil
}

// applyManualMark overwrites a ledger row's outcome fields in place. Later
// marks win unconditionally; row identity and check-in time are untouched, so
// repeated marks keep collapsing onto the same (session, student) row.
func applyManualMark(attendance *models.Attendance, status, remarks string, markedByID uint) {
	attendance.Status = status
	attendance.Remarks = remarks
	attendance.MarkedByID = &markedByID
	attendance.CheckInMethod = models.CheckInMethodManual
}

// upsert writes one manual outcome, updating in place when the (session,
// student) row already exists.
func (s *AttendanceService) upsert(sessionID string, studentUserID uint, status, remarks string, markedByID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := database.DB.Where("session_id = ? AND student_id = ?", sessionID, studentUserID).
		First(&attendance).Error
	if err == nil {
		applyManualMark(&attendance, status, remarks, markedByID)
		if err := database.DB.Save(&attendance).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update attendance")
		}
		return &attendance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing attendance")
	}

	now := time.Now()
	attendance = models.Attendance{
		SessionID:   sessionID,
		StudentID:   studentUserID,
		CheckInTime: &now,
	}
	applyManualMark(&attendance, status, remarks, markedByID)
	if err := database.DB.Create(&attendance).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Attendance already recorded for this student")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to record attendance")
	}
	return &attendance, nil
}

// findOwnedSession loads a session and enforces that the caller is its
// course's teacher or an admin.
func (s *AttendanceService) findOwnedSession(sessionID string, principal *middleware.Principal) (*models.Session, error) {
	var session models.Session
	if err := database.DB.Preload("Course").First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	if !principal.IsAdmin() {
		if session.Course.TeacherID == nil || *session.Course.TeacherID != principal.UserID {
			return nil, fiber.NewError(fiber.StatusForbidden, "Only the course teacher can manage attendance")
		}
	}
	return &session, nil
}

func isValidAttendanceStatus(status string) bool {
	switch status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceExcused:
		return true
	}
	return false
}
