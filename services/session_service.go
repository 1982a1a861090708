package services

import (
	"campushub_go/database"
	"campushub_go/middleware"
	"campushub_go/models"
	"campushub_go/utils"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionService struct{}

type CreateSessionInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    string    `json:"course_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type UpdateSessionInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// TimeRangesOverlap reports whether the half-open intervals [startA, endA)
// and [startB, endB) intersect.
func TimeRangesOverlap(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// SessionExpired reports whether a session in the given status should be
// force-completed at now. Only active sessions expire, and only strictly
// after their end time.
func SessionExpired(status string, endTime, now time.Time) bool {
	return status == models.SessionStatusActive && endTime.Before(now)
}

// sessionConflictError reports the first clash between the proposed title or
// time range and the candidate sessions of the same course. Cancelled
// candidates and the row identified by excludeID never conflict.
func sessionConflictError(candidates []models.Session, excludeID, title string, start, end time.Time) error {
	for i := range candidates {
		c := &candidates[i]
		if c.ID == excludeID || c.Status == models.SessionStatusCancelled {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(c.Title), title) {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("A session titled %q already exists for this course", title))
		}
		if TimeRangesOverlap(start, end, c.StartTime, c.EndTime) {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Session time overlaps with %q", c.Title))
		}
	}
	return nil
}

// isDuplicateKey matches the duplicate-key sentinel even when the driver
// wraps it.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Create makes a new session for a course. Only the course's assigned teacher
// may create sessions; admins are barred so session ownership stays unambiguous.
func (s *SessionService) Create(input *CreateSessionInput, principal *middleware.Principal) (*models.Session, error) {
	if principal.Role != "teacher" {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only teachers can create sessions")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Title is required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "End time must be after start time")
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", input.CourseID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
	}
	if course.TeacherID == nil || *course.TeacherID != principal.UserID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the course teacher can create sessions")
	}

	if err := s.checkCourseConflicts(input.CourseID, "", title, input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	code, err := utils.GenerateAttendanceCode()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to generate attendance code")
	}

	session := models.Session{
		Title:          title,
		Description:    input.Description,
		CourseID:       input.CourseID,
		CreatedByID:    principal.UserID,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		AttendanceCode: code,
		Status:         models.SessionStatusScheduled,
		IsCodeActive:   true,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		if isDuplicateKey(err) {
			// The unique attendance_code index lost a collision race
			return nil, fiber.NewError(fiber.StatusConflict, "Attendance code collision, please retry")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}
	return &session, nil
}

// checkCourseConflicts loads a course's non-cancelled sessions and rejects a
// title or time range that clashes with any of them, skipping excludeID.
func (s *SessionService) checkCourseConflicts(courseID, excludeID, title string, start, end time.Time) error {
	var existing []models.Session
	if err := database.DB.Where("course_id = ? AND status <> ?", courseID, models.SessionStatusCancelled).
		Find(&existing).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing sessions")
	}
	return sessionConflictError(existing, excludeID, title, start, end)
}

// FindAll lists sessions. Admins see everything; teachers see only sessions
// they created. Expired active sessions are closed first.
func (s *SessionService) FindAll(principal *middleware.Principal) ([]models.Session, error) {
	s.CloseExpired()

	query := database.DB.Preload("Course").Preload("CreatedBy")
	if !principal.IsAdmin() {
		query = query.Where("created_by_id = ?", principal.UserID)
	}
	var sessions []models.Session
	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch sessions")
	}
	return sessions, nil
}

// FindByCourse lists all sessions of one course, newest first.
func (s *SessionService) FindByCourse(courseID string) ([]models.Session, error) {
	s.CloseExpired()

	var sessions []models.Session
	if err := database.DB.Preload("Course").Preload("CreatedBy").
		Where("course_id = ?", courseID).
		Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch sessions")
	}
	return sessions, nil
}

// FindOne loads a session with its course, creator and attendance rows.
func (s *SessionService) FindOne(id string) (*models.Session, error) {
	s.CloseExpired()

	var session models.Session
	if err := database.DB.Preload("Course").Preload("CreatedBy").
		Preload("Attendances").Preload("Attendances.Student").
		First(&session, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return &session, nil
}

// FindByCode resolves a session from its check-in code. Codes are stored
// upper-cased, so lookups normalize first.
func (s *SessionService) FindByCode(code string) (*models.Session, error) {
	var session models.Session
	if err := database.DB.Preload("Course").
		First(&session, "attendance_code = ?", utils.NormalizeAttendanceCode(code)).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Invalid attendance code")
	}
	return &session, nil
}

// Update patches a session's descriptive fields and time range.
func (s *SessionService) Update(id string, input *UpdateSessionInput, principal *middleware.Principal) (*models.Session, error) {
	session, err := s.findOwned(id, principal, "Only the session creator or admin can update this session")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Title cannot be empty")
		}
		session.Title = title
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.StartTime != nil {
		session.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		session.EndTime = *input.EndTime
	}
	if !session.EndTime.After(session.StartTime) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "End time must be after start time")
	}
	if input.Title != nil || input.StartTime != nil || input.EndTime != nil {
		if err := s.checkCourseConflicts(session.CourseID, session.ID, session.Title, session.StartTime, session.EndTime); err != nil {
			return nil, err
		}
	}

	if err := database.DB.Save(session).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update session")
	}
	return session, nil
}

// CheckActivationWindow verifies now falls within the session's time range.
func CheckActivationWindow(session *models.Session, now time.Time) error {
	if now.Before(session.StartTime) || now.After(session.EndTime) {
		const layout = "2006-01-02 15:04"
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Session can only be activated between %s and %s (current time %s)",
				session.StartTime.Local().Format(layout),
				session.EndTime.Local().Format(layout),
				now.Local().Format(layout)))
	}
	return nil
}

// Activate moves a session into the active state and enables its code.
// Activation is gated on the current time falling inside the session window.
func (s *SessionService) Activate(id string, principal *middleware.Principal) (*models.Session, error) {
	session, err := s.findOwned(id, principal, "Unauthorized")
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusCancelled {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session is already "+session.Status)
	}
	if err := CheckActivationWindow(session, time.Now()); err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusActive
	session.IsCodeActive = true
	if err := database.DB.Save(session).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to activate session")
	}
	return session, nil
}

// Complete closes a session and deactivates its code.
func (s *SessionService) Complete(id string, principal *middleware.Principal) (*models.Session, error) {
	session, err := s.findOwned(id, principal, "Unauthorized")
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusCompleted
	session.IsCodeActive = false
	if err := database.DB.Save(session).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to complete session")
	}
	return session, nil
}

// Cancel aborts a scheduled or active session.
func (s *SessionService) Cancel(id string, principal *middleware.Principal) (*models.Session, error) {
	session, err := s.findOwned(id, principal, "Unauthorized")
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCompleted {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Completed sessions cannot be cancelled")
	}

	session.Status = models.SessionStatusCancelled
	session.IsCodeActive = false
	if err := database.DB.Save(session).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to cancel session")
	}
	return session, nil
}

// RegenerateCode re-rolls a session's check-in code without touching status.
func (s *SessionService) RegenerateCode(id string, principal *middleware.Principal) (*models.Session, error) {
	session, err := s.findOwned(id, principal, "Unauthorized")
	if err != nil {
		return nil, err
	}

	code, err2 := utils.GenerateAttendanceCode()
	if err2 != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to generate attendance code")
	}
	session.AttendanceCode = code
	if err := database.DB.Save(session).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Attendance code collision, please retry")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to regenerate code")
	}
	return session, nil
}

// Remove deletes a session.
func (s *SessionService) Remove(id string, principal *middleware.Principal) error {
	session, err := s.findOwned(id, principal, "Unauthorized")
	if err != nil {
		return err
	}
	if err := database.DB.Delete(&models.Session{}, "id = ?", session.ID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete session")
	}
	return nil
}

// CloseExpired transitions every session SessionExpired selects to completed
// with an inactive code, returning the number closed. Called opportunistically
// before list and read paths, so redundant calls are cheap no-ops.
func (s *SessionService) CloseExpired() int64 {
	now := time.Now()
	var active []models.Session
	if err := database.DB.Select("id", "status", "end_time").
		Where("status = ?", models.SessionStatusActive).
		Find(&active).Error; err != nil {
		return 0
	}
	expired := make([]string, 0, len(active))
	for i := range active {
		if SessionExpired(active[i].Status, active[i].EndTime, now) {
			expired = append(expired, active[i].ID)
		}
	}
	if len(expired) == 0 {
		return 0
	}
	result := database.DB.Model(&models.Session{}).
		Where("id IN ? AND status = ?", expired, models.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusCompleted,
			"is_code_active": false,
		})
	if result.Error != nil {
		return 0
	}
	return result.RowsAffected
}

// FindUpcomingForStudent lists active or still-pending sessions of every
// course the student's group is scheduled for, soonest first.
func (s *SessionService) FindUpcomingForStudent(principal *middleware.Principal) ([]models.Session, error) {
	if principal.GroupID == nil {
		return []models.Session{}, nil
	}
	s.CloseExpired()

	courseIDs, err := scheduledCourseIDs(*principal.GroupID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return []models.Session{}, nil
	}

	var sessions []models.Session
	if err := database.DB.Preload("Course").
		Where("course_id IN ?", courseIDs).
		Where("status = ? OR (status = ? AND end_time > ?)",
			models.SessionStatusActive, models.SessionStatusScheduled, time.Now()).
		Order("start_time ASC").Find(&sessions).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch upcoming sessions")
	}
	return sessions, nil
}

// scheduledCourseIDs returns the distinct courses a group meets for.
func scheduledCourseIDs(groupID uint) ([]string, error) {
	var courseIDs []string
	if err := database.DB.Model(&models.Schedule{}).Distinct("course_id").
		Where("group_id = ? AND is_active = ?", groupID, true).
		Pluck("course_id", &courseIDs).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve group schedules")
	}
	return courseIDs, nil
}

// findOwned loads a session and enforces creator-or-admin access.
func (s *SessionService) findOwned(id string, principal *middleware.Principal, forbiddenMsg string) (*models.Session, error) {
	var session models.Session
	if err := database.DB.Preload("Course").First(&session, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	if !principal.IsAdmin() && session.CreatedByID != principal.UserID {
		return nil, fiber.NewError(fiber.StatusForbidden, forbiddenMsg)
	}
	return &session, nil
}
