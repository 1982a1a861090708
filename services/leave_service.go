package services

import (
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

type LeaveService struct{}

type CreateLeaveRequestInput struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	LeaveType string    `json:"leave_type"`
	Reason    string    `json:"reason"`
}

type ReviewLeaveRequestInput struct {
	Action     string `json:"action"` // approve or reject
	ReviewNote string `json:"review_note"`
}

// ExpandLeaveWindow widens the date-only range to cover the full days, so a
// one-day leave covers every session starting that day.
func ExpandLeaveWindow(startDate, endDate time.Time) (time.Time, time.Time) {
	loc := startDate.Location()
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, loc)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())
	return start, end
}

// Create submits a leave request for the calling student or teacher.
func (s *LeaveService) Create(input *CreateLeaveRequestInput, principal *middleware.Principal) (*models.LeaveRequest, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "End date must not be before start date")
	}
	switch input.LeaveType {
	case "sick", "personal", "family", "other":
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid leave type")
	}

	request := models.LeaveRequest{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		LeaveType: input.LeaveType,
		Reason:    input.Reason,
		Status:    models.LeaveStatusPending,
	}
	switch principal.Role {
	case "student":
		request.StudentID = &principal.UserID
	case "teacher":
		request.TeacherID = &principal.UserID
	default:
		return nil, fiber.NewError(fiber.StatusForbidden, "Only students and teachers can request leave")
	}

	if err := database.DB.Create(&request).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create leave request")
	}
	return &request, nil
}

// FindAll lists every leave request, newest first.
func (s *LeaveService) FindAll() ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	if err := database.DB.Preload("Student").Preload("ReviewedBy").
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch leave requests")
	}
	return requests, nil
}

// FindMine lists the caller's own requests.
func (s *LeaveService) FindMine(principal *middleware.Principal) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	if err := database.DB.Preload("ReviewedBy").
		Where("student_id = ? OR teacher_id = ?", principal.UserID, principal.UserID).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch leave requests")
	}
	return requests, nil
}

// FindForReview lists pending requests awaiting the caller's decision.
// Teachers review student requests; admins review everything.
func (s *LeaveService) FindForReview(principal *middleware.Principal) ([]models.LeaveRequest, error) {
	query := database.DB.Preload("Student").
		Where("status = ?", models.LeaveStatusPending)
	if !principal.IsAdmin() {
		query = query.Where("student_id IS NOT NULL")
	}
	var requests []models.LeaveRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch leave requests")
	}
	return requests, nil
}

// Review approves or rejects a pending request. Approval of a student request
// triggers the attendance reconciliation sweep.
func (s *LeaveService) Review(id string, input *ReviewLeaveRequestInput, principal *middleware.Principal) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Leave request not found")
	}
	if request.Status != models.LeaveStatusPending {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Leave request has already been reviewed")
	}
	if (request.StudentID != nil && *request.StudentID == principal.UserID) ||
		(request.TeacherID != nil && *request.TeacherID == principal.UserID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "You cannot review your own leave request")
	}
	if request.TeacherID != nil && !principal.IsAdmin() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only admins can review teacher leave requests")
	}

	switch input.Action {
	case "approve":
		request.Status = models.LeaveStatusApproved
	case "reject":
		request.Status = models.LeaveStatusRejected
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Action must be approve or reject")
	}

	now := time.Now()
	request.ReviewNote = input.ReviewNote
	request.ReviewedByID = &principal.UserID
	request.ReviewedAt = &now

	if err := database.DB.Save(&request).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to review leave request")
	}

	if request.Status == models.LeaveStatusApproved && request.StudentID != nil {
		s.reconcileApprovedLeave(&request)
	}
	return &request, nil
}

// Remove deletes the caller's own pending request.
func (s *LeaveService) Remove(id string, principal *middleware.Principal) error {
	var request models.LeaveRequest
	if err := database.DB.First(&request, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Leave request not found")
	}
	owned := (request.StudentID != nil && *request.StudentID == principal.UserID) ||
		(request.TeacherID != nil && *request.TeacherID == principal.UserID)
	if !owned && !principal.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "You can only delete your own leave requests")
	}
	if request.Status != models.LeaveStatusPending {
		return fiber.NewError(fiber.StatusBadRequest, "Only pending leave requests can be deleted")
	}
	if err := database.DB.Delete(&models.LeaveRequest{}, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete leave request")
	}
	return nil
}

// reconcileApprovedLeave excuses the student from every session their group is
// scheduled for inside the leave window. Best effort: a failure on one session
// is logged and the sweep continues, already-applied excusals stay.
func (s *LeaveService) reconcileApprovedLeave(request *models.LeaveRequest) {
	var student models.Student
	if err := database.DB.Where("user_id = ?", *request.StudentID).First(&student).Error; err != nil {
		logrus.WithError(err).WithField("leave_request_id", request.ID).
			Warn("Leave reconciliation skipped: no directory profile for student")
		return
	}
	if student.GroupID == nil {
		logrus.WithField("leave_request_id", request.ID).
			Warn("Leave reconciliation skipped: student has no group")
		return
	}

	courseIDs, err := scheduledCourseIDs(*student.GroupID)
	if err != nil || len(courseIDs) == 0 {
		return
	}

	windowStart, windowEnd := ExpandLeaveWindow(request.StartDate, request.EndDate)
	var sessions []models.Session
	if err := database.DB.
		Where("course_id IN ? AND start_time >= ? AND start_time <= ?", courseIDs, windowStart, windowEnd).
		Find(&sessions).Error; err != nil {
		logrus.WithError(err).WithField("leave_request_id", request.ID).
			Error("Leave reconciliation failed to load sessions")
		return
	}

	remarks := fmt.Sprintf("Excused by approved %s leave", request.LeaveType)
	for i := range sessions {
		if err := s.excuseSession(sessions[i].ID, *request.StudentID, remarks, request.ReviewedByID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"leave_request_id": request.ID,
				"session_id":       sessions[i].ID,
			}).Error("Leave reconciliation failed for session")
		}
	}
}

// excuseSession upserts one excused outcome, mirroring the ledger's
// upsert-by-(session, student) discipline.
func (s *LeaveService) excuseSession(sessionID string, studentUserID uint, remarks string, markedByID *uint) error {
	var attendance models.Attendance
	err := database.DB.Where("session_id = ? AND student_id = ?", sessionID, studentUserID).
		First(&attendance).Error
	if err == nil {
		attendance.Status = models.AttendanceExcused
		attendance.CheckInMethod = models.CheckInMethodManual
		attendance.Remarks = remarks
		attendance.MarkedByID = markedByID
		return database.DB.Save(&attendance).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	attendance = models.Attendance{
		SessionID:     sessionID,
		StudentID:     studentUserID,
		Status:        models.AttendanceExcused,
		CheckInMethod: models.CheckInMethodManual,
		MarkedByID:    markedByID,
		Remarks:       remarks,
	}
	if createErr := database.DB.Create(&attendance).Error; createErr != nil {
		if isDuplicateKey(createErr) {
			// A concurrent writer created the row; re-apply as an update
			return database.DB.Model(&models.Attendance{}).
				Where("session_id = ? AND student_id = ?", sessionID, studentUserID).
				Updates(map[string]interface{}{
					"status":          models.AttendanceExcused,
					"check_in_method": models.CheckInMethodManual,
					"remarks":         remarks,
				}).Error
		}
		return createErr
	}
	return nil
}
