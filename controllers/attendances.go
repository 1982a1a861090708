package controllers

import (
	"campushub_go/middleware"
	"campushub_go/services"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type AttendanceController struct{}

var attendanceService = services.AttendanceService{}

type checkInRequest struct {
	Code string `json:"code"`
}

// CheckIn records the calling student's presence via a session code
func (ac *AttendanceController) CheckIn(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Attendance code is required",
		})
	}

	attendance, err := attendanceService.CheckIn(req.Code, principal)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CHECK_IN", "attendances", attendance.ID, nil)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Checked in successfully",
		"attendance": attendance,
	})
}

// MarkAttendance upserts one outcome on behalf of a teacher or admin
func (ac *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.MarkAttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attendance, err := attendanceService.Mark(&input, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Attendance marked",
		"attendance": attendance,
	})
}

// BulkMarkAttendance applies a batch of outcomes against one session
func (ac *AttendanceController) BulkMarkAttendance(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.BulkMarkAttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attendances, err := attendanceService.BulkMark(&input, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Attendance marked",
		"attendances": attendances,
	})
}

// GetSessionAttendance lists a session's full ledger
func (ac *AttendanceController) GetSessionAttendance(c *fiber.Ctx) error {
	attendances, err := attendanceService.FindBySession(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"attendances": attendances,
	})
}

// GetSessionSummary returns per-status counts for a session
func (ac *AttendanceController) GetSessionSummary(c *fiber.Ctx) error {
	summary, err := attendanceService.SessionSummary(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"summary": summary,
	})
}

// ExportSessionAttendance streams the session ledger as an XLSX workbook
func (ac *AttendanceController) ExportSessionAttendance(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	attendances, err := attendanceService.FindBySession(sessionID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student", "Username", "Status", "Method", "Check-in Time", "Marked By", "Remarks"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, attendance := range attendances {
		name := ""
		if attendance.Student.Student != nil {
			name = attendance.Student.Student.FirstName + " " + attendance.Student.Student.LastName
		}
		checkInTime := ""
		if attendance.CheckInTime != nil {
			checkInTime = attendance.CheckInTime.Local().Format("2006-01-02 15:04:05")
		}
		markedBy := ""
		if attendance.MarkedBy != nil {
			markedBy = attendance.MarkedBy.Username
		}
		values := []interface{}{
			name,
			attendance.Student.Username,
			attendance.Status,
			attendance.CheckInMethod,
			checkInTime,
			markedBy,
			attendance.Remarks,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	summary := services.SummarizeAttendances(attendances)
	summaryRow := len(attendances) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow),
		fmt.Sprintf("Total: %d  Present: %d  Late: %d  Absent: %d  Excused: %d",
			summary.Total, summary.Present, summary.Late, summary.Absent, summary.Excused))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build export")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance_%s.xlsx"`, sessionID))
	return c.Send(buf.Bytes())
}

// GetMyAttendance lists the calling student's attendance history
func (ac *AttendanceController) GetMyAttendance(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	attendances, err := attendanceService.FindByStudent(principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"attendances": attendances,
	})
}

// GetMyAttendanceByCourse narrows the caller's history to one course
func (ac *AttendanceController) GetMyAttendanceByCourse(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	attendances, err := attendanceService.FindByStudentAndCourse(principal.UserID, c.Params("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"attendances": attendances,
	})
}

// UpdateAttendance patches one attendance row
func (ac *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.MarkAttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	attendance, err := attendanceService.Update(c.Params("id"), &input, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Attendance updated",
		"attendance": attendance,
	})
}

// DeleteAttendance removes one attendance row
func (ac *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	if err := attendanceService.Remove(c.Params("id"), principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Attendance deleted",
	})
}
