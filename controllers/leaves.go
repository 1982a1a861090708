package controllers

import (
	"campushub_go/middleware"
	"campushub_go/services"
	"campushub_go/services/notifications"

	"github.com/gofiber/fiber/v2"
)

type LeaveController struct{}

var leaveService = services.LeaveService{}

// CreateLeaveRequest submits a leave request for the caller
func (lc *LeaveController) CreateLeaveRequest(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.CreateLeaveRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := leaveService.Create(&input, principal)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CREATE", "leave-requests", request.ID, nil)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Leave request submitted",
		"leave_request": request,
	})
}

// GetLeaveRequests lists every request (admin)
func (lc *LeaveController) GetLeaveRequests(c *fiber.Ctx) error {
	requests, err := leaveService.FindAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"leave_requests": requests,
	})
}

// GetMyLeaveRequests lists the caller's own requests
func (lc *LeaveController) GetMyLeaveRequests(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	requests, err := leaveService.FindMine(principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"leave_requests": requests,
	})
}

// GetLeaveRequestsForReview lists pending requests awaiting the caller
func (lc *LeaveController) GetLeaveRequestsForReview(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	requests, err := leaveService.FindForReview(principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"leave_requests": requests,
	})
}

// ReviewLeaveRequest approves or rejects a pending request. Approval of a
// student request excuses overlapping session attendance as a side effect.
func (lc *LeaveController) ReviewLeaveRequest(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.ReviewLeaveRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := leaveService.Review(c.Params("id"), &input, principal)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "REVIEW", "leave-requests", request.ID, fiber.Map{"status": request.Status})
	go notifications.NewService().NotifyLeaveReviewed(request)

	return c.JSON(fiber.Map{
		"message":       "Leave request reviewed",
		"leave_request": request,
	})
}

// DeleteLeaveRequest removes the caller's own pending request
func (lc *LeaveController) DeleteLeaveRequest(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	if err := leaveService.Remove(c.Params("id"), principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Leave request deleted",
	})
}
