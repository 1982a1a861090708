package controllers

import (
	"campushub_go/middleware"
	"campushub_go/services"
	"campushub_go/services/notifications"

	"github.com/gofiber/fiber/v2"
)

type SessionController struct{}

var sessionService = services.SessionService{}

// CreateSession adds a dated class meeting for a course
func (sc *SessionController) CreateSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.CreateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := sessionService.Create(&input, principal)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CREATE", "sessions", session.ID, nil)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully",
		"session": session,
	})
}

// GetSessions lists sessions visible to the caller
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	sessions, err := sessionService.FindAll(principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// GetSessionsByCourse lists a course's sessions
func (sc *SessionController) GetSessionsByCourse(c *fiber.Ctx) error {
	sessions, err := sessionService.FindByCourse(c.Params("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// GetUpcomingSessions lists active or pending sessions for the calling student
func (sc *SessionController) GetUpcomingSessions(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	sessions, err := sessionService.FindUpcomingForStudent(principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// GetSession returns one session with its attendance ledger
func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	session, err := sessionService.FindOne(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"session": session,
	})
}

// UpdateSession patches a session's details
func (sc *SessionController) UpdateSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var input services.UpdateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := sessionService.Update(c.Params("id"), &input, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session updated successfully",
		"session": session,
	})
}

// ActivateSession opens a session for check-in and notifies its students
func (sc *SessionController) ActivateSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	session, err := sessionService.Activate(c.Params("id"), principal)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "ACTIVATE", "sessions", session.ID, nil)
	go notifications.NewService().NotifySessionActivated(session)

	return c.JSON(fiber.Map{
		"message": "Session activated",
		"session": session,
	})
}

// CompleteSession closes a session
func (sc *SessionController) CompleteSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	session, err := sessionService.Complete(c.Params("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session completed",
		"session": session,
	})
}

// CancelSession aborts a scheduled or active session
func (sc *SessionController) CancelSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	session, err := sessionService.Cancel(c.Params("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session cancelled",
		"session": session,
	})
}

// RegenerateSessionCode re-rolls the check-in code
func (sc *SessionController) RegenerateSessionCode(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	session, err := sessionService.RegenerateCode(c.Params("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Attendance code regenerated",
		"session": session,
	})
}

// DeleteSession removes a session
func (sc *SessionController) DeleteSession(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	if err := sessionService.Remove(c.Params("id"), principal); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session deleted successfully",
	})
}

// CleanupExpiredSessions closes every active session past its end time
func (sc *SessionController) CleanupExpiredSessions(c *fiber.Ctx) error {
	closed := sessionService.CloseExpired()
	return c.JSON(fiber.Map{
		"message": "Expired sessions closed",
		"closed":  closed,
	})
}
