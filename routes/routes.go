package routes

import (
	"campushub_go/controllers"
	"campushub_go/middleware"
	ws "campushub_go/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers the full HTTP surface
func SetupRoutes(app *fiber.App, hub *ws.Hub) {
	authController := &controllers.AuthController{}
	scheduleController := &controllers.ScheduleController{}
	sessionController := &controllers.SessionController{}
	attendanceController := &controllers.AttendanceController{}
	leaveController := &controllers.LeaveController{}
	notificationController := &controllers.NotificationController{}
	healthController := &controllers.HealthController{}
	wsController := controllers.NewWebSocketController(hub)

	app.Get("/health", healthController.Health)

	// WebSocket endpoint, authenticated like any API route
	app.Get("/ws", wsController.UpgradeRequired, middleware.JWTMiddleware(), wsController.Handle())

	api := app.Group("/api")

	// Public
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)

	// Everything below requires a valid token
	api.Use(middleware.JWTMiddleware())
	api.Use(middleware.LogActivityMiddleware())

	auth.Get("/profile", authController.GetProfile)

	schedules := api.Group("/schedules")
	schedules.Get("/time-slots", scheduleController.GetTimeSlots)
	schedules.Get("/my", middleware.RequireRole("student"), scheduleController.GetMySchedules)
	schedules.Get("/my-teaching", middleware.RequireRole("teacher"), scheduleController.GetMyTeachingSchedules)
	schedules.Get("/by-group/:group_id/formatted", scheduleController.GetSchedulesByGroupFormatted)
	schedules.Get("/by-group/:group_id", scheduleController.GetSchedulesByGroup)
	schedules.Get("/by-teacher/:teacher_id", scheduleController.GetSchedulesByTeacher)
	schedules.Post("/", middleware.RequireAdmin(), scheduleController.CreateSchedule)
	schedules.Get("/:id", scheduleController.GetSchedule)
	schedules.Patch("/:id", middleware.RequireAdmin(), scheduleController.UpdateSchedule)
	schedules.Delete("/:id", middleware.RequireAdmin(), scheduleController.DeleteSchedule)

	sessions := api.Group("/sessions")
	sessions.Get("/upcoming", middleware.RequireRole("student"), sessionController.GetUpcomingSessions)
	sessions.Get("/course/:course_id", sessionController.GetSessionsByCourse)
	sessions.Post("/cleanup/expired", middleware.RequireTeacherOrAdmin(), sessionController.CleanupExpiredSessions)
	sessions.Post("/", middleware.RequireRole("teacher"), sessionController.CreateSession)
	sessions.Get("/", middleware.RequireTeacherOrAdmin(), sessionController.GetSessions)
	sessions.Get("/:id", sessionController.GetSession)
	sessions.Patch("/:id", middleware.RequireTeacherOrAdmin(), sessionController.UpdateSession)
	sessions.Post("/:id/activate", middleware.RequireTeacherOrAdmin(), sessionController.ActivateSession)
	sessions.Post("/:id/complete", middleware.RequireTeacherOrAdmin(), sessionController.CompleteSession)
	sessions.Post("/:id/cancel", middleware.RequireTeacherOrAdmin(), sessionController.CancelSession)
	sessions.Post("/:id/regenerate-code", middleware.RequireTeacherOrAdmin(), sessionController.RegenerateSessionCode)
	sessions.Delete("/:id", middleware.RequireTeacherOrAdmin(), sessionController.DeleteSession)

	attendances := api.Group("/attendances")
	attendances.Post("/check-in", middleware.RequireRole("student"), attendanceController.CheckIn)
	attendances.Post("/mark", middleware.RequireTeacherOrAdmin(), attendanceController.MarkAttendance)
	attendances.Post("/bulk-mark", middleware.RequireTeacherOrAdmin(), attendanceController.BulkMarkAttendance)
	attendances.Get("/session/:id/summary", middleware.RequireTeacherOrAdmin(), attendanceController.GetSessionSummary)
	attendances.Get("/session/:id/export", middleware.RequireTeacherOrAdmin(), attendanceController.ExportSessionAttendance)
	attendances.Get("/session/:id", middleware.RequireTeacherOrAdmin(), attendanceController.GetSessionAttendance)
	attendances.Get("/my/course/:course_id", middleware.RequireRole("student"), attendanceController.GetMyAttendanceByCourse)
	attendances.Get("/my", middleware.RequireRole("student"), attendanceController.GetMyAttendance)
	attendances.Patch("/:id", middleware.RequireTeacherOrAdmin(), attendanceController.UpdateAttendance)
	attendances.Delete("/:id", middleware.RequireTeacherOrAdmin(), attendanceController.DeleteAttendance)

	leaves := api.Group("/leave-requests")
	leaves.Post("/", middleware.RequireRole("student", "teacher"), leaveController.CreateLeaveRequest)
	leaves.Get("/my", leaveController.GetMyLeaveRequests)
	leaves.Get("/for-review", middleware.RequireTeacherOrAdmin(), leaveController.GetLeaveRequestsForReview)
	leaves.Get("/", middleware.RequireAdmin(), leaveController.GetLeaveRequests)
	leaves.Patch("/:id/review", middleware.RequireTeacherOrAdmin(), leaveController.ReviewLeaveRequest)
	leaves.Delete("/:id", leaveController.DeleteLeaveRequest)

	notifications := api.Group("/notifications")
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/mark-all-read", notificationController.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", notificationController.MarkNotificationRead)
	notifications.Get("/", notificationController.GetNotifications)

	api.Get("/ws/stats", middleware.RequireAdmin(), wsController.Stats)
}
