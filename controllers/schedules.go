package controllers

import (
	"campushub_go/middleware"
	"campushub_go/models"
	"campushub_go/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct{}

var scheduleService = services.ScheduleService{}

// CreateSchedule adds a weekly meeting for a group
func (sc *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var input services.CreateScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := scheduleService.Create(&input)
	if err != nil {
		return err
	}

	middleware.LogActivity(c, "CREATE", "schedules", strconv.FormatUint(uint64(schedule.ID), 10), input)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Schedule created successfully",
		"schedule": schedule,
	})
}

// UpdateSchedule patches a schedule
func (sc *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var input services.UpdateScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := scheduleService.Update(id, &input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Schedule updated successfully",
		"schedule": schedule,
	})
}

// DeleteSchedule removes a schedule
func (sc *ScheduleController) DeleteSchedule(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if err := scheduleService.Remove(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Schedule deleted successfully",
	})
}

// GetSchedule returns one schedule
func (sc *ScheduleController) GetSchedule(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	schedule, err := scheduleService.FindOne(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedule": schedule,
	})
}

// GetSchedulesByGroup lists a group's schedules, optionally per semester
func (sc *ScheduleController) GetSchedulesByGroup(c *fiber.Ctx) error {
	groupID, err := parseUintParam(c, "group_id")
	if err != nil {
		return err
	}
	schedules, err := scheduleService.FindByGroup(groupID, c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedules": schedules,
	})
}

// GetSchedulesByGroupFormatted returns the group's weekly grid keyed by day
func (sc *ScheduleController) GetSchedulesByGroupFormatted(c *fiber.Ctx) error {
	groupID, err := parseUintParam(c, "group_id")
	if err != nil {
		return err
	}
	formatted, err := scheduleService.FindByGroupFormatted(groupID, c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedules": formatted,
	})
}

// GetSchedulesByTeacher lists a teacher's schedules from the directory profile id
func (sc *ScheduleController) GetSchedulesByTeacher(c *fiber.Ctx) error {
	teacherID, err := parseUintParam(c, "teacher_id")
	if err != nil {
		return err
	}
	schedules, err := scheduleService.FindByTeacherProfile(teacherID, c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedules": schedules,
	})
}

// GetMySchedules returns the calling student's group grid keyed by day
func (sc *ScheduleController) GetMySchedules(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	if principal.GroupID == nil {
		return c.JSON(fiber.Map{
			"schedules": fiber.Map{},
		})
	}
	formatted, err := scheduleService.FindByGroupFormatted(*principal.GroupID, c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedules": formatted,
	})
}

// GetMyTeachingSchedules returns the calling teacher's schedules
func (sc *ScheduleController) GetMyTeachingSchedules(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	schedules, err := scheduleService.FindByTeacherUser(principal.UserID, c.QueryInt("semester"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"schedules": schedules,
	})
}

// GetTimeSlots exposes the fixed daily grid for schedule builders
func (sc *ScheduleController) GetTimeSlots(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"time_slots":      models.TimeSlotsOrder,
		"morning_slots":   models.MorningSlots,
		"afternoon_slots": models.AfternoonSlots,
		"days_of_week":    models.DaysOfWeek,
	})
}
