package controllers

import (
	"campushub_go/database"
	"campushub_go/middleware"
	"campushub_go/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications lists the caller's notifications, newest first
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var notifs []models.Notification
	if err := database.DB.Where("user_id = ?", principal.UserID).
		Order("created_at DESC").Limit(100).Find(&notifs).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(fiber.Map{
		"notifications": notifs,
	})
}

// GetUnreadCount returns the caller's unread notification count
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", principal.UserID, false).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(fiber.Map{
		"unread": count,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
func (nc *NotificationController) MarkNotificationRead(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, principal.UserID).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update notification")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Notification not found")
	}
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsRead marks every unread notification of the caller
func (nc *NotificationController) MarkAllNotificationsRead(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", principal.UserID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update notifications")
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}
