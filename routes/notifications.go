package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
)

const maxNotificationLimit = 100

// RegisterNotificationRoutes registers notification routes (all protected).
// Notifications are poll-based: clients fetch, there is no push channel.
func RegisterNotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", listNotifications)
	rg.PUT("/notifications/:id/read", markNotificationRead)
	rg.PUT("/notifications/read-all", markAllNotificationsRead)
	rg.DELETE("/notifications/:id", deleteNotification)
}

// listNotifications returns the caller's notifications, newest first, with
// their unread count alongside.
func listNotifications(c *gin.Context) {
	user := middleware.CurrentUser(c)

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	query := database.DB.Where("user_id = ?", user.ID)
	if c.Query("unreadOnly") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		logrus.Errorf("failed to list notifications for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch notifications",
		})
		return
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        notifications,
		"unreadCount": unreadCount,
	})
}

// markNotificationRead marks one of the caller's notifications as read.
// Already-read notifications are left untouched.
func markNotificationRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var notification models.Notification
	if err := database.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Notification not found",
		})
		return
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := database.DB.Save(&notification).Error; err != nil {
			logrus.Errorf("failed to mark notification %d read: %v", notification.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update notification",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}

// markAllNotificationsRead marks every unread notification of the caller.
func markAllNotificationsRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		logrus.Errorf("failed to mark notifications read for user %d: %v", user.ID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update notifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications marked as read",
		"data":    gin.H{"updated": result.RowsAffected},
	})
}

// deleteNotification removes one of the caller's notifications.
func deleteNotification(c *gin.Context) {
	user := middleware.CurrentUser(c)

	result := database.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		logrus.Errorf("failed to delete notification: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete notification",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Notification not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification deleted successfully",
	})
}
