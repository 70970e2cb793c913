package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/services"
	"jejakin-server/utils"
)

// PaymentRequest represents the create request
type PaymentRequest struct {
	BookingID uint    `json:"booking_id" binding:"required"`
	Method    string  `json:"method" binding:"required"`
	Gateway   *string `json:"gateway"`
}

// PaymentStatusRequest represents the status update request
type PaymentStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	TransactionID *string `json:"transaction_id"`
}

// RegisterPaymentRoutes registers payment routes (all protected)
func RegisterPaymentRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", listPayments)
	rg.POST("/payments", createPayment)
	rg.PUT("/payments/:id/status", updatePaymentStatus)
}

// listPayments lists payments for the caller's bookings; admins see all.
func listPayments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.Payment{})
	if user.Role != models.RoleAdmin {
		query = query.
			Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payments.status = ?", status)
	}
	if bookingID := c.Query("bookingId"); bookingID != "" {
		query = query.Where("payments.booking_id = ?", bookingID)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.
		Preload("Booking").
		Preload("Booking.Destination").
		Order("payments.created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&payments).Error; err != nil {
		logrus.Errorf("failed to list payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch payments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       payments,
		"pagination": utils.PaginationBlock(p, total),
	})
}

// createPayment opens a pending payment for a booking. The amount is taken
// from the booking, never from the request. One payment per booking.
func createPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	booking, err := findBooking(fmt.Sprintf("%d", req.BookingID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Booking not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	if booking.UserID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	if booking.Status == models.BookingStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Cannot pay a cancelled booking",
		})
		return
	}

	var existing models.Payment
	if err := database.DB.Where("booking_id = ?", booking.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Payment already exists for this booking",
			"data":    existing,
		})
		return
	}

	ref := utils.GenerateTransactionRef()
	payment := models.Payment{
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		Method:        req.Method,
		Gateway:       req.Gateway,
		TransactionID: &ref,
		Status:        models.PaymentStatusPending,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		link := fmt.Sprintf("/dashboard/bookings/%d", booking.ID)
		n := models.Notification{
			UserID:  booking.UserID,
			Type:    "payment_created",
			Title:   "Payment Created",
			Message: fmt.Sprintf("Payment of Rp %.0f created for booking %s", payment.Amount, booking.BookingCode),
			Link:    &link,
		}
		return tx.Create(&n).Error
	})
	if err != nil {
		logrus.Errorf("failed to create payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create payment",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment created successfully",
		"data":    payment,
	})
}

// updatePaymentStatus transitions a payment and cascades to the booking:
// success marks the booking paid, refunded marks it refunded. The booking
// owner reports gateway outcomes on their own payment; the destination's
// owning partner and admins may also transition it.
func updatePaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	newStatus := models.PaymentStatus(req.Status)
	switch newStatus {
	case models.PaymentStatusPending, models.PaymentStatusSuccess,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid payment status value",
		})
		return
	}

	var payment models.Payment
	if err := database.DB.
		Preload("Booking").
		Preload("Booking.Destination").
		First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Payment not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	perms := services.ResolveBookingPerms(user, &payment.Booking)
	if payment.Booking.UserID != user.ID && !perms.CanEditStatus {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	now := time.Now()
	payment.Status = newStatus
	if req.TransactionID != nil {
		payment.TransactionID = req.TransactionID
	}
	switch newStatus {
	case models.PaymentStatusSuccess:
		payment.PaidAt = &now
	case models.PaymentStatusRefunded:
		payment.RefundedAt = &now
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var bookingPaymentState models.PaymentState
		switch newStatus {
		case models.PaymentStatusSuccess:
			bookingPaymentState = models.PaymentStatePaid
		case models.PaymentStatusRefunded:
			bookingPaymentState = models.PaymentStateRefunded
		default:
			return nil
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			Update("payment_status", bookingPaymentState).Error; err != nil {
			return err
		}

		link := fmt.Sprintf("/dashboard/bookings/%d", payment.BookingID)
		title := "Payment Status Updated"
		notifType := "payment_status_updated"
		message := fmt.Sprintf("Payment for booking %s is now %s", payment.Booking.BookingCode, newStatus)
		if newStatus == models.PaymentStatusSuccess {
			title = "Payment Successful"
			notifType = "payment_success"
			message = fmt.Sprintf("Payment of Rp %.0f for booking %s was successful", payment.Amount, payment.Booking.BookingCode)
		}
		n := models.Notification{
			UserID:  payment.Booking.UserID,
			Type:    notifType,
			Title:   title,
			Message: message,
			Link:    &link,
		}
		return tx.Create(&n).Error
	})
	if err != nil {
		logrus.Errorf("failed to update payment %d: %v", payment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update payment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment status updated",
		"data":    payment,
	})
}
