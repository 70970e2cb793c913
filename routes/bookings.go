package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
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

const bookingCodeAttempts = 3

// BookingRequest represents the create request
type BookingRequest struct {
	DestinationID  uint    `json:"destination_id" binding:"required"`
	VisitDate      string  `json:"visit_date" binding:"required"` // RFC 3339 or YYYY-MM-DD
	NumberOfPeople int     `json:"number_of_people" binding:"required,min=1"`
	Notes          *string `json:"notes"`
}

// BookingUpdateRequest represents the update request
type BookingUpdateRequest struct {
	VisitDate      *string `json:"visit_date"`
	NumberOfPeople *int    `json:"number_of_people"`
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"payment_status"`
	Notes          *string `json:"notes"`
}

// RegisterBookingRoutes registers booking routes (all protected)
func RegisterBookingRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", listBookings)
	rg.POST("/bookings", createBooking)
	rg.GET("/bookings/:id", getBooking)
	rg.PUT("/bookings/:id", updateBooking)
	rg.DELETE("/bookings/:id", cancelBooking)
}

// createBooking creates a booking against an active destination. The booking
// row and the notification fan-out (requester, destination owner, every
// admin) commit in one transaction; confirmation emails are queued to the
// mailer afterwards and never awaited.
func createBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	visitDate, err := parseVisitDate(req.VisitDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid visit date",
			"message": "visit_date must be RFC 3339 or YYYY-MM-DD",
		})
		return
	}

	user := middleware.CurrentUser(c)

	var destination models.Destination
	if err := database.DB.First(&destination, req.DestinationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	if destination.Status != models.DestinationStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Destination is not available",
		})
		return
	}

	booking := models.Booking{
		UserID:         user.ID,
		DestinationID:  destination.ID,
		VisitDate:      visitDate,
		NumberOfPeople: req.NumberOfPeople,
		PricePerPerson: destination.Price,
		TotalPrice:     destination.Price * float64(req.NumberOfPeople),
		Status:         models.BookingStatusPending,
		PaymentStatus:  models.PaymentStateUnpaid,
		Notes:          req.Notes,
	}

	// A duplicate booking code aborts the whole transaction on Postgres, so
	// the retry wraps the transaction instead of the insert. The unique index
	// backs up the generator.
	var admins []models.User
	for attempt := 0; attempt < bookingCodeAttempts; attempt++ {
		booking.BookingCode = utils.GenerateBookingCode()

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}

			// Admins are notified with the booking or not at all.
			admins = admins[:0]
			if err := tx.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
				return err
			}

			link := fmt.Sprintf("/dashboard/bookings/%d", booking.ID)
			notifications := []models.Notification{
				{
					UserID:  user.ID,
					Type:    "booking_created",
					Title:   "Booking Created",
					Message: fmt.Sprintf("Your booking %s for %s has been created", booking.BookingCode, destination.Name),
					Link:    &link,
				},
				{
					UserID:  destination.UserID,
					Type:    "new_booking",
					Title:   "New Booking",
					Message: fmt.Sprintf("New booking %s for %s (%d people)", booking.BookingCode, destination.Name, booking.NumberOfPeople),
					Link:    &link,
				},
			}
			for _, admin := range admins {
				notifications = append(notifications, models.Notification{
					UserID:  admin.ID,
					Type:    "new_booking",
					Title:   "New Booking",
					Message: fmt.Sprintf("New booking %s for %s by %s", booking.BookingCode, destination.Name, user.Name),
					Link:    &link,
				})
			}

			return tx.Create(&notifications).Error
		})
		if err == nil || !isDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		logrus.Errorf("booking creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create booking",
		})
		return
	}

	emailData := services.BookingEmailData{
		UserName:        user.Name,
		UserEmail:       user.Email,
		BookingCode:     booking.BookingCode,
		DestinationName: destination.Name,
		Location:        destination.Location,
		VisitDate:       booking.VisitDate.Format("2006-01-02"),
		NumberOfPeople:  booking.NumberOfPeople,
		TotalPrice:      booking.TotalPrice,
	}
	if booking.Notes != nil {
		emailData.Notes = *booking.Notes
	}
	services.QueueBookingConfirmation(emailData)

	var owner models.User
	if err := database.DB.First(&owner, destination.UserID).Error; err == nil {
		services.QueueNewBookingAlert(owner.Email, emailData)
	}
	for _, admin := range admins {
		services.QueueNewBookingAlert(admin.Email, emailData)
	}

	booking.Destination = destination
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"data":    booking,
	})
}

// listBookings lists the caller's bookings; admins see everything and may
// filter by userId.
func listBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.Booking{})
	if user.Role == models.RoleAdmin {
		if userID := c.Query("userId"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.
		Preload("Destination").
		Preload("User", selectUserSummary).
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&bookings).Error; err != nil {
		logrus.Errorf("failed to list bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch bookings",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       bookings,
		"pagination": utils.PaginationBlock(p, total),
	})
}

// getBooking returns a booking by id or booking code
func getBooking(c *gin.Context) {
	booking, err := findBooking(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Booking not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	perms := services.ResolveBookingPerms(user, booking)
	if !perms.CanView {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// updateBooking applies a partial update under the central booking policy.
// Detail fields are for the owner (and admin); status and payment status are
// for the destination's owning partner and admin. Headcount changes reprice
// from the snapshotted per-person price, not the live destination price.
func updateBooking(c *gin.Context) {
	booking, err := findBooking(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Booking not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	perms := services.ResolveBookingPerms(user, booking)
	if !perms.CanEditDetails && !perms.CanEditStatus {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	var req BookingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	oldStatus := booking.Status
	oldPaymentStatus := booking.PaymentStatus

	if perms.CanEditDetails {
		if req.VisitDate != nil {
			visitDate, err := parseVisitDate(*req.VisitDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid visit date",
				})
				return
			}
			booking.VisitDate = visitDate
		}
		if req.NumberOfPeople != nil {
			if *req.NumberOfPeople < 1 {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "number_of_people must be at least 1",
				})
				return
			}
			booking.NumberOfPeople = *req.NumberOfPeople
			booking.TotalPrice = booking.PricePerPerson * float64(*req.NumberOfPeople)
		}
		if req.Notes != nil {
			booking.Notes = req.Notes
		}
	}

	if perms.CanEditStatus {
		if req.Status != nil {
			switch models.BookingStatus(*req.Status) {
			case models.BookingStatusPending, models.BookingStatusConfirmed,
				models.BookingStatusCancelled, models.BookingStatusCompleted:
				booking.Status = models.BookingStatus(*req.Status)
			default:
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid status value",
				})
				return
			}
		}
		if req.PaymentStatus != nil {
			switch models.PaymentState(*req.PaymentStatus) {
			case models.PaymentStateUnpaid, models.PaymentStatePaid, models.PaymentStateRefunded:
				booking.PaymentStatus = models.PaymentState(*req.PaymentStatus)
			default:
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid payment status value",
				})
				return
			}
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}

		link := fmt.Sprintf("/dashboard/bookings/%d", booking.ID)
		if booking.Status != oldStatus {
			n := models.Notification{
				UserID:  booking.UserID,
				Type:    "booking_status_updated",
				Title:   "Booking Status Updated",
				Message: fmt.Sprintf("Your booking %s status has been updated to %s", booking.BookingCode, booking.Status),
				Link:    &link,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		if booking.PaymentStatus != oldPaymentStatus {
			n := models.Notification{
				UserID:  booking.UserID,
				Type:    "payment_status_updated",
				Title:   "Payment Status Updated",
				Message: fmt.Sprintf("Your payment for booking %s has been updated to %s", booking.BookingCode, booking.PaymentStatus),
				Link:    &link,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.Errorf("failed to update booking %d: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update booking",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking updated successfully",
		"data":    booking,
	})
}

// cancelBooking flips status to cancelled. Owner or admin only. No refund
// side effect even when the booking is paid.
func cancelBooking(c *gin.Context) {
	booking, err := findBooking(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Booking not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	perms := services.ResolveBookingPerms(user, booking)
	if !perms.CanCancel {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden: You can only cancel your own bookings",
		})
		return
	}

	booking.Status = models.BookingStatusCancelled
	if err := database.DB.Save(booking).Error; err != nil {
		logrus.Errorf("failed to cancel booking %d: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to cancel booking",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

// findBooking looks a booking up by numeric id or booking code, with its
// destination (needed by the policy) and user.
func findBooking(idOrCode string) (*models.Booking, error) {
	query := database.DB.
		Preload("Destination").
		Preload("User", selectUserSummary).
		Preload("Payment")

	var booking models.Booking
	if id, err := strconv.ParseUint(idOrCode, 10, 32); err == nil {
		if err := query.First(&booking, uint(id)).Error; err != nil {
			return nil, err
		}
		return &booking, nil
	}

	if err := query.Where("booking_code = ?", idOrCode).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func parseVisitDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// isDuplicateKeyError matches unique-constraint violations from Postgres and
// SQLite (tests) without driver-specific error types.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
