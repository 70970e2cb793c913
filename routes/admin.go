package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/utils"
)

// UserUpdateRequest represents the admin user update request
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// monthlyRevenue is one row of the revenue-by-month report.
type monthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

// RegisterAdminRoutes registers the dashboard and management endpoints.
// Stats and the booking/review listings are shared with partners, scoped to
// their own destinations; user management is admin only.
func RegisterAdminRoutes(dashboard *gin.RouterGroup, admin *gin.RouterGroup) {
	dashboard.GET("/admin/stats", getStats)
	dashboard.GET("/admin/bookings", adminListBookings)
	dashboard.GET("/admin/reviews", adminListReviews)
	dashboard.DELETE("/admin/reviews/:id", deleteReview)

	admin.GET("/users", listUsers)
	admin.GET("/users/:id", getUser)
	admin.PUT("/users/:id", updateUser)
	admin.DELETE("/users/:id", deleteUser)
}

// getStats returns dashboard counters and revenue. Admins get the full
// platform; partners get numbers scoped to their own destinations. Revenue
// only counts paid bookings.
func getStats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	scoped := user.Role == models.RolePartner

	destQuery := database.DB.Model(&models.Destination{})
	bookingQuery := database.DB.Model(&models.Booking{})
	reviewQuery := database.DB.Model(&models.Review{})
	if scoped {
		destQuery = destQuery.Where("user_id = ?", user.ID)
		bookingQuery = bookingQuery.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
		reviewQuery = reviewQuery.
			Joins("JOIN destinations ON destinations.id = reviews.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}

	var totalDestinations, totalBookings, pendingBookings, totalReviews int64
	destQuery.Count(&totalDestinations)
	bookingQuery.Count(&totalBookings)
	reviewQuery.Count(&totalReviews)

	pendingQuery := database.DB.Model(&models.Booking{}).
		Where("bookings.status = ?", models.BookingStatusPending)
	if scoped {
		pendingQuery = pendingQuery.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}
	pendingQuery.Count(&pendingBookings)

	var totalRevenue float64
	revenueQuery := database.DB.Model(&models.Booking{}).
		Where("bookings.payment_status = ?", models.PaymentStatePaid)
	if scoped {
		revenueQuery = revenueQuery.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}
	revenueQuery.Select("COALESCE(SUM(bookings.total_price), 0)").Scan(&totalRevenue)

	stats := gin.H{
		"totalDestinations": totalDestinations,
		"totalBookings":     totalBookings,
		"pendingBookings":   pendingBookings,
		"totalReviews":      totalReviews,
		"totalRevenue":      totalRevenue,
		"bookingsByStatus":  bookingStatusCounts(user, scoped),
		"recentBookings":    recentBookings(user, scoped),
		"topDestinations":   topDestinations(user, scoped),
		"monthlyRevenue":    monthlyRevenueReport(user, scoped),
	}

	if !scoped {
		var totalUsers, totalPartners int64
		database.DB.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&totalUsers)
		database.DB.Model(&models.User{}).Where("role = ?", models.RolePartner).Count(&totalPartners)
		stats["totalUsers"] = totalUsers
		stats["totalPartners"] = totalPartners
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// monthlyRevenueReport aggregates paid bookings by calendar month of their
// creation date, most recent first, capped at twelve months.
func monthlyRevenueReport(user models.User, scoped bool) []monthlyRevenue {
	rows := []monthlyRevenue{}

	query := database.DB.Model(&models.Booking{}).
		Select("strftime('%Y-%m', bookings.created_at) AS month, COALESCE(SUM(bookings.total_price), 0) AS revenue, COUNT(*) AS count").
		Where("bookings.payment_status = ?", models.PaymentStatePaid)
	if database.DB.Dialector.Name() == "postgres" {
		query = database.DB.Model(&models.Booking{}).
			Select("to_char(bookings.created_at, 'YYYY-MM') AS month, COALESCE(SUM(bookings.total_price), 0) AS revenue, COUNT(*) AS count").
			Where("bookings.payment_status = ?", models.PaymentStatePaid)
	}
	if scoped {
		query = query.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}
	if err := query.Group("month").Order("month DESC").Limit(6).Scan(&rows).Error; err != nil {
		logrus.Errorf("failed to build monthly revenue report: %v", err)
	}
	return rows
}

// bookingStatusCounts tallies bookings per status.
func bookingStatusCounts(user models.User, scoped bool) map[string]int64 {
	type statusCount struct {
		Status string
		Count  int64
	}

	query := database.DB.Model(&models.Booking{}).
		Select("bookings.status AS status, COUNT(*) AS count")
	if scoped {
		query = query.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}

	var rows []statusCount
	if err := query.Group("bookings.status").Scan(&rows).Error; err != nil {
		logrus.Errorf("failed to count bookings by status: %v", err)
	}

	counts := map[string]int64{
		string(models.BookingStatusPending):   0,
		string(models.BookingStatusConfirmed): 0,
		string(models.BookingStatusCancelled): 0,
		string(models.BookingStatusCompleted): 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts
}

// recentBookings returns the five newest bookings in scope.
func recentBookings(user models.User, scoped bool) []models.Booking {
	query := database.DB.Model(&models.Booking{})
	if scoped {
		query = query.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}

	bookings := []models.Booking{}
	if err := query.
		Preload("User", selectUserSummary).
		Preload("Destination").
		Order("bookings.created_at DESC").
		Limit(5).
		Find(&bookings).Error; err != nil {
		logrus.Errorf("failed to load recent bookings: %v", err)
	}
	return bookings
}

// topDestinations ranks destinations in scope by booking count, top five.
func topDestinations(user models.User, scoped bool) []gin.H {
	type destinationRank struct {
		ID       uint
		Name     string
		Slug     string
		Bookings int64
	}

	query := database.DB.Model(&models.Destination{}).
		Select("destinations.id, destinations.name, destinations.slug, COUNT(bookings.id) AS bookings").
		Joins("LEFT JOIN bookings ON bookings.destination_id = destinations.id")
	if scoped {
		query = query.Where("destinations.user_id = ?", user.ID)
	}

	var rows []destinationRank
	if err := query.
		Group("destinations.id, destinations.name, destinations.slug").
		Order("bookings DESC").
		Limit(5).
		Scan(&rows).Error; err != nil {
		logrus.Errorf("failed to rank destinations: %v", err)
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":       row.ID,
			"name":     row.Name,
			"slug":     row.Slug,
			"bookings": row.Bookings,
		})
	}
	return out
}

// listUsers pages through user accounts, with optional role and search
// filters.
func listUsers(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&users).Error; err != nil {
		logrus.Errorf("failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"pagination": utils.PaginationBlock(p, total),
	})
}

// updateUser changes a user's name, role or active flag. Admins cannot
// deactivate or demote themselves.
func updateUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "User not found",
		})
		return
	}

	actor := middleware.CurrentUser(c)

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		switch role {
		case models.RoleUser, models.RolePartner, models.RoleAdmin:
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid role value",
			})
			return
		}
		if user.ID == actor.ID && role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Cannot change your own role",
			})
			return
		}
		user.Role = role
	}
	if req.IsActive != nil {
		if user.ID == actor.ID && !*req.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Cannot deactivate your own account",
			})
			return
		}
		user.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&user).Error; err != nil {
		logrus.Errorf("failed to update user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

// getUser returns one user account.
func getUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// deleteUser soft-deletes a user account. Self-deletion is rejected.
func deleteUser(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "User not found",
		})
		return
	}

	if user.ID == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Cannot delete your own account",
		})
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		logrus.Errorf("failed to delete user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// adminListBookings pages through bookings for the management dashboard.
// Admins see everything; partners only bookings on their own destinations.
func adminListBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.Booking{})
	if user.Role == models.RolePartner {
		query = query.
			Joins("JOIN destinations ON destinations.id = bookings.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("bookings.status = ?", status)
	}
	if destinationID := c.Query("destinationId"); destinationID != "" {
		query = query.Where("bookings.destination_id = ?", destinationID)
	}
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("bookings.user_id = ?", userID)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.
		Preload("User", selectUserSummary).
		Preload("Destination").
		Preload("Payment").
		Order("bookings.created_at DESC").
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

// adminListReviews pages through reviews for moderation. Admins see all;
// partners only reviews on their own destinations.
func adminListReviews(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.Review{})
	if user.Role == models.RolePartner {
		query = query.
			Joins("JOIN destinations ON destinations.id = reviews.destination_id").
			Where("destinations.user_id = ?", user.ID)
	}
	if destinationID := c.Query("destinationId"); destinationID != "" {
		query = query.Where("reviews.destination_id = ?", destinationID)
	}
	if rating := c.Query("rating"); rating != "" {
		query = query.Where("reviews.rating = ?", rating)
	}

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.
		Preload("User", selectUserSummary).
		Preload("Destination").
		Order("reviews.created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&reviews).Error; err != nil {
		logrus.Errorf("failed to list reviews: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch reviews",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       reviews,
		"pagination": utils.PaginationBlock(p, total),
	})
}
