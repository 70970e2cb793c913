package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/services"
	"jejakin-server/utils"
)

// ReviewRequest represents the create request
type ReviewRequest struct {
	DestinationID uint   `json:"destination_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// RegisterReviewRoutes registers review routes
func RegisterReviewRoutes(protected *gin.RouterGroup) {
	protected.POST("/reviews", createReview)
	protected.DELETE("/reviews/:id", deleteReview)
}

// createReview stores a review and folds its rating into the destination's
// aggregate. One review per user per destination is not enforced; repeat
// reviewers simply weigh more.
func createReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var destination models.Destination
	if err := database.DB.First(&destination, req.DestinationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	review := models.Review{
		UserID:        user.ID,
		DestinationID: destination.ID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeDestinationRating(tx, destination.ID)
	})
	if err != nil {
		logrus.Errorf("failed to create review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create review",
		})
		return
	}

	invalidateDestinationCache(c.Request.Context(), destination.ID, destination.Slug)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review created successfully",
		"data":    review,
	})
}

// listDestinationReviews returns the reviews for a destination, newest first.
// Registered under /destinations/:id/reviews.
func listDestinationReviews(c *gin.Context) {
	destination, err := findDestination(c.Param("id"), false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	p := utils.ParsePagination(c)

	var total int64
	database.DB.Model(&models.Review{}).Where("destination_id = ?", destination.ID).Count(&total)

	var reviews []models.Review
	if err := database.DB.
		Where("destination_id = ?", destination.ID).
		Preload("User", selectUserSummary).
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&reviews).Error; err != nil {
		logrus.Errorf("failed to list reviews for destination %d: %v", destination.ID, err)
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

// deleteReview removes a review (author, owning partner, or admin) and
// recomputes the destination aggregate from the surviving rows.
func deleteReview(c *gin.Context) {
	var review models.Review
	if err := database.DB.Preload("Destination").First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Review not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	if !services.CanDeleteReview(user, &review) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeDestinationRating(tx, review.DestinationID)
	})
	if err != nil {
		logrus.Errorf("failed to delete review %d: %v", review.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete review",
		})
		return
	}

	invalidateDestinationCache(c.Request.Context(), review.DestinationID, review.Destination.Slug)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted successfully",
	})
}

// recomputeDestinationRating sets the destination rating to the mean of its
// reviews, or 0 when none remain.
func recomputeDestinationRating(tx *gorm.DB, destinationID uint) error {
	var avg float64
	if err := tx.Model(&models.Review{}).
		Where("destination_id = ?", destinationID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Destination{}).
		Where("id = ?", destinationID).
		Update("rating", avg).Error
}
