package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
)

// WishlistRequest represents the add request
type WishlistRequest struct {
	DestinationID uint `json:"destination_id" binding:"required"`
}

// RegisterWishlistRoutes registers wishlist routes (all protected)
func RegisterWishlistRoutes(rg *gin.RouterGroup) {
	rg.GET("/wishlists", listWishlists)
	rg.POST("/wishlists", addToWishlist)
	rg.DELETE("/wishlists/:destinationId", removeFromWishlist)
}

// listWishlists returns the caller's wishlist with destinations preloaded.
func listWishlists(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var wishlists []models.Wishlist
	if err := database.DB.
		Where("user_id = ?", user.ID).
		Preload("Destination").
		Order("created_at DESC").
		Find(&wishlists).Error; err != nil {
		logrus.Errorf("failed to list wishlists for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wishlists,
	})
}

// addToWishlist saves a destination. Adding the same destination twice is a
// conflict, backed by the composite unique index.
func addToWishlist(c *gin.Context) {
	var req WishlistRequest
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

	var existing models.Wishlist
	if err := database.DB.
		Where("user_id = ? AND destination_id = ?", user.ID, destination.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Destination already in wishlist",
		})
		return
	}

	wishlist := models.Wishlist{
		UserID:        user.ID,
		DestinationID: destination.ID,
	}
	if err := database.DB.Create(&wishlist).Error; err != nil {
		logrus.Errorf("failed to add wishlist entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to add to wishlist",
		})
		return
	}

	wishlist.Destination = destination
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Added to wishlist",
		"data":    wishlist,
	})
}

// removeFromWishlist deletes the caller's wishlist entry for a destination.
func removeFromWishlist(c *gin.Context) {
	user := middleware.CurrentUser(c)

	result := database.DB.
		Where("user_id = ? AND destination_id = ?", user.ID, c.Param("destinationId")).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		logrus.Errorf("failed to remove wishlist entry: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to remove from wishlist",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Wishlist entry not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from wishlist",
	})
}
