package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/services"
	"jejakin-server/utils"
)

const destinationCacheTTL = 5 * time.Minute

// sort keys accepted by the destination list endpoint
var destinationSortKeys = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"price":      "price",
	"rating":     "rating",
	"name":       "name",
}

// DestinationRequest represents the create request
type DestinationRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Province    string   `json:"province" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Facilities  []string `json:"facilities"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// DestinationUpdateRequest represents the partial update request
type DestinationUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Province    *string  `json:"province"`
	City        *string  `json:"city"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Images      []string `json:"images"`
	Facilities  []string `json:"facilities"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Status      *string  `json:"status"`
}

// RegisterDestinationRoutes registers catalog routes
func RegisterDestinationRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.GET("/destinations", listDestinations)
	public.GET("/destinations/:id", getDestination)
	public.GET("/destinations/:id/reviews", listDestinationReviews)

	protected.POST("/destinations", middleware.RequireRoles(models.RolePartner, models.RoleAdmin), createDestination)
	protected.PUT("/destinations/:id", createDestinationUpdateHandler())
	protected.DELETE("/destinations/:id", deleteDestination)
}

// listDestinations lists the catalog with filters and pagination. Soft
// deleted rows are excluded by gorm; non-active rows only show up when the
// caller filters for them explicitly.
func listDestinations(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := database.DB.Model(&models.Destination{})

	if slugParam := c.Query("slug"); slugParam != "" {
		query = query.Where("slug = ?", slugParam)
	} else {
		status := c.DefaultQuery("status", string(models.DestinationStatusActive))
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like,
		)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if province := c.Query("province"); province != "" {
		query = query.Where("province = ?", province)
	}

	var total int64
	query.Count(&total)

	sortBy, ok := destinationSortKeys[c.DefaultQuery("sortBy", "created_at")]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(c.DefaultQuery("order", "desc"), "asc") {
		order = "ASC"
	}

	var destinations []models.Destination
	if err := query.
		Preload("User", selectUserSummary).
		Order(sortBy + " " + order).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&destinations).Error; err != nil {
		logrus.Errorf("failed to list destinations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch destinations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       destinations,
		"pagination": utils.PaginationBlock(p, total),
	})
}

// getDestination returns one destination by numeric id or slug, with owner,
// reviews and gallery. Slug lookups go through the redis cache when it is
// available.
func getDestination(c *gin.Context) {
	idParam := c.Param("id")

	cacheKey := "destination:" + idParam
	if database.Redis != nil {
		var cached models.Destination
		found, err := utils.GetCache(c.Request.Context(), database.Redis, cacheKey, &cached)
		if err != nil {
			logrus.Warnf("destination cache read failed: %v", err)
		} else if found {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
			return
		}
	}

	destination, err := findDestination(idParam, true)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	if database.Redis != nil {
		if err := utils.SetCache(c.Request.Context(), database.Redis, cacheKey, destination, destinationCacheTTL); err != nil {
			logrus.Warnf("destination cache write failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    destination,
	})
}

// createDestination creates a catalog entry for the calling partner/admin
func createDestination(c *gin.Context) {
	var req DestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	user := middleware.CurrentUser(c)
	slugValue := utils.Slugify(req.Name)

	var existing models.Destination
	if err := database.DB.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Destination with this name already exists",
		})
		return
	}

	destination := models.Destination{
		UserID:      user.ID,
		Name:        req.Name,
		Slug:        slugValue,
		Description: req.Description,
		Location:    req.Location,
		Province:    req.Province,
		City:        req.City,
		Category:    req.Category,
		Price:       req.Price,
		Status:      models.DestinationStatusActive,
		Images:      toJSONArray(req.Images),
		Facilities:  toJSONArray(req.Facilities),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := database.DB.Create(&destination).Error; err != nil {
		logrus.Errorf("failed to create destination: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create destination",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Destination created successfully",
		"data":    destination,
	})
}

// createDestinationUpdateHandler builds the PUT handler
func createDestinationUpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		destination, err := findDestination(c.Param("id"), false)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Destination not found",
			})
			return
		}

		user := middleware.CurrentUser(c)
		if !services.CanManageDestination(user, destination) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Forbidden: You can only update your own destinations",
			})
			return
		}

		var req DestinationUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		oldSlug := destination.Slug

		if req.Name != nil {
			destination.Name = *req.Name
			destination.Slug = utils.Slugify(*req.Name)
		}
		if req.Description != nil {
			destination.Description = *req.Description
		}
		if req.Location != nil {
			destination.Location = *req.Location
		}
		if req.Province != nil {
			destination.Province = *req.Province
		}
		if req.City != nil {
			destination.City = *req.City
		}
		if req.Category != nil {
			destination.Category = *req.Category
		}
		if req.Price != nil {
			destination.Price = *req.Price
		}
		if req.Images != nil {
			destination.Images = toJSONArray(req.Images)
		}
		if req.Facilities != nil {
			destination.Facilities = toJSONArray(req.Facilities)
		}
		if req.Latitude != nil {
			destination.Latitude = req.Latitude
		}
		if req.Longitude != nil {
			destination.Longitude = req.Longitude
		}
		if req.Status != nil {
			switch models.DestinationStatus(*req.Status) {
			case models.DestinationStatusActive, models.DestinationStatusInactive, models.DestinationStatusPending:
				destination.Status = models.DestinationStatus(*req.Status)
			default:
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid status value",
				})
				return
			}
		}

		if destination.Slug != oldSlug {
			var clash models.Destination
			if err := database.DB.Where("slug = ? AND id <> ?", destination.Slug, destination.ID).First(&clash).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{
					"success": false,
					"error":   "Destination with this name already exists",
				})
				return
			}
		}

		if err := database.DB.Save(destination).Error; err != nil {
			logrus.Errorf("failed to update destination %d: %v", destination.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to update destination",
			})
			return
		}

		invalidateDestinationCache(c.Request.Context(), destination.ID, oldSlug, destination.Slug)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Destination updated successfully",
			"data":    destination,
		})
	}
}

// deleteDestination soft-deletes a catalog entry
func deleteDestination(c *gin.Context) {
	destination, err := findDestination(c.Param("id"), false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	if !services.CanManageDestination(user, destination) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden: You can only delete your own destinations",
		})
		return
	}

	if err := database.DB.Delete(destination).Error; err != nil {
		logrus.Errorf("failed to delete destination %d: %v", destination.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete destination",
		})
		return
	}

	invalidateDestinationCache(c.Request.Context(), destination.ID, destination.Slug, "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Destination deleted successfully",
	})
}

// findDestination looks a destination up by numeric id or slug.
func findDestination(idOrSlug string, withRelations bool) (*models.Destination, error) {
	query := database.DB
	if withRelations {
		query = query.
			Preload("User", selectUserSummary).
			Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
			Preload("Reviews.User", selectUserSummary).
			Preload("Galleries", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, sort_order ASC") })
	}

	var destination models.Destination
	if id, err := strconv.ParseUint(idOrSlug, 10, 32); err == nil {
		if err := query.First(&destination, uint(id)).Error; err != nil {
			return nil, err
		}
		return &destination, nil
	}

	if err := query.Where("slug = ?", idOrSlug).First(&destination).Error; err != nil {
		return nil, err
	}
	return &destination, nil
}

func invalidateDestinationCache(ctx context.Context, id uint, slugs ...string) {
	if database.Redis == nil {
		return
	}
	keys := []string{fmt.Sprintf("destination:%d", id)}
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, "destination:"+s)
		}
	}
	if err := utils.DeleteCache(ctx, database.Redis, keys...); err != nil {
		logrus.Warnf("destination cache invalidation failed: %v", err)
	}
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}
