package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jejakin-server/database"
	"jejakin-server/models"
	"jejakin-server/utils"
)

// CategoryRequest represents the create request
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

// CategoryUpdateRequest represents the update request
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// RegisterCategoryRoutes registers category routes. Reads are public;
// writes live under the admin group.
func RegisterCategoryRoutes(public *gin.RouterGroup, admin *gin.RouterGroup) {
	public.GET("/categories", listCategories)
	admin.POST("/categories", createCategory)
	admin.PUT("/categories/:id", updateCategory)
	admin.DELETE("/categories/:id", deleteCategory)
}

// listCategories returns active categories in display order. Admins may pass
// includeInactive=true.
func listCategories(c *gin.Context) {
	query := database.DB.Model(&models.Category{})
	if c.Query("includeInactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		logrus.Errorf("failed to list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// createCategory adds a category. The slug derives from the name and must be
// unique.
func createCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	categorySlug := utils.Slugify(req.Name)

	var existing models.Category
	if err := database.DB.Where("slug = ?", categorySlug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Category already exists",
		})
		return
	}

	category := models.Category{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		logrus.Errorf("failed to create category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create category",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Category created successfully",
		"data":    category,
	})
}

// updateCategory applies a partial update. Renaming re-derives the slug and
// re-checks uniqueness.
func updateCategory(c *gin.Context) {
	var category models.Category
	if err := database.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Category not found",
		})
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		newSlug := utils.Slugify(*req.Name)
		var clash models.Category
		if err := database.DB.Where("slug = ? AND id != ?", newSlug, category.ID).First(&clash).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Category name already in use",
			})
			return
		}
		category.Name = *req.Name
		category.Slug = newSlug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := database.DB.Save(&category).Error; err != nil {
		logrus.Errorf("failed to update category %d: %v", category.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category updated successfully",
		"data":    category,
	})
}

// deleteCategory soft-deletes a category. Destinations keep their loose
// category string, so nothing cascades.
func deleteCategory(c *gin.Context) {
	result := database.DB.Delete(&models.Category{}, c.Param("id"))
	if result.Error != nil {
		logrus.Errorf("failed to delete category: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete category",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully",
	})
}
