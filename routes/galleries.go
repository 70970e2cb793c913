package routes

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jejakin-server/config"
	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/services"
)

// GalleryUpdateRequest represents the gallery metadata update request
type GalleryUpdateRequest struct {
	Caption   *string `json:"caption"`
	IsPrimary *bool   `json:"is_primary"`
	SortOrder *int    `json:"sort_order"`
}

// RegisterGalleryRoutes registers gallery routes
func RegisterGalleryRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.GET("/destinations/:id/galleries", listGalleries)
	protected.POST("/destinations/:id/galleries", createGallery)
	protected.PUT("/galleries/:id", updateGallery)
	protected.DELETE("/galleries/:id", deleteGallery)
}

// validateImageFile checks mimetype by extension and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadGalleryImage pushes a file to Cloudinary and returns the secure URL.
func uploadGalleryImage(ctx context.Context, header *multipart.FileHeader, destinationID uint) (string, error) {
	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return "", fmt.Errorf("cloudinary not configured")
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName))
	if err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	overwrite := true
	unique := true
	up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         fmt.Sprintf("destinations/%d/gallery", destinationID),
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", err
	}
	return up.SecureURL, nil
}

// listGalleries returns a destination's gallery images ordered for display.
func listGalleries(c *gin.Context) {
	destination, err := findDestination(c.Param("id"), false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Destination not found",
		})
		return
	}

	var galleries []models.DestinationGallery
	if err := database.DB.
		Where("destination_id = ?", destination.ID).
		Order("is_primary DESC, sort_order ASC, id ASC").
		Find(&galleries).Error; err != nil {
		logrus.Errorf("failed to list galleries for destination %d: %v", destination.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch galleries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    galleries,
	})
}

// createGallery adds a gallery image for a destination the caller manages.
// The image comes in either as a multipart "image" file (uploaded to
// Cloudinary) or as an "image_url" form/JSON field pointing at an already
// hosted asset.
func createGallery(c *gin.Context) {
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
			"error":   "Forbidden",
		})
		return
	}

	var imageURL string
	var caption *string
	isPrimary := false

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		header, err := c.FormFile("image")
		if err != nil || !validateImageFile(header) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid image file",
				"message": "Provide a jpg, jpeg, png or webp up to 5MB",
			})
			return
		}
		imageURL, err = uploadGalleryImage(c.Request.Context(), header, destination.ID)
		if err != nil {
			logrus.Errorf("gallery upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Image upload failed",
			})
			return
		}
		if raw := c.PostForm("caption"); raw != "" {
			caption = &raw
		}
		isPrimary = c.PostForm("is_primary") == "true"
	} else {
		var req struct {
			ImageURL  string `json:"image_url" binding:"required,url"`
			Caption   string `json:"caption"`
			IsPrimary bool   `json:"is_primary"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}
		imageURL = req.ImageURL
		if req.Caption != "" {
			caption = &req.Caption
		}
		isPrimary = req.IsPrimary
	}

	gallery := models.DestinationGallery{
		DestinationID: destination.ID,
		ImageURL:      imageURL,
		Caption:       caption,
		IsPrimary:     isPrimary,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if gallery.IsPrimary {
			if err := unsetPrimaryGallery(tx, destination.ID); err != nil {
				return err
			}
		}
		return tx.Create(&gallery).Error
	})
	if err != nil {
		logrus.Errorf("failed to create gallery entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create gallery entry",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Gallery image added",
		"data":    gallery,
	})
}

// updateGallery edits caption, ordering or primary flag. Promoting an image
// to primary demotes the previous one in the same transaction.
func updateGallery(c *gin.Context) {
	var gallery models.DestinationGallery
	if err := database.DB.Preload("Destination").First(&gallery, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Gallery entry not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	if !services.CanManageDestination(user, &gallery.Destination) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	var req GalleryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.Caption != nil {
		gallery.Caption = req.Caption
	}
	if req.SortOrder != nil {
		gallery.SortOrder = *req.SortOrder
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsPrimary != nil && *req.IsPrimary && !gallery.IsPrimary {
			if err := unsetPrimaryGallery(tx, gallery.DestinationID); err != nil {
				return err
			}
			gallery.IsPrimary = true
		} else if req.IsPrimary != nil && !*req.IsPrimary {
			gallery.IsPrimary = false
		}
		return tx.Save(&gallery).Error
	})
	if err != nil {
		logrus.Errorf("failed to update gallery %d: %v", gallery.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update gallery entry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gallery entry updated",
		"data":    gallery,
	})
}

// deleteGallery removes a gallery row. The hosted asset is left in place.
func deleteGallery(c *gin.Context) {
	var gallery models.DestinationGallery
	if err := database.DB.Preload("Destination").First(&gallery, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Gallery entry not found",
		})
		return
	}

	user := middleware.CurrentUser(c)
	if !services.CanManageDestination(user, &gallery.Destination) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "Forbidden",
		})
		return
	}

	if err := database.DB.Delete(&gallery).Error; err != nil {
		logrus.Errorf("failed to delete gallery %d: %v", gallery.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete gallery entry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gallery entry deleted",
	})
}

func unsetPrimaryGallery(tx *gorm.DB, destinationID uint) error {
	return tx.Model(&models.DestinationGallery{}).
		Where("destination_id = ? AND is_primary = ?", destinationID, true).
		Update("is_primary", false).Error
}
