package main

import (
	"github.com/sirupsen/logrus"

	"jejakin-server/database"
	"jejakin-server/models"
	"jejakin-server/utils"
)

// seedCategories inserts the default destination categories. Existing slugs
// are left untouched so the seed is safe to run on every boot.
func seedCategories() error {
	db := database.GetDB()

	categories := []models.Category{
		{
			Name:        "Pantai",
			Description: "Wisata pantai dan pesisir",
			Icon:        "beach",
			IsActive:    true,
			SortOrder:   1,
		},
		{
			Name:        "Gunung",
			Description: "Pendakian dan wisata pegunungan",
			Icon:        "mountain",
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Name:        "Budaya",
			Description: "Candi, keraton dan situs sejarah",
			Icon:        "temple",
			IsActive:    true,
			SortOrder:   3,
		},
		{
			Name:        "Kuliner",
			Description: "Wisata kuliner dan pasar tradisional",
			Icon:        "food",
			IsActive:    true,
			SortOrder:   4,
		},
		{
			Name:        "Alam",
			Description: "Taman nasional, air terjun dan danau",
			Icon:        "tree",
			IsActive:    true,
			SortOrder:   5,
		},
		{
			Name:        "Taman Hiburan",
			Description: "Taman rekreasi dan wahana keluarga",
			Icon:        "ferris-wheel",
			IsActive:    true,
			SortOrder:   6,
		},
	}

	for _, category := range categories {
		category.Slug = utils.Slugify(category.Name)

		var existing models.Category
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		logrus.Infof("seeded category %s", category.Name)
	}

	return nil
}

// seedAdminUser creates the initial admin account when no admin exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; defaults are for
// local development only.
func seedAdminUser(email, password string) error {
	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logrus.Infof("seeded admin account %s", email)
	return nil
}
