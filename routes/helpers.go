package routes

import (
	"gorm.io/gorm"
)

// selectUserSummary limits preloaded user rows to public fields.
func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "role", "avatar")
}
