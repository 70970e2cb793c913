package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jejakin-server/config"
	"jejakin-server/database"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/utils"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	config.Load()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db
}

// setupTestRouter mirrors the route wiring in main.go, minus rate limiting.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)

	router := gin.New()
	api := router.Group("/api/v1")

	public := api.Group("")
	auth := api.Group("/auth")

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())

	authProtected := api.Group("/auth")
	authProtected.Use(middleware.AuthMiddleware())

	dashboard := api.Group("")
	dashboard.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RolePartner, models.RoleAdmin))

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))

	RegisterAuthRoutes(auth, authProtected)
	RegisterDestinationRoutes(public, protected)
	RegisterGalleryRoutes(public, protected)
	RegisterReviewRoutes(protected)
	RegisterBookingRoutes(protected)
	RegisterNotificationRoutes(protected)
	RegisterWishlistRoutes(protected)
	RegisterPaymentRoutes(protected)
	RegisterCategoryRoutes(public, admin)
	RegisterAdminRoutes(dashboard, admin)

	return router
}

func createTestUser(t *testing.T, name, email string, role models.UserRole) (models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func createTestDestination(t *testing.T, ownerID uint, name string, price float64) models.Destination {
	t.Helper()

	destination := models.Destination{
		UserID:      ownerID,
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: "A lovely place to visit",
		Location:    "Jl. Raya 1",
		Province:    "Bali",
		City:        "Denpasar",
		Category:    "pantai",
		Price:       price,
		Status:      models.DestinationStatusActive,
	}
	if err := database.DB.Create(&destination).Error; err != nil {
		t.Fatalf("failed to create test destination: %v", err)
	}
	return destination
}

func createTestBooking(t *testing.T, userID uint, destination models.Destination, people int) models.Booking {
	t.Helper()

	booking := models.Booking{
		BookingCode:    utils.GenerateBookingCode(),
		UserID:         userID,
		DestinationID:  destination.ID,
		VisitDate:      time.Now().AddDate(0, 0, 7),
		NumberOfPeople: people,
		PricePerPerson: destination.Price,
		TotalPrice:     destination.Price * float64(people),
		Status:         models.BookingStatusPending,
		PaymentStatus:  models.PaymentStateUnpaid,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		t.Fatalf("failed to create test booking: %v", err)
	}
	return booking
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v (%s)", err, w.Body.String())
	}
	return body
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := database.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func apiPath(format string, args ...interface{}) string {
	return "/api/v1" + fmt.Sprintf(format, args...)
}
