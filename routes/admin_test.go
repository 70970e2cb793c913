package routes

import (
	"net/http"
	"testing"

	"jejakin-server/database"
	"jejakin-server/models"
)

func TestStatsScopedForPartner(t *testing.T) {
	router := setupTestRouter(t)

	partner, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	otherPartner, _ := createTestUser(t, "Other", "other@example.com", models.RolePartner)
	user, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", models.RoleAdmin)

	mine := createTestDestination(t, partner.ID, "Mine", 100000)
	theirs := createTestDestination(t, otherPartner.ID, "Theirs", 100000)

	b1 := createTestBooking(t, user.ID, mine, 2)
	database.DB.Model(&b1).Update("payment_status", models.PaymentStatePaid)
	createTestBooking(t, user.ID, theirs, 3)

	w := doRequest(router, http.MethodGet, apiPath("/admin/stats"), partnerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	if got := data["totalDestinations"].(float64); got != 1 {
		t.Errorf("partner totalDestinations: expected 1, got %f", got)
	}
	if got := data["totalBookings"].(float64); got != 1 {
		t.Errorf("partner totalBookings: expected 1, got %f", got)
	}
	if got := data["totalRevenue"].(float64); got != 200000 {
		t.Errorf("partner totalRevenue: expected 200000, got %f", got)
	}

	w = doRequest(router, http.MethodGet, apiPath("/admin/stats"), adminToken, nil)
	body = decodeBody(t, w)
	data = body["data"].(map[string]interface{})
	if got := data["totalBookings"].(float64); got != 2 {
		t.Errorf("admin totalBookings: expected 2, got %f", got)
	}
	if _, ok := data["totalUsers"]; !ok {
		t.Error("admin stats should include totalUsers")
	}
}

func TestStatsForbiddenForRegularUser(t *testing.T) {
	router := setupTestRouter(t)

	_, userToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)

	w := doRequest(router, http.MethodGet, apiPath("/admin/stats"), userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAdminUserManagement(t *testing.T) {
	router := setupTestRouter(t)

	admin, adminToken := createTestUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	target, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)

	w := doRequest(router, http.MethodGet, apiPath("/admin/users"), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 2 {
		t.Errorf("expected 2 users, got %d", got)
	}

	w = doRequest(router, http.MethodPut, apiPath("/admin/users/%d", target.ID), adminToken, map[string]interface{}{
		"role":      "partner",
		"is_active": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update user: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var refreshed models.User
	database.DB.First(&refreshed, target.ID)
	if refreshed.Role != models.RolePartner || refreshed.IsActive {
		t.Errorf("expected partner+inactive, got %s active=%v", refreshed.Role, refreshed.IsActive)
	}

	// Self-demotion and self-deletion are rejected.
	w = doRequest(router, http.MethodPut, apiPath("/admin/users/%d", admin.ID), adminToken, map[string]interface{}{
		"role": "user",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("self demote: expected 400, got %d", w.Code)
	}
	w = doRequest(router, http.MethodDelete, apiPath("/admin/users/%d", admin.ID), adminToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("self delete: expected 400, got %d", w.Code)
	}

	w = doRequest(router, http.MethodDelete, apiPath("/admin/users/%d", target.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d", w.Code)
	}
}

func TestAdminEndpointsForbiddenForPartner(t *testing.T) {
	router := setupTestRouter(t)

	_, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)

	w := doRequest(router, http.MethodGet, apiPath("/admin/users"), partnerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestDashboardBookingsScopedForPartner(t *testing.T) {
	router := setupTestRouter(t)

	partner, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	otherPartner, _ := createTestUser(t, "Other", "other@example.com", models.RolePartner)
	user, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)

	mine := createTestDestination(t, partner.ID, "Mine", 100000)
	theirs := createTestDestination(t, otherPartner.ID, "Theirs", 100000)
	createTestBooking(t, user.ID, mine, 1)
	createTestBooking(t, user.ID, theirs, 1)

	w := doRequest(router, http.MethodGet, apiPath("/admin/bookings"), partnerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 1 {
		t.Errorf("partner should only see bookings on own destinations, got %d", got)
	}
}

func TestAdminBookingAndReviewListings(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	user, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	destination := createTestDestination(t, partner.ID, "Bromo", 150000)

	booking := createTestBooking(t, user.ID, destination, 2)
	database.DB.Model(&booking).Update("status", models.BookingStatusConfirmed)
	createTestBooking(t, user.ID, destination, 1)
	database.DB.Create(&models.Review{UserID: user.ID, DestinationID: destination.ID, Rating: 4, Comment: "Nice"})

	w := doRequest(router, http.MethodGet, apiPath("/admin/bookings?status=confirmed"), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 1 {
		t.Errorf("status filter: expected 1 booking, got %d", got)
	}

	w = doRequest(router, http.MethodGet, apiPath("/admin/reviews"), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body = decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 1 {
		t.Errorf("expected 1 review, got %d", got)
	}
}
