package routes

import (
	"net/http"
	"testing"

	"jejakin-server/database"
	"jejakin-server/models"
)

func TestAddToWishlistAndDuplicateConflict(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	_, userToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Nusa Penida", 120000)

	w := doRequest(router, http.MethodPost, apiPath("/wishlists"), userToken, map[string]interface{}{
		"destination_id": destination.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, apiPath("/wishlists"), userToken, map[string]interface{}{
		"destination_id": destination.ID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate add: expected 409, got %d", w.Code)
	}
	if got := countRows(t, &models.Wishlist{}, ""); got != 1 {
		t.Errorf("expected 1 wishlist row, got %d", got)
	}
}

func TestAddToWishlistMissingDestination(t *testing.T) {
	router := setupTestRouter(t)

	_, userToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)

	w := doRequest(router, http.MethodPost, apiPath("/wishlists"), userToken, map[string]interface{}{
		"destination_id": 4242,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRemoveFromWishlist(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, userToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Nusa Penida", 120000)

	database.DB.Create(&models.Wishlist{UserID: alice.ID, DestinationID: destination.ID})

	w := doRequest(router, http.MethodDelete, apiPath("/wishlists/%d", destination.ID), userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(router, http.MethodDelete, apiPath("/wishlists/%d", destination.ID), userToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", w.Code)
	}
}

func TestListWishlistsScopedToCaller(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, aliceToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob, _ := createTestUser(t, "Bob", "bob@example.com", models.RoleUser)
	d1 := createTestDestination(t, partner.ID, "Nusa Penida", 120000)
	d2 := createTestDestination(t, partner.ID, "Lombok", 110000)

	database.DB.Create(&models.Wishlist{UserID: alice.ID, DestinationID: d1.ID})
	database.DB.Create(&models.Wishlist{UserID: bob.ID, DestinationID: d2.ID})

	w := doRequest(router, http.MethodGet, apiPath("/wishlists"), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 1 {
		t.Errorf("expected 1 wishlist entry, got %d", got)
	}
}
