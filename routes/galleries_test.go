package routes

import (
	"net/http"
	"testing"

	"jejakin-server/database"
	"jejakin-server/models"
)

func TestCreateGalleryFromURLAndPrimaryDemotion(t *testing.T) {
	router := setupTestRouter(t)

	partner, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	destination := createTestDestination(t, partner.ID, "Bromo", 150000)

	w := doRequest(router, http.MethodPost, apiPath("/destinations/%d/galleries", destination.ID), partnerToken, map[string]interface{}{
		"image_url":  "https://cdn.example.com/bromo-1.jpg",
		"caption":    "Sunrise",
		"is_primary": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, apiPath("/destinations/%d/galleries", destination.ID), partnerToken, map[string]interface{}{
		"image_url":  "https://cdn.example.com/bromo-2.jpg",
		"is_primary": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if got := countRows(t, &models.DestinationGallery{}, "destination_id = ? AND is_primary = ?", destination.ID, true); got != 1 {
		t.Errorf("expected exactly one primary image, got %d", got)
	}
}

func TestCreateGalleryForbiddenForNonOwner(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	_, otherToken := createTestUser(t, "Other", "other@example.com", models.RolePartner)
	destination := createTestDestination(t, partner.ID, "Bromo", 150000)

	w := doRequest(router, http.MethodPost, apiPath("/destinations/%d/galleries", destination.ID), otherToken, map[string]interface{}{
		"image_url": "https://cdn.example.com/x.jpg",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestListGalleriesOrdered(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	destination := createTestDestination(t, partner.ID, "Bromo", 150000)

	database.DB.Create(&models.DestinationGallery{DestinationID: destination.ID, ImageURL: "https://cdn.example.com/b.jpg", SortOrder: 2})
	database.DB.Create(&models.DestinationGallery{DestinationID: destination.ID, ImageURL: "https://cdn.example.com/a.jpg", SortOrder: 1, IsPrimary: true})

	w := doRequest(router, http.MethodGet, apiPath("/destinations/%d/galleries", destination.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 images, got %d", len(data))
	}
	first := data[0].(map[string]interface{})
	if first["is_primary"] != true {
		t.Error("expected primary image first")
	}
}

func TestUpdateAndDeleteGallery(t *testing.T) {
	router := setupTestRouter(t)

	partner, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	destination := createTestDestination(t, partner.ID, "Bromo", 150000)

	g := models.DestinationGallery{DestinationID: destination.ID, ImageURL: "https://cdn.example.com/a.jpg"}
	database.DB.Create(&g)

	w := doRequest(router, http.MethodPut, apiPath("/galleries/%d", g.ID), partnerToken, map[string]interface{}{
		"caption":    "New caption",
		"is_primary": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var refreshed models.DestinationGallery
	database.DB.First(&refreshed, g.ID)
	if refreshed.Caption == nil || *refreshed.Caption != "New caption" || !refreshed.IsPrimary {
		t.Error("expected caption and primary flag updated")
	}

	w = doRequest(router, http.MethodDelete, apiPath("/galleries/%d", g.ID), partnerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if got := countRows(t, &models.DestinationGallery{}, ""); got != 0 {
		t.Errorf("expected gallery removed, got %d rows", got)
	}
}
