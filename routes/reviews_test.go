package routes

import (
	"net/http"
	"testing"

	"jejakin-server/database"
	"jejakin-server/models"
)

func TestCreateReviewRecomputesRating(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	_, aliceToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, bobToken := createTestUser(t, "Bob", "bob@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Pantai Sanur", 75000)

	w := doRequest(router, http.MethodPost, apiPath("/reviews"), aliceToken, map[string]interface{}{
		"destination_id": destination.ID,
		"rating":         5,
		"comment":        "Amazing sunset",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var refreshed models.Destination
	database.DB.First(&refreshed, destination.ID)
	if refreshed.Rating != 5 {
		t.Errorf("expected rating 5 after first review, got %f", refreshed.Rating)
	}

	w = doRequest(router, http.MethodPost, apiPath("/reviews"), bobToken, map[string]interface{}{
		"destination_id": destination.ID,
		"rating":         3,
		"comment":        "Crowded",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	database.DB.First(&refreshed, destination.ID)
	if refreshed.Rating != 4 {
		t.Errorf("expected rating 4 after two reviews, got %f", refreshed.Rating)
	}
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, aliceToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	bob, _ := createTestUser(t, "Bob", "bob@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Pantai Kuta", 75000)

	aliceReview := models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 5, Comment: "Great"}
	bobReview := models.Review{UserID: bob.ID, DestinationID: destination.ID, Rating: 1, Comment: "Bad"}
	database.DB.Create(&aliceReview)
	database.DB.Create(&bobReview)
	database.DB.Model(&models.Destination{}).Where("id = ?", destination.ID).Update("rating", 3)

	w := doRequest(router, http.MethodDelete, apiPath("/reviews/%d", aliceReview.ID), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var refreshed models.Destination
	database.DB.First(&refreshed, destination.ID)
	if refreshed.Rating != 1 {
		t.Errorf("expected rating 1 after delete, got %f", refreshed.Rating)
	}
}

func TestDeleteLastReviewResetsRatingToZero(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, aliceToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Ubud", 90000)

	review := models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 4, Comment: "Nice"}
	database.DB.Create(&review)
	database.DB.Model(&models.Destination{}).Where("id = ?", destination.ID).Update("rating", 4)

	w := doRequest(router, http.MethodDelete, apiPath("/reviews/%d", review.ID), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var refreshed models.Destination
	database.DB.First(&refreshed, destination.ID)
	if refreshed.Rating != 0 {
		t.Errorf("expected rating reset to 0, got %f", refreshed.Rating)
	}
}

func TestDeleteReviewForbiddenForStrangers(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	_, strangerToken := createTestUser(t, "Stranger", "stranger@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Ubud", 90000)

	review := models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 4, Comment: "Nice"}
	database.DB.Create(&review)

	w := doRequest(router, http.MethodDelete, apiPath("/reviews/%d", review.ID), strangerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestOwningPartnerCanDeleteReview(t *testing.T) {
	router := setupTestRouter(t)

	partner, partnerToken := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Ubud", 90000)

	review := models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 1, Comment: "Spam"}
	database.DB.Create(&review)

	w := doRequest(router, http.MethodDelete, apiPath("/reviews/%d", review.ID), partnerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := countRows(t, &models.Review{}, ""); got != 0 {
		t.Errorf("expected review removed, %d rows remain", got)
	}
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	_, userToken := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Ubud", 90000)

	for _, rating := range []int{0, 6} {
		w := doRequest(router, http.MethodPost, apiPath("/reviews"), userToken, map[string]interface{}{
			"destination_id": destination.ID,
			"rating":         rating,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("rating %d: expected 400, got %d", rating, w.Code)
		}
	}
}

func TestListDestinationReviews(t *testing.T) {
	router := setupTestRouter(t)

	partner, _ := createTestUser(t, "Partner", "partner@example.com", models.RolePartner)
	alice, _ := createTestUser(t, "Alice", "alice@example.com", models.RoleUser)
	destination := createTestDestination(t, partner.ID, "Ubud", 90000)

	database.DB.Create(&models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 4, Comment: "Nice"})
	database.DB.Create(&models.Review{UserID: alice.ID, DestinationID: destination.ID, Rating: 5, Comment: "Even better"})

	w := doRequest(router, http.MethodGet, apiPath("/destinations/%d/reviews", destination.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if got := len(body["data"].([]interface{})); got != 2 {
		t.Errorf("expected 2 reviews, got %d", got)
	}
}
