package restaurant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

func testRouter(repo *MockRepository) *gin.Engine {
	handler := NewHandler(newTestService(repo, &MockVerifier{}))

	router := gin.New()
	router.POST("/restaurants/resolve", handler.Resolve)
	router.POST("/restaurants/lookup", handler.Lookup)
	router.GET("/restaurants", handler.ListRestaurants)
	router.GET("/restaurants/:id", handler.GetRestaurant)
	router.GET("/menus/:id", handler.GetMenuDetails)
	return router
}

func TestResolveEndpoint_Created(t *testing.T) {
	router := testRouter(NewMockRepository())

	body := `{
		"restaurantName": "Pizza Palace",
		"location": {"lat": 37.7749, "lng": -122.4194},
		"menuItems": [{"name": "Margherita Pizza", "allergens": ["dairy"], "certainty": 0.9}],
		"source": "camera"
	}`
	req := httptest.NewRequest("POST", "/restaurants/resolve", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var outcome Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create", outcome.Action)
	}
}

func TestResolveEndpoint_Validation(t *testing.T) {
	router := testRouter(NewMockRepository())

	body := `{"restaurantName": "", "location": {"lat": 37.7749, "lng": -122.4194}}`
	req := httptest.NewRequest("POST", "/restaurants/resolve", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestLookupEndpoint_CameraRequested(t *testing.T) {
	router := testRouter(NewMockRepository())

	body := `{"restaurantName": "Pizza Palace", "location": {"lat": 37.7749, "lng": -122.4194}}`
	req := httptest.NewRequest("POST", "/restaurants/lookup", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp["status"] != "camera_requested" {
		t.Errorf("status = %v, want camera_requested", resp["status"])
	}
}

func TestLookupEndpoint_KnownMenu(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:       "existing",
			Name:     "Pizza Palace",
			Location: match.Location{Lat: 37.7749, Lng: -122.4194},
			MenuItems: []MenuItem{
				{Name: "Margherita Pizza", Allergens: []string{"dairy"}, Certainty: 1},
			},
		},
	}
	router := testRouter(repo)

	body := `{"restaurantName": "Pizza Palace", "location": {"lat": 37.7749, "lng": -122.4194}}`
	req := httptest.NewRequest("POST", "/restaurants/lookup", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Menu struct {
			Items []MenuItem `json:"items"`
		} `json:"menu"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Menu.Items) != 1 {
		t.Errorf("expected stored menu in response, got %+v", resp)
	}
}

func TestGetRestaurant_NotFound(t *testing.T) {
	router := testRouter(NewMockRepository())

	req := httptest.NewRequest("GET", "/restaurants/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetMenuDetails_CertaintyDefaults(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:   "existing",
			Name: "Pizza Palace",
			MenuItems: []MenuItem{
				{Name: "Margherita Pizza"}, // legacy row: no allergens, no certainty
			},
		},
	}
	router := testRouter(repo)

	req := httptest.NewRequest("GET", "/menus/existing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		MenuItems []MenuItem `json:"menuItems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.MenuItems) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.MenuItems))
	}
	if resp.MenuItems[0].Certainty != 1.0 {
		t.Errorf("certainty = %f, want default 1.0", resp.MenuItems[0].Certainty)
	}
	if resp.MenuItems[0].Allergens == nil {
		t.Error("allergens should default to an empty list")
	}
}
