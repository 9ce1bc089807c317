package restaurant

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Resolve an observation (camera / manual / scrape)
// --------------------------------------------------
func (h *Handler) Resolve(c *gin.Context) {
	var obs Observation
	if err := c.BindJSON(&obs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if obs.Source == "" {
		obs.Source = SourceManual
	}

	outcome, err := h.service.Resolve(c.Request.Context(), obs)
	if err != nil {
		if errors.Is(err, ErrMissingName) || errors.Is(err, ErrInvalidLocation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process restaurant data"})
		return
	}

	status := http.StatusOK
	if outcome.Action == ActionCreate {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}

// --------------------------------------------------
// Menu lookup: stored menu or camera request
// --------------------------------------------------
func (h *Handler) Lookup(c *gin.Context) {
	var req struct {
		RestaurantName string         `json:"restaurantName"`
		Location       match.Location `json:"location"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant name and location are required"})
		return
	}

	found, err := h.service.MenuContext(c.Request.Context(), req.RestaurantName, req.Location)
	if err != nil {
		if errors.Is(err, ErrMissingName) || errors.Is(err, ErrInvalidLocation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process restaurant data"})
		return
	}

	if found != nil {
		c.JSON(http.StatusOK, gin.H{
			"restaurantName": found.Name,
			"location":       found.Location,
			"menu":           gin.H{"items": found.MenuItems},
		})
		return
	}

	// No menu known yet; the mobile client takes over with the camera.
	c.JSON(http.StatusOK, gin.H{
		"restaurantName": req.RestaurantName,
		"location":       req.Location,
		"status":         "camera_requested",
		"message":        "Menu capture has been requested",
	})
}

// --------------------------------------------------
// Read API
// --------------------------------------------------
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restaurants"})
		return
	}

	out := make([]gin.H, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, gin.H{"id": r.ID, "name": r.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":      r.Name,
		"menuItems": r.MenuItems,
	})
}

func (h *Handler) GetMenuDetails(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch menu details"})
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}

	items := make([]MenuItem, 0, len(r.MenuItems))
	for _, item := range r.MenuItems {
		if item.Allergens == nil {
			item.Allergens = []string{}
		}
		if item.Certainty == 0 {
			item.Certainty = 1.0
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        r.ID,
		"name":      r.Name,
		"menuItems": items,
	})
}

// --------------------------------------------------
// Admin
// --------------------------------------------------
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete restaurant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
