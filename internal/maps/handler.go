package maps

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Nearby lists restaurants Google knows within 500 m of a coordinate.
func (h *Handler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)

	location := match.Location{Lat: lat, Lng: lng}
	if latErr != nil || lngErr != nil || !location.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid lat and lng are required"})
		return
	}

	places, err := h.client.Nearby(c.Request.Context(), location)
	if err != nil {
		// Absence of directory data is not fatal for the client.
		c.JSON(http.StatusOK, gin.H{"restaurants": []Place{}})
		return
	}

	if places == nil {
		places = []Place{}
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": places})
}
