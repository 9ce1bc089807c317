package camera

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TosaOdiase/allergenblock/internal/match"
	"github.com/TosaOdiase/allergenblock/internal/restaurant"
)

// Uploads larger than this are rejected before touching storage.
const maxImageBytes = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Mobile client uploads a captured menu
// --------------------------------------------------
func (h *Handler) Upload(c *gin.Context) {
	name := c.PostForm("restaurant_name")
	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.PostForm("lng"), 64)
	if name == "" || latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_name, lat and lng are required"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	result, err := h.service.Process(c.Request.Context(), Capture{
		RestaurantName: name,
		Location:       match.Location{Lat: lat, Lng: lng},
		Image:          image,
		ContentType:    header.Header.Get("Content-Type"),
	})
	if err != nil {
		switch {
		case errors.Is(err, restaurant.ErrMissingName),
			errors.Is(err, restaurant.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoMenuItems):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process menu capture"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
