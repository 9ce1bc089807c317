package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/TosaOdiase/allergenblock/internal/match"
	"github.com/TosaOdiase/allergenblock/internal/restaurant"
)

const nearbySearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// Client talks to the Google Places nearby-search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		apiKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		baseURL: nearbySearchURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Place is one nearby restaurant as reported by Google.
type Place struct {
	Name     string         `json:"name"`
	Location match.Location `json:"location"`
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// --------------------------------------------------
// Verification (100 m, name-similarity gated)
// --------------------------------------------------

// Verify reports whether Google knows a restaurant by this name within
// 100 m. Found requires best name similarity >= 0.8.
func (c *Client) Verify(
	ctx context.Context,
	name string,
	location match.Location,
) (restaurant.Verification, error) {

	places, err := c.nearby(ctx, location, 100, name)
	if err != nil {
		return restaurant.Verification{}, err
	}

	var best *Place
	bestScore := 0.0
	for i, place := range places {
		similarity := match.Similarity(place.Name, name)
		if similarity > bestScore {
			bestScore = similarity
			best = &places[i]
		}
	}

	if best != nil && bestScore >= 0.8 {
		log.Printf("MAPS verified name=%q place=%q score=%.2f", name, best.Name, bestScore)
		return restaurant.Verification{
			Found: true,
			Place: &restaurant.ExternalMatch{
				Name:     best.Name,
				Location: best.Location,
			},
		}, nil
	}

	return restaurant.Verification{}, nil
}

// --------------------------------------------------
// Nearby listing (500 m)
// --------------------------------------------------

// Nearby lists restaurants within 500 m of a location.
func (c *Client) Nearby(ctx context.Context, location match.Location) ([]Place, error) {
	return c.nearby(ctx, location, 500, "")
}

func (c *Client) nearby(
	ctx context.Context,
	location match.Location,
	radiusMeters int,
	keyword string,
) ([]Place, error) {

	if c.apiKey == "" {
		return nil, errors.New("missing GOOGLE_MAPS_API_KEY")
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", location.Lat, location.Lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data nearbyResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	if data.Status != "OK" {
		if data.Status == "ZERO_RESULTS" {
			return nil, nil
		}
		return nil, fmt.Errorf("places api status: %s", data.Status)
	}

	places := make([]Place, 0, len(data.Results))
	for _, result := range data.Results {
		places = append(places, Place{
			Name: result.Name,
			Location: match.Location{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		})
	}

	return places, nil
}
