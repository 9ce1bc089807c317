package camera

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/TosaOdiase/allergenblock/internal/llm"
	"github.com/TosaOdiase/allergenblock/internal/match"
	"github.com/TosaOdiase/allergenblock/internal/restaurant"
)

// Uploader persists the captured image (R2 in production).
type Uploader interface {
	UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// AllergenExtractor reads menu items and allergens off a menu image.
type AllergenExtractor interface {
	ExtractAllergens(ctx context.Context, image []byte, mimeType string) ([]llm.ParsedMenuItem, error)
}

// Resolver decides where the extracted menu lands in the catalog.
type Resolver interface {
	Resolve(ctx context.Context, obs restaurant.Observation) (*restaurant.Outcome, error)
}

var ErrNoMenuItems = errors.New("no menu items detected in image")

// Service runs the camera ingestion flow: store the image, extract
// menu items with allergens, resolve against the catalog.
type Service struct {
	uploader  Uploader
	extractor AllergenExtractor
	resolver  Resolver
}

func NewService(uploader Uploader, extractor AllergenExtractor, resolver Resolver) *Service {
	return &Service{
		uploader:  uploader,
		extractor: extractor,
		resolver:  resolver,
	}
}

// Capture is one camera submission from the mobile client.
type Capture struct {
	RestaurantName string
	Location       match.Location
	Image          []byte
	ContentType    string
}

// Result is what the mobile client gets back.
type Result struct {
	ImageURL string              `json:"imageUrl"`
	Outcome  *restaurant.Outcome `json:"outcome"`
}

func (s *Service) Process(ctx context.Context, capture Capture) (*Result, error) {
	if capture.RestaurantName == "" {
		return nil, restaurant.ErrMissingName
	}
	if !capture.Location.Valid() {
		return nil, restaurant.ErrInvalidLocation
	}
	if len(capture.Image) == 0 {
		return nil, errors.New("image is required")
	}

	// Keep the original capture around for re-processing and audits.
	key := fmt.Sprintf("captures/%s%s", uuid.NewString(), extensionFor(capture.ContentType))
	imageURL, err := s.uploader.UploadImage(ctx, key, capture.Image, capture.ContentType)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	parsed, err := s.extractor.ExtractAllergens(ctx, capture.Image, capture.ContentType)
	if err != nil {
		return nil, fmt.Errorf("allergen extraction failed: %w", err)
	}
	if len(parsed) == 0 {
		return nil, ErrNoMenuItems
	}

	items := make([]restaurant.MenuItem, 0, len(parsed))
	for _, item := range parsed {
		items = append(items, restaurant.MenuItem{
			Name:      item.Name,
			Allergens: item.Allergens,
			Certainty: item.Certainty,
		})
	}

	outcome, err := s.resolver.Resolve(ctx, restaurant.Observation{
		Name:      capture.RestaurantName,
		Location:  capture.Location,
		MenuItems: items,
		Source:    restaurant.SourceCamera,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("CAMERA processed name=%q items=%d action=%s", capture.RestaurantName, len(items), outcome.Action)

	return &Result{ImageURL: imageURL, Outcome: outcome}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
