package restaurant

import (
	"context"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

// Repository defines all database operations for restaurants
type Repository interface {

	// FindExactNear returns the restaurant with this exact name within
	// radiusMeters of location, or nil when there is none.
	FindExactNear(
		ctx context.Context,
		name string,
		location match.Location,
		radiusMeters float64,
	) (*Restaurant, error)

	// ListAll enumerates every stored restaurant. The fuzzy fallback
	// scans the full catalog; no spatial index is assumed.
	ListAll(ctx context.Context) ([]*Restaurant, error)

	// GetByID fetches one restaurant.
	GetByID(ctx context.Context, id string) (*Restaurant, error)

	// Insert stores a new restaurant and fills in ID and timestamps.
	Insert(ctx context.Context, r *Restaurant) error

	// Update overwrites an existing restaurant's mutable fields and
	// refreshes updated_at.
	Update(ctx context.Context, r *Restaurant) error

	// Delete removes a restaurant. Admin-only; the resolver never
	// deletes.
	Delete(ctx context.Context, id string) error
}
