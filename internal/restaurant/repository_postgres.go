package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Haversine distance in meters, computed in SQL so the near query
// stays in the database.
const distanceExpr = `
	6371000 * acos(
		least(1.0,
			cos(radians($2)) * cos(radians(lat)) * cos(radians(lng) - radians($3))
			+ sin(radians($2)) * sin(radians(lat))
		)
	)
`

const selectColumns = `
	id, name, lat, lng, menu_items, source, api_match,
	external_name, external_lat, external_lng, created_at, updated_at
`

// --------------------------------------------------
// Exact name match within a radius (cheap path)
// --------------------------------------------------
func (r *PostgresRepository) FindExactNear(
	ctx context.Context,
	name string,
	location match.Location,
	radiusMeters float64,
) (*Restaurant, error) {

	row := r.db.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM restaurants
		WHERE lower(name) = lower($1)
		  AND `+distanceExpr+` <= $4
		ORDER BY `+distanceExpr+` ASC
		LIMIT 1
	`, name, location.Lat, location.Lng, radiusMeters)

	res, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

// --------------------------------------------------
// Full enumeration (fuzzy fallback)
// --------------------------------------------------
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM restaurants
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*Restaurant

	for rows.Next() {
		res, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, res)
	}

	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Restaurant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM restaurants
		WHERE id = $1
	`, id)

	res, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

// --------------------------------------------------
// Writes
// --------------------------------------------------
func (r *PostgresRepository) Insert(ctx context.Context, res *Restaurant) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	items, err := json.Marshal(menuItemsOrEmpty(res.MenuItems))
	if err != nil {
		return err
	}

	var extName *string
	var extLat, extLng *float64
	if res.ExternalMatch != nil {
		extName = &res.ExternalMatch.Name
		extLat = &res.ExternalMatch.Location.Lat
		extLng = &res.ExternalMatch.Location.Lng
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO restaurants (
			id, name, lat, lng, menu_items, source, api_match,
			external_name, external_lat, external_lng
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`,
		res.ID,
		res.Name,
		res.Location.Lat,
		res.Location.Lng,
		items,
		res.Source,
		res.APIMatch,
		extName,
		extLat,
		extLng,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
}

func (r *PostgresRepository) Update(ctx context.Context, res *Restaurant) error {
	items, err := json.Marshal(menuItemsOrEmpty(res.MenuItems))
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		UPDATE restaurants
		SET name = $2,
		    lat = $3,
		    lng = $4,
		    menu_items = $5,
		    source = $6,
		    api_match = $7,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`,
		res.ID,
		res.Name,
		res.Location.Lat,
		res.Location.Lng,
		items,
		res.Source,
		res.APIMatch,
	).Scan(&res.UpdatedAt)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	return err
}

// --------------------------------------------------
// Scanning
// --------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*Restaurant, error) {
	var res Restaurant
	var items []byte
	var extName *string
	var extLat, extLng *float64
	var createdAt, updatedAt time.Time

	if err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Location.Lat,
		&res.Location.Lng,
		&items,
		&res.Source,
		&res.APIMatch,
		&extName,
		&extLat,
		&extLng,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &res.MenuItems); err != nil {
			return nil, err
		}
	}

	if extName != nil && extLat != nil && extLng != nil {
		res.ExternalMatch = &ExternalMatch{
			Name:     *extName,
			Location: match.Location{Lat: *extLat, Lng: *extLng},
		}
	}

	res.CreatedAt = createdAt
	res.UpdatedAt = updatedAt
	return &res, nil
}

func menuItemsOrEmpty(items []MenuItem) []MenuItem {
	if items == nil {
		return []MenuItem{}
	}
	return items
}
