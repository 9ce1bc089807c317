package restaurant

import (
	"time"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

// Source records which pipeline produced an observation.
type Source string

const (
	SourceCamera Source = "camera"
	SourceManual Source = "manual"
	SourceScrape Source = "scrape"
)

// MenuItem is one dish with its allergen tags. Certainty is the AI
// collaborator's confidence in the allergen assignment; this service
// only carries it.
type MenuItem struct {
	Name      string   `json:"name"`
	Allergens []string `json:"allergens"`
	Certainty float64  `json:"certainty"`
}

// ExternalMatch references an independently verified place.
type ExternalMatch struct {
	Name     string         `json:"name"`
	Location match.Location `json:"location"`
}

// Restaurant is the stored entity. Owned by the repository; the
// resolver only holds transient references during one resolution.
type Restaurant struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Location      match.Location `json:"location"`
	MenuItems     []MenuItem     `json:"menuItems"`
	Source        Source         `json:"source"`
	APIMatch      string         `json:"apiMatch"` // "google" or "none"
	ExternalMatch *ExternalMatch `json:"externalMatch,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Observation is one incoming menu sighting from any source.
type Observation struct {
	Name      string         `json:"restaurantName"`
	Location  match.Location `json:"location"`
	MenuItems []MenuItem     `json:"menuItems"`
	Source    Source         `json:"source"`
}

// Action says how an observation was persisted.
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionMenuOnlyUpdate Action = "menu_only_update"
)

// Outcome is the result of one resolution: the action taken and the
// record it landed on.
type Outcome struct {
	Action     Action      `json:"action"`
	Restaurant *Restaurant `json:"restaurant"`
}
