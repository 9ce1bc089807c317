package match

import (
	"os"
	"strconv"
)

// --------------------------------------------------
// Threshold configuration
// --------------------------------------------------

// Config holds the two thresholds a record must satisfy SIMULTANEOUSLY
// to count as the same restaurant. Name similarity alone or proximity
// alone is never enough.
type Config struct {
	NameThreshold           float64
	DistanceThresholdMeters float64
}

// DefaultConfig returns the canonical thresholds: 80% name similarity
// within 100 meters.
func DefaultConfig() Config {
	return Config{
		NameThreshold:           0.8,
		DistanceThresholdMeters: 100,
	}
}

// ConfigFromEnv reads NAME_THRESHOLD and DISTANCE_THRESHOLD_METERS,
// falling back to the defaults when unset or malformed.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("NAME_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.NameThreshold = f
		}
	}
	if v := os.Getenv("DISTANCE_THRESHOLD_METERS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DistanceThresholdMeters = f
		}
	}

	return cfg
}

// --------------------------------------------------
// Entity matcher
// --------------------------------------------------

// Record is the minimal view of a stored restaurant the matcher needs.
type Record struct {
	ID       string
	Name     string
	Location Location
}

// Candidate is one scored record.
type Candidate struct {
	Record         Record
	NameSimilarity float64
	DistanceMeters float64
	Passes         bool
}

type Matcher struct {
	cfg Config
}

func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Score computes similarity and distance for a single record.
func (m *Matcher) Score(name string, location Location, record Record) Candidate {
	return Candidate{
		Record:         record,
		NameSimilarity: Similarity(record.Name, name),
		DistanceMeters: DistanceMeters(record.Location, location),
	}
}

// BestMatch scans all records and returns the best passing candidate,
// or nil when none passes. Best means highest name similarity, ties
// broken by smallest distance, remaining ties by first encountered.
// Records with malformed coordinates are skipped.
func (m *Matcher) BestMatch(name string, location Location, records []Record) *Candidate {
	if !location.Valid() {
		return nil
	}

	var best *Candidate

	for _, record := range records {
		if !record.Location.Valid() {
			continue
		}

		c := m.Score(name, location, record)
		if c.NameSimilarity < m.cfg.NameThreshold || c.DistanceMeters > m.cfg.DistanceThresholdMeters {
			continue
		}
		c.Passes = true

		if best == nil ||
			c.NameSimilarity > best.NameSimilarity ||
			(c.NameSimilarity == best.NameSimilarity && c.DistanceMeters < best.DistanceMeters) {
			candidate := c
			best = &candidate
		}
	}

	return best
}
