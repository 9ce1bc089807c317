package restaurant

import (
	"context"
	"errors"
	"log"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

// Verifier checks an independent place directory (Google Maps) for a
// restaurant at a location.
type Verifier interface {
	Verify(ctx context.Context, name string, location match.Location) (Verification, error)
}

// Verification is the verifier's answer.
type Verification struct {
	Found bool
	Place *ExternalMatch
}

var (
	ErrMissingName     = errors.New("restaurant name is required")
	ErrInvalidLocation = errors.New("location out of range")
)

// Service resolves incoming menu observations against the stored
// catalog and decides create vs update.
type Service struct {
	repo     Repository
	verifier Verifier
	matcher  *match.Matcher
	cfg      match.Config
}

func NewService(repo Repository, verifier Verifier, cfg match.Config) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		matcher:  match.NewMatcher(cfg),
		cfg:      cfg,
	}
}

// --------------------------------------------------
// Resolution
// --------------------------------------------------

// Resolve decides whether an observation belongs to a known restaurant
// or a new one, and performs exactly one store write.
//
//  1. Exact name within the distance threshold   -> Update
//  2. Fuzzy match over the full catalog          -> Update
//  3. Externally verified but unknown locally    -> MenuOnlyUpdate
//     (bookkeeping record tagged with the place)
//  4. Nothing found anywhere                     -> Create
func (s *Service) Resolve(ctx context.Context, obs Observation) (*Outcome, error) {
	if obs.Name == "" {
		return nil, ErrMissingName
	}
	if !obs.Location.Valid() {
		return nil, ErrInvalidLocation
	}

	// 1. Cheap path: exact name nearby.
	existing, err := s.repo.FindExactNear(ctx, obs.Name, obs.Location, s.cfg.DistanceThresholdMeters)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.update(ctx, existing, obs)
	}

	// 2. Fuzzy scan over all records.
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if best := s.matcher.BestMatch(obs.Name, obs.Location, matchRecords(all)); best != nil {
		for _, r := range all {
			if r.ID == best.Record.ID {
				log.Printf("RESOLVE fuzzy match name=%q similarity=%.2f distance=%.0fm", obs.Name, best.NameSimilarity, best.DistanceMeters)
				return s.update(ctx, r, obs)
			}
		}
	}

	// 3. External verification. Failures are fail-open: absence of
	// verification is not evidence of duplication.
	verification := Verification{}
	if s.verifier != nil {
		verification, err = s.verifier.Verify(ctx, obs.Name, obs.Location)
		if err != nil {
			log.Printf("RESOLVE verification failed, proceeding as not found: %v", err)
			verification = Verification{}
		}
	}

	record := &Restaurant{
		Name:      obs.Name,
		Location:  obs.Location,
		MenuItems: obs.MenuItems,
		Source:    obs.Source,
		APIMatch:  "none",
	}

	if verification.Found {
		// Active policy: still insert a record for bookkeeping, tagged
		// with the verified place reference.
		record.APIMatch = "google"
		record.ExternalMatch = verification.Place
		if err := s.repo.Insert(ctx, record); err != nil {
			return nil, err
		}
		log.Printf("RESOLVE externally verified, menu-only record name=%q", obs.Name)
		return &Outcome{Action: ActionMenuOnlyUpdate, Restaurant: record}, nil
	}

	// 4. Brand new restaurant.
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}
	log.Printf("RESOLVE created name=%q source=%s", obs.Name, obs.Source)
	return &Outcome{Action: ActionCreate, Restaurant: record}, nil
}

func (s *Service) update(ctx context.Context, existing *Restaurant, obs Observation) (*Outcome, error) {
	existing.MenuItems = MergeMenuItems(obs.MenuItems, existing.MenuItems)
	existing.Source = obs.Source

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return &Outcome{Action: ActionUpdate, Restaurant: existing}, nil
}

func matchRecords(all []*Restaurant) []match.Record {
	records := make([]match.Record, 0, len(all))
	for _, r := range all {
		records = append(records, match.Record{
			ID:       r.ID,
			Name:     r.Name,
			Location: r.Location,
		})
	}
	return records
}

// --------------------------------------------------
// Lookups (read API)
// --------------------------------------------------

// MenuContext returns the stored menu for a restaurant, trying the
// exact-near lookup first and falling back to the fuzzy scan. Nil
// means no menu is known and the caller should request a capture.
func (s *Service) MenuContext(ctx context.Context, name string, location match.Location) (*Restaurant, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if !location.Valid() {
		return nil, ErrInvalidLocation
	}

	existing, err := s.repo.FindExactNear(ctx, name, location, s.cfg.DistanceThresholdMeters)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if best := s.matcher.BestMatch(name, location, matchRecords(all)); best != nil {
		for _, r := range all {
			if r.ID == best.Record.ID {
				return r, nil
			}
		}
	}

	return nil, nil
}

func (s *Service) List(ctx context.Context) ([]*Restaurant, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Restaurant, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete is the administrative removal path; resolution never deletes.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
