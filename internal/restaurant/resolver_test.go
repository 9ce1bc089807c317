package restaurant

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/TosaOdiase/allergenblock/internal/match"
)

// --------------------------------------------------
// Mock Repository
// --------------------------------------------------

type MockRepository struct {
	restaurants []*Restaurant
	nextID      int
	listErr     error
	insertErr   error
	inserts     int
	updates     int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1}
}

func (m *MockRepository) FindExactNear(
	ctx context.Context,
	name string,
	location match.Location,
	radiusMeters float64,
) (*Restaurant, error) {
	for _, r := range m.restaurants {
		if r.Name == name && match.DistanceMeters(r.Location, location) <= radiusMeters {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*Restaurant, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.restaurants, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Restaurant, error) {
	for _, r := range m.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Insert(ctx context.Context, r *Restaurant) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	r.ID = strconv.Itoa(m.nextID)
	m.nextID++
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.restaurants = append(m.restaurants, r)
	m.inserts++
	return nil
}

func (m *MockRepository) Update(ctx context.Context, r *Restaurant) error {
	r.UpdatedAt = time.Now()
	m.updates++
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	for i, r := range m.restaurants {
		if r.ID == id {
			m.restaurants = append(m.restaurants[:i], m.restaurants[i+1:]...)
			return nil
		}
	}
	return nil
}

// --------------------------------------------------
// Mock Verifier
// --------------------------------------------------

type MockVerifier struct {
	verification Verification
	err          error
	calls        int
}

func (m *MockVerifier) Verify(
	ctx context.Context,
	name string,
	location match.Location,
) (Verification, error) {
	m.calls++
	if m.err != nil {
		return Verification{}, m.err
	}
	return m.verification, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func newTestService(repo *MockRepository, verifier *MockVerifier) *Service {
	return NewService(repo, verifier, match.DefaultConfig())
}

func observation(name string, lat, lng float64) Observation {
	return Observation{
		Name:     name,
		Location: match.Location{Lat: lat, Lng: lng},
		MenuItems: []MenuItem{
			{Name: "Margherita Pizza", Allergens: []string{"dairy", "gluten"}, Certainty: 0.9},
		},
		Source: SourceCamera,
	}
}

// --------------------------------------------------
// TESTS
// --------------------------------------------------

func TestResolve_Validation(t *testing.T) {
	service := newTestService(NewMockRepository(), &MockVerifier{})

	if _, err := service.Resolve(context.Background(), observation("", 37.7749, -122.4194)); !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}

	if _, err := service.Resolve(context.Background(), observation("Pizza Palace", 200, 0)); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestResolve_CreateWhenUnknown(t *testing.T) {
	repo := NewMockRepository()
	verifier := &MockVerifier{}
	service := newTestService(repo, verifier)

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create", outcome.Action)
	}
	if outcome.Restaurant.ID == "" {
		t.Error("expected ID to be set")
	}
	if outcome.Restaurant.Source != SourceCamera {
		t.Errorf("source = %s, want camera", outcome.Restaurant.Source)
	}
	if outcome.Restaurant.APIMatch != "none" {
		t.Errorf("apiMatch = %s, want none", outcome.Restaurant.APIMatch)
	}
	if verifier.calls != 1 {
		t.Errorf("verifier calls = %d, want 1", verifier.calls)
	}
}

func TestResolve_ExactMatchUpdates(t *testing.T) {
	repo := NewMockRepository()
	service := newTestService(repo, &MockVerifier{})

	first, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Action != ActionUpdate {
		t.Errorf("action = %s, want update", second.Action)
	}
	if second.Restaurant.ID != first.Restaurant.ID {
		t.Error("expected both resolutions to land on the same record")
	}
	if len(repo.restaurants) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(repo.restaurants))
	}
}

func TestResolve_FuzzyMatchUpdates(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:       "existing",
			Name:     "Pizza Palace",
			Location: match.Location{Lat: 37.7750, Lng: -122.4195},
			Source:   SourceCamera,
			APIMatch: "none",
		},
	}
	verifier := &MockVerifier{}
	service := newTestService(repo, verifier)

	// Typo in the name, ~14m away: must resolve to the existing record.
	outcome, err := service.Resolve(context.Background(), observation("Pizza Palce", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Action != ActionUpdate {
		t.Errorf("action = %s, want update", outcome.Action)
	}
	if outcome.Restaurant.ID != "existing" {
		t.Errorf("resolved to %s, want existing", outcome.Restaurant.ID)
	}
	if repo.inserts != 0 {
		t.Errorf("expected no insert, got %d", repo.inserts)
	}
	if verifier.calls != 0 {
		t.Error("verifier should not be consulted when a local match exists")
	}
}

func TestResolve_SameName500mAwayCreates(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:       "existing",
			Name:     "Pizza Palace",
			Location: match.Location{Lat: 37.7794, Lng: -122.4194},
			Source:   SourceCamera,
			APIMatch: "none",
		},
	}
	service := newTestService(repo, &MockVerifier{})

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create", outcome.Action)
	}
	if len(repo.restaurants) != 2 {
		t.Errorf("expected a second record, got %d", len(repo.restaurants))
	}
}

func TestResolve_ExternallyVerified(t *testing.T) {
	repo := NewMockRepository()
	verifier := &MockVerifier{
		verification: Verification{
			Found: true,
			Place: &ExternalMatch{
				Name:     "Pizza Palace",
				Location: match.Location{Lat: 37.7749, Lng: -122.4194},
			},
		},
	}
	service := newTestService(repo, verifier)

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Action != ActionMenuOnlyUpdate {
		t.Errorf("action = %s, want menu_only_update", outcome.Action)
	}
	if outcome.Restaurant.APIMatch != "google" {
		t.Errorf("apiMatch = %s, want google", outcome.Restaurant.APIMatch)
	}
	if outcome.Restaurant.ExternalMatch == nil {
		t.Fatal("expected external match to be recorded")
	}
	if repo.inserts != 1 {
		t.Errorf("expected one bookkeeping insert, got %d", repo.inserts)
	}
}

func TestResolve_VerifierFailureIsFailOpen(t *testing.T) {
	repo := NewMockRepository()
	verifier := &MockVerifier{err: errors.New("places api down")}
	service := newTestService(repo, verifier)

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("verifier failure must not fail resolution: %v", err)
	}

	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create (fail-open)", outcome.Action)
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	repo := NewMockRepository()
	repo.listErr = errors.New("store unreachable")
	service := newTestService(repo, &MockVerifier{})

	if _, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194)); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestResolve_UpdateMergesMenu(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:       "existing",
			Name:     "Pizza Palace",
			Location: match.Location{Lat: 37.7749, Lng: -122.4194},
			MenuItems: []MenuItem{
				{Name: "Caesar Salad", Allergens: []string{"dairy", "fish"}, Certainty: 1},
			},
			Source:   SourceCamera,
			APIMatch: "none",
		},
	}
	service := newTestService(repo, &MockVerifier{})

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Incoming pizza appended, stored salad kept.
	if len(outcome.Restaurant.MenuItems) != 2 {
		t.Fatalf("expected merged menu of 2 items, got %d", len(outcome.Restaurant.MenuItems))
	}
}

func TestResolve_NilVerifierCreates(t *testing.T) {
	repo := NewMockRepository()
	service := NewService(repo, nil, match.DefaultConfig())

	outcome, err := service.Resolve(context.Background(), observation("Pizza Palace", 37.7749, -122.4194))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Action != ActionCreate {
		t.Errorf("action = %s, want create", outcome.Action)
	}
}

func TestMenuContext_FuzzyFallback(t *testing.T) {
	repo := NewMockRepository()
	repo.restaurants = []*Restaurant{
		{
			ID:       "existing",
			Name:     "Pizza Palace",
			Location: match.Location{Lat: 37.7750, Lng: -122.4195},
			MenuItems: []MenuItem{
				{Name: "Margherita Pizza", Allergens: []string{"dairy", "gluten"}, Certainty: 1},
			},
		},
	}
	service := newTestService(repo, &MockVerifier{})

	found, err := service.MenuContext(context.Background(), "Pizza Palce", match.Location{Lat: 37.7749, Lng: -122.4194})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.ID != "existing" {
		t.Fatalf("expected fuzzy fallback to find the stored menu, got %+v", found)
	}
}

func TestMenuContext_Unknown(t *testing.T) {
	service := newTestService(NewMockRepository(), &MockVerifier{})

	found, err := service.MenuContext(context.Background(), "Pizza Palace", match.Location{Lat: 37.7749, Lng: -122.4194})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown restaurant, got %+v", found)
	}
}
