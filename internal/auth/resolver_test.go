package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/embodywellness/member-api/internal/models"
)

// fakeProfileRepo is an in-memory ProfileRepositoryInterface for tests
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile

	getErr      error
	insertErr   error
	inserts     int
	missNextGet int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfileRepo) Insert(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, exists := f.profiles[profile.ID]; exists {
		return &pq.Error{Code: "23505"}
	}
	stored := *profile
	f.profiles[profile.ID] = &stored
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.missNextGet > 0 {
		f.missNextGet--
		return nil, fmt.Errorf("profile not found: %w", sql.ErrNoRows)
	}
	profile, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found: %w", sql.ErrNoRows)
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) ListAll(ctx context.Context) ([]*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func testResolver(repo *fakeProfileRepo) *Resolver {
	return NewResolver(repo, zap.NewNop(), nil)
}

func TestResolve_CreatesProfileOnFirstContact(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	resolver := testResolver(repo)

	ident := models.Identity{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	profile, err := resolver.Resolve(context.Background(), ident)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if profile.ID != ident.ID {
		t.Errorf("Expected profile ID %s, got %s", ident.ID, profile.ID)
	}
	if profile.Tier != models.TierFoundation {
		t.Errorf("Expected tier %s for new profile, got %s", models.TierFoundation, profile.Tier)
	}
	if profile.IsAdmin {
		t.Error("Expected new profile to not be admin")
	}
	if profile.Name == nil || *profile.Name != "Ana" {
		t.Errorf("Expected name Ana, got %v", profile.Name)
	}
}

func TestResolve_NameFallsBackToEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	resolver := testResolver(repo)

	ident := models.Identity{ID: uuid.New(), Email: "noname@example.com"}
	profile, err := resolver.Resolve(context.Background(), ident)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if profile.Name == nil || *profile.Name != ident.Email {
		t.Errorf("Expected name to fall back to email %s, got %v", ident.Email, profile.Name)
	}
}

func TestResolve_IsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	resolver := testResolver(repo)

	ident := models.Identity{ID: uuid.New(), Email: "repeat@example.com", Name: "Repeat"}

	first, err := resolver.Resolve(context.Background(), ident)
	if err != nil {
		t.Fatalf("First Resolve returned error: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), ident)
	if err != nil {
		t.Fatalf("Second Resolve returned error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected same profile, got %s and %s", first.ID, second.ID)
	}
	if repo.inserts != 1 {
		t.Errorf("Expected exactly 1 insert attempt, got %d", repo.inserts)
	}
}

func TestResolve_LostInsertRaceReturnsExistingRow(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	resolver := testResolver(repo)

	// Simulate losing the insert race: the initial fetch misses, the
	// insert hits the unique constraint, and the re-fetch finds the row
	// the concurrent resolution created.
	ident := models.Identity{ID: uuid.New(), Email: "race@example.com", Name: "Race"}
	winner := "Winner"
	repo.profiles[ident.ID] = &models.Profile{
		ID:    ident.ID,
		Email: ident.Email,
		Name:  &winner,
		Tier:  models.TierTransformation,
	}
	repo.missNextGet = 1
	repo.insertErr = &pq.Error{Code: "23505"}

	profile, err := resolver.Resolve(context.Background(), ident)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if profile.Name == nil || *profile.Name != winner {
		t.Errorf("Expected the existing row to win, got name %v", profile.Name)
	}
	if profile.Tier != models.TierTransformation {
		t.Errorf("Expected existing tier %s, got %s", models.TierTransformation, profile.Tier)
	}
}

func TestResolve_FetchFailureIsProfileUnavailable(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	repo.getErr = errors.New("connection refused")
	resolver := testResolver(repo)

	_, err := resolver.Resolve(context.Background(), models.Identity{ID: uuid.New(), Email: "down@example.com"})
	if !errors.Is(err, models.ErrProfileUnavailable) {
		t.Errorf("Expected ErrProfileUnavailable, got %v", err)
	}
}

func TestResolve_InsertFailureIsProfileUnavailable(t *testing.T) {
	t.Parallel()

	repo := newFakeProfileRepo()
	repo.insertErr = errors.New("disk full")
	resolver := testResolver(repo)

	_, err := resolver.Resolve(context.Background(), models.Identity{ID: uuid.New(), Email: "full@example.com"})
	if !errors.Is(err, models.ErrProfileUnavailable) {
		t.Errorf("Expected ErrProfileUnavailable, got %v", err)
	}
}
