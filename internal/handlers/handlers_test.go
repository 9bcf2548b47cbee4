package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/embodywellness/member-api/internal/request"
)

// Shared test fakes and helpers for the handler tests.

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfileRepo) Insert(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *profile
	f.profiles[profile.ID] = &stored
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

type fakeCheckInRepo struct {
	mu        sync.Mutex
	checkIns  []*models.CheckIn
	createErr error
}

func (f *fakeCheckInRepo) Create(ctx context.Context, checkIn *models.CheckIn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.checkIns = append(f.checkIns, checkIn)
	return nil
}

func (f *fakeCheckInRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CheckIn
	for _, c := range f.checkIns {
		if c.ProfileID == profileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCheckInRepo) ListRefs(ctx context.Context) ([]models.CheckInRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]models.CheckInRef, 0, len(f.checkIns))
	for _, c := range f.checkIns {
		refs = append(refs, models.CheckInRef{ID: c.ID, ProfileID: c.ProfileID, CreatedAt: c.CreatedAt})
	}
	return refs, nil
}

func (f *fakeCheckInRepo) ListRecentWithOwner(ctx context.Context, limit int) ([]*models.CheckInWithOwner, error) {
	return nil, nil
}

func (f *fakeCheckInRepo) LastCheckInPerProfile(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	return map[uuid.UUID]time.Time{}, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Message
	for _, m := range f.messages {
		if m.ProfileID == profileID {
			out = append(out, m)
		}
	}
	return out, nil
}

// envelope is the standard response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response envelope: %v (body: %s)", err, rr.Body.String())
	}
	return env
}

// asUser attaches user to the request context the way the auth
// middleware does
func asUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(request.WithUser(r.Context(), user))
}

func testMember() *models.User {
	return &models.User{ID: uuid.New(), Email: "member@example.com", Tier: models.TierFoundation}
}

func testCoach() *models.User {
	return &models.User{ID: uuid.New(), Email: "coach@example.com", Tier: models.TierLifetime, IsAdmin: true}
}
