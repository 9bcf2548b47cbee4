package dashboard

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/embodywellness/member-api/internal/models"
)

// fakeCheckInRepo is a scriptable CheckInRepositoryInterface for tests.
// calls records which methods ran, in order.
type fakeCheckInRepo struct {
	checkIns  []*models.CheckIn
	refs      []models.CheckInRef
	recent    []*models.CheckInWithOwner
	last      map[uuid.UUID]time.Time
	createErr error
	listErr   error

	calls []string
}

func (f *fakeCheckInRepo) Create(ctx context.Context, checkIn *models.CheckIn) error {
	f.calls = append(f.calls, "Create")
	if f.createErr != nil {
		return f.createErr
	}
	f.checkIns = append(f.checkIns, checkIn)
	return nil
}

func (f *fakeCheckInRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.CheckIn, error) {
	f.calls = append(f.calls, "ListByProfile")
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.CheckIn
	for _, c := range f.checkIns {
		if c.ProfileID == profileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCheckInRepo) ListRefs(ctx context.Context) ([]models.CheckInRef, error) {
	f.calls = append(f.calls, "ListRefs")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.refs, nil
}

func (f *fakeCheckInRepo) ListRecentWithOwner(ctx context.Context, limit int) ([]*models.CheckInWithOwner, error) {
	f.calls = append(f.calls, "ListRecentWithOwner")
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeCheckInRepo) LastCheckInPerProfile(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	f.calls = append(f.calls, "LastCheckInPerProfile")
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.last == nil {
		return map[uuid.UUID]time.Time{}, nil
	}
	return f.last, nil
}

func memberUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "member@example.com", Tier: models.TierFoundation}
}

func TestLoadProgress_EmptyHistoryYieldsPlaceholderWeek(t *testing.T) {
	t.Parallel()

	svc := NewMemberService(&fakeCheckInRepo{}, nil)
	points, err := svc.LoadProgress(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadProgress returned error: %v", err)
	}

	wantDays := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if len(points) != len(wantDays) {
		t.Fatalf("Expected %d placeholder points, got %d", len(wantDays), len(points))
	}
	for i, p := range points {
		if p.Day != wantDays[i] {
			t.Errorf("Point %d: expected day %s, got %s", i, wantDays[i], p.Day)
		}
		if p.Weight != 0 || p.Energy != 0 {
			t.Errorf("Point %d: expected zero values, got weight=%v energy=%d", i, p.Weight, p.Energy)
		}
	}
}

func TestLoadProgress_ReturnsActualPointsAscending(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	repo := &fakeCheckInRepo{
		checkIns: []*models.CheckIn{
			{ID: uuid.New(), ProfileID: profileID, Weight: 80.0, EnergyLevel: 6,
				CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), ProfileID: profileID, Weight: 79.2, EnergyLevel: 7,
				CreatedAt: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)},
		},
	}

	svc := NewMemberService(repo, nil)
	points, err := svc.LoadProgress(context.Background(), profileID)
	if err != nil {
		t.Fatalf("LoadProgress returned error: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("Expected 2 points with no gap-filling, got %d", len(points))
	}
	if points[0].Day != "Mar 2" || points[0].Weight != 80.0 || points[0].Energy != 6 {
		t.Errorf("Unexpected first point: %+v", points[0])
	}
	if points[1].Day != "Mar 9" || points[1].Weight != 79.2 || points[1].Energy != 7 {
		t.Errorf("Unexpected second point: %+v", points[1])
	}
}

func TestSubmitCheckIn_RejectsInvalidInputBeforeWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		weight float64
		energy int
	}{
		{name: "zero weight", weight: 0, energy: 5},
		{name: "negative weight", weight: -10, energy: 5},
		{name: "NaN weight", weight: math.NaN(), energy: 5},
		{name: "infinite weight", weight: math.Inf(1), energy: 5},
		{name: "energy below range", weight: 70, energy: 0},
		{name: "energy above range", weight: 70, energy: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &fakeCheckInRepo{}
			svc := NewMemberService(repo, nil)

			_, err := svc.SubmitCheckIn(context.Background(), memberUser(), tt.weight, tt.energy, "")
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
			if len(repo.calls) != 0 {
				t.Errorf("Expected no data-layer calls for invalid input, got %v", repo.calls)
			}
		})
	}
}

func TestSubmitCheckIn_RecordsValidCheckIn(t *testing.T) {
	t.Parallel()

	repo := &fakeCheckInRepo{}
	svc := NewMemberService(repo, nil)
	user := memberUser()

	checkIn, err := svc.SubmitCheckIn(context.Background(), user, 72.5, 8, "felt strong")
	if err != nil {
		t.Fatalf("SubmitCheckIn returned error: %v", err)
	}

	if checkIn.ProfileID != user.ID {
		t.Errorf("Expected owner %s, got %s", user.ID, checkIn.ProfileID)
	}
	if checkIn.Weight != 72.5 || checkIn.EnergyLevel != 8 {
		t.Errorf("Unexpected check-in values: %+v", checkIn)
	}
	if checkIn.Notes == nil || *checkIn.Notes != "felt strong" {
		t.Errorf("Expected notes to be stored, got %v", checkIn.Notes)
	}
	if len(repo.checkIns) != 1 {
		t.Errorf("Expected 1 stored check-in, got %d", len(repo.checkIns))
	}
}

func TestSubmitCheckIn_WriteFailureIsRetryable(t *testing.T) {
	t.Parallel()

	repo := &fakeCheckInRepo{createErr: errors.New("connection reset")}
	svc := NewMemberService(repo, nil)

	_, err := svc.SubmitCheckIn(context.Background(), memberUser(), 72.5, 8, "")
	if !errors.Is(err, models.ErrWriteFailed) {
		t.Errorf("Expected ErrWriteFailed, got %v", err)
	}
}
