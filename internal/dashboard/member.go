package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/metrics"
	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// placeholderDays labels the zero-filled week shown before a member's
// first check-in. A deliberate empty-state fallback, not a computed
// average.
var placeholderDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// MemberService loads a member's progress series and accepts check-in
// submissions.
type MemberService struct {
	checkIns database.CheckInRepositoryInterface
	stats    *metrics.Collector
}

// NewMemberService creates a member dashboard service
func NewMemberService(checkIns database.CheckInRepositoryInterface, stats *metrics.Collector) *MemberService {
	return &MemberService{
		checkIns: checkIns,
		stats:    stats,
	}
}

// LoadProgress returns the member's progress points ascending by date.
// With no history it returns the fixed Mon..Sun zero placeholder; with
// history it returns only the actual submitted points, no interpolation
// or gap-filling.
func (s *MemberService) LoadProgress(ctx context.Context, profileID uuid.UUID) ([]models.ProgressPoint, error) {
	checkIns, err := s.checkIns.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	if len(checkIns) == 0 {
		return placeholderWeek(), nil
	}

	points := make([]models.ProgressPoint, 0, len(checkIns))
	for _, checkIn := range checkIns {
		points = append(points, models.ProgressPoint{
			Day:    checkIn.CreatedAt.Format("Jan 2"),
			Weight: checkIn.Weight,
			Energy: checkIn.EnergyLevel,
		})
	}

	return points, nil
}

// SubmitCheckIn validates and records one check-in owned by user. Invalid
// input fails with models.ErrValidation before any write; a data-layer
// failure wraps models.ErrWriteFailed so the caller can keep the input
// and resubmit.
func (s *MemberService) SubmitCheckIn(ctx context.Context, user *models.User, weight float64, energyLevel int, notes string) (*models.CheckIn, error) {
	if err := ValidateCheckIn(weight, energyLevel); err != nil {
		return nil, err
	}

	checkIn := &models.CheckIn{
		ID:          uuid.New(),
		ProfileID:   user.ID,
		Weight:      weight,
		EnergyLevel: energyLevel,
	}
	if notes != "" {
		checkIn.Notes = &notes
	}

	if err := s.checkIns.Create(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrWriteFailed, err)
	}

	s.stats.RecordCheckIn()
	return checkIn, nil
}

// ValidateCheckIn enforces the check-in invariants: weight must be a
// positive finite number and energy level an integer in [1,10].
func ValidateCheckIn(weight float64, energyLevel int) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return models.NewValidationError("weight must be a positive number")
	}
	if energyLevel < models.MinEnergyLevel || energyLevel > models.MaxEnergyLevel {
		return models.NewValidationError("energy level must be between %d and %d", models.MinEnergyLevel, models.MaxEnergyLevel)
	}
	return nil
}

func placeholderWeek() []models.ProgressPoint {
	points := make([]models.ProgressPoint, 0, len(placeholderDays))
	for _, day := range placeholderDays {
		points = append(points, models.ProgressPoint{Day: day})
	}
	return points
}
