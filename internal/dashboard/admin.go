package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/embodywellness/member-api/internal/database"
	"github.com/embodywellness/member-api/internal/models"
)

const (
	// recentCheckInLimit caps the admin listing of latest check-ins
	recentCheckInLimit = 20
	// recentWindow is the trailing window for the recent check-in count
	recentWindow = 7 * 24 * time.Hour
)

// AdminService builds the admin overview from raw profile and check-in
// rows. All aggregation happens after full retrieval; the data layer is
// only asked for plain row sets.
type AdminService struct {
	profiles database.ProfileRepositoryInterface
	checkIns database.CheckInRepositoryInterface
	now      func() time.Time
}

// NewAdminService creates an admin aggregation service
func NewAdminService(profiles database.ProfileRepositoryInterface, checkIns database.CheckInRepositoryInterface) *AdminService {
	return &AdminService{
		profiles: profiles,
		checkIns: checkIns,
		now:      time.Now,
	}
}

// Overview is the fleet-wide summary shown on the admin dashboard
type Overview struct {
	TotalMembers    int                        `json:"total_members"`
	TotalCheckIns   int                        `json:"total_check_ins"`
	RecentCheckIns  int                        `json:"recent_check_ins"`
	MembersByTier   []TierCount                `json:"members_by_tier"`
	LatestCheckIns  []*models.CheckInWithOwner `json:"latest_check_ins"`
}

// MemberSummary is one row of the admin member listing
type MemberSummary struct {
	Profile       *models.Profile `json:"profile"`
	TotalCheckIns int             `json:"total_check_ins"`
	LastCheckIn   *time.Time      `json:"last_check_in,omitempty"`
}

// LoadOverview builds the admin overview. The caller must be an admin;
// otherwise models.ErrForbidden is returned before any data-layer call.
func (s *AdminService) LoadOverview(ctx context.Context, caller *models.User) (*Overview, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	refs, err := s.checkIns.ListRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in refs: %w", err)
	}

	latest, err := s.checkIns.ListRecentWithOwner(ctx, recentCheckInLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest check-ins: %w", err)
	}
	if latest == nil {
		latest = []*models.CheckInWithOwner{}
	}

	overview := &Overview{
		TotalMembers:   len(profiles),
		TotalCheckIns:  len(refs),
		RecentCheckIns: CountSince(refs, s.now().Add(-recentWindow)),
		MembersByTier:  CountByTier(profiles),
		LatestCheckIns: latest,
	}
	if overview.MembersByTier == nil {
		overview.MembersByTier = []TierCount{}
	}

	return overview, nil
}

// LoadMembers builds the per-member admin listing, newest member first,
// with each member's check-in total and last check-in timestamp.
func (s *AdminService) LoadMembers(ctx context.Context, caller *models.User) ([]MemberSummary, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	refs, err := s.checkIns.ListRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in refs: %w", err)
	}

	lastByProfile, err := s.checkIns.LastCheckInPerProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last check-ins: %w", err)
	}

	totals := TotalsByProfile(refs)
	members := make([]MemberSummary, 0, len(profiles))
	for _, profile := range profiles {
		summary := MemberSummary{
			Profile:       profile,
			TotalCheckIns: totals[profile.ID],
		}
		if last, ok := lastByProfile[profile.ID]; ok {
			t := last
			summary.LastCheckIn = &t
		}
		members = append(members, summary)
	}

	return members, nil
}

// LoadRecentCheckIns returns the latest check-ins with owner display
// fields for the admin check-in feed.
func (s *AdminService) LoadRecentCheckIns(ctx context.Context, caller *models.User) ([]*models.CheckInWithOwner, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	latest, err := s.checkIns.ListRecentWithOwner(ctx, recentCheckInLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest check-ins: %w", err)
	}
	if latest == nil {
		latest = []*models.CheckInWithOwner{}
	}

	return latest, nil
}

func requireAdmin(caller *models.User) error {
	if caller == nil || !caller.IsAdmin {
		return models.ErrForbidden
	}
	return nil
}
