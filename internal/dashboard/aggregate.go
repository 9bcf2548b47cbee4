// Package dashboard builds the member and admin dashboard view-models:
// pure aggregation over fully retrieved rows, so every computation is
// unit-testable without a live data layer.
package dashboard

import (
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// TierCount is the member count for one tier present in the data
type TierCount struct {
	Tier  models.Tier `json:"tier"`
	Count int         `json:"count"`
}

// CountByTier groups profiles by tier. The group set is exactly the
// distinct tiers present: a tier with zero members does not appear.
// Group order is unspecified beyond first-seen.
func CountByTier(profiles []*models.Profile) []TierCount {
	counts := make(map[models.Tier]int)
	var order []models.Tier
	for _, p := range profiles {
		if _, seen := counts[p.Tier]; !seen {
			order = append(order, p.Tier)
		}
		counts[p.Tier]++
	}

	groups := make([]TierCount, 0, len(order))
	for _, tier := range order {
		groups = append(groups, TierCount{Tier: tier, Count: counts[tier]})
	}
	return groups
}

// CountSince counts check-ins whose own created timestamp falls at or
// after cutoff.
func CountSince(refs []models.CheckInRef, cutoff time.Time) int {
	count := 0
	for _, ref := range refs {
		if !ref.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// TotalsByProfile counts check-ins per owning profile
func TotalsByProfile(refs []models.CheckInRef) map[uuid.UUID]int {
	totals := make(map[uuid.UUID]int)
	for _, ref := range refs {
		totals[ref.ProfileID]++
	}
	return totals
}
