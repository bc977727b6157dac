package enums

import "fmt"

// PlanStatus tracks the lifecycle state of a planting plan.
// Transitions only move forward: Draft, then Active, then Completed.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "Draft"
	PlanStatusActive    PlanStatus = "Active"
	PlanStatusCompleted PlanStatus = "Completed"
)

var validPlanStatuses = []PlanStatus{
	PlanStatusDraft,
	PlanStatusActive,
	PlanStatusCompleted,
}

var planStatusRank = map[PlanStatus]int{
	PlanStatusDraft:     0,
	PlanStatusActive:    1,
	PlanStatusCompleted: 2,
}

// String implements fmt.Stringer.
func (p PlanStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlanStatus.
func (p PlanStatus) IsValid() bool {
	for _, candidate := range validPlanStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Rank returns the monotonic position of the status in the lifecycle.
func (p PlanStatus) Rank() int {
	if rank, ok := planStatusRank[p]; ok {
		return rank
	}
	return -1
}

// ParsePlanStatus converts raw input into a PlanStatus.
func ParsePlanStatus(value string) (PlanStatus, error) {
	for _, candidate := range validPlanStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan status %q", value)
}
