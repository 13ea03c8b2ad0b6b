package projections

import (
	"context"

	"courtside/internal/domain/plan"
)

// planSummaryLimit bounds how many recent plans the summary reads.
const planSummaryLimit = 200

// GetPlanSummaryResult carries the query result.
type GetPlanSummaryResult struct {
	Plans    []plan.TrainingPlan // newest first
	Total    int
	Athletes int // distinct players with at least one plan
}

// GetPlanSummaryDeps holds dependencies for GetPlanSummary.
type GetPlanSummaryDeps struct {
	PlanStore PlanStore
}

// QueryGetPlanSummary lists plans with their header counts.
func QueryGetPlanSummary(ctx context.Context, deps GetPlanSummaryDeps) (GetPlanSummaryResult, error) {
	plans, err := deps.PlanStore.List(ctx, planSummaryLimit)
	if err != nil {
		return GetPlanSummaryResult{}, err
	}
	athletes := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		athletes[p.PlayerID] = struct{}{}
	}
	if plans == nil {
		plans = []plan.TrainingPlan{}
	}
	return GetPlanSummaryResult{Plans: plans, Total: len(plans), Athletes: len(athletes)}, nil
}
