package projections

import (
	"context"
	"math"

	"courtside/internal/domain/analysis"
)

// overviewLimit bounds how many recent analyses the overview reads.
const overviewLimit = 500

// GetAnalysisOverviewResult carries the query result.
type GetAnalysisOverviewResult struct {
	Total        int
	Completed    int
	Processing   int
	Failed       int
	AverageScore float64 // mean technique score of completed analyses, one decimal
	Recent       []analysis.Analysis
}

// GetAnalysisOverviewDeps holds dependencies for GetAnalysisOverview.
type GetAnalysisOverviewDeps struct {
	AnalysisStore AnalysisStore
}

// QueryGetAnalysisOverview summarises recent analyses.
// POST: AverageScore is 0 when nothing has completed
// POST: Recent holds at most 10 analyses, newest first
func QueryGetAnalysisOverview(ctx context.Context, deps GetAnalysisOverviewDeps) (GetAnalysisOverviewResult, error) {
	all, err := deps.AnalysisStore.List(ctx, overviewLimit)
	if err != nil {
		return GetAnalysisOverviewResult{}, err
	}

	result := GetAnalysisOverviewResult{Total: len(all)}
	var scoreSum float64
	scored := 0
	for _, a := range all {
		switch a.Status {
		case analysis.StatusCompleted:
			result.Completed++
		case analysis.StatusProcessing:
			result.Processing++
		case analysis.StatusFailed:
			result.Failed++
		}
		if a.Result != nil {
			scoreSum += a.Result.TechniqueScore
			scored++
		}
	}
	if scored > 0 {
		result.AverageScore = math.Round(scoreSum/float64(scored)*10) / 10
	}

	result.Recent = all
	if len(result.Recent) > 10 {
		result.Recent = result.Recent[:10]
	}
	return result, nil
}
