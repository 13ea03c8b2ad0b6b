package projections

import (
	"context"

	"courtside/internal/domain/player"
)

// LevelCount is the number of players at one skill level.
type LevelCount struct {
	Level string
	Count int
}

// GetPlayerStatsResult carries the roster header counts.
type GetPlayerStatsResult struct {
	Total   int
	ByLevel []LevelCount // every level in ValidLevels order, zeros included
}

// GetPlayerStatsDeps holds dependencies for GetPlayerStats.
type GetPlayerStatsDeps struct {
	PlayerStore PlayerStore
}

// QueryGetPlayerStats counts players per skill level.
// POST: Total == sum of ByLevel counts
func QueryGetPlayerStats(ctx context.Context, deps GetPlayerStatsDeps) (GetPlayerStatsResult, error) {
	counts, err := deps.PlayerStore.CountByLevel(ctx)
	if err != nil {
		return GetPlayerStatsResult{}, err
	}
	var result GetPlayerStatsResult
	for _, level := range player.ValidLevels {
		n := counts[level]
		result.Total += n
		result.ByLevel = append(result.ByLevel, LevelCount{Level: level, Count: n})
	}
	return result, nil
}
