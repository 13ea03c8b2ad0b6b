package projections

import (
	"context"

	playerStore "courtside/internal/adapters/storage/player"
	"courtside/internal/application/listutil"
	"courtside/internal/domain/player"
)

// GetPlayerListQuery carries query parameters.
type GetPlayerListQuery struct {
	Params listutil.Params // recognises the "level" filter
}

// GetPlayerListResult carries the query result.
type GetPlayerListResult struct {
	Players []player.Player
	Page    listutil.PageInfo
}

// GetPlayerListDeps holds dependencies for GetPlayerList.
type GetPlayerListDeps struct {
	PlayerStore PlayerStore
}

// QueryGetPlayerList retrieves one page of the roster, newest first.
// PRE: Params came from listutil.Parse
// POST: Page.Total counts every matching player, not just this page
func QueryGetPlayerList(ctx context.Context, query GetPlayerListQuery, deps GetPlayerListDeps) (GetPlayerListResult, error) {
	level := query.Params.Filters["level"]
	if level != "" && !player.IsValidLevel(level) {
		return GetPlayerListResult{}, player.ErrInvalidLevel
	}
	filter := playerStore.ListFilter{Level: level, Search: query.Params.Search}

	total, err := deps.PlayerStore.Count(ctx, filter)
	if err != nil {
		return GetPlayerListResult{}, err
	}
	page := listutil.NewPageInfo(query.Params.Page, query.Params.PerPage, total)

	filter.Limit = page.PerPage
	filter.Offset = (page.Page - 1) * page.PerPage
	players, err := deps.PlayerStore.List(ctx, filter)
	if err != nil {
		return GetPlayerListResult{}, err
	}
	if players == nil {
		players = []player.Player{}
	}
	return GetPlayerListResult{Players: players, Page: page}, nil
}
