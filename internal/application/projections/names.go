package projections

import (
	"context"
	"errors"

	"courtside/internal/domain/player"
)

// nameResolver caches player display names for the lifetime of one query.
type nameResolver struct {
	lookup PlayerLookup
	names  map[string]string
}

func newNameResolver(lookup PlayerLookup) *nameResolver {
	return &nameResolver{lookup: lookup, names: make(map[string]string)}
}

// resolve maps ids to names in order. Ids that no longer resolve render as
// the id itself.
func (r *nameResolver) resolve(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := r.names[id]
		if !ok {
			p, err := r.lookup.GetByID(ctx, id)
			switch {
			case err == nil:
				name = p.Name
			case errors.Is(err, player.ErrNotFound):
				name = id
			default:
				return nil, err
			}
			r.names[id] = name
		}
		out = append(out, name)
	}
	return out, nil
}
