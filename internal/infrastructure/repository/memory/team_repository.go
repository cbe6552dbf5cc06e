package memory

import (
	"context"

	"github.com/boulodrome/petanque-nights/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) GetByIDs(_ context.Context, teamIDs []string) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		if t, ok := r.store.teams[id]; ok {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}
