package memory

import (
	"context"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetDetail(_ context.Context, matchID string) (match.Detail, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.matches[matchID]
	if !ok {
		return match.Detail{}, false, nil
	}
	return cloneDetail(d), true, nil
}

func (r *MatchRepository) ListByNight(_ context.Context, nightID string) ([]match.Detail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []match.Detail
	for _, id := range r.store.matchOrder {
		if d, ok := r.store.matches[id]; ok && d.Match.NightID == nightID {
			out = append(out, cloneDetail(d))
		}
	}
	return out, nil
}

func (r *MatchRepository) ListResolvedByPlayer(_ context.Context, playerID string) ([]match.Detail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []match.Detail
	for _, id := range r.store.matchOrder {
		d, ok := r.store.matches[id]
		if !ok || !d.Match.Resolved() || !d.HasParticipant(playerID) {
			continue
		}
		out = append(out, cloneDetail(d))
	}
	return out, nil
}

func (r *MatchRepository) ListResolved(_ context.Context) ([]match.Detail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []match.Detail
	for _, id := range r.store.matchOrder {
		if d, ok := r.store.matches[id]; ok && d.Match.Resolved() {
			out = append(out, cloneDetail(d))
		}
	}
	return out, nil
}
