package memory

import (
	"context"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
)

type RoundRepository struct {
	store *Store
}

func NewRoundRepository(store *Store) *RoundRepository {
	return &RoundRepository{store: store}
}

// CreateWithMatches materializes a drawn round under the store lock:
// the duplicate check and every insert happen in one critical section,
// mirroring the SQL repository's transaction.
func (r *RoundRepository) CreateWithMatches(_ context.Context, rnd round.Round, matches []match.Detail, byes []round.Bye) error {
	if err := rnd.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.rounds {
		if existing.NightID == rnd.NightID && existing.Number == rnd.Number {
			return round.ErrRoundExists
		}
	}

	for _, d := range matches {
		if err := d.Match.Validate(); err != nil {
			return err
		}
	}

	r.store.rounds[rnd.ID] = rnd
	r.store.roundOrder = append(r.store.roundOrder, rnd.ID)
	r.store.byes[rnd.ID] = append([]round.Bye(nil), byes...)
	for _, d := range matches {
		r.store.matches[d.Match.ID] = cloneDetail(d)
		r.store.matchOrder = append(r.store.matchOrder, d.Match.ID)
	}
	return nil
}

func (r *RoundRepository) ListByNight(_ context.Context, nightID string) ([]round.Round, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]round.Round, 0, 3)
	for _, id := range r.store.roundOrder {
		if rnd, ok := r.store.rounds[id]; ok && rnd.NightID == nightID {
			out = append(out, rnd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *RoundRepository) GetByNightAndNumber(_ context.Context, nightID string, number int) (round.Round, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rnd := range r.store.rounds {
		if rnd.NightID == nightID && rnd.Number == number {
			return rnd, true, nil
		}
	}
	return round.Round{}, false, nil
}

func (r *RoundRepository) ListByes(_ context.Context, roundID string) ([]round.Bye, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]round.Bye(nil), r.store.byes[roundID]...), nil
}

// DeleteWithMatches removes the round and everything under it. Child
// rows go first in the SQL repository; here one critical section
// covers the lot.
func (r *RoundRepository) DeleteWithMatches(_ context.Context, roundID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	keptMatches := r.store.matchOrder[:0]
	for _, matchID := range r.store.matchOrder {
		d, ok := r.store.matches[matchID]
		if ok && d.Match.RoundID == roundID {
			delete(r.store.matches, matchID)
			delete(r.store.confirmations, matchID)
			continue
		}
		keptMatches = append(keptMatches, matchID)
	}
	r.store.matchOrder = keptMatches

	delete(r.store.byes, roundID)
	delete(r.store.rounds, roundID)

	keptRounds := r.store.roundOrder[:0]
	for _, id := range r.store.roundOrder {
		if id != roundID {
			keptRounds = append(keptRounds, id)
		}
	}
	r.store.roundOrder = keptRounds
	return nil
}
