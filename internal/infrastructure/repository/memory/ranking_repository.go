package memory

import (
	"context"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
)

type RankingRepository struct {
	store *Store
}

func NewRankingRepository(store *Store) *RankingRepository {
	return &RankingRepository{store: store}
}

func (r *RankingRepository) List(_ context.Context, kind ranking.SubjectKind) ([]ranking.Ranking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := r.store.rankings[kind]
	out := make([]ranking.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneRanking(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out, nil
}

func (r *RankingRepository) GetBySubject(_ context.Context, kind ranking.SubjectKind, subjectID string) (ranking.Ranking, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.rankings[kind][subjectID]
	if !ok {
		return ranking.Ranking{}, false, nil
	}
	return cloneRanking(row), true, nil
}

func (r *RankingRepository) ReplaceAll(_ context.Context, kind ranking.SubjectKind, rankings []ranking.Ranking) error {
	for _, row := range rankings {
		if err := row.Validate(); err != nil {
			return err
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rows := make(map[string]ranking.Ranking, len(rankings))
	for _, row := range rankings {
		rows[row.SubjectID] = cloneRanking(row)
	}
	r.store.rankings[kind] = rows
	return nil
}
