package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
)

type ResultRepository struct {
	store *Store
}

func NewResultRepository(store *Store) *ResultRepository {
	return &ResultRepository{store: store}
}

// SubmitReport upserts the confirmation, re-runs the quorum and applies
// a confirmed outcome, all in one critical section. Two participants
// reporting concurrently serialize here the same way two transactions
// would against the SQL store.
func (r *ResultRepository) SubmitReport(_ context.Context, matchID, playerID string, out result.Outcome) (match.Detail, []result.Confirmation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.matches[matchID]
	if !ok {
		return match.Detail{}, nil, fmt.Errorf("match not found: %s", matchID)
	}

	rows, ok := r.store.confirmations[matchID]
	if !ok {
		rows = make(map[string]result.Confirmation)
		r.store.confirmations[matchID] = rows
	}

	conf, ok := rows[playerID]
	if !ok {
		confID, err := r.store.idGen.NewID()
		if err != nil {
			return match.Detail{}, nil, fmt.Errorf("generate confirmation id: %w", err)
		}
		conf = result.Confirmation{ID: confID, MatchID: matchID, PlayerID: playerID}
	}
	conf.HomeScore = out.HomeScore
	conf.AwayScore = out.AwayScore
	conf.WalkoverWinner = cloneSidePtr(out.WalkoverWinner)
	conf.Status = result.StatusPending
	conf.ReportedAt = r.store.now()
	rows[playerID] = conf

	participants := detail.ParticipantIDs()
	verdict := result.Decide(len(participants), confirmationValues(rows))

	switch verdict.Status {
	case result.StatusConfirmed:
		resolved, err := r.resolveLocked(detail, verdict.Outcome)
		if err != nil {
			return match.Detail{}, nil, err
		}
		detail = resolved
		setAllStatuses(rows, result.StatusConfirmed)
	case result.StatusDisputed:
		setAllStatuses(rows, result.StatusDisputed)
	}

	return cloneDetail(detail), sortedConfirmations(rows), nil
}

// ApplyResolution writes an authoritative outcome. An admin override
// leaves the confirmation ledger untouched.
func (r *ResultRepository) ApplyResolution(_ context.Context, matchID string, res result.Resolution) (match.Detail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	detail, ok := r.store.matches[matchID]
	if !ok {
		return match.Detail{}, fmt.Errorf("match not found: %s", matchID)
	}

	resolved, err := r.resolveLocked(detail, res.Outcome)
	if err != nil {
		return match.Detail{}, err
	}
	if res.Kind == result.ResolutionConfirmed {
		setAllStatuses(r.store.confirmations[matchID], result.StatusConfirmed)
	}
	return cloneDetail(resolved), nil
}

func (r *ResultRepository) ListByMatch(_ context.Context, matchID string) ([]result.Confirmation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedConfirmations(r.store.confirmations[matchID]), nil
}

// resolveLocked stores the resolved match graph and applies ranking
// increments. Increments fire only on the first resolution; a later
// re-resolution changes the score but leaves rankings to the rebuild
// job. Caller holds the write lock.
func (r *ResultRepository) resolveLocked(detail match.Detail, out result.Outcome) (match.Detail, error) {
	wasResolved := detail.Match.Resolved()

	resolved, err := result.ResolveMatch(detail, out)
	if err != nil {
		return match.Detail{}, err
	}
	r.store.matches[resolved.Match.ID] = cloneDetail(resolved)

	if wasResolved {
		return resolved, nil
	}

	for _, t := range resolved.Teams {
		teamWon := false
		for _, p := range t.Players {
			if p.Won == nil {
				continue
			}
			teamWon = *p.Won
			if err := r.applyRankingLocked(ranking.SubjectPlayer, p.PlayerID, *p.Won); err != nil {
				return match.Detail{}, err
			}
		}
		if t.Team.TeamID != nil {
			if err := r.applyRankingLocked(ranking.SubjectTeam, *t.Team.TeamID, teamWon); err != nil {
				return match.Detail{}, err
			}
		}
	}
	return resolved, nil
}

func (r *ResultRepository) applyRankingLocked(kind ranking.SubjectKind, subjectID string, won bool) error {
	rows := r.store.rankings[kind]
	row, ok := rows[subjectID]
	if !ok {
		rowID, err := r.store.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate ranking id: %w", err)
		}
		row = ranking.Ranking{ID: rowID, SubjectKind: kind, SubjectID: subjectID}
	}
	rows[subjectID] = row.Applied(won)
	return nil
}

func confirmationValues(rows map[string]result.Confirmation) []result.Confirmation {
	out := make([]result.Confirmation, 0, len(rows))
	for _, c := range rows {
		out = append(out, c)
	}
	return out
}

func sortedConfirmations(rows map[string]result.Confirmation) []result.Confirmation {
	out := make([]result.Confirmation, 0, len(rows))
	for _, c := range rows {
		out = append(out, cloneConfirmation(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportedAt.Equal(out[j].ReportedAt) {
			return out[i].ReportedAt.Before(out[j].ReportedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func setAllStatuses(rows map[string]result.Confirmation, status result.Status) {
	for playerID, c := range rows {
		c.Status = status
		rows[playerID] = c
	}
}
