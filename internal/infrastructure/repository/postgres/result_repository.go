package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/platform/id"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type ResultRepository struct {
	db    *sqlx.DB
	idGen id.Generator
	now   func() time.Time
}

func NewResultRepository(db *sqlx.DB, idGen id.Generator) *ResultRepository {
	return &ResultRepository{db: db, idGen: idGen, now: time.Now}
}

// SubmitReport upserts the confirmation, re-reads the quorum and runs
// the consensus decision inside one transaction. The match row is
// locked first, so two participants reporting concurrently serialize
// and cannot both observe a partial quorum.
func (r *ResultRepository) SubmitReport(ctx context.Context, matchID, playerID string, out result.Outcome) (match.Detail, []result.Confirmation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Detail{}, nil, fmt.Errorf("begin tx submit report: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	detail, ok, err := getMatchDetailForUpdate(ctx, tx, matchID)
	if err != nil {
		return match.Detail{}, nil, err
	}
	if !ok {
		return match.Detail{}, nil, fmt.Errorf("match not found: %s", matchID)
	}

	confID, err := r.idGen.NewID()
	if err != nil {
		return match.Detail{}, nil, fmt.Errorf("generate confirmation id: %w", err)
	}
	insertModel := confirmationInsertModel{
		PublicID:   confID,
		MatchID:    matchID,
		PlayerID:   playerID,
		HomeScore:  out.HomeScore,
		AwayScore:  out.AwayScore,
		Status:     string(result.StatusPending),
		ReportedAt: timeToUnix(r.now()),
	}
	if out.WalkoverWinner != nil {
		insertModel.WalkoverWinner = sql.NullString{String: string(*out.WalkoverWinner), Valid: true}
	}
	query, args, err := qb.InsertModel("result_confirmations", insertModel, `ON CONFLICT (match_public_id, player_public_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    walkover_winner = EXCLUDED.walkover_winner,
    status = EXCLUDED.status,
    reported_at = EXCLUDED.reported_at,
    updated_at = NOW()`)
	if err != nil {
		return match.Detail{}, nil, fmt.Errorf("build upsert confirmation query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return match.Detail{}, nil, fmt.Errorf("upsert confirmation: %w", err)
	}

	confirmations, err := listConfirmations(ctx, tx, matchID)
	if err != nil {
		return match.Detail{}, nil, err
	}

	verdict := result.Decide(len(detail.ParticipantIDs()), confirmations)
	switch verdict.Status {
	case result.StatusConfirmed:
		detail, err = r.resolveInTx(ctx, tx, detail, verdict.Outcome)
		if err != nil {
			return match.Detail{}, nil, err
		}
		if err := setConfirmationStatuses(ctx, tx, matchID, result.StatusConfirmed); err != nil {
			return match.Detail{}, nil, err
		}
	case result.StatusDisputed:
		if err := setConfirmationStatuses(ctx, tx, matchID, result.StatusDisputed); err != nil {
			return match.Detail{}, nil, err
		}
	}

	confirmations, err = listConfirmations(ctx, tx, matchID)
	if err != nil {
		return match.Detail{}, nil, err
	}

	if err := tx.Commit(); err != nil {
		return match.Detail{}, nil, fmt.Errorf("commit submit report tx: %w", err)
	}
	return detail, confirmations, nil
}

// ApplyResolution writes an authoritative outcome. An admin override
// leaves the confirmation ledger untouched.
func (r *ResultRepository) ApplyResolution(ctx context.Context, matchID string, res result.Resolution) (match.Detail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Detail{}, fmt.Errorf("begin tx apply resolution: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	detail, ok, err := getMatchDetailForUpdate(ctx, tx, matchID)
	if err != nil {
		return match.Detail{}, err
	}
	if !ok {
		return match.Detail{}, fmt.Errorf("match not found: %s", matchID)
	}

	resolved, err := r.resolveInTx(ctx, tx, detail, res.Outcome)
	if err != nil {
		return match.Detail{}, err
	}
	if res.Kind == result.ResolutionConfirmed {
		if err := setConfirmationStatuses(ctx, tx, matchID, result.StatusConfirmed); err != nil {
			return match.Detail{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return match.Detail{}, fmt.Errorf("commit apply resolution tx: %w", err)
	}
	return resolved, nil
}

func (r *ResultRepository) ListByMatch(ctx context.Context, matchID string) ([]result.Confirmation, error) {
	return listConfirmations(ctx, r.db, matchID)
}

// resolveInTx persists the resolved match graph and applies ranking
// increments. Increments fire only on the first resolution; a later
// re-resolution changes the score but leaves rankings to the rebuild
// job.
func (r *ResultRepository) resolveInTx(ctx context.Context, tx *sqlx.Tx, detail match.Detail, out result.Outcome) (match.Detail, error) {
	wasResolved := detail.Match.Resolved()

	resolved, err := result.ResolveMatch(detail, out)
	if err != nil {
		return match.Detail{}, err
	}

	var walkover any
	if resolved.Match.WalkoverWinner != nil {
		walkover = string(*resolved.Match.WalkoverWinner)
	}
	matchQuery, matchArgs, err := qb.Update("matches").
		Set("status", string(resolved.Match.Status)).
		Set("home_score", out.HomeScore).
		Set("away_score", out.AwayScore).
		Set("walkover_winner", walkover).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", resolved.Match.ID)).
		ToSQL()
	if err != nil {
		return match.Detail{}, fmt.Errorf("build update match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		return match.Detail{}, fmt.Errorf("update match: %w", err)
	}

	for _, t := range resolved.Teams {
		if len(t.Players) == 0 {
			continue
		}
		p := t.Players[0]
		playerQuery, playerArgs, err := qb.Update("match_players").
			Set("points_for", *p.PointsFor).
			Set("points_against", *p.PointsAgainst).
			Set("won", *p.Won).
			Where(qb.Eq("match_team_public_id", t.Team.ID)).
			ToSQL()
		if err != nil {
			return match.Detail{}, fmt.Errorf("build update match players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, playerQuery, playerArgs...); err != nil {
			return match.Detail{}, fmt.Errorf("update match players: %w", err)
		}
	}

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
			if err := r.applyRankingInTx(ctx, tx, ranking.SubjectPlayer, p.PlayerID, *p.Won); err != nil {
				return match.Detail{}, err
			}
		}
		if t.Team.TeamID != nil {
			if err := r.applyRankingInTx(ctx, tx, ranking.SubjectTeam, *t.Team.TeamID, teamWon); err != nil {
				return match.Detail{}, err
			}
		}
	}
	return resolved, nil
}

func (r *ResultRepository) applyRankingInTx(ctx context.Context, tx *sqlx.Tx, kind ranking.SubjectKind, subjectID string, won bool) error {
	rowID, err := r.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate ranking id: %w", err)
	}

	increment := ranking.Ranking{ID: rowID, SubjectKind: kind, SubjectID: subjectID}.Applied(won)
	query, args, err := qb.InsertModel("rankings", rankingToInsertModel(increment), `ON CONFLICT (subject_kind, subject_id) WHERE deleted_at IS NULL
DO UPDATE SET
    simple_points = rankings.simple_points + EXCLUDED.simple_points,
    matches_played = rankings.matches_played + EXCLUDED.matches_played,
    matches_won = rankings.matches_won + EXCLUDED.matches_won,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert ranking query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ranking subject=%s: %w", subjectID, err)
	}
	return nil
}

func getMatchDetailForUpdate(ctx context.Context, tx *sqlx.Tx, matchID string) (match.Detail, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Detail{}, false, fmt.Errorf("build lock match query: %w", err)
	}

	var row matchTableModel
	if err := tx.GetContext(ctx, &row, query+" FOR UPDATE", args...); err != nil {
		if isNotFound(err) {
			return match.Detail{}, false, nil
		}
		return match.Detail{}, false, fmt.Errorf("lock match: %w", err)
	}

	details, err := loadMatchDetails(ctx, tx, []matchTableModel{row})
	if err != nil {
		return match.Detail{}, false, err
	}
	return details[0], true, nil
}

func listConfirmations(ctx context.Context, q queryer, matchID string) ([]result.Confirmation, error) {
	query, args, err := qb.Select("*").From("result_confirmations").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("reported_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list confirmations query: %w", err)
	}

	var rows []confirmationTableModel
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list confirmations: %w", err)
	}

	out := make([]result.Confirmation, 0, len(rows))
	for _, row := range rows {
		out = append(out, confirmationToDomain(row))
	}
	return out, nil
}

func setConfirmationStatuses(ctx context.Context, tx *sqlx.Tx, matchID string, status result.Status) error {
	query, args, err := qb.Update("result_confirmations").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update confirmation statuses query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update confirmation statuses: %w", err)
	}
	return nil
}
