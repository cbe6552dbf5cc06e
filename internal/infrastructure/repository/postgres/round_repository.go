package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// CreateWithMatches writes the round, its match graph and any byes in
// one transaction. The unique index on (night_public_id, number) makes
// the round insert the race-resolution point: the losing draw gets
// round.ErrRoundExists and the transaction rolls back with no partial
// writes.
func (r *RoundRepository) CreateWithMatches(ctx context.Context, rnd round.Round, matches []match.Detail, byes []round.Bye) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create round: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	roundQuery, roundArgs, err := qb.InsertModel("rounds", roundInsertModel{
		PublicID: rnd.ID,
		NightID:  rnd.NightID,
		Number:   rnd.Number,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert round query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, roundQuery, roundArgs...); err != nil {
		if isUniqueViolation(err) {
			return round.ErrRoundExists
		}
		return fmt.Errorf("insert round: %w", err)
	}

	for _, d := range matches {
		matchQuery, matchArgs, err := qb.InsertModel("matches", matchToInsertModel(d.Match), "")
		if err != nil {
			return fmt.Errorf("build insert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
			return fmt.Errorf("insert match lane=%d: %w", d.Match.Lane, err)
		}

		for _, t := range d.Teams {
			teamQuery, teamArgs, err := qb.InsertModel("match_teams", matchTeamToInsertModel(t.Team), "")
			if err != nil {
				return fmt.Errorf("build insert match team query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, teamQuery, teamArgs...); err != nil {
				return fmt.Errorf("insert match team side=%s: %w", t.Team.Side, err)
			}

			for _, p := range t.Players {
				playerQuery, playerArgs, err := qb.InsertModel("match_players", matchPlayerToInsertModel(p), "")
				if err != nil {
					return fmt.Errorf("build insert match player query: %w", err)
				}
				if _, err := tx.ExecContext(ctx, playerQuery, playerArgs...); err != nil {
					return fmt.Errorf("insert match player player=%s: %w", p.PlayerID, err)
				}
			}
		}
	}

	if len(byes) > 0 {
		builder := qb.InsertInto("round_byes").Columns("round_public_id", "player_public_id")
		for _, b := range byes {
			builder.Values(b.RoundID, b.PlayerID)
		}
		byeQuery, byeArgs, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert round byes query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, byeQuery, byeArgs...); err != nil {
			return fmt.Errorf("insert round byes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create round tx: %w", err)
	}
	return nil
}

func (r *RoundRepository) ListByNight(ctx context.Context, nightID string) ([]round.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("night_public_id", nightID)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundToDomain(row))
	}
	return out, nil
}

func (r *RoundRepository) GetByNightAndNumber(ctx context.Context, nightID string, number int) (round.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(
			qb.Eq("night_public_id", nightID),
			qb.Eq("number", number),
		).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return roundToDomain(row), true, nil
}

func (r *RoundRepository) ListByes(ctx context.Context, roundID string) ([]round.Bye, error) {
	query, args, err := qb.Select("*").From("round_byes").
		Where(qb.Eq("round_public_id", roundID)).
		OrderBy("player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list round byes query: %w", err)
	}

	var rows []roundByeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list round byes: %w", err)
	}

	out := make([]round.Bye, 0, len(rows))
	for _, row := range rows {
		out = append(out, round.Bye{RoundID: row.RoundID, PlayerID: row.PlayerID})
	}
	return out, nil
}

// DeleteWithMatches hard-deletes the round and its entire match graph,
// child tables first. Resets free the (night, number) slot for a fresh
// draw, so soft deletes would fight the unique index.
func (r *RoundRepository) DeleteWithMatches(ctx context.Context, roundID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete round: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchQuery, matchArgs, err := qb.Select("public_id").From("matches").
		Where(qb.Eq("round_public_id", roundID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build list round matches query: %w", err)
	}

	var matchIDs []string
	if err := tx.SelectContext(ctx, &matchIDs, matchQuery, matchArgs...); err != nil {
		return fmt.Errorf("list round matches: %w", err)
	}

	if len(matchIDs) > 0 {
		teamQuery, teamArgs, err := qb.Select("public_id").From("match_teams").
			Where(qb.In("match_public_id", toAnySlice(matchIDs))).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build list round match teams query: %w", err)
		}

		var teamIDs []string
		if err := tx.SelectContext(ctx, &teamIDs, teamQuery, teamArgs...); err != nil {
			return fmt.Errorf("list round match teams: %w", err)
		}

		if len(teamIDs) > 0 {
			if err := deleteWhere(ctx, tx, "match_players", qb.In("match_team_public_id", toAnySlice(teamIDs))); err != nil {
				return err
			}
		}
		if err := deleteWhere(ctx, tx, "result_confirmations", qb.In("match_public_id", toAnySlice(matchIDs))); err != nil {
			return err
		}
		if err := deleteWhere(ctx, tx, "match_teams", qb.In("match_public_id", toAnySlice(matchIDs))); err != nil {
			return err
		}
	}
	if err := deleteWhere(ctx, tx, "matches", qb.Eq("round_public_id", roundID)); err != nil {
		return err
	}
	if err := deleteWhere(ctx, tx, "round_byes", qb.Eq("round_public_id", roundID)); err != nil {
		return err
	}
	if err := deleteWhere(ctx, tx, "rounds", qb.Eq("public_id", roundID)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete round tx: %w", err)
	}
	return nil
}

func deleteWhere(ctx context.Context, q queryer, table string, condition qb.Condition) error {
	query, args, err := qb.DeleteFrom(table).Where(condition).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", table, err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func roundToDomain(row roundTableModel) round.Round {
	return round.Round{
		ID:      row.PublicID,
		NightID: row.NightID,
		Number:  row.Number,
	}
}
