package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetDetail(ctx context.Context, matchID string) (match.Detail, bool, error) {
	return getMatchDetail(ctx, r.db, matchID)
}

func (r *MatchRepository) ListByNight(ctx context.Context, nightID string) ([]match.Detail, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("night_public_id", nightID)).
		OrderBy("lane", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by night query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by night: %w", err)
	}
	return loadMatchDetails(ctx, r.db, rows)
}

func (r *MatchRepository) ListResolvedByPlayer(ctx context.Context, playerID string) ([]match.Detail, error) {
	teamQuery, teamArgs, err := qb.Select("match_team_public_id").From("match_players").
		Where(qb.Eq("player_public_id", playerID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match teams by player query: %w", err)
	}

	var teamIDs []string
	if err := r.db.SelectContext(ctx, &teamIDs, teamQuery, teamArgs...); err != nil {
		return nil, fmt.Errorf("list match teams by player: %w", err)
	}
	if len(teamIDs) == 0 {
		return nil, nil
	}

	matchQuery, matchArgs, err := qb.Select("match_public_id").From("match_teams").
		Where(qb.In("public_id", toAnySlice(teamIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by teams query: %w", err)
	}

	var matchIDs []string
	if err := r.db.SelectContext(ctx, &matchIDs, matchQuery, matchArgs...); err != nil {
		return nil, fmt.Errorf("list matches by teams: %w", err)
	}
	if len(matchIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.In("public_id", toAnySlice(matchIDs)),
			qb.In("status", resolvedStatuses()),
		).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list resolved matches by player query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list resolved matches by player: %w", err)
	}
	return loadMatchDetails(ctx, r.db, rows)
}

func (r *MatchRepository) ListResolved(ctx context.Context) ([]match.Detail, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.In("status", resolvedStatuses())).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list resolved matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list resolved matches: %w", err)
	}
	return loadMatchDetails(ctx, r.db, rows)
}

func resolvedStatuses() []any {
	return []any{string(match.StatusCompleted), string(match.StatusWalkover)}
}

func getMatchDetail(ctx context.Context, q queryer, matchID string) (match.Detail, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Detail{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := q.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Detail{}, false, nil
		}
		return match.Detail{}, false, fmt.Errorf("get match: %w", err)
	}

	details, err := loadMatchDetails(ctx, q, []matchTableModel{row})
	if err != nil {
		return match.Detail{}, false, err
	}
	return details[0], true, nil
}

// loadMatchDetails fans two IN queries over the match graph tables and
// assembles one Detail per match row, in the given row order.
func loadMatchDetails(ctx context.Context, q queryer, rows []matchTableModel) ([]match.Detail, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	matchIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		matchIDs = append(matchIDs, row.PublicID)
	}

	teamQuery, teamArgs, err := qb.Select("*").From("match_teams").
		Where(qb.In("match_public_id", toAnySlice(matchIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match teams query: %w", err)
	}

	var teamRows []matchTeamTableModel
	if err := q.SelectContext(ctx, &teamRows, teamQuery, teamArgs...); err != nil {
		return nil, fmt.Errorf("list match teams: %w", err)
	}

	teamIDs := make([]string, 0, len(teamRows))
	for _, row := range teamRows {
		teamIDs = append(teamIDs, row.PublicID)
	}

	playersByTeam := make(map[string][]match.Player)
	if len(teamIDs) > 0 {
		playerQuery, playerArgs, err := qb.Select("*").From("match_players").
			Where(qb.In("match_team_public_id", toAnySlice(teamIDs))).
			OrderBy("id").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build list match players query: %w", err)
		}

		var playerRows []matchPlayerTableModel
		if err := q.SelectContext(ctx, &playerRows, playerQuery, playerArgs...); err != nil {
			return nil, fmt.Errorf("list match players: %w", err)
		}
		for _, row := range playerRows {
			playersByTeam[row.MatchTeamID] = append(playersByTeam[row.MatchTeamID], matchPlayerToDomain(row))
		}
	}

	teamsByMatch := make(map[string][]match.TeamDetail)
	for _, row := range teamRows {
		teamsByMatch[row.MatchID] = append(teamsByMatch[row.MatchID], match.TeamDetail{
			Team:    matchTeamToDomain(row),
			Players: playersByTeam[row.PublicID],
		})
	}

	out := make([]match.Detail, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Detail{
			Match: matchToDomain(row),
			Teams: teamsByMatch[row.PublicID],
		})
	}
	return out, nil
}
