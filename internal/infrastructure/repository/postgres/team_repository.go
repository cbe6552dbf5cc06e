package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/team"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.In("public_id", toAnySlice(teamIDs)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get teams by ids query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get teams by ids: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	foundIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		foundIDs = append(foundIDs, row.PublicID)
	}

	rosterQuery, rosterArgs, err := qb.Select("*").From("team_players").
		Where(qb.In("team_public_id", toAnySlice(foundIDs))).
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get team rosters query: %w", err)
	}

	var rosterRows []teamPlayerTableModel
	if err := r.db.SelectContext(ctx, &rosterRows, rosterQuery, rosterArgs...); err != nil {
		return nil, fmt.Errorf("get team rosters: %w", err)
	}

	rosters := make(map[string][]string)
	for _, row := range rosterRows {
		rosters[row.TeamID] = append(rosters[row.TeamID], row.PlayerID)
	}

	byID := make(map[string]team.Team, len(rows))
	for _, row := range rows {
		byID[row.PublicID] = team.Team{
			ID:        row.PublicID,
			Name:      row.Name,
			PlayerIDs: rosters[row.PublicID],
		}
	}

	// Preserve the requested order, skipping unknown ids.
	out := make([]team.Team, 0, len(teamIDs))
	for _, id := range teamIDs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
