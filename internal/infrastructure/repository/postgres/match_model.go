package postgres

import (
	"database/sql"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

type matchTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	RoundID        string         `db:"round_public_id"`
	NightID        string         `db:"night_public_id"`
	Lane           int            `db:"lane"`
	Status         string         `db:"status"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	WalkoverWinner sql.NullString `db:"walkover_winner"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID       string         `db:"public_id"`
	RoundID        string         `db:"round_public_id"`
	NightID        string         `db:"night_public_id"`
	Lane           int            `db:"lane"`
	Status         string         `db:"status"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	WalkoverWinner sql.NullString `db:"walkover_winner"`
}

type matchTeamTableModel struct {
	ID       int64          `db:"id"`
	PublicID string         `db:"public_id"`
	MatchID  string         `db:"match_public_id"`
	Side     string         `db:"side"`
	TeamID   sql.NullString `db:"team_public_id"`
}

type matchTeamInsertModel struct {
	PublicID string         `db:"public_id"`
	MatchID  string         `db:"match_public_id"`
	Side     string         `db:"side"`
	TeamID   sql.NullString `db:"team_public_id"`
}

type matchPlayerTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	MatchTeamID   string        `db:"match_team_public_id"`
	PlayerID      string        `db:"player_public_id"`
	PointsFor     sql.NullInt64 `db:"points_for"`
	PointsAgainst sql.NullInt64 `db:"points_against"`
	Won           sql.NullBool  `db:"won"`
}

type matchPlayerInsertModel struct {
	PublicID      string        `db:"public_id"`
	MatchTeamID   string        `db:"match_team_public_id"`
	PlayerID      string        `db:"player_public_id"`
	PointsFor     sql.NullInt64 `db:"points_for"`
	PointsAgainst sql.NullInt64 `db:"points_against"`
	Won           sql.NullBool  `db:"won"`
}

func matchToDomain(row matchTableModel) match.Match {
	m := match.Match{
		ID:        row.PublicID,
		RoundID:   row.RoundID,
		NightID:   row.NightID,
		Lane:      row.Lane,
		Status:    match.Status(row.Status),
		HomeScore: nullInt64ToIntPtr(row.HomeScore),
		AwayScore: nullInt64ToIntPtr(row.AwayScore),
	}
	if row.WalkoverWinner.Valid {
		side := match.Side(row.WalkoverWinner.String)
		m.WalkoverWinner = &side
	}
	return m
}

func matchTeamToDomain(row matchTeamTableModel) match.Team {
	return match.Team{
		ID:      row.PublicID,
		MatchID: row.MatchID,
		Side:    match.Side(row.Side),
		TeamID:  nullStringToStringPtr(row.TeamID),
	}
}

func matchPlayerToDomain(row matchPlayerTableModel) match.Player {
	return match.Player{
		ID:            row.PublicID,
		MatchTeamID:   row.MatchTeamID,
		PlayerID:      row.PlayerID,
		PointsFor:     nullInt64ToIntPtr(row.PointsFor),
		PointsAgainst: nullInt64ToIntPtr(row.PointsAgainst),
		Won:           nullBoolToBoolPtr(row.Won),
	}
}

func matchToInsertModel(m match.Match) matchInsertModel {
	out := matchInsertModel{
		PublicID:  m.ID,
		RoundID:   m.RoundID,
		NightID:   m.NightID,
		Lane:      m.Lane,
		Status:    string(m.Status),
		HomeScore: intPtrToNullInt64(m.HomeScore),
		AwayScore: intPtrToNullInt64(m.AwayScore),
	}
	if m.WalkoverWinner != nil {
		out.WalkoverWinner = sql.NullString{String: string(*m.WalkoverWinner), Valid: true}
	}
	return out
}

func matchTeamToInsertModel(t match.Team) matchTeamInsertModel {
	return matchTeamInsertModel{
		PublicID: t.ID,
		MatchID:  t.MatchID,
		Side:     string(t.Side),
		TeamID:   stringPtrToNullString(t.TeamID),
	}
}

func matchPlayerToInsertModel(p match.Player) matchPlayerInsertModel {
	return matchPlayerInsertModel{
		PublicID:      p.ID,
		MatchTeamID:   p.MatchTeamID,
		PlayerID:      p.PlayerID,
		PointsFor:     intPtrToNullInt64(p.PointsFor),
		PointsAgainst: intPtrToNullInt64(p.PointsAgainst),
		Won:           boolPtrToNullBool(p.Won),
	}
}
