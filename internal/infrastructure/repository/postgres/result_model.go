package postgres

import (
	"database/sql"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
)

type confirmationTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	MatchID        string         `db:"match_public_id"`
	PlayerID       string         `db:"player_public_id"`
	HomeScore      int            `db:"home_score"`
	AwayScore      int            `db:"away_score"`
	WalkoverWinner sql.NullString `db:"walkover_winner"`
	Status         string         `db:"status"`
	ReportedAt     int64          `db:"reported_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type confirmationInsertModel struct {
	PublicID       string         `db:"public_id"`
	MatchID        string         `db:"match_public_id"`
	PlayerID       string         `db:"player_public_id"`
	HomeScore      int            `db:"home_score"`
	AwayScore      int            `db:"away_score"`
	WalkoverWinner sql.NullString `db:"walkover_winner"`
	Status         string         `db:"status"`
	ReportedAt     int64          `db:"reported_at"`
}

func confirmationToDomain(row confirmationTableModel) result.Confirmation {
	c := result.Confirmation{
		ID:         row.PublicID,
		MatchID:    row.MatchID,
		PlayerID:   row.PlayerID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		Status:     result.Status(row.Status),
		ReportedAt: unixToTime(row.ReportedAt),
	}
	if row.WalkoverWinner.Valid {
		side := match.Side(row.WalkoverWinner.String)
		c.WalkoverWinner = &side
	}
	return c
}
