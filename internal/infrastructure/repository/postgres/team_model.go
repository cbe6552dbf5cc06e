package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamPlayerTableModel struct {
	ID       int64  `db:"id"`
	TeamID   string `db:"team_public_id"`
	PlayerID string `db:"player_public_id"`
	Position int    `db:"position"`
}
