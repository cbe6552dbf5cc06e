package postgres

import (
	"database/sql"
	"time"
)

type nightTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	ScheduledAt int64         `db:"scheduled_at"`
	DrawMode    string        `db:"draw_mode"`
	MaxPlayers  sql.NullInt64 `db:"max_players"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type attendanceTableModel struct {
	ID        int64     `db:"id"`
	NightID   string    `db:"night_public_id"`
	PlayerID  string    `db:"player_public_id"`
	Present   bool      `db:"present"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type attendanceInsertModel struct {
	NightID  string `db:"night_public_id"`
	PlayerID string `db:"player_public_id"`
	Present  bool   `db:"present"`
}
