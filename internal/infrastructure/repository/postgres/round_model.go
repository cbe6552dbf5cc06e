package postgres

import "time"

type roundTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	NightID   string    `db:"night_public_id"`
	Number    int       `db:"number"`
	CreatedAt time.Time `db:"created_at"`
}

type roundInsertModel struct {
	PublicID string `db:"public_id"`
	NightID  string `db:"night_public_id"`
	Number   int    `db:"number"`
}

type roundByeTableModel struct {
	ID       int64  `db:"id"`
	RoundID  string `db:"round_public_id"`
	PlayerID string `db:"player_public_id"`
}

type roundByeInsertModel struct {
	RoundID  string `db:"round_public_id"`
	PlayerID string `db:"player_public_id"`
}
