package postgres

import (
	"database/sql"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
)

type rankingTableModel struct {
	ID            int64           `db:"id"`
	PublicID      string          `db:"public_id"`
	SubjectKind   string          `db:"subject_kind"`
	SubjectID     string          `db:"subject_id"`
	SimplePoints  int             `db:"simple_points"`
	MatchesPlayed int             `db:"matches_played"`
	MatchesWon    int             `db:"matches_won"`
	Rating        sql.NullFloat64 `db:"rating"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at"`
}

type rankingInsertModel struct {
	PublicID      string          `db:"public_id"`
	SubjectKind   string          `db:"subject_kind"`
	SubjectID     string          `db:"subject_id"`
	SimplePoints  int             `db:"simple_points"`
	MatchesPlayed int             `db:"matches_played"`
	MatchesWon    int             `db:"matches_won"`
	Rating        sql.NullFloat64 `db:"rating"`
}

func rankingToDomain(row rankingTableModel) ranking.Ranking {
	return ranking.Ranking{
		ID:            row.PublicID,
		SubjectKind:   ranking.SubjectKind(row.SubjectKind),
		SubjectID:     row.SubjectID,
		SimplePoints:  row.SimplePoints,
		MatchesPlayed: row.MatchesPlayed,
		MatchesWon:    row.MatchesWon,
		Rating:        nullFloat64ToFloat64Ptr(row.Rating),
	}
}

func rankingToInsertModel(r ranking.Ranking) rankingInsertModel {
	return rankingInsertModel{
		PublicID:      r.ID,
		SubjectKind:   string(r.SubjectKind),
		SubjectID:     r.SubjectID,
		SimplePoints:  r.SimplePoints,
		MatchesPlayed: r.MatchesPlayed,
		MatchesWon:    r.MatchesWon,
		Rating:        float64PtrToNullFloat64(r.Rating),
	}
}
