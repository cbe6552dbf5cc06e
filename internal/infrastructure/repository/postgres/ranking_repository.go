package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) List(ctx context.Context, kind ranking.SubjectKind) ([]ranking.Ranking, error) {
	query, args, err := qb.Select("*").From("rankings").
		Where(
			qb.Eq("subject_kind", string(kind)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("subject_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rankings query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}

	out := make([]ranking.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, rankingToDomain(row))
	}
	return out, nil
}

func (r *RankingRepository) GetBySubject(ctx context.Context, kind ranking.SubjectKind, subjectID string) (ranking.Ranking, bool, error) {
	query, args, err := qb.Select("*").From("rankings").
		Where(
			qb.Eq("subject_kind", string(kind)),
			qb.Eq("subject_id", subjectID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return ranking.Ranking{}, false, fmt.Errorf("build get ranking query: %w", err)
	}

	var row rankingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.Ranking{}, false, nil
		}
		return ranking.Ranking{}, false, fmt.Errorf("get ranking: %w", err)
	}

	return rankingToDomain(row), true, nil
}

// ReplaceAll swaps every ranking row of one subject kind for the given
// set in a single transaction. The rebuild job is the only caller.
func (r *RankingRepository) ReplaceAll(ctx context.Context, kind ranking.SubjectKind, rankings []ranking.Ranking) error {
	for _, row := range rankings {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("validate ranking: %w", err)
		}
		if row.SubjectKind != kind {
			return fmt.Errorf("ranking subject kind mismatch: %s", row.SubjectKind)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("rankings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("subject_kind", string(kind)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear rankings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear rankings: %w", err)
	}

	for _, row := range rankings {
		query, args, err := qb.InsertModel("rankings", rankingToInsertModel(row), `ON CONFLICT (subject_kind, subject_id) WHERE deleted_at IS NULL
DO UPDATE SET
    public_id = EXCLUDED.public_id,
    simple_points = EXCLUDED.simple_points,
    matches_played = EXCLUDED.matches_played,
    matches_won = EXCLUDED.matches_won,
    rating = EXCLUDED.rating,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert ranking query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert ranking subject=%s: %w", row.SubjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rankings tx: %w", err)
	}
	return nil
}
