package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/domain/night"
	qb "github.com/boulodrome/petanque-nights/internal/platform/querybuilder"
)

type NightRepository struct {
	db *sqlx.DB
}

func NewNightRepository(db *sqlx.DB) *NightRepository {
	return &NightRepository{db: db}
}

func (r *NightRepository) List(ctx context.Context) ([]night.Night, error) {
	query, args, err := qb.Select("*").From("nights").
		Where(qb.IsNull("deleted_at")).
		OrderBy("scheduled_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list nights query: %w", err)
	}

	var rows []nightTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list nights: %w", err)
	}

	out := make([]night.Night, 0, len(rows))
	for _, row := range rows {
		out = append(out, nightToDomain(row))
	}
	return out, nil
}

func (r *NightRepository) GetByID(ctx context.Context, nightID string) (night.Night, bool, error) {
	query, args, err := qb.Select("*").From("nights").
		Where(
			qb.Eq("public_id", nightID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return night.Night{}, false, fmt.Errorf("build get night by id query: %w", err)
	}

	var row nightTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return night.Night{}, false, nil
		}
		return night.Night{}, false, fmt.Errorf("get night by id: %w", err)
	}

	return nightToDomain(row), true, nil
}

func (r *NightRepository) SetAttendance(ctx context.Context, attendance night.Attendance) error {
	insertModel := attendanceInsertModel{
		NightID:  attendance.NightID,
		PlayerID: attendance.PlayerID,
		Present:  attendance.Present,
	}
	query, args, err := qb.InsertModel("night_attendance", insertModel, `ON CONFLICT (night_public_id, player_public_id)
DO UPDATE SET
    present = EXCLUDED.present,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert attendance query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

func (r *NightRepository) ListAttendance(ctx context.Context, nightID string) ([]night.Attendance, error) {
	query, args, err := qb.Select("*").From("night_attendance").
		Where(qb.Eq("night_public_id", nightID)).
		OrderBy("player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list attendance query: %w", err)
	}

	var rows []attendanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	out := make([]night.Attendance, 0, len(rows))
	for _, row := range rows {
		out = append(out, night.Attendance{
			NightID:  row.NightID,
			PlayerID: row.PlayerID,
			Present:  row.Present,
		})
	}
	return out, nil
}

func (r *NightRepository) ListPresentPlayerIDs(ctx context.Context, nightID string) ([]string, error) {
	query, args, err := qb.Select("player_public_id").From("night_attendance").
		Where(
			qb.Eq("night_public_id", nightID),
			qb.Eq("present", true),
		).
		OrderBy("player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list present players query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list present players: %w", err)
	}
	return out, nil
}

func nightToDomain(row nightTableModel) night.Night {
	return night.Night{
		ID:          row.PublicID,
		ScheduledAt: unixToTime(row.ScheduledAt),
		DrawMode:    night.DrawMode(row.DrawMode),
		MaxPlayers:  nullInt64ToIntPtr(row.MaxPlayers),
	}
}
