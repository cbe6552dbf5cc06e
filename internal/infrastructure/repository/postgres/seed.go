package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/boulodrome/petanque-nights/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the shared fixture club into an empty database.
// A database with any live player is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (public_id, display_name, is_admin)
VALUES (:public_id, :display_name, :is_admin)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":    p.ID,
			"display_name": p.DisplayName,
			"is_admin":     p.IsAdmin,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, n := range memory.SeedNights() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO nights (public_id, scheduled_at, draw_mode, max_players)
VALUES (:public_id, :scheduled_at, :draw_mode, :max_players)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":    n.ID,
			"scheduled_at": timeToUnix(n.ScheduledAt),
			"draw_mode":    string(n.DrawMode),
			"max_players":  intPtrToNullInt64(n.MaxPlayers),
		})
		if err != nil {
			return fmt.Errorf("bind seed night %s query: %w", n.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed night %s: %w", n.ID, err)
		}
	}

	for _, a := range memory.SeedAttendance() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO night_attendance (night_public_id, player_public_id, present)
VALUES (:night_public_id, :player_public_id, :present)
ON CONFLICT (night_public_id, player_public_id) DO NOTHING`, map[string]any{
			"night_public_id":  a.NightID,
			"player_public_id": a.PlayerID,
			"present":          a.Present,
		})
		if err != nil {
			return fmt.Errorf("bind seed attendance %s/%s query: %w", a.NightID, a.PlayerID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed attendance %s/%s: %w", a.NightID, a.PlayerID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name)
VALUES (:public_id, :name)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": t.ID,
			"name":      t.Name,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}

		for position, playerID := range t.PlayerIDs {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO team_players (team_public_id, player_public_id, position)
VALUES (:team_public_id, :player_public_id, :position)
ON CONFLICT (team_public_id, player_public_id) DO NOTHING`, map[string]any{
				"team_public_id":   t.ID,
				"player_public_id": playerID,
				"position":         position,
			})
			if err != nil {
				return fmt.Errorf("bind seed team player %s/%s query: %w", t.ID, playerID, err)
			}
			sqlQuery = tx.Rebind(sqlQuery)
			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("seed team player %s/%s: %w", t.ID, playerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
