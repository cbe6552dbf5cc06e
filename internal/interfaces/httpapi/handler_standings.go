package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListNightStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNightStandings")
	defer span.End()

	nightID := strings.TrimSpace(r.PathValue("nightID"))
	standings, err := h.standingsService.NightStandings(ctx, nightID)
	if err != nil {
		h.logger.WarnContext(ctx, "list night standings failed", "night_id", nightID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboard")
	defer span.End()

	rows, err := h.standingsService.Leaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowDTO{
			standingDTO:  standingToDTO(row.Standing),
			SimplePoints: row.SimplePoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	stats, err := h.standingsService.PlayerStats(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := playerStatsDTO{
		Player:   playerToDTO(stats.Player),
		Standing: standingToDTO(stats.Standing),
	}
	if stats.Ranking != nil {
		r := rankingToDTO(*stats.Ranking)
		dto.Ranking = &r
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}
