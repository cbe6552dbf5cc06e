package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/boulodrome/petanque-nights/internal/usecase"
)

func (h *Handler) ListNights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNights")
	defer span.End()

	nights, err := h.nightService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list nights failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]nightDTO, 0, len(nights))
	for _, n := range nights {
		items = append(items, nightToDTO(ctx, n))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetNightDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNightDetail")
	defer span.End()

	nightID := strings.TrimSpace(r.PathValue("nightID"))
	detail, err := h.nightService.Detail(ctx, nightID)
	if err != nil {
		h.logger.WarnContext(ctx, "get night detail failed", "night_id", nightID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nightDetailToDTO(ctx, detail))
}

type setAttendanceRequest struct {
	PlayerID string `json:"player_id"`
	Present  *bool  `json:"present" validate:"required"`
}

func (h *Handler) SetAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAttendance")
	defer span.End()

	actor, ok := actorFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	nightID := strings.TrimSpace(r.PathValue("nightID"))

	var req setAttendanceRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		playerID = actor.PlayerID
	}

	if err := h.attendanceService.Set(ctx, actor, nightID, playerID, *req.Present); err != nil {
		h.logger.WarnContext(ctx, "set attendance failed", "night_id", nightID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, attendanceDTO{PlayerID: playerID, Present: *req.Present})
}
