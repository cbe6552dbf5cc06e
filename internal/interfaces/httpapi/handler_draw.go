package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type drawRound1Request struct {
	Mode string `json:"mode" validate:"required,oneof=random balanced diverse"`
}

func (h *Handler) DrawRound1(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawRound1")
	defer span.End()

	if _, ok := actorFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	nightID := strings.TrimSpace(r.PathValue("nightID"))

	var req drawRound1Request
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

	out, err := h.drawService.DrawRound1(ctx, nightID, req.Mode)
	if err != nil {
		h.logger.WarnContext(ctx, "draw round 1 failed", "night_id", nightID, "mode", req.Mode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, drawOutputToDTO(ctx, out))
}

func (h *Handler) DrawRound2(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawRound2")
	defer span.End()

	h.drawRankedRound(ctx, w, r, 2, h.drawService.DrawRound2)
}

func (h *Handler) DrawRound3(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawRound3")
	defer span.End()

	h.drawRankedRound(ctx, w, r, 3, h.drawService.DrawRound3)
}

type drawTeamRoundRequest struct {
	TeamIDs []string `json:"team_ids" validate:"required,min=2,dive,required"`
}

func (h *Handler) DrawTeamRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawTeamRound")
	defer span.End()

	if _, ok := actorFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	nightID := strings.TrimSpace(r.PathValue("nightID"))

	var req drawTeamRoundRequest
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

	out, err := h.drawService.DrawTeamRound(ctx, nightID, req.TeamIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "draw team round failed", "night_id", nightID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, drawOutputToDTO(ctx, out))
}

func (h *Handler) ResetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetRound")
	defer span.End()

	actor, ok := actorFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	nightID := strings.TrimSpace(r.PathValue("nightID"))
	number, err := strconv.Atoi(strings.TrimSpace(r.PathValue("number")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: round number must be an integer", usecase.ErrInvalidInput))
		return
	}

	if err := h.drawService.ResetRound(ctx, actor, nightID, number); err != nil {
		h.logger.WarnContext(ctx, "reset round failed", "night_id", nightID, "round_number", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"night_id": nightID, "round_number": number, "reset": true})
}

func (h *Handler) drawRankedRound(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	number int,
	drawFn func(ctx context.Context, nightID string) (usecase.DrawOutput, error),
) {
	if _, ok := actorFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	nightID := strings.TrimSpace(r.PathValue("nightID"))
	out, err := drawFn(ctx, nightID)
	if err != nil {
		h.logger.WarnContext(ctx, "draw ranked round failed", "night_id", nightID, "round_number", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, drawOutputToDTO(ctx, out))
}
