package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type reportResultRequest struct {
	HomeScore      *int    `json:"home_score"`
	AwayScore      *int    `json:"away_score"`
	WalkoverWinner *string `json:"walkover_winner" validate:"omitempty,oneof=HOME AWAY"`
	AdminOverride  bool    `json:"admin_override"`
}

// ReportResult submits one participant's score report, or an admin's
// authoritative override when admin_override is set. A DISPUTED
// outcome is returned as a 200 with the confirmation list attached.
func (h *Handler) ReportResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportResult")
	defer span.End()

	actor, ok := actorFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req reportResultRequest
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

	rep := result.Report{
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	}
	if req.WalkoverWinner != nil {
		side := match.Side(*req.WalkoverWinner)
		rep.WalkoverWinner = &side
	}

	var (
		out usecase.ResultOutput
		err error
	)
	if req.AdminOverride {
		out, err = h.resultService.AdminOverride(ctx, actor, matchID, rep)
	} else {
		out, err = h.resultService.Report(ctx, actor, matchID, rep)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "report result failed",
			"match_id", matchID,
			"player_id", actor.PlayerID,
			"admin_override", req.AdminOverride,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultOutputToDTO(ctx, out))
}
