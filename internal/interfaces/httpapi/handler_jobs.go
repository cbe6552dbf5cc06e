package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type rebuildRankingsRequest struct {
	MaxWorkers int `json:"max_workers" validate:"omitempty,min=1,max=64"`
}

// RunRebuildRankingsJob recomputes every ranking row from resolved
// matches. The body is optional; an empty body uses the default worker
// count.
func (h *Handler) RunRebuildRankingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRebuildRankingsJob")
	defer span.End()

	req, err := decodeRebuildRankingsRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rebuilt, err := h.rankingService.Rebuild(ctx, req.MaxWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "rebuild rankings job failed", "max_workers", req.MaxWorkers, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "rebuild rankings job completed",
		"match_count", rebuilt.MatchCount,
		"player_count", rebuilt.PlayerCount,
		"team_count", rebuilt.TeamCount,
		"worker_count", rebuilt.WorkerCount,
		"duration_ms", rebuilt.DurationMs,
	)

	writeSuccess(ctx, w, http.StatusOK, rebuilt)
}

func decodeRebuildRankingsRequest(r *http.Request) (rebuildRankingsRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req rebuildRankingsRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return rebuildRankingsRequest{}, nil
		}
		return rebuildRankingsRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
