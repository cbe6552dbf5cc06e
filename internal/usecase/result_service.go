package usecase

import (
	"context"
	"fmt"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/platform/cache"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

// ResultOutput is the state of a match after a report or override.
// A DISPUTED outcome is a normal response, not an error.
type ResultOutput struct {
	Match         match.Detail
	Confirmations []result.Confirmation
}

// ResultService runs the confirmation quorum and the admin-override
// path. The consensus decision itself happens inside the result
// repository's transaction; this layer validates and authorizes.
type ResultService struct {
	matchRepo  match.Repository
	resultRepo result.Repository
	cache      *cache.Store
	logger     *logging.Logger
}

func NewResultService(
	matchRepo match.Repository,
	resultRepo result.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *ResultService {
	return &ResultService{
		matchRepo:  matchRepo,
		resultRepo: resultRepo,
		cache:      cacheStore,
		logger:     logger,
	}
}

// Report records one participant's score claim. Resubmission replaces
// the earlier claim and resets it to PENDING before the quorum re-runs.
func (s *ResultService) Report(ctx context.Context, actor Actor, matchID string, rep result.Report) (ResultOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Report")
	defer span.End()

	out, err := rep.Normalize()
	if err != nil {
		return ResultOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	detail, ok, err := s.matchRepo.GetDetail(ctx, matchID)
	if err != nil {
		return ResultOutput{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return ResultOutput{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !detail.HasParticipant(actor.PlayerID) {
		return ResultOutput{}, fmt.Errorf("%w: player %s is not a participant of match %s", ErrForbidden, actor.PlayerID, matchID)
	}
	if detail.Match.Status == match.StatusCanceled {
		return ResultOutput{}, fmt.Errorf("%w: match %s is canceled", ErrConflict, matchID)
	}

	updated, confirmations, err := s.resultRepo.SubmitReport(ctx, matchID, actor.PlayerID, out)
	if err != nil {
		return ResultOutput{}, fmt.Errorf("submit report: %w", err)
	}

	if updated.Match.Resolved() {
		s.cache.Delete(ctx, leaderboardCacheKey)
	}
	s.logger.InfoContext(ctx, "match result reported",
		"match_id", matchID, "player_id", actor.PlayerID,
		"status", string(updated.Match.Status))
	return ResultOutput{Match: updated, Confirmations: confirmations}, nil
}

// AdminOverride resolves a match with an authoritative score, ignoring
// the confirmation ledger. This is the only way out of a dispute
// without unanimous re-reporting.
func (s *ResultService) AdminOverride(ctx context.Context, actor Actor, matchID string, rep result.Report) (ResultOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.AdminOverride")
	defer span.End()

	if !actor.IsAdmin {
		return ResultOutput{}, fmt.Errorf("%w: only admins may override results", ErrForbidden)
	}

	out, err := rep.Normalize()
	if err != nil {
		return ResultOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, ok, err := s.matchRepo.GetDetail(ctx, matchID); err != nil {
		return ResultOutput{}, fmt.Errorf("get match: %w", err)
	} else if !ok {
		return ResultOutput{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	updated, err := s.resultRepo.ApplyResolution(ctx, matchID, result.Resolution{
		Kind:    result.ResolutionAdminOverride,
		Outcome: out,
	})
	if err != nil {
		return ResultOutput{}, fmt.Errorf("apply resolution: %w", err)
	}

	confirmations, err := s.resultRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return ResultOutput{}, fmt.Errorf("list confirmations: %w", err)
	}

	s.cache.Delete(ctx, leaderboardCacheKey)
	s.logger.InfoContext(ctx, "match result overridden",
		"match_id", matchID, "admin_id", actor.PlayerID,
		"status", string(updated.Match.Status))
	return ResultOutput{Match: updated, Confirmations: confirmations}, nil
}
