package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/platform/id"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

const (
	defaultRebuildWorkers = 4
	maxRebuildWorkers     = 16
)

// RebuildResult summarizes one full ranking recompute.
type RebuildResult struct {
	MatchCount  int   `json:"match_count"`
	PlayerCount int   `json:"player_count"`
	TeamCount   int   `json:"team_count"`
	WorkerCount int   `json:"worker_count"`
	DurationMs  int64 `json:"duration_ms"`
}

// RankingService owns the rebuild maintenance job: recompute every
// ranking row from resolved matches, replacing whatever incremental
// state accumulated. Admin resets leave rankings stale; this repairs
// them.
type RankingService struct {
	matchRepo   match.Repository
	rankingRepo ranking.Repository
	idGen       id.Generator
	logger      *logging.Logger
}

func NewRankingService(
	matchRepo match.Repository,
	rankingRepo ranking.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *RankingService {
	return &RankingService{
		matchRepo:   matchRepo,
		rankingRepo: rankingRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// Rebuild recomputes player and team rankings from all resolved
// matches, fanning per-subject recomputes over a bounded worker pool.
func (s *RankingService) Rebuild(ctx context.Context, maxWorkers int) (RebuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Rebuild")
	defer span.End()

	start := time.Now()

	resolved, err := s.matchRepo.ListResolved(ctx)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("list resolved matches: %w", err)
	}

	playerOutcomes := make(map[string][]bool)
	teamOutcomes := make(map[string][]bool)
	for _, d := range resolved {
		for _, t := range d.Teams {
			teamWon := false
			counted := false
			for _, p := range t.Players {
				if p.Won == nil {
					continue
				}
				playerOutcomes[p.PlayerID] = append(playerOutcomes[p.PlayerID], *p.Won)
				teamWon = *p.Won
				counted = true
			}
			if t.Team.TeamID != nil && counted {
				teamOutcomes[*t.Team.TeamID] = append(teamOutcomes[*t.Team.TeamID], teamWon)
			}
		}
	}

	workerCount := normalizeRebuildWorkerCount(maxWorkers, len(playerOutcomes)+len(teamOutcomes))
	result := RebuildResult{
		MatchCount:  len(resolved),
		PlayerCount: len(playerOutcomes),
		TeamCount:   len(teamOutcomes),
		WorkerCount: workerCount,
	}
	if len(playerOutcomes) == 0 && len(teamOutcomes) == 0 {
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu          sync.Mutex
		firstErr    error
		playerRows  []ranking.Ranking
		teamRows    []ranking.Ranking
		workers     sync.WaitGroup
		recordError = func(err error) {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	)

	submit := func(kind ranking.SubjectKind, subjectID string, outcomes []bool) {
		workers.Add(1)
		task := func() {
			defer workers.Done()

			row, err := s.recomputeSubject(kind, subjectID, outcomes)
			if err != nil {
				recordError(err)
				return
			}
			mu.Lock()
			if kind == ranking.SubjectPlayer {
				playerRows = append(playerRows, row)
			} else {
				teamRows = append(teamRows, row)
			}
			mu.Unlock()
		}
		if err := pool.Submit(task); err != nil {
			workers.Done()
			recordError(fmt.Errorf("submit rebuild task: %w", err))
		}
	}

	for subjectID, outcomes := range playerOutcomes {
		submit(ranking.SubjectPlayer, subjectID, outcomes)
	}
	for subjectID, outcomes := range teamOutcomes {
		submit(ranking.SubjectTeam, subjectID, outcomes)
	}
	workers.Wait()

	if firstErr != nil {
		return RebuildResult{}, firstErr
	}

	sort.Slice(playerRows, func(i, j int) bool { return playerRows[i].SubjectID < playerRows[j].SubjectID })
	sort.Slice(teamRows, func(i, j int) bool { return teamRows[i].SubjectID < teamRows[j].SubjectID })

	if err := s.rankingRepo.ReplaceAll(ctx, ranking.SubjectPlayer, playerRows); err != nil {
		return RebuildResult{}, fmt.Errorf("replace player rankings: %w", err)
	}
	if err := s.rankingRepo.ReplaceAll(ctx, ranking.SubjectTeam, teamRows); err != nil {
		return RebuildResult{}, fmt.Errorf("replace team rankings: %w", err)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "rankings rebuilt",
		"match_count", result.MatchCount, "player_count", result.PlayerCount,
		"team_count", result.TeamCount, "worker_count", result.WorkerCount,
		"duration_ms", result.DurationMs)
	return result, nil
}

func (s *RankingService) recomputeSubject(kind ranking.SubjectKind, subjectID string, outcomes []bool) (ranking.Ranking, error) {
	rowID, err := s.idGen.NewID()
	if err != nil {
		return ranking.Ranking{}, fmt.Errorf("generate ranking id: %w", err)
	}

	row := ranking.Ranking{ID: rowID, SubjectKind: kind, SubjectID: subjectID}
	for _, won := range outcomes {
		row = row.Applied(won)
	}
	return row, nil
}

func normalizeRebuildWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultRebuildWorkers
	}
	if count > maxRebuildWorkers {
		count = maxRebuildWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
