package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/platform/cache"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

const leaderboardCacheKey = "leaderboard"

// Standing is one player's aggregate over resolved matches in scope.
type Standing struct {
	PlayerID      string
	Played        int
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
	PointsDiff    int
	WinRate       float64
}

// LeaderboardRow pairs the all-time aggregate with the persistent
// simple-points ranking.
type LeaderboardRow struct {
	Standing
	SimplePoints int
}

// PlayerStats is the full read view for one player.
type PlayerStats struct {
	Player   player.Player
	Standing Standing
	Ranking  *ranking.Ranking
}

// StandingsService serves the read side: night standings, the global
// leaderboard and per-player stats. The leaderboard is cached with
// singleflight so a burst of reads computes it once.
type StandingsService struct {
	nightRepo   night.Repository
	playerRepo  player.Repository
	matchRepo   match.Repository
	rankingRepo ranking.Repository
	cache       *cache.Store
	logger      *logging.Logger
}

func NewStandingsService(
	nightRepo night.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	rankingRepo ranking.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *StandingsService {
	return &StandingsService{
		nightRepo:   nightRepo,
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		rankingRepo: rankingRepo,
		cache:       cacheStore,
		logger:      logger,
	}
}

// NightStandings ranks a night's players over its resolved matches.
// This is also the draw input for rounds 2 and 3.
func (s *StandingsService) NightStandings(ctx context.Context, nightID string) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.NightStandings")
	defer span.End()

	if _, ok, err := s.nightRepo.GetByID(ctx, nightID); err != nil {
		return nil, fmt.Errorf("get night: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: night=%s", ErrNotFound, nightID)
	}

	matches, err := s.matchRepo.ListByNight(ctx, nightID)
	if err != nil {
		return nil, fmt.Errorf("list night matches: %w", err)
	}

	return aggregateStandings(matches), nil
}

// Leaderboard returns the all-time standings joined with simple points.
func (s *StandingsService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Leaderboard")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey, func(ctx context.Context) (any, error) {
		return s.buildLeaderboard(ctx)
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]LeaderboardRow)
	if !ok {
		return nil, fmt.Errorf("unexpected leaderboard cache entry %T", value)
	}
	return rows, nil
}

// PlayerStats returns one player's profile, aggregate and ranking row.
func (s *StandingsService) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.PlayerStats")
	defer span.End()

	p, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerStats{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return PlayerStats{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	matches, err := s.matchRepo.ListResolvedByPlayer(ctx, playerID)
	if err != nil {
		return PlayerStats{}, fmt.Errorf("list player matches: %w", err)
	}

	stats := PlayerStats{Player: p, Standing: Standing{PlayerID: playerID}}
	for _, row := range aggregateStandings(matches) {
		if row.PlayerID == playerID {
			stats.Standing = row
			break
		}
	}

	if r, ok, err := s.rankingRepo.GetBySubject(ctx, ranking.SubjectPlayer, playerID); err != nil {
		return PlayerStats{}, fmt.Errorf("get ranking: %w", err)
	} else if ok {
		stats.Ranking = &r
	}

	return stats, nil
}

func (s *StandingsService) buildLeaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	matches, err := s.matchRepo.ListResolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resolved matches: %w", err)
	}

	rankings, err := s.rankingRepo.List(ctx, ranking.SubjectPlayer)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	points := make(map[string]int, len(rankings))
	for _, r := range rankings {
		points[r.SubjectID] = r.SimplePoints
	}

	standings := aggregateStandings(matches)
	rows := make([]LeaderboardRow, 0, len(standings))
	for _, row := range standings {
		rows = append(rows, LeaderboardRow{Standing: row, SimplePoints: points[row.PlayerID]})
	}
	return rows, nil
}

// aggregateStandings accumulates wins, losses and point differentials
// per player over the resolved matches in the input. Ordering is wins
// descending, then point differential descending, then player id, so
// ranked draws get a deterministic input even on full ties.
func aggregateStandings(matches []match.Detail) []Standing {
	byPlayer := make(map[string]*Standing)
	for _, d := range matches {
		if !d.Match.Resolved() {
			continue
		}
		for _, t := range d.Teams {
			for _, p := range t.Players {
				if p.PointsFor == nil || p.PointsAgainst == nil || p.Won == nil {
					continue
				}
				row, ok := byPlayer[p.PlayerID]
				if !ok {
					row = &Standing{PlayerID: p.PlayerID}
					byPlayer[p.PlayerID] = row
				}
				row.Played++
				if *p.Won {
					row.Wins++
				} else {
					row.Losses++
				}
				row.PointsFor += *p.PointsFor
				row.PointsAgainst += *p.PointsAgainst
			}
		}
	}

	out := make([]Standing, 0, len(byPlayer))
	for _, row := range byPlayer {
		row.PointsDiff = row.PointsFor - row.PointsAgainst
		if row.Played > 0 {
			row.WinRate = float64(row.Wins) / float64(row.Played)
		}
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].PointsDiff != out[j].PointsDiff {
			return out[i].PointsDiff > out[j].PointsDiff
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
