package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	"github.com/boulodrome/petanque-nights/internal/infrastructure/repository/memory"
	"github.com/boulodrome/petanque-nights/internal/platform/cache"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type testEnv struct {
	store      *memory.Store
	idGen      *seqIDGen
	nights     *memory.NightRepository
	players    *memory.PlayerRepository
	rounds     *memory.RoundRepository
	matches    *memory.MatchRepository
	results    *memory.ResultRepository
	rankings   *memory.RankingRepository
	teams      *memory.TeamRepository
	draws      *DrawService
	resultSvc  *ResultService
	standings  *StandingsService
	attendance *AttendanceService
	rankingSvc *RankingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	idGen := &seqIDGen{}
	store := memory.NewStore(idGen)

	// Advance the clock per confirmation so chronological ordering in
	// the quorum is deterministic.
	tick := 0
	var mu sync.Mutex
	store.SetNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return time.Date(2026, 9, 4, 20, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Second)
	})

	env := &testEnv{
		store:    store,
		idGen:    idGen,
		nights:   memory.NewNightRepository(store),
		players:  memory.NewPlayerRepository(store),
		rounds:   memory.NewRoundRepository(store),
		matches:  memory.NewMatchRepository(store),
		results:  memory.NewResultRepository(store),
		rankings: memory.NewRankingRepository(store),
		teams:    memory.NewTeamRepository(store),
	}

	logger := logging.NewNop()
	cacheStore := cache.NewStore(time.Minute)
	env.draws = NewDrawService(env.nights, env.rounds, env.matches, env.teams, idGen, logger)
	env.resultSvc = NewResultService(env.matches, env.results, cacheStore, logger)
	env.standings = NewStandingsService(env.nights, env.players, env.matches, env.rankings, cacheStore, logger)
	env.attendance = NewAttendanceService(env.nights, env.players, env.rounds, logger)
	env.rankingSvc = NewRankingService(env.matches, env.rankings, idGen, logger)
	return env
}

// seedIndividualNight creates a night with n present players p01..pNN.
func (env *testEnv) seedIndividualNight(t *testing.T, nightID string, n int) []string {
	t.Helper()

	env.store.AddNights([]night.Night{{
		ID:          nightID,
		ScheduledAt: time.Date(2026, 9, 4, 19, 30, 0, 0, time.UTC),
		DrawMode:    night.DrawModeIndividual,
	}})

	ids := make([]string, 0, n)
	players := make([]player.Player, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%02d", i)
		ids = append(ids, id)
		players = append(players, player.Player{ID: id, DisplayName: "Player " + id})
	}
	env.store.AddPlayers(players)

	for _, id := range ids {
		att := night.Attendance{NightID: nightID, PlayerID: id, Present: true}
		if err := env.nights.SetAttendance(context.Background(), att); err != nil {
			t.Fatalf("seed attendance: %v", err)
		}
	}
	return ids
}

// seedMatch materializes one scheduled doubles match as round `number`.
func (env *testEnv) seedMatch(t *testing.T, nightID string, number int, home, away [2]string) match.Detail {
	t.Helper()

	newID := func() string {
		id, err := env.idGen.NewID()
		if err != nil {
			t.Fatalf("generate id: %v", err)
		}
		return id
	}

	roundID := newID()
	matchID := newID()
	homeTeamID := newID()
	awayTeamID := newID()
	detail := match.Detail{
		Match: match.Match{ID: matchID, RoundID: roundID, NightID: nightID, Lane: 1, Status: match.StatusScheduled},
		Teams: []match.TeamDetail{
			{
				Team: match.Team{ID: homeTeamID, MatchID: matchID, Side: match.SideHome},
				Players: []match.Player{
					{ID: newID(), MatchTeamID: homeTeamID, PlayerID: home[0]},
					{ID: newID(), MatchTeamID: homeTeamID, PlayerID: home[1]},
				},
			},
			{
				Team: match.Team{ID: awayTeamID, MatchID: matchID, Side: match.SideAway},
				Players: []match.Player{
					{ID: newID(), MatchTeamID: awayTeamID, PlayerID: away[0]},
					{ID: newID(), MatchTeamID: awayTeamID, PlayerID: away[1]},
				},
			},
		},
	}

	rnd := round.Round{ID: roundID, NightID: nightID, Number: number}
	if err := env.rounds.CreateWithMatches(context.Background(), rnd, []match.Detail{detail}, nil); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return detail
}

func confirmedOutcome(home, away int) result.Resolution {
	return result.Resolution{
		Kind:    result.ResolutionAdminOverride,
		Outcome: result.Outcome{HomeScore: home, AwayScore: away},
	}
}

// reportAll submits the same score for every listed player.
func (env *testEnv) reportAll(t *testing.T, matchID string, playerIDs []string, home, away int) ResultOutput {
	t.Helper()

	var out ResultOutput
	for _, playerID := range playerIDs {
		var err error
		out, err = env.resultSvc.Report(context.Background(), Actor{PlayerID: playerID}, matchID, result.Report{
			HomeScore: &home,
			AwayScore: &away,
		})
		if err != nil {
			t.Fatalf("report for %s: %v", playerID, err)
		}
	}
	return out
}
