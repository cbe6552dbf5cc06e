package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

func seedRand(seed int64) func() *rand.Rand {
	return func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
}

func drawnPlayers(t *testing.T, env *testEnv, out DrawOutput) map[string]int {
	t.Helper()

	seen := make(map[string]int)
	for _, dm := range out.Matches {
		detail, ok, err := env.matches.GetDetail(context.Background(), dm.MatchID)
		if err != nil || !ok {
			t.Fatalf("get drawn match %s: ok=%v err=%v", dm.MatchID, ok, err)
		}
		for _, id := range detail.ParticipantIDs() {
			seen[id]++
		}
	}
	return seen
}

func TestDrawService_DrawRound1_Random(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.draws.newRand = seedRand(1)
	present := env.seedIndividualNight(t, "n1", 8)

	out, err := env.draws.DrawRound1(context.Background(), "n1", DrawModeRandom)
	if err != nil {
		t.Fatalf("draw round 1: %v", err)
	}

	if out.RoundNumber != 1 || len(out.Matches) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
	for i, dm := range out.Matches {
		if dm.Lane != i+1 {
			t.Fatalf("lanes must be contiguous from 1: %+v", out.Matches)
		}
	}

	seen := drawnPlayers(t, env, out)
	for _, id := range present {
		if seen[id] != 1 {
			t.Fatalf("player %s drawn %d times", id, seen[id])
		}
	}
}

func TestDrawService_DrawRound1_BalancedAndDiverse(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{DrawModeBalanced, DrawModeDiverse} {
		env := newTestEnv(t)
		env.draws.newRand = seedRand(2)
		present := env.seedIndividualNight(t, "n1", 8)

		out, err := env.draws.DrawRound1(context.Background(), "n1", mode)
		if err != nil {
			t.Fatalf("draw round 1 (%s): %v", mode, err)
		}
		seen := drawnPlayers(t, env, out)
		for _, id := range present {
			if seen[id] != 1 {
				t.Fatalf("mode %s drew player %s %d times", mode, id, seen[id])
			}
		}
	}
}

func TestDrawService_DrawRound1_RejectsBadAttendeeCounts(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 3, 6} {
		env := newTestEnv(t)
		env.seedIndividualNight(t, "n1", n)

		_, err := env.draws.DrawRound1(context.Background(), "n1", DrawModeRandom)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("n=%d: expected invalid input, got %v", n, err)
		}
	}
}

func TestDrawService_DrawRound1_UnknownMode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedIndividualNight(t, "n1", 4)

	if _, err := env.draws.DrawRound1(context.Background(), "n1", "swiss"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDrawService_DrawRound1_SecondDrawConflicts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.draws.newRand = seedRand(3)
	env.seedIndividualNight(t, "n1", 4)

	if _, err := env.draws.DrawRound1(context.Background(), "n1", DrawModeRandom); err != nil {
		t.Fatalf("first draw: %v", err)
	}
	if _, err := env.draws.DrawRound1(context.Background(), "n1", DrawModeRandom); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type failingMatchRepo struct {
	match.Repository
}

func (f *failingMatchRepo) ListResolved(context.Context) ([]match.Detail, error) {
	return nil, fmt.Errorf("storage briefly offline")
}

func TestDrawService_DrawRound1_BalancedFallsBackToRandom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.draws.newRand = seedRand(4)
	// Win-rate history lookups failing must not abort the draw.
	env.draws.matchRepo = &failingMatchRepo{Repository: env.matches}
	present := env.seedIndividualNight(t, "n1", 8)

	out, err := env.draws.DrawRound1(context.Background(), "n1", DrawModeBalanced)
	if err != nil {
		t.Fatalf("draw round 1 with fallback: %v", err)
	}
	seen := drawnPlayers(t, env, out)
	for _, id := range present {
		if seen[id] != 1 {
			t.Fatalf("player %s drawn %d times", id, seen[id])
		}
	}
}

func TestDrawService_DrawRound2_AvoidsRoundOneTeammates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.draws.newRand = seedRand(5)
	ids := env.seedIndividualNight(t, "n1", 4)

	detail := env.seedMatch(t, "n1", 1, [2]string{ids[0], ids[1]}, [2]string{ids[2], ids[3]})
	env.reportAll(t, detail.Match.ID, ids, 13, 7)

	out, err := env.draws.DrawRound2(context.Background(), "n1")
	if err != nil {
		t.Fatalf("draw round 2: %v", err)
	}
	if out.RoundNumber != 2 || len(out.Matches) != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}

	second, ok, err := env.matches.GetDetail(context.Background(), out.Matches[0].MatchID)
	if err != nil || !ok {
		t.Fatalf("get round-2 match: ok=%v err=%v", ok, err)
	}
	for _, team := range second.Teams {
		a, b := team.Players[0].PlayerID, team.Players[1].PlayerID
		if (a == ids[0] && b == ids[1]) || (a == ids[1] && b == ids[0]) ||
			(a == ids[2] && b == ids[3]) || (a == ids[3] && b == ids[2]) {
			t.Fatalf("round 2 repeated a round-1 pair: %s+%s", a, b)
		}
	}
}

func TestDrawService_DrawRound2_RequiresResolvedMatches(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ids := env.seedIndividualNight(t, "n1", 4)
	env.seedMatch(t, "n1", 1, [2]string{ids[0], ids[1]}, [2]string{ids[2], ids[3]})

	if _, err := env.draws.DrawRound2(context.Background(), "n1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDrawService_DrawRound3_RequiresRoundTwo(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ids := env.seedIndividualNight(t, "n1", 4)
	detail := env.seedMatch(t, "n1", 1, [2]string{ids[0], ids[1]}, [2]string{ids[2], ids[3]})
	env.reportAll(t, detail.Match.ID, ids, 13, 7)

	if _, err := env.draws.DrawRound3(context.Background(), "n1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing round 2, got %v", err)
	}
}

func TestDrawService_DrawTeamRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.draws.newRand = seedRand(6)
	env.store.Seed()

	teamIDs := []string{"t-boule-dor", "t-carreau", "t-cochonnet", "t-demi-portee"}
	out, err := env.draws.DrawTeamRound(context.Background(), "night-team-cup", teamIDs)
	if err != nil {
		t.Fatalf("draw team round: %v", err)
	}
	if out.RoundNumber != 1 || len(out.Matches) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}

	for _, dm := range out.Matches {
		detail, ok, err := env.matches.GetDetail(context.Background(), dm.MatchID)
		if err != nil || !ok {
			t.Fatalf("get team match: ok=%v err=%v", ok, err)
		}
		for _, team := range detail.Teams {
			if team.Team.TeamID == nil {
				t.Fatalf("team match side missing team link: %+v", team.Team)
			}
			if len(team.Players) != 2 {
				t.Fatalf("expected roster of 2 copied onto side, got %d", len(team.Players))
			}
		}
	}
}

func TestDrawService_DrawTeamRound_RejectsOddSelection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.store.Seed()

	_, err := env.draws.DrawTeamRound(context.Background(), "night-team-cup",
		[]string{"t-boule-dor", "t-carreau", "t-cochonnet"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDrawService_ResetRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ids := env.seedIndividualNight(t, "n1", 4)
	detail := env.seedMatch(t, "n1", 1, [2]string{ids[0], ids[1]}, [2]string{ids[2], ids[3]})

	admin := Actor{PlayerID: "p-admin", IsAdmin: true}

	if err := env.draws.ResetRound(context.Background(), Actor{PlayerID: ids[0]}, "n1", 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}
	if err := env.draws.ResetRound(context.Background(), admin, "n1", 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing round, got %v", err)
	}

	if err := env.draws.ResetRound(context.Background(), admin, "n1", 1); err != nil {
		t.Fatalf("reset round: %v", err)
	}
	if _, ok, _ := env.matches.GetDetail(context.Background(), detail.Match.ID); ok {
		t.Fatal("match data must be deleted with the round")
	}
	if _, ok, _ := env.rounds.GetByNightAndNumber(context.Background(), "n1", 1); ok {
		t.Fatal("round must be deleted")
	}
}

func TestDrawService_ResetRound_OnlyLatestRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ids := env.seedIndividualNight(t, "n1", 4)
	env.seedMatch(t, "n1", 1, [2]string{ids[0], ids[1]}, [2]string{ids[2], ids[3]})
	env.seedMatch(t, "n1", 2, [2]string{ids[0], ids[2]}, [2]string{ids[1], ids[3]})

	admin := Actor{PlayerID: "p-admin", IsAdmin: true}
	if err := env.draws.ResetRound(context.Background(), admin, "n1", 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict resetting round 1 under round 2, got %v", err)
	}
	if err := env.draws.ResetRound(context.Background(), admin, "n1", 2); err != nil {
		t.Fatalf("reset latest round: %v", err)
	}
}
