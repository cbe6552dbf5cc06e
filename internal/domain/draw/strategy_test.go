package draw

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%02d", i+1)
	}
	return ids
}

func entrants(n int) []Entrant {
	out := make([]Entrant, n)
	for i, id := range playerIDs(n) {
		out[i] = Entrant{PlayerID: id, Wins: i % 3, Played: 3, PointsDiff: i}
	}
	return out
}

func assertCoversPool(t *testing.T, pairings []Pairing, pool []string) {
	t.Helper()

	if len(pairings) != len(pool)/GroupSize {
		t.Fatalf("expected %d pairings, got %d", len(pool)/GroupSize, len(pairings))
	}

	seen := make(map[string]int)
	for _, p := range pairings {
		for _, id := range []string{p.HomeA, p.HomeB, p.AwayA, p.AwayB} {
			seen[id]++
		}
	}
	for _, id := range pool {
		if seen[id] != 1 {
			t.Fatalf("player %s drawn %d times", id, seen[id])
		}
	}
}

func TestRandomCoversPoolExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, n := range []int{4, 8, 16, 24} {
		pool := playerIDs(n)
		pairings, err := Random(rand.New(rand.NewSource(int64(n))), pool)
		if err != nil {
			t.Fatalf("random draw for %d players: %v", n, err)
		}
		assertCoversPool(t, pairings, pool)
	}
}

func TestRandomRejectsBadPoolSizes(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 3, 5, 10} {
		if _, err := Random(rand.New(rand.NewSource(1)), playerIDs(n)); !errors.Is(err, ErrPoolNotDivisible) {
			t.Fatalf("expected pool error for %d players, got %v", n, err)
		}
	}
}

func TestBalancedCoversPoolExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, n := range []int{4, 8, 12, 20} {
		pool := entrants(n)
		pairings, err := Balanced(pool, NewHistory())
		if err != nil {
			t.Fatalf("balanced draw for %d players: %v", n, err)
		}
		assertCoversPool(t, pairings, playerIDs(n))
	}
}

func TestBalancedPairsStrongWithWeak(t *testing.T) {
	t.Parallel()

	pool := []Entrant{
		{PlayerID: "ace", Wins: 3, Played: 3},
		{PlayerID: "mid1", Wins: 2, Played: 3},
		{PlayerID: "mid2", Wins: 1, Played: 3},
		{PlayerID: "novice", Wins: 0, Played: 3},
	}

	pairings, err := Balanced(pool, NewHistory())
	if err != nil {
		t.Fatalf("balanced draw: %v", err)
	}
	if len(pairings) != 1 {
		t.Fatalf("expected 1 pairing, got %d", len(pairings))
	}

	p := pairings[0]
	if p.HomeA != "ace" || p.HomeB != "novice" {
		t.Fatalf("expected ace+novice home team, got %s+%s", p.HomeA, p.HomeB)
	}
	if p.AwayA != "mid1" || p.AwayB != "mid2" {
		t.Fatalf("expected mid1+mid2 away team, got %s+%s", p.AwayA, p.AwayB)
	}
}

func TestBalancedBreaksUpRepeatPair(t *testing.T) {
	t.Parallel()

	pool := []Entrant{
		{PlayerID: "ace", Wins: 3, Played: 3},
		{PlayerID: "mid1", Wins: 2, Played: 3},
		{PlayerID: "mid2", Wins: 1, Played: 3},
		{PlayerID: "novice", Wins: 0, Played: 3},
	}
	hist := NewHistory()
	hist.Add("ace", "novice")

	pairings, err := Balanced(pool, hist)
	if err != nil {
		t.Fatalf("balanced draw: %v", err)
	}

	p := pairings[0]
	if p.HomeA == "ace" && p.HomeB == "novice" {
		t.Fatalf("repeat pair ace+novice was not broken up: %+v", p)
	}
	if p.HomeA != "ace" || p.HomeB != "mid2" || p.AwayA != "mid1" || p.AwayB != "novice" {
		t.Fatalf("unexpected swapped pairing: %+v", p)
	}
}

func TestDiverseCoversPoolExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, n := range []int{4, 8, 16} {
		pool := entrants(n)
		pairings, err := Diverse(rand.New(rand.NewSource(int64(n))), pool, NewHistory())
		if err != nil {
			t.Fatalf("diverse draw for %d players: %v", n, err)
		}
		assertCoversPool(t, pairings, playerIDs(n))
	}
}

func TestSampleQuadruplePrefersLowOverlap(t *testing.T) {
	t.Parallel()

	// p1..p4 have all been teammates; p5 is fresh. Any quadruple
	// containing p5 scores 3 against the all-historic quadruple's 6,
	// so the bounded search must pick one that includes p5.
	pool := entrants(5)
	hist := NewHistory()
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			hist.Add(fmt.Sprintf("p%02d", i+1), fmt.Sprintf("p%02d", j+1))
		}
	}

	best := sampleQuadruple(rand.New(rand.NewSource(7)), pool, hist)
	found := false
	for _, e := range best {
		if e.PlayerID == "p05" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the fresh player in the chosen quadruple, got %+v", best)
	}
}

func TestRankedProducesByesForRemainder(t *testing.T) {
	t.Parallel()

	ranked := playerIDs(11)
	pairings, byes, err := Ranked(ranked, NewHistory())
	if err != nil {
		t.Fatalf("ranked draw: %v", err)
	}

	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(pairings))
	}
	if len(byes) != 3 {
		t.Fatalf("expected 3 byes, got %d", len(byes))
	}
	for i, id := range []string{"p09", "p10", "p11"} {
		if byes[i] != id {
			t.Fatalf("unexpected bye order: %v", byes)
		}
	}
}

func TestRankedRejectsSmallPool(t *testing.T) {
	t.Parallel()

	if _, _, err := Ranked(playerIDs(3), NewHistory()); !errors.Is(err, ErrPoolTooSmall) {
		t.Fatalf("expected pool error, got %v", err)
	}
}

func TestPairTeams(t *testing.T) {
	t.Parallel()

	pairs, err := PairTeams(rand.New(rand.NewSource(1)), []string{"t1", "t2", "t3", "t4"})
	if err != nil {
		t.Fatalf("pair teams: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}

	seen := make(map[string]int)
	for _, pair := range pairs {
		seen[pair[0]]++
		seen[pair[1]]++
	}
	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		if seen[id] != 1 {
			t.Fatalf("team %s paired %d times", id, seen[id])
		}
	}

	if _, err := PairTeams(rand.New(rand.NewSource(1)), []string{"t1", "t2", "t3"}); !errors.Is(err, ErrTeamCount) {
		t.Fatalf("expected team count error, got %v", err)
	}
	if _, err := PairTeams(rand.New(rand.NewSource(1)), []string{"t1"}); !errors.Is(err, ErrTeamCount) {
		t.Fatalf("expected team count error, got %v", err)
	}
}

func TestEntrantWinRateDefaultsToHalf(t *testing.T) {
	t.Parallel()

	if rate := (Entrant{PlayerID: "p1"}).WinRate(); rate != 0.5 {
		t.Fatalf("expected 0.5 default win rate, got %v", rate)
	}
	if rate := (Entrant{PlayerID: "p1", Wins: 2, Played: 4}).WinRate(); rate != 0.5 {
		t.Fatalf("expected 0.5 win rate, got %v", rate)
	}
}
