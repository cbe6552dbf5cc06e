package draw

import (
	"errors"
	"math/rand"
	"sort"
)

// diverseAttemptBudget bounds the random quadruple search per group in
// the Diverse strategy. The first zero-overlap candidate wins; otherwise
// the lowest-overlap candidate seen within the budget does.
const diverseAttemptBudget = 50

var (
	ErrPoolNotDivisible = errors.New("player count must be a positive multiple of four")
	ErrPoolTooSmall     = errors.New("at least four players are required")
	ErrTeamCount        = errors.New("an even count of at least two teams is required")
)

// Entrant is one draw candidate with the match history that feeds the
// skill-aware strategies.
type Entrant struct {
	PlayerID   string
	Wins       int
	Played     int
	PointsDiff int
}

// WinRate defaults to 50% for players without history.
func (e Entrant) WinRate() float64 {
	if e.Played == 0 {
		return 0.5
	}
	return float64(e.Wins) / float64(e.Played)
}

// Random shuffles uniformly and chunks into fours: within each chunk the
// first two players form the home team. No skill or history awareness.
func Random(rng *rand.Rand, playerIDs []string) ([]Pairing, error) {
	if err := validatePool(playerIDs); err != nil {
		return nil, err
	}

	shuffled := append([]string(nil), playerIDs...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairings := make([]Pairing, 0, len(shuffled)/GroupSize)
	for i := 0; i < len(shuffled); i += GroupSize {
		pairings = append(pairings, Pairing{
			HomeA: shuffled[i],
			HomeB: shuffled[i+1],
			AwayA: shuffled[i+2],
			AwayB: shuffled[i+3],
		})
	}
	return pairings, nil
}

// Balanced pairs the strongest remaining player with the weakest against
// two mid-percentile players, approximating even matches. When either
// proposed pair has already been teammates tonight, the weakest player
// and the lower mid pick swap teams to break up the repeat.
func Balanced(entrants []Entrant, hist History) ([]Pairing, error) {
	if err := validateEntrantPool(entrants); err != nil {
		return nil, err
	}

	pool := sortByWinRate(entrants)
	pairings := make([]Pairing, 0, len(pool)/GroupSize)
	for len(pool) > 0 {
		strong := pool[0]
		weak := pool[len(pool)-1]
		remaining := pool[1 : len(pool)-1]
		mid1 := remaining[len(remaining)/3]
		mid2 := remaining[2*len(remaining)/3]

		homeB, awayB := weak, mid2
		if hist.Played(strong.PlayerID, weak.PlayerID) || hist.Played(mid1.PlayerID, mid2.PlayerID) {
			homeB, awayB = mid2, weak
		}

		p := Pairing{
			HomeA: strong.PlayerID,
			HomeB: homeB.PlayerID,
			AwayA: mid1.PlayerID,
			AwayB: awayB.PlayerID,
		}
		hist.Add(p.HomeA, p.HomeB)
		hist.Add(p.AwayA, p.AwayB)
		pairings = append(pairings, p)

		pool = without(pool, strong.PlayerID, weak.PlayerID, mid1.PlayerID, mid2.PlayerID)
	}
	return pairings, nil
}

// Diverse samples up to diverseAttemptBudget random quadruples per group
// and keeps the one repeating the fewest teammate pairs, stopping early
// on a zero-overlap candidate. Within the chosen quadruple the strongest
// and weakest players by win rate team up against the middle two.
func Diverse(rng *rand.Rand, entrants []Entrant, hist History) ([]Pairing, error) {
	if err := validateEntrantPool(entrants); err != nil {
		return nil, err
	}

	pool := append([]Entrant(nil), entrants...)
	pairings := make([]Pairing, 0, len(pool)/GroupSize)
	for len(pool) >= GroupSize {
		best := sampleQuadruple(rng, pool, hist)
		group := sortByWinRate(best)

		p := Pairing{
			HomeA: group[0].PlayerID,
			HomeB: group[3].PlayerID,
			AwayA: group[1].PlayerID,
			AwayB: group[2].PlayerID,
		}
		hist.Add(p.HomeA, p.HomeB)
		hist.Add(p.AwayA, p.AwayB)
		pairings = append(pairings, p)

		pool = without(pool, p.HomeA, p.HomeB, p.AwayA, p.AwayB)
	}
	return pairings, nil
}

// Ranked draws rounds 2 and 3: consecutive groups of four from the
// standings order, each split by lowest teammate overlap. The trailing
// remainder becomes byes.
func Ranked(rankedIDs []string, hist History) ([]Pairing, []string, error) {
	if len(rankedIDs) < GroupSize {
		return nil, nil, ErrPoolTooSmall
	}

	groups, byes := GroupByFour(rankedIDs)
	pairings := make([]Pairing, 0, len(groups))
	for _, group := range groups {
		pairings = append(pairings, PairGroup(group, hist))
	}
	return pairings, byes, nil
}

// PairTeams shuffles team-mode team IDs and matches consecutive pairs.
func PairTeams(rng *rand.Rand, teamIDs []string) ([][2]string, error) {
	if len(teamIDs) < 2 || len(teamIDs)%2 != 0 {
		return nil, ErrTeamCount
	}

	shuffled := append([]string(nil), teamIDs...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([][2]string, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled); i += 2 {
		pairs = append(pairs, [2]string{shuffled[i], shuffled[i+1]})
	}
	return pairs, nil
}

func sampleQuadruple(rng *rand.Rand, pool []Entrant, hist History) []Entrant {
	var best []Entrant
	bestScore := -1
	for attempt := 0; attempt < diverseAttemptBudget; attempt++ {
		perm := rng.Perm(len(pool))[:GroupSize]
		candidate := []Entrant{pool[perm[0]], pool[perm[1]], pool[perm[2]], pool[perm[3]]}

		score := 0
		for i := 0; i < GroupSize; i++ {
			for j := i + 1; j < GroupSize; j++ {
				if hist.Played(candidate[i].PlayerID, candidate[j].PlayerID) {
					score++
				}
			}
		}
		if bestScore < 0 || score < bestScore {
			best = candidate
			bestScore = score
		}
		if bestScore == 0 {
			break
		}
	}
	return best
}

func sortByWinRate(entrants []Entrant) []Entrant {
	out := append([]Entrant(nil), entrants...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinRate() != out[j].WinRate() {
			return out[i].WinRate() > out[j].WinRate()
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

func without(pool []Entrant, playerIDs ...string) []Entrant {
	drop := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		drop[id] = struct{}{}
	}
	out := pool[:0]
	for _, e := range pool {
		if _, ok := drop[e.PlayerID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func validatePool(playerIDs []string) error {
	if len(playerIDs) == 0 || len(playerIDs)%GroupSize != 0 {
		return ErrPoolNotDivisible
	}
	return nil
}

func validateEntrantPool(entrants []Entrant) error {
	if len(entrants) == 0 || len(entrants)%GroupSize != 0 {
		return ErrPoolNotDivisible
	}
	return nil
}
