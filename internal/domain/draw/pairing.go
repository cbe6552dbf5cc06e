package draw

// Pairing is one drawn match: HomeA+HomeB against AwayA+AwayB.
type Pairing struct {
	HomeA string
	HomeB string
	AwayA string
	AwayB string
}

// groupSplits enumerates the three 2-vs-2 splits of a ranked group of
// four: AB|CD, AC|BD, AD|BC. Tie-breaks follow this order.
var groupSplits = [3][2][2]int{
	{{0, 1}, {2, 3}},
	{{0, 2}, {1, 3}},
	{{0, 3}, {1, 2}},
}

// PairGroup chooses the split of a group of four whose two pairs repeat
// the fewest existing teammate pairs, then commits the winning pairs
// back into the history so later groups in the same round see them.
func PairGroup(group []string, hist History) Pairing {
	bestIdx := 0
	bestScore := -1
	for i, split := range groupSplits {
		score := 0
		for _, pair := range split {
			if hist.Played(group[pair[0]], group[pair[1]]) {
				score++
			}
		}
		if bestScore < 0 || score < bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	split := groupSplits[bestIdx]
	p := Pairing{
		HomeA: group[split[0][0]],
		HomeB: group[split[0][1]],
		AwayA: group[split[1][0]],
		AwayB: group[split[1][1]],
	}
	hist.Add(p.HomeA, p.HomeB)
	hist.Add(p.AwayA, p.AwayB)
	return p
}
