package draw

import (
	"fmt"
	"testing"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

func TestGroupByFour(t *testing.T) {
	t.Parallel()

	for n := 4; n <= 15; n++ {
		ids := playerIDs(n)
		groups, byes := GroupByFour(ids)

		if len(groups) != n/4 {
			t.Fatalf("n=%d: expected %d groups, got %d", n, n/4, len(groups))
		}
		if len(byes) != n%4 {
			t.Fatalf("n=%d: expected %d byes, got %d", n, n%4, len(byes))
		}

		flat := make([]string, 0, n)
		for _, g := range groups {
			if len(g) != 4 {
				t.Fatalf("n=%d: group of size %d", n, len(g))
			}
			flat = append(flat, g...)
		}
		flat = append(flat, byes...)
		for i, id := range flat {
			if id != ids[i] {
				t.Fatalf("n=%d: rank order not preserved at %d: %v", n, i, flat)
			}
		}
	}
}

func TestPairGroupDefaultsToEnumerationOrder(t *testing.T) {
	t.Parallel()

	p := PairGroup([]string{"a", "b", "c", "d"}, NewHistory())
	want := Pairing{HomeA: "a", HomeB: "b", AwayA: "c", AwayB: "d"}
	if p != want {
		t.Fatalf("unexpected pairing: want %+v, got %+v", want, p)
	}
}

func TestPairGroupAvoidsRepeatedPairs(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.Add("a", "b")
	hist.Add("c", "d")

	p := PairGroup([]string{"a", "b", "c", "d"}, hist)
	want := Pairing{HomeA: "a", HomeB: "c", AwayA: "b", AwayB: "d"}
	if p != want {
		t.Fatalf("unexpected pairing: want %+v, got %+v", want, p)
	}
}

func TestPairGroupCommitsChosenPairs(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	PairGroup([]string{"a", "b", "c", "d"}, hist)

	if !hist.Played("a", "b") || !hist.Played("c", "d") {
		t.Fatal("chosen pairs were not committed to history")
	}

	// The next group with overlapping members now sees tonight's pairs.
	p := PairGroup([]string{"a", "b", "e", "f"}, hist)
	if p.HomeA == "a" && p.HomeB == "b" {
		t.Fatalf("committed pair was repeated: %+v", p)
	}
}

func TestHistoryIsUnordered(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.Add("b", "a")
	if !hist.Played("a", "b") {
		t.Fatal("pair lookup must ignore argument order")
	}
}

func TestHistoryFromMatchesCollectsTeammatePairs(t *testing.T) {
	t.Parallel()

	hist := HistoryFromMatches([]match.Detail{matchWithTeams(
		[]string{"p1", "p2"},
		[]string{"p3", "p4"},
	)})

	if !hist.Played("p1", "p2") || !hist.Played("p3", "p4") {
		t.Fatal("teammate pairs missing from history")
	}
	if hist.Played("p1", "p3") || hist.Played("p2", "p4") {
		t.Fatal("opponents must not count as teammates")
	}
}

func matchWithTeams(home, away []string) match.Detail {
	d := match.Detail{Match: match.Match{ID: "m1"}}
	for side, members := range map[match.Side][]string{match.SideHome: home, match.SideAway: away} {
		td := match.TeamDetail{Team: match.Team{MatchID: "m1", Side: side}}
		for i, id := range members {
			td.Players = append(td.Players, match.Player{ID: fmt.Sprintf("mp-%s-%d", side, i), PlayerID: id})
		}
		d.Teams = append(d.Teams, td)
	}
	return d
}
