package draw

import "github.com/boulodrome/petanque-nights/internal/domain/match"

type pairKey struct {
	a, b string
}

func keyFor(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// History is the set of player pairs who have already been teammates
// during a night. It is rebuilt from persisted matches on every draw
// request and mutated locally; nothing shares it across requests.
type History map[pairKey]struct{}

func NewHistory() History {
	return make(History)
}

// HistoryFromMatches collects every same-team pair from the given
// matches, regardless of match status.
func HistoryFromMatches(matches []match.Detail) History {
	h := NewHistory()
	for _, d := range matches {
		for _, t := range d.Teams {
			for i := 0; i < len(t.Players); i++ {
				for j := i + 1; j < len(t.Players); j++ {
					h.Add(t.Players[i].PlayerID, t.Players[j].PlayerID)
				}
			}
		}
	}
	return h
}

func (h History) Add(a, b string) {
	h[keyFor(a, b)] = struct{}{}
}

func (h History) Played(a, b string) bool {
	_, ok := h[keyFor(a, b)]
	return ok
}
