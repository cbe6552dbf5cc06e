package memory

import (
	"sync"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	"github.com/boulodrome/petanque-nights/internal/domain/team"
	"github.com/boulodrome/petanque-nights/internal/platform/id"
)

// Store is the shared in-memory state behind every memory repository.
// One mutex covers all entities, which gives the multi-entity write
// paths (round materialization, result resolution) the same atomicity
// the SQL repositories get from a transaction.
type Store struct {
	mu sync.RWMutex

	idGen id.Generator
	now   func() time.Time

	players     map[string]player.Player
	playerOrder []string

	nights     map[string]night.Night
	nightOrder []string

	// attendance by night id, then player id.
	attendance map[string]map[string]night.Attendance

	rounds     map[string]round.Round
	roundOrder []string
	byes       map[string][]round.Bye

	matches    map[string]match.Detail
	matchOrder []string

	// confirmations by match id, then player id.
	confirmations map[string]map[string]result.Confirmation

	rankings map[ranking.SubjectKind]map[string]ranking.Ranking

	teams map[string]team.Team
}

func NewStore(idGen id.Generator) *Store {
	return &Store{
		idGen:         idGen,
		now:           time.Now,
		players:       make(map[string]player.Player),
		nights:        make(map[string]night.Night),
		attendance:    make(map[string]map[string]night.Attendance),
		rounds:        make(map[string]round.Round),
		byes:          make(map[string][]round.Bye),
		matches:       make(map[string]match.Detail),
		confirmations: make(map[string]map[string]result.Confirmation),
		rankings: map[ranking.SubjectKind]map[string]ranking.Ranking{
			ranking.SubjectPlayer: make(map[string]ranking.Ranking),
			ranking.SubjectTeam:   make(map[string]ranking.Ranking),
		},
		teams: make(map[string]team.Team),
	}
}

// SetNow overrides the clock used for confirmation timestamps.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

func cloneDetail(d match.Detail) match.Detail {
	out := d
	out.Match.HomeScore = cloneIntPtr(d.Match.HomeScore)
	out.Match.AwayScore = cloneIntPtr(d.Match.AwayScore)
	out.Match.WalkoverWinner = cloneSidePtr(d.Match.WalkoverWinner)
	out.Teams = make([]match.TeamDetail, len(d.Teams))
	for i, t := range d.Teams {
		ct := t
		ct.Team.TeamID = cloneStringPtr(t.Team.TeamID)
		ct.Players = make([]match.Player, len(t.Players))
		for j, p := range t.Players {
			cp := p
			cp.PointsFor = cloneIntPtr(p.PointsFor)
			cp.PointsAgainst = cloneIntPtr(p.PointsAgainst)
			cp.Won = cloneBoolPtr(p.Won)
			ct.Players[j] = cp
		}
		out.Teams[i] = ct
	}
	return out
}

func cloneConfirmation(c result.Confirmation) result.Confirmation {
	out := c
	out.WalkoverWinner = cloneSidePtr(c.WalkoverWinner)
	return out
}

func cloneRanking(r ranking.Ranking) ranking.Ranking {
	out := r
	if r.Rating != nil {
		v := *r.Rating
		out.Rating = &v
	}
	return out
}

func cloneTeam(t team.Team) team.Team {
	out := t
	out.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	return out
}

func cloneNight(n night.Night) night.Night {
	out := n
	out.MaxPlayers = cloneIntPtr(n.MaxPlayers)
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBoolPtr(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneSidePtr(v *match.Side) *match.Side {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
