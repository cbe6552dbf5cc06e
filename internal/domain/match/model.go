package match

import "fmt"

// Side identifies one of the two teams in a match.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

var AllSides = map[Side]struct{}{
	SideHome: {},
	SideAway: {},
}

// Status tracks a match through its lifecycle. Scores are authoritative
// only once the status reaches Completed or Walkover.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
	StatusWalkover   Status = "WALKOVER"
)

var AllStatuses = map[Status]struct{}{
	StatusScheduled:  {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusCanceled:   {},
	StatusWalkover:   {},
}

// Match is one doubles game on a numbered lane within a round.
type Match struct {
	ID             string
	RoundID        string
	NightID        string
	Lane           int
	Status         Status
	HomeScore      *int
	AwayScore      *int
	WalkoverWinner *Side
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.RoundID == "" {
		return fmt.Errorf("match round id is required")
	}
	if m.NightID == "" {
		return fmt.Errorf("match night id is required")
	}
	if m.Lane < 1 {
		return fmt.Errorf("match lane must be 1 or greater")
	}
	if _, ok := AllStatuses[m.Status]; !ok {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}
	if m.WalkoverWinner != nil {
		if _, ok := AllSides[*m.WalkoverWinner]; !ok {
			return fmt.Errorf("invalid match walkover winner: %s", *m.WalkoverWinner)
		}
	}

	return nil
}

// Resolved reports whether the match carries an authoritative outcome.
func (m Match) Resolved() bool {
	return m.Status == StatusCompleted || m.Status == StatusWalkover
}

// Team is one side of a match. TeamID links a persistent club team in
// team-mode nights and stays nil for individual draws.
type Team struct {
	ID      string
	MatchID string
	Side    Side
	TeamID  *string
}

// Player is one participant slot on a match team. PointsFor, PointsAgainst
// and Won are derived at resolution time, never reported directly.
type Player struct {
	ID            string
	MatchTeamID   string
	PlayerID      string
	PointsFor     *int
	PointsAgainst *int
	Won           *bool
}

// TeamDetail bundles a match team with its player rows.
type TeamDetail struct {
	Team    Team
	Players []Player
}

// Detail is the full match graph: the match plus both teams and their
// players. Repositories read and write matches at this granularity.
type Detail struct {
	Match Match
	Teams []TeamDetail
}

// Side returns the team detail for the given side.
func (d Detail) Side(side Side) (TeamDetail, bool) {
	for _, t := range d.Teams {
		if t.Team.Side == side {
			return t, true
		}
	}
	return TeamDetail{}, false
}

// ParticipantIDs lists every player on both teams.
func (d Detail) ParticipantIDs() []string {
	ids := make([]string, 0, 4)
	for _, t := range d.Teams {
		for _, p := range t.Players {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}

// HasParticipant reports whether the player is on either team.
func (d Detail) HasParticipant(playerID string) bool {
	for _, id := range d.ParticipantIDs() {
		if id == playerID {
			return true
		}
	}
	return false
}
