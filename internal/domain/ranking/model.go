package ranking

import "fmt"

// PointsPerWin is the fixed increment applied to every winning
// participant when a match resolves. Losses award nothing.
const PointsPerWin = 3

// SubjectKind says whether a ranking row tracks a player or a
// persistent club team.
type SubjectKind string

const (
	SubjectPlayer SubjectKind = "PLAYER"
	SubjectTeam   SubjectKind = "TEAM"
)

var AllSubjectKinds = map[SubjectKind]struct{}{
	SubjectPlayer: {},
	SubjectTeam:   {},
}

// Ranking is the lazily-created aggregate per subject. Rating is a
// stored column no write path computes; it stays nil.
type Ranking struct {
	ID            string
	SubjectKind   SubjectKind
	SubjectID     string
	SimplePoints  int
	MatchesPlayed int
	MatchesWon    int
	Rating        *float64
}

func (r Ranking) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("ranking id is required")
	}
	if _, ok := AllSubjectKinds[r.SubjectKind]; !ok {
		return fmt.Errorf("invalid ranking subject kind: %s", r.SubjectKind)
	}
	if r.SubjectID == "" {
		return fmt.Errorf("ranking subject id is required")
	}

	return nil
}

// Applied returns the ranking after one resolved match.
func (r Ranking) Applied(won bool) Ranking {
	out := r
	out.MatchesPlayed++
	if won {
		out.MatchesWon++
		out.SimplePoints += PointsPerWin
	}
	return out
}
