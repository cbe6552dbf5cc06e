package result

import (
	"errors"
	"fmt"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

// WalkoverScore is the fixed score awarded to the winning side of a
// walkover. Games are played to 13 points.
const WalkoverScore = 13

var (
	ErrMissingScores    = errors.New("home and away scores are required")
	ErrNegativeScore    = errors.New("scores must not be negative")
	ErrDrawnScore       = errors.New("scores must not be equal")
	ErrInvalidSide      = errors.New("invalid walkover side")
	ErrWalkoverMismatch = errors.New("walkover score must be exactly 13-0 for the winning side")
)

// Status is the state of one confirmation row. A match is confirmed or
// disputed only when every participant's row carries that status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDisputed  Status = "DISPUTED"
)

// Report is one participant's claimed outcome for a match. Scores may be
// omitted on walkover reports; Normalize fills in the fixed 13-0.
type Report struct {
	HomeScore      *int
	AwayScore      *int
	WalkoverWinner *match.Side
}

// Normalize validates the report and returns its canonical outcome,
// so that reports compare field-for-field during consensus.
func (r Report) Normalize() (Outcome, error) {
	if r.WalkoverWinner != nil {
		side := *r.WalkoverWinner
		if _, ok := match.AllSides[side]; !ok {
			return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidSide, side)
		}

		out := Outcome{WalkoverWinner: &side}
		out.HomeScore, out.AwayScore = walkoverScores(side)
		if r.HomeScore != nil && *r.HomeScore != out.HomeScore {
			return Outcome{}, ErrWalkoverMismatch
		}
		if r.AwayScore != nil && *r.AwayScore != out.AwayScore {
			return Outcome{}, ErrWalkoverMismatch
		}
		return out, nil
	}

	if r.HomeScore == nil || r.AwayScore == nil {
		return Outcome{}, ErrMissingScores
	}
	if *r.HomeScore < 0 || *r.AwayScore < 0 {
		return Outcome{}, ErrNegativeScore
	}
	if *r.HomeScore == *r.AwayScore {
		return Outcome{}, ErrDrawnScore
	}

	return Outcome{HomeScore: *r.HomeScore, AwayScore: *r.AwayScore}, nil
}

// Outcome is a resolved score for a match, from unanimous confirmation
// or an admin override.
type Outcome struct {
	HomeScore      int
	AwayScore      int
	WalkoverWinner *match.Side
}

// WinningSide returns the side that won under this outcome.
func (o Outcome) WinningSide() match.Side {
	if o.WalkoverWinner != nil {
		return *o.WalkoverWinner
	}
	if o.HomeScore > o.AwayScore {
		return match.SideHome
	}
	return match.SideAway
}

func (o Outcome) equal(other Outcome) bool {
	if o.HomeScore != other.HomeScore || o.AwayScore != other.AwayScore {
		return false
	}
	if (o.WalkoverWinner == nil) != (other.WalkoverWinner == nil) {
		return false
	}
	if o.WalkoverWinner != nil && *o.WalkoverWinner != *other.WalkoverWinner {
		return false
	}
	return true
}

// Confirmation is one participant's persisted report for a match.
// One row per (match, player); resubmitting replaces the row.
type Confirmation struct {
	ID             string
	MatchID        string
	PlayerID       string
	HomeScore      int
	AwayScore      int
	WalkoverWinner *match.Side
	Status         Status
	ReportedAt     time.Time
}

func (c Confirmation) outcome() Outcome {
	return Outcome{
		HomeScore:      c.HomeScore,
		AwayScore:      c.AwayScore,
		WalkoverWinner: c.WalkoverWinner,
	}
}

// ResolutionKind distinguishes the two paths that resolve a match.
type ResolutionKind string

const (
	ResolutionConfirmed     ResolutionKind = "CONFIRMED"
	ResolutionAdminOverride ResolutionKind = "ADMIN_OVERRIDE"
)

// Resolution is the single input consumed by the match-resolution write
// path. Confirmed resolutions come out of Decide; admin overrides bypass
// the confirmation ledger entirely.
type Resolution struct {
	Kind    ResolutionKind
	Outcome Outcome
}

func walkoverScores(winner match.Side) (home, away int) {
	if winner == match.SideHome {
		return WalkoverScore, 0
	}
	return 0, WalkoverScore
}
