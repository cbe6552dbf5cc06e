package result

import (
	"fmt"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

// Verdict is the consensus decision over a match's confirmations.
type Verdict struct {
	Status  Status
	Outcome Outcome
}

// Decide runs the confirmation quorum over all submitted reports.
// Fewer reports than participants stays Pending. With a full quorum,
// every report is compared to the earliest one: an exact match on home
// score, away score and walkover side across all of them confirms the
// outcome; any difference disputes the whole match.
//
// Decide is pure. Repositories call it inside the same transaction that
// upserted the triggering report, so two participants reporting
// concurrently cannot both observe a partial quorum.
func Decide(participantCount int, confirmations []Confirmation) Verdict {
	if participantCount <= 0 || len(confirmations) < participantCount {
		return Verdict{Status: StatusPending}
	}

	ordered := append([]Confirmation(nil), confirmations...)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].ReportedAt.Equal(ordered[j].ReportedAt) {
			return ordered[i].ReportedAt.Before(ordered[j].ReportedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	reference := ordered[0].outcome()
	for _, c := range ordered[1:] {
		if !c.outcome().equal(reference) {
			return Verdict{Status: StatusDisputed}
		}
	}

	return Verdict{Status: StatusConfirmed, Outcome: reference}
}

// ResolveMatch applies an outcome onto a match graph: status, scores
// and the derived per-player fields on both teams. The caller persists
// the returned detail together with ranking updates in one transaction.
func ResolveMatch(d match.Detail, out Outcome) (match.Detail, error) {
	home, ok := d.Side(match.SideHome)
	if !ok {
		return match.Detail{}, fmt.Errorf("match %s has no home team", d.Match.ID)
	}
	away, ok := d.Side(match.SideAway)
	if !ok {
		return match.Detail{}, fmt.Errorf("match %s has no away team", d.Match.ID)
	}

	resolved := d
	resolved.Match.HomeScore = intPtr(out.HomeScore)
	resolved.Match.AwayScore = intPtr(out.AwayScore)
	if out.WalkoverWinner != nil {
		winner := *out.WalkoverWinner
		resolved.Match.Status = match.StatusWalkover
		resolved.Match.WalkoverWinner = &winner
	} else {
		resolved.Match.Status = match.StatusCompleted
		resolved.Match.WalkoverWinner = nil
	}

	winningSide := out.WinningSide()
	resolved.Teams = []match.TeamDetail{
		resolveTeam(home, out.HomeScore, out.AwayScore, winningSide == match.SideHome),
		resolveTeam(away, out.AwayScore, out.HomeScore, winningSide == match.SideAway),
	}

	return resolved, nil
}

func resolveTeam(t match.TeamDetail, pointsFor, pointsAgainst int, won bool) match.TeamDetail {
	out := t
	out.Players = make([]match.Player, len(t.Players))
	for i, p := range t.Players {
		p.PointsFor = intPtr(pointsFor)
		p.PointsAgainst = intPtr(pointsAgainst)
		p.Won = boolPtr(won)
		out.Players[i] = p
	}
	return out
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
