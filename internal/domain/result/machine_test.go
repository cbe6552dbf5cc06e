package result

import (
	"errors"
	"testing"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

func confirmation(id, playerID string, home, away int, walkover *match.Side, at time.Time) Confirmation {
	return Confirmation{
		ID:             id,
		MatchID:        "m1",
		PlayerID:       playerID,
		HomeScore:      home,
		AwayScore:      away,
		WalkoverWinner: walkover,
		Status:         StatusPending,
		ReportedAt:     at,
	}
}

func sidePtr(s match.Side) *match.Side { return &s }

func TestDecide(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 12, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		participants  int
		confirmations []Confirmation
		wantStatus    Status
		wantOutcome   Outcome
	}{
		{
			name:         "partial quorum stays pending",
			participants: 4,
			confirmations: []Confirmation{
				confirmation("c1", "p1", 13, 5, nil, base),
				confirmation("c2", "p2", 13, 5, nil, base.Add(time.Minute)),
			},
			wantStatus: StatusPending,
		},
		{
			name:         "unanimous reports confirm",
			participants: 4,
			confirmations: []Confirmation{
				confirmation("c1", "p1", 13, 5, nil, base),
				confirmation("c2", "p2", 13, 5, nil, base.Add(time.Minute)),
				confirmation("c3", "p3", 13, 5, nil, base.Add(2*time.Minute)),
				confirmation("c4", "p4", 13, 5, nil, base.Add(3*time.Minute)),
			},
			wantStatus:  StatusConfirmed,
			wantOutcome: Outcome{HomeScore: 13, AwayScore: 5},
		},
		{
			name:         "one flipped report disputes",
			participants: 4,
			confirmations: []Confirmation{
				confirmation("c1", "p1", 13, 5, nil, base),
				confirmation("c2", "p2", 13, 5, nil, base.Add(time.Minute)),
				confirmation("c3", "p3", 13, 5, nil, base.Add(2*time.Minute)),
				confirmation("c4", "p4", 5, 13, nil, base.Add(3*time.Minute)),
			},
			wantStatus: StatusDisputed,
		},
		{
			name:         "walkover side mismatch disputes",
			participants: 2,
			confirmations: []Confirmation{
				confirmation("c1", "p1", 13, 0, sidePtr(match.SideHome), base),
				confirmation("c2", "p2", 13, 0, nil, base.Add(time.Minute)),
			},
			wantStatus: StatusDisputed,
		},
		{
			name:         "unanimous walkover confirms",
			participants: 4,
			confirmations: []Confirmation{
				confirmation("c1", "p1", 13, 0, sidePtr(match.SideHome), base),
				confirmation("c2", "p2", 13, 0, sidePtr(match.SideHome), base.Add(time.Minute)),
				confirmation("c3", "p3", 13, 0, sidePtr(match.SideHome), base.Add(2*time.Minute)),
				confirmation("c4", "p4", 13, 0, sidePtr(match.SideHome), base.Add(3*time.Minute)),
			},
			wantStatus:  StatusConfirmed,
			wantOutcome: Outcome{HomeScore: 13, AwayScore: 0, WalkoverWinner: sidePtr(match.SideHome)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verdict := Decide(tc.participants, tc.confirmations)
			if verdict.Status != tc.wantStatus {
				t.Fatalf("unexpected status: want %s, got %s", tc.wantStatus, verdict.Status)
			}
			if tc.wantStatus != StatusConfirmed {
				return
			}
			if !verdict.Outcome.equal(tc.wantOutcome) {
				t.Fatalf("unexpected outcome: want %+v, got %+v", tc.wantOutcome, verdict.Outcome)
			}
		})
	}
}

func TestDecideComparesAgainstEarliestReport(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 12, 20, 0, 0, 0, time.UTC)

	// The later majority does not outvote the earliest report; any
	// difference is a dispute regardless of which report came first.
	verdict := Decide(2, []Confirmation{
		confirmation("c2", "p2", 5, 13, nil, base.Add(time.Minute)),
		confirmation("c1", "p1", 13, 5, nil, base),
	})
	if verdict.Status != StatusDisputed {
		t.Fatalf("unexpected status: want %s, got %s", StatusDisputed, verdict.Status)
	}
}

func TestReportNormalize(t *testing.T) {
	t.Parallel()

	intPtrOf := func(v int) *int { return &v }

	tests := []struct {
		name      string
		report    Report
		targetErr error
		want      Outcome
	}{
		{
			name:   "plain score",
			report: Report{HomeScore: intPtrOf(13), AwayScore: intPtrOf(7)},
			want:   Outcome{HomeScore: 13, AwayScore: 7},
		},
		{
			name:   "walkover without scores fills 13-0",
			report: Report{WalkoverWinner: sidePtr(match.SideAway)},
			want:   Outcome{HomeScore: 0, AwayScore: 13, WalkoverWinner: sidePtr(match.SideAway)},
		},
		{
			name:      "walkover with wrong score rejected",
			report:    Report{HomeScore: intPtrOf(13), AwayScore: intPtrOf(2), WalkoverWinner: sidePtr(match.SideHome)},
			targetErr: ErrWalkoverMismatch,
		},
		{
			name:      "missing away score rejected",
			report:    Report{HomeScore: intPtrOf(13)},
			targetErr: ErrMissingScores,
		},
		{
			name:      "negative score rejected",
			report:    Report{HomeScore: intPtrOf(-1), AwayScore: intPtrOf(13)},
			targetErr: ErrNegativeScore,
		},
		{
			name:      "drawn score rejected",
			report:    Report{HomeScore: intPtrOf(10), AwayScore: intPtrOf(10)},
			targetErr: ErrDrawnScore,
		},
		{
			name:      "unknown walkover side rejected",
			report:    Report{WalkoverWinner: sidePtr(match.Side("MIDDLE"))},
			targetErr: ErrInvalidSide,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := tc.report.Normalize()
			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("unexpected error: want %v, got %v", tc.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize report: %v", err)
			}
			if !out.equal(tc.want) {
				t.Fatalf("unexpected outcome: want %+v, got %+v", tc.want, out)
			}
		})
	}
}

func testMatchDetail() match.Detail {
	return match.Detail{
		Match: match.Match{ID: "m1", RoundID: "r1", NightID: "n1", Lane: 1, Status: match.StatusScheduled},
		Teams: []match.TeamDetail{
			{
				Team: match.Team{ID: "mt1", MatchID: "m1", Side: match.SideHome},
				Players: []match.Player{
					{ID: "mp1", MatchTeamID: "mt1", PlayerID: "p1"},
					{ID: "mp2", MatchTeamID: "mt1", PlayerID: "p2"},
				},
			},
			{
				Team: match.Team{ID: "mt2", MatchID: "m1", Side: match.SideAway},
				Players: []match.Player{
					{ID: "mp3", MatchTeamID: "mt2", PlayerID: "p3"},
					{ID: "mp4", MatchTeamID: "mt2", PlayerID: "p4"},
				},
			},
		},
	}
}

func TestResolveMatchCompleted(t *testing.T) {
	t.Parallel()

	resolved, err := ResolveMatch(testMatchDetail(), Outcome{HomeScore: 13, AwayScore: 7})
	if err != nil {
		t.Fatalf("resolve match: %v", err)
	}

	if resolved.Match.Status != match.StatusCompleted {
		t.Fatalf("unexpected status: %s", resolved.Match.Status)
	}
	if *resolved.Match.HomeScore != 13 || *resolved.Match.AwayScore != 7 {
		t.Fatalf("unexpected scores: %v %v", resolved.Match.HomeScore, resolved.Match.AwayScore)
	}

	home, _ := resolved.Side(match.SideHome)
	for _, p := range home.Players {
		if !*p.Won || *p.PointsFor != 13 || *p.PointsAgainst != 7 {
			t.Fatalf("unexpected home player fields: %+v", p)
		}
	}
	away, _ := resolved.Side(match.SideAway)
	for _, p := range away.Players {
		if *p.Won || *p.PointsFor != 7 || *p.PointsAgainst != 13 {
			t.Fatalf("unexpected away player fields: %+v", p)
		}
	}
}

func TestResolveMatchWalkover(t *testing.T) {
	t.Parallel()

	resolved, err := ResolveMatch(testMatchDetail(), Outcome{HomeScore: 13, AwayScore: 0, WalkoverWinner: sidePtr(match.SideHome)})
	if err != nil {
		t.Fatalf("resolve match: %v", err)
	}

	if resolved.Match.Status != match.StatusWalkover {
		t.Fatalf("unexpected status: %s", resolved.Match.Status)
	}
	if *resolved.Match.WalkoverWinner != match.SideHome {
		t.Fatalf("unexpected walkover winner: %s", *resolved.Match.WalkoverWinner)
	}

	wonCount := 0
	for _, team := range resolved.Teams {
		for _, p := range team.Players {
			if *p.Won {
				wonCount++
			}
		}
	}
	if wonCount != 2 {
		t.Fatalf("expected exactly 2 winning players, got %d", wonCount)
	}
}
