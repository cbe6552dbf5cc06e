package httpapi

import (
	"context"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/ranking"
	"github.com/boulodrome/petanque-nights/internal/domain/result"
	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type nightDTO struct {
	ID          string `json:"id"`
	ScheduledAt string `json:"scheduled_at"`
	DrawMode    string `json:"draw_mode"`
	MaxPlayers  *int   `json:"max_players,omitempty"`
}

type attendanceDTO struct {
	PlayerID string `json:"player_id"`
	Present  bool   `json:"present"`
}

type matchPlayerDTO struct {
	PlayerID      string `json:"player_id"`
	PointsFor     *int   `json:"points_for,omitempty"`
	PointsAgainst *int   `json:"points_against,omitempty"`
	Won           *bool  `json:"won,omitempty"`
}

type matchTeamDTO struct {
	Side    string           `json:"side"`
	TeamID  *string          `json:"team_id,omitempty"`
	Players []matchPlayerDTO `json:"players"`
}

type matchDTO struct {
	ID             string         `json:"id"`
	RoundID        string         `json:"round_id"`
	NightID        string         `json:"night_id"`
	Lane           int            `json:"lane"`
	Status         string         `json:"status"`
	HomeScore      *int           `json:"home_score,omitempty"`
	AwayScore      *int           `json:"away_score,omitempty"`
	WalkoverWinner *string        `json:"walkover_winner,omitempty"`
	Teams          []matchTeamDTO `json:"teams"`
}

type roundDetailDTO struct {
	ID      string     `json:"id"`
	NightID string     `json:"night_id"`
	Number  int        `json:"number"`
	Matches []matchDTO `json:"matches"`
	Byes    []string   `json:"byes"`
}

type nightDetailDTO struct {
	Night      nightDTO         `json:"night"`
	Attendance []attendanceDTO  `json:"attendance"`
	Rounds     []roundDetailDTO `json:"rounds"`
}

type playerDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

type standingDTO struct {
	PlayerID      string  `json:"player_id"`
	Played        int     `json:"played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	PointsDiff    int     `json:"points_diff"`
	WinRate       float64 `json:"win_rate"`
}

type leaderboardRowDTO struct {
	standingDTO
	SimplePoints int `json:"simple_points"`
}

type rankingDTO struct {
	SubjectKind   string   `json:"subject_kind"`
	SubjectID     string   `json:"subject_id"`
	SimplePoints  int      `json:"simple_points"`
	MatchesPlayed int      `json:"matches_played"`
	MatchesWon    int      `json:"matches_won"`
	Rating        *float64 `json:"rating,omitempty"`
}

type playerStatsDTO struct {
	Player   playerDTO   `json:"player"`
	Standing standingDTO `json:"standing"`
	Ranking  *rankingDTO `json:"ranking,omitempty"`
}

type drawnMatchDTO struct {
	MatchID string `json:"match_id"`
	Lane    int    `json:"lane"`
}

type drawOutputDTO struct {
	RoundID     string          `json:"round_id"`
	RoundNumber int             `json:"round_number"`
	Matches     []drawnMatchDTO `json:"matches"`
	Byes        []string        `json:"byes"`
}

type confirmationDTO struct {
	PlayerID       string  `json:"player_id"`
	HomeScore      int     `json:"home_score"`
	AwayScore      int     `json:"away_score"`
	WalkoverWinner *string `json:"walkover_winner,omitempty"`
	Status         string  `json:"status"`
	ReportedAt     string  `json:"reported_at"`
}

type resultOutputDTO struct {
	Match         matchDTO          `json:"match"`
	Confirmations []confirmationDTO `json:"confirmations"`
}

func nightToDTO(ctx context.Context, v night.Night) nightDTO {
	ctx, span := startSpan(ctx, "httpapi.nightToDTO")
	defer span.End()

	return nightDTO{
		ID:          v.ID,
		ScheduledAt: v.ScheduledAt.UTC().Format(time.RFC3339),
		DrawMode:    string(v.DrawMode),
		MaxPlayers:  v.MaxPlayers,
	}
}

func attendanceToDTO(v night.Attendance) attendanceDTO {
	return attendanceDTO{PlayerID: v.PlayerID, Present: v.Present}
}

func matchToDTO(ctx context.Context, v match.Detail) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	teams := make([]matchTeamDTO, 0, len(v.Teams))
	for _, t := range v.Teams {
		players := make([]matchPlayerDTO, 0, len(t.Players))
		for _, p := range t.Players {
			players = append(players, matchPlayerDTO{
				PlayerID:      p.PlayerID,
				PointsFor:     p.PointsFor,
				PointsAgainst: p.PointsAgainst,
				Won:           p.Won,
			})
		}
		teams = append(teams, matchTeamDTO{
			Side:    string(t.Team.Side),
			TeamID:  t.Team.TeamID,
			Players: players,
		})
	}

	return matchDTO{
		ID:             v.Match.ID,
		RoundID:        v.Match.RoundID,
		NightID:        v.Match.NightID,
		Lane:           v.Match.Lane,
		Status:         string(v.Match.Status),
		HomeScore:      v.Match.HomeScore,
		AwayScore:      v.Match.AwayScore,
		WalkoverWinner: sideToStringPtr(v.Match.WalkoverWinner),
		Teams:          teams,
	}
}

func roundDetailToDTO(ctx context.Context, v usecase.RoundDetail) roundDetailDTO {
	matches := make([]matchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, matchToDTO(ctx, m))
	}

	return roundDetailDTO{
		ID:      v.Round.ID,
		NightID: v.Round.NightID,
		Number:  v.Round.Number,
		Matches: matches,
		Byes:    stringsOrEmpty(v.Byes),
	}
}

func nightDetailToDTO(ctx context.Context, v usecase.NightDetail) nightDetailDTO {
	attendance := make([]attendanceDTO, 0, len(v.Attendance))
	for _, a := range v.Attendance {
		attendance = append(attendance, attendanceToDTO(a))
	}

	rounds := make([]roundDetailDTO, 0, len(v.Rounds))
	for _, r := range v.Rounds {
		rounds = append(rounds, roundDetailToDTO(ctx, r))
	}

	return nightDetailDTO{
		Night:      nightToDTO(ctx, v.Night),
		Attendance: attendance,
		Rounds:     rounds,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{ID: v.ID, DisplayName: v.DisplayName, IsAdmin: v.IsAdmin}
}

func standingToDTO(v usecase.Standing) standingDTO {
	return standingDTO{
		PlayerID:      v.PlayerID,
		Played:        v.Played,
		Wins:          v.Wins,
		Losses:        v.Losses,
		PointsFor:     v.PointsFor,
		PointsAgainst: v.PointsAgainst,
		PointsDiff:    v.PointsDiff,
		WinRate:       v.WinRate,
	}
}

func rankingToDTO(v ranking.Ranking) rankingDTO {
	return rankingDTO{
		SubjectKind:   string(v.SubjectKind),
		SubjectID:     v.SubjectID,
		SimplePoints:  v.SimplePoints,
		MatchesPlayed: v.MatchesPlayed,
		MatchesWon:    v.MatchesWon,
		Rating:        v.Rating,
	}
}

func drawOutputToDTO(ctx context.Context, v usecase.DrawOutput) drawOutputDTO {
	ctx, span := startSpan(ctx, "httpapi.drawOutputToDTO")
	defer span.End()

	matches := make([]drawnMatchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, drawnMatchDTO{MatchID: m.MatchID, Lane: m.Lane})
	}

	return drawOutputDTO{
		RoundID:     v.RoundID,
		RoundNumber: v.RoundNumber,
		Matches:     matches,
		Byes:        stringsOrEmpty(v.Byes),
	}
}

func confirmationToDTO(v result.Confirmation) confirmationDTO {
	return confirmationDTO{
		PlayerID:       v.PlayerID,
		HomeScore:      v.HomeScore,
		AwayScore:      v.AwayScore,
		WalkoverWinner: sideToStringPtr(v.WalkoverWinner),
		Status:         string(v.Status),
		ReportedAt:     v.ReportedAt.UTC().Format(time.RFC3339),
	}
}

func resultOutputToDTO(ctx context.Context, v usecase.ResultOutput) resultOutputDTO {
	confirmations := make([]confirmationDTO, 0, len(v.Confirmations))
	for _, c := range v.Confirmations {
		confirmations = append(confirmations, confirmationToDTO(c))
	}

	return resultOutputDTO{
		Match:         matchToDTO(ctx, v.Match),
		Confirmations: confirmations,
	}
}

func sideToStringPtr(side *match.Side) *string {
	if side == nil {
		return nil
	}
	s := string(*side)
	return &s
}

func stringsOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
