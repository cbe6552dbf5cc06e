package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
)

// RoundDetail is one round with its matches in lane order and byes.
type RoundDetail struct {
	Round   round.Round
	Matches []match.Detail
	Byes    []string
}

// NightDetail is the full read view of a night.
type NightDetail struct {
	Night      night.Night
	Attendance []night.Attendance
	Rounds     []RoundDetail
}

// NightService serves night read views.
type NightService struct {
	nightRepo night.Repository
	roundRepo round.Repository
	matchRepo match.Repository
}

func NewNightService(nightRepo night.Repository, roundRepo round.Repository, matchRepo match.Repository) *NightService {
	return &NightService{
		nightRepo: nightRepo,
		roundRepo: roundRepo,
		matchRepo: matchRepo,
	}
}

func (s *NightService) List(ctx context.Context) ([]night.Night, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NightService.List")
	defer span.End()

	nights, err := s.nightRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nights: %w", err)
	}
	return nights, nil
}

func (s *NightService) Detail(ctx context.Context, nightID string) (NightDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NightService.Detail")
	defer span.End()

	n, ok, err := s.nightRepo.GetByID(ctx, nightID)
	if err != nil {
		return NightDetail{}, fmt.Errorf("get night: %w", err)
	}
	if !ok {
		return NightDetail{}, fmt.Errorf("%w: night=%s", ErrNotFound, nightID)
	}

	attendance, err := s.nightRepo.ListAttendance(ctx, nightID)
	if err != nil {
		return NightDetail{}, fmt.Errorf("list attendance: %w", err)
	}

	rounds, err := s.roundRepo.ListByNight(ctx, nightID)
	if err != nil {
		return NightDetail{}, fmt.Errorf("list rounds: %w", err)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	matches, err := s.matchRepo.ListByNight(ctx, nightID)
	if err != nil {
		return NightDetail{}, fmt.Errorf("list night matches: %w", err)
	}
	byRound := make(map[string][]match.Detail)
	for _, d := range matches {
		byRound[d.Match.RoundID] = append(byRound[d.Match.RoundID], d)
	}

	detail := NightDetail{Night: n, Attendance: attendance}
	for _, rnd := range rounds {
		byes, err := s.roundRepo.ListByes(ctx, rnd.ID)
		if err != nil {
			return NightDetail{}, fmt.Errorf("list byes: %w", err)
		}
		byeIDs := make([]string, 0, len(byes))
		for _, b := range byes {
			byeIDs = append(byeIDs, b.PlayerID)
		}

		roundMatches := byRound[rnd.ID]
		sort.Slice(roundMatches, func(i, j int) bool {
			return roundMatches[i].Match.Lane < roundMatches[j].Match.Lane
		})

		detail.Rounds = append(detail.Rounds, RoundDetail{
			Round:   rnd,
			Matches: roundMatches,
			Byes:    byeIDs,
		})
	}

	return detail, nil
}
