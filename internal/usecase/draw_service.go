package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/boulodrome/petanque-nights/internal/domain/draw"
	"github.com/boulodrome/petanque-nights/internal/domain/match"
	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	"github.com/boulodrome/petanque-nights/internal/domain/team"
	"github.com/boulodrome/petanque-nights/internal/platform/id"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

// Round-1 draw modes accepted from clients.
const (
	DrawModeRandom   = "random"
	DrawModeBalanced = "balanced"
	DrawModeDiverse  = "diverse"
)

// DrawService draws rounds and materializes them as persisted match
// graphs. All randomness flows through newRand so tests can seed it.
type DrawService struct {
	nightRepo night.Repository
	roundRepo round.Repository
	matchRepo match.Repository
	teamRepo  team.Repository
	idGen     id.Generator
	logger    *logging.Logger
	newRand   func() *rand.Rand
}

func NewDrawService(
	nightRepo night.Repository,
	roundRepo round.Repository,
	matchRepo match.Repository,
	teamRepo team.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *DrawService {
	return &DrawService{
		nightRepo: nightRepo,
		roundRepo: roundRepo,
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		idGen:     idGen,
		logger:    logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// DrawnMatch is one created match in lane order.
type DrawnMatch struct {
	MatchID string
	Lane    int
}

// DrawOutput describes a materialized round.
type DrawOutput struct {
	RoundID     string
	RoundNumber int
	Matches     []DrawnMatch
	Byes        []string
}

// DrawRound1 draws the opening round with the requested strategy.
// Balanced and diverse failures fall back to a random draw: once the
// attendance list is valid, drawing must not hard-fail.
func (s *DrawService) DrawRound1(ctx context.Context, nightID, mode string) (DrawOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.DrawRound1")
	defer span.End()

	if mode != DrawModeRandom && mode != DrawModeBalanced && mode != DrawModeDiverse {
		return DrawOutput{}, fmt.Errorf("%w: unknown draw mode %q", ErrInvalidInput, mode)
	}

	n, err := s.individualNight(ctx, nightID)
	if err != nil {
		return DrawOutput{}, err
	}
	if err := s.requireRoundFree(ctx, n.ID, 1); err != nil {
		return DrawOutput{}, err
	}

	present, err := s.nightRepo.ListPresentPlayerIDs(ctx, n.ID)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("list present players: %w", err)
	}
	if len(present) < draw.GroupSize || len(present)%draw.GroupSize != 0 {
		return DrawOutput{}, fmt.Errorf("%w: attendee count %d must be a positive multiple of %d", ErrInvalidInput, len(present), draw.GroupSize)
	}
	sort.Strings(present)

	pairings, err := s.drawOpeningPairings(ctx, n.ID, mode, present)
	if err != nil {
		return DrawOutput{}, err
	}

	return s.materializePairings(ctx, n.ID, 1, pairings, nil)
}

// DrawRound2 draws the second round from standings. The ranked pool
// must divide evenly; no byes in round 2.
func (s *DrawService) DrawRound2(ctx context.Context, nightID string) (DrawOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.DrawRound2")
	defer span.End()

	return s.drawRankedRound(ctx, nightID, 2, false)
}

// DrawRound3 draws the third round from standings, diverting the
// remainder into byes.
func (s *DrawService) DrawRound3(ctx context.Context, nightID string) (DrawOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.DrawRound3")
	defer span.End()

	return s.drawRankedRound(ctx, nightID, 3, true)
}

// DrawTeamRound shuffles the selected teams into matches for a
// TEAM-mode night. Rosters are copied verbatim; no balancing.
func (s *DrawService) DrawTeamRound(ctx context.Context, nightID string, teamIDs []string) (DrawOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.DrawTeamRound")
	defer span.End()

	n, ok, err := s.nightRepo.GetByID(ctx, nightID)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("get night: %w", err)
	}
	if !ok {
		return DrawOutput{}, fmt.Errorf("%w: night=%s", ErrNotFound, nightID)
	}
	if n.DrawMode != night.DrawModeTeam {
		return DrawOutput{}, fmt.Errorf("%w: night %s is not in team draw mode", ErrInvalidInput, nightID)
	}

	teams, err := s.teamRepo.GetByIDs(ctx, teamIDs)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("get teams: %w", err)
	}
	if len(teams) != len(teamIDs) {
		return DrawOutput{}, fmt.Errorf("%w: one or more teams do not exist", ErrNotFound)
	}
	byID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		if len(t.PlayerIDs) == 0 {
			return DrawOutput{}, fmt.Errorf("%w: team %s has no members", ErrInvalidInput, t.ID)
		}
		byID[t.ID] = t
	}

	pairs, err := draw.PairTeams(s.newRand(), teamIDs)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.roundRepo.ListByNight(ctx, n.ID)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("list rounds: %w", err)
	}
	number := len(existing) + 1

	details := make([]match.Detail, 0, len(pairs))
	for _, pair := range pairs {
		detail, err := s.newTeamMatch(n.ID, byID[pair[0]], byID[pair[1]])
		if err != nil {
			return DrawOutput{}, err
		}
		details = append(details, detail)
	}

	return s.materializeDetails(ctx, n.ID, number, details, nil)
}

// ResetRound deletes a round and all its match data in dependency
// order. Only the latest round may go, keeping round numbers dense.
func (s *DrawService) ResetRound(ctx context.Context, actor Actor, nightID string, number int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.ResetRound")
	defer span.End()

	if !actor.IsAdmin {
		return fmt.Errorf("%w: only admins may reset rounds", ErrForbidden)
	}

	rnd, ok, err := s.roundRepo.GetByNightAndNumber(ctx, nightID, number)
	if err != nil {
		return fmt.Errorf("get round: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: night=%s round=%d", ErrNotFound, nightID, number)
	}

	rounds, err := s.roundRepo.ListByNight(ctx, nightID)
	if err != nil {
		return fmt.Errorf("list rounds: %w", err)
	}
	for _, other := range rounds {
		if other.Number > number {
			return fmt.Errorf("%w: round %d still exists; reset later rounds first", ErrConflict, other.Number)
		}
	}

	if err := s.roundRepo.DeleteWithMatches(ctx, rnd.ID); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}

	s.logger.InfoContext(ctx, "round reset", "night_id", nightID, "round_number", number, "actor_id", actor.PlayerID)
	return nil
}

func (s *DrawService) drawOpeningPairings(ctx context.Context, nightID, mode string, present []string) ([]draw.Pairing, error) {
	rng := s.newRand()
	if mode == DrawModeRandom {
		pairings, err := draw.Random(rng, present)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return pairings, nil
	}

	pairings, err := s.drawSkillAware(ctx, nightID, mode, present, rng)
	if err == nil {
		return pairings, nil
	}

	s.logger.WarnContext(ctx, "skill-aware draw failed, falling back to random",
		"night_id", nightID, "mode", mode, "error", err)
	pairings, err = draw.Random(rng, present)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return pairings, nil
}

func (s *DrawService) drawSkillAware(ctx context.Context, nightID, mode string, present []string, rng *rand.Rand) ([]draw.Pairing, error) {
	entrants, err := s.entrantsFor(ctx, present)
	if err != nil {
		return nil, err
	}

	nightMatches, err := s.matchRepo.ListByNight(ctx, nightID)
	if err != nil {
		return nil, fmt.Errorf("list night matches: %w", err)
	}
	hist := draw.HistoryFromMatches(nightMatches)

	if mode == DrawModeBalanced {
		return draw.Balanced(entrants, hist)
	}
	return draw.Diverse(rng, entrants, hist)
}

// entrantsFor builds draw candidates with historical win rates from all
// resolved matches.
func (s *DrawService) entrantsFor(ctx context.Context, playerIDs []string) ([]draw.Entrant, error) {
	resolved, err := s.matchRepo.ListResolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resolved matches: %w", err)
	}

	byPlayer := make(map[string]draw.Entrant, len(playerIDs))
	for _, id := range playerIDs {
		byPlayer[id] = draw.Entrant{PlayerID: id}
	}
	for _, d := range resolved {
		for _, t := range d.Teams {
			for _, p := range t.Players {
				e, ok := byPlayer[p.PlayerID]
				if !ok || p.Won == nil {
					continue
				}
				e.Played++
				if *p.Won {
					e.Wins++
				}
				byPlayer[p.PlayerID] = e
			}
		}
	}

	entrants := make([]draw.Entrant, 0, len(playerIDs))
	for _, id := range playerIDs {
		entrants = append(entrants, byPlayer[id])
	}
	return entrants, nil
}

func (s *DrawService) drawRankedRound(ctx context.Context, nightID string, number int, allowByes bool) (DrawOutput, error) {
	n, err := s.individualNight(ctx, nightID)
	if err != nil {
		return DrawOutput{}, err
	}
	if err := s.requireRoundFree(ctx, n.ID, number); err != nil {
		return DrawOutput{}, err
	}
	if _, ok, err := s.roundRepo.GetByNightAndNumber(ctx, n.ID, number-1); err != nil {
		return DrawOutput{}, fmt.Errorf("get previous round: %w", err)
	} else if !ok {
		return DrawOutput{}, fmt.Errorf("%w: round %d has not been drawn", ErrInvalidInput, number-1)
	}

	nightMatches, err := s.matchRepo.ListByNight(ctx, n.ID)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("list night matches: %w", err)
	}

	standings := aggregateStandings(nightMatches)
	if len(standings) == 0 {
		return DrawOutput{}, fmt.Errorf("%w: no completed matches to rank players by", ErrInvalidInput)
	}
	rankedIDs := make([]string, 0, len(standings))
	for _, row := range standings {
		rankedIDs = append(rankedIDs, row.PlayerID)
	}

	if len(rankedIDs) < draw.GroupSize {
		return DrawOutput{}, fmt.Errorf("%w: %d ranked players, need at least %d", ErrInvalidInput, len(rankedIDs), draw.GroupSize)
	}
	if !allowByes && len(rankedIDs)%draw.GroupSize != 0 {
		return DrawOutput{}, fmt.Errorf("%w: ranked player count %d must divide into groups of %d", ErrInvalidInput, len(rankedIDs), draw.GroupSize)
	}

	hist := draw.HistoryFromMatches(nightMatches)
	pairings, byes, err := draw.Ranked(rankedIDs, hist)
	if err != nil {
		return DrawOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.materializePairings(ctx, n.ID, number, pairings, byes)
}

func (s *DrawService) individualNight(ctx context.Context, nightID string) (night.Night, error) {
	n, ok, err := s.nightRepo.GetByID(ctx, nightID)
	if err != nil {
		return night.Night{}, fmt.Errorf("get night: %w", err)
	}
	if !ok {
		return night.Night{}, fmt.Errorf("%w: night=%s", ErrNotFound, nightID)
	}
	if n.DrawMode != night.DrawModeIndividual {
		return night.Night{}, fmt.Errorf("%w: night %s is not in individual draw mode", ErrInvalidInput, nightID)
	}
	return n, nil
}

// requireRoundFree is a friendly pre-check; the unique index on the
// insert remains the real guard against concurrent draws.
func (s *DrawService) requireRoundFree(ctx context.Context, nightID string, number int) error {
	if _, ok, err := s.roundRepo.GetByNightAndNumber(ctx, nightID, number); err != nil {
		return fmt.Errorf("get round: %w", err)
	} else if ok {
		return fmt.Errorf("%w: round %d already drawn for night %s", ErrConflict, number, nightID)
	}
	return nil
}

func (s *DrawService) materializePairings(ctx context.Context, nightID string, number int, pairings []draw.Pairing, byes []string) (DrawOutput, error) {
	details := make([]match.Detail, 0, len(pairings))
	for _, p := range pairings {
		detail, err := s.newDoublesMatch(nightID, p)
		if err != nil {
			return DrawOutput{}, err
		}
		details = append(details, detail)
	}
	return s.materializeDetails(ctx, nightID, number, details, byes)
}

func (s *DrawService) materializeDetails(ctx context.Context, nightID string, number int, details []match.Detail, byes []string) (DrawOutput, error) {
	roundID, err := s.idGen.NewID()
	if err != nil {
		return DrawOutput{}, fmt.Errorf("generate round id: %w", err)
	}
	rnd := round.Round{ID: roundID, NightID: nightID, Number: number}

	out := DrawOutput{RoundID: roundID, RoundNumber: number, Byes: byes}
	for i := range details {
		details[i].Match.RoundID = roundID
		details[i].Match.Lane = i + 1
		out.Matches = append(out.Matches, DrawnMatch{MatchID: details[i].Match.ID, Lane: i + 1})
	}

	roundByes := make([]round.Bye, 0, len(byes))
	for _, playerID := range byes {
		roundByes = append(roundByes, round.Bye{RoundID: roundID, PlayerID: playerID})
	}

	if err := s.roundRepo.CreateWithMatches(ctx, rnd, details, roundByes); err != nil {
		if errors.Is(err, round.ErrRoundExists) {
			return DrawOutput{}, fmt.Errorf("%w: round %d already drawn for night %s", ErrConflict, number, nightID)
		}
		return DrawOutput{}, fmt.Errorf("create round: %w", err)
	}

	s.logger.InfoContext(ctx, "round drawn",
		"night_id", nightID, "round_number", number,
		"match_count", len(details), "bye_count", len(byes))
	return out, nil
}

// newDoublesMatch builds an unsaved match graph for one pairing. The
// round id and lane are assigned at materialization time.
func (s *DrawService) newDoublesMatch(nightID string, p draw.Pairing) (match.Detail, error) {
	detail, err := s.newMatchShell(nightID, nil, nil)
	if err != nil {
		return match.Detail{}, err
	}
	if err := s.addTeamPlayers(&detail, match.SideHome, p.HomeA, p.HomeB); err != nil {
		return match.Detail{}, err
	}
	if err := s.addTeamPlayers(&detail, match.SideAway, p.AwayA, p.AwayB); err != nil {
		return match.Detail{}, err
	}
	return detail, nil
}

func (s *DrawService) newTeamMatch(nightID string, home, away team.Team) (match.Detail, error) {
	detail, err := s.newMatchShell(nightID, &home.ID, &away.ID)
	if err != nil {
		return match.Detail{}, err
	}
	if err := s.addTeamPlayers(&detail, match.SideHome, home.PlayerIDs...); err != nil {
		return match.Detail{}, err
	}
	if err := s.addTeamPlayers(&detail, match.SideAway, away.PlayerIDs...); err != nil {
		return match.Detail{}, err
	}
	return detail, nil
}

func (s *DrawService) newMatchShell(nightID string, homeTeamID, awayTeamID *string) (match.Detail, error) {
	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Detail{}, fmt.Errorf("generate match id: %w", err)
	}
	homeID, err := s.idGen.NewID()
	if err != nil {
		return match.Detail{}, fmt.Errorf("generate match team id: %w", err)
	}
	awayID, err := s.idGen.NewID()
	if err != nil {
		return match.Detail{}, fmt.Errorf("generate match team id: %w", err)
	}

	return match.Detail{
		Match: match.Match{ID: matchID, NightID: nightID, Status: match.StatusScheduled},
		Teams: []match.TeamDetail{
			{Team: match.Team{ID: homeID, MatchID: matchID, Side: match.SideHome, TeamID: homeTeamID}},
			{Team: match.Team{ID: awayID, MatchID: matchID, Side: match.SideAway, TeamID: awayTeamID}},
		},
	}, nil
}

func (s *DrawService) addTeamPlayers(detail *match.Detail, side match.Side, playerIDs ...string) error {
	for i := range detail.Teams {
		if detail.Teams[i].Team.Side != side {
			continue
		}
		for _, playerID := range playerIDs {
			rowID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate match player id: %w", err)
			}
			detail.Teams[i].Players = append(detail.Teams[i].Players, match.Player{
				ID:          rowID,
				MatchTeamID: detail.Teams[i].Team.ID,
				PlayerID:    playerID,
			})
		}
	}
	return nil
}
