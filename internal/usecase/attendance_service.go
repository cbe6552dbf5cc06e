package usecase

import (
	"context"
	"fmt"

	"github.com/boulodrome/petanque-nights/internal/domain/night"
	"github.com/boulodrome/petanque-nights/internal/domain/player"
	"github.com/boulodrome/petanque-nights/internal/domain/round"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
)

// AttendanceService toggles who is in for a night. Players mark
// themselves; admins can mark anyone. The list freezes once round 1
// has been drawn.
type AttendanceService struct {
	nightRepo  night.Repository
	playerRepo player.Repository
	roundRepo  round.Repository
	logger     *logging.Logger
}

func NewAttendanceService(
	nightRepo night.Repository,
	playerRepo player.Repository,
	roundRepo round.Repository,
	logger *logging.Logger,
) *AttendanceService {
	return &AttendanceService{
		nightRepo:  nightRepo,
		playerRepo: playerRepo,
		roundRepo:  roundRepo,
		logger:     logger,
	}
}

func (s *AttendanceService) Set(ctx context.Context, actor Actor, nightID, playerID string, present bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.Set")
	defer span.End()

	if playerID == "" {
		playerID = actor.PlayerID
	}
	if playerID != actor.PlayerID && !actor.IsAdmin {
		return fmt.Errorf("%w: players may only set their own attendance", ErrForbidden)
	}

	n, ok, err := s.nightRepo.GetByID(ctx, nightID)
	if err != nil {
		return fmt.Errorf("get night: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: night=%s", ErrNotFound, nightID)
	}
	if _, ok, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return fmt.Errorf("get player: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if _, ok, err := s.roundRepo.GetByNightAndNumber(ctx, nightID, 1); err != nil {
		return fmt.Errorf("get round: %w", err)
	} else if ok {
		return fmt.Errorf("%w: attendance is frozen once round 1 is drawn", ErrConflict)
	}

	if present && n.MaxPlayers != nil {
		current, err := s.nightRepo.ListPresentPlayerIDs(ctx, nightID)
		if err != nil {
			return fmt.Errorf("list present players: %w", err)
		}
		counted := len(current)
		for _, id := range current {
			if id == playerID {
				counted--
				break
			}
		}
		if counted >= *n.MaxPlayers {
			return fmt.Errorf("%w: night %s is full (%d players)", ErrConflict, nightID, *n.MaxPlayers)
		}
	}

	att := night.Attendance{NightID: nightID, PlayerID: playerID, Present: present}
	if err := att.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.nightRepo.SetAttendance(ctx, att); err != nil {
		return fmt.Errorf("set attendance: %w", err)
	}

	s.logger.InfoContext(ctx, "attendance updated",
		"night_id", nightID, "player_id", playerID, "present", present, "actor_id", actor.PlayerID)
	return nil
}
