package round

import (
	"context"
	"errors"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

// ErrRoundExists is returned by CreateWithMatches when another round
// already holds this (night, number). With concurrent draws the unique
// index makes the insert itself the race-resolution point; the loser
// gets this error and no partial writes.
var ErrRoundExists = errors.New("round already exists for this night and number")

// Repository describes round persistence needs from use cases.
//
// CreateWithMatches materializes a drawn round in one transaction: the
// round row, every match with its teams and players, and any byes. The
// round insert is the race-resolution point: a concurrent draw for the
// same (night, number) loses with a conflict and nothing is written.
type Repository interface {
	CreateWithMatches(ctx context.Context, rnd Round, matches []match.Detail, byes []Bye) error
	ListByNight(ctx context.Context, nightID string) ([]Round, error)
	GetByNightAndNumber(ctx context.Context, nightID string, number int) (Round, bool, error)
	ListByes(ctx context.Context, roundID string) ([]Bye, error)
	DeleteWithMatches(ctx context.Context, roundID string) error
}
