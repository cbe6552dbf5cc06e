package match

import "context"

// Repository describes match read access from use cases. Matches are
// created through the round repository's transactional draw path and
// resolved through the result repository.
type Repository interface {
	GetDetail(ctx context.Context, matchID string) (Detail, bool, error)
	ListByNight(ctx context.Context, nightID string) ([]Detail, error)
	ListResolvedByPlayer(ctx context.Context, playerID string) ([]Detail, error)
	ListResolved(ctx context.Context) ([]Detail, error)
}
