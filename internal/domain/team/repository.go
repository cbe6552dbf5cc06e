package team

import "context"

// Repository describes team read access from use cases. Team CRUD is
// out of scope; rosters come preloaded on each team.
type Repository interface {
	GetByIDs(ctx context.Context, teamIDs []string) ([]Team, error)
}
