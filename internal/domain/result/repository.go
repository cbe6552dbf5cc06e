package result

import (
	"context"

	"github.com/boulodrome/petanque-nights/internal/domain/match"
)

// Repository owns the confirmation ledger and the match-resolution
// write path.
//
// SubmitReport upserts the player's confirmation, resets it to PENDING,
// re-reads the full quorum and runs Decide, all inside one atomic unit.
// A confirmed verdict additionally writes the resolved match graph and
// the ranking increments before the unit commits.
//
// ApplyResolution is the admin-override entry: it writes the resolved
// match graph and ranking increments while leaving any pending or
// disputed confirmations untouched.
type Repository interface {
	SubmitReport(ctx context.Context, matchID, playerID string, out Outcome) (match.Detail, []Confirmation, error)
	ApplyResolution(ctx context.Context, matchID string, res Resolution) (match.Detail, error)
	ListByMatch(ctx context.Context, matchID string) ([]Confirmation, error)
}
