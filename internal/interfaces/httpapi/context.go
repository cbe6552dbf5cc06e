package httpapi

import (
	"context"

	"github.com/boulodrome/petanque-nights/internal/usecase"
)

type contextKey string

const actorContextKey contextKey = "auth_actor"

func withActor(ctx context.Context, actor usecase.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

func actorFromContext(ctx context.Context) (usecase.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(usecase.Actor)
	return actor, ok
}
