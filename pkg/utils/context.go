package utils

import (
	"context"
)

type contextKey string

const (
	ActorKey contextKey = "actor"
)

// SetActorContext records who triggered an administrative action.
func SetActorContext(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

func GetActorFromContext(ctx context.Context) (string, bool) {
	actorVal := ctx.Value(ActorKey)
	if actorVal == nil {
		return "", false
	}

	actor, ok := actorVal.(string)
	return actor, ok && actor != ""
}
