package appctx

import (
	"context"

	"github.com/supdesk/supdesk/internal/domain/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func Identity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
