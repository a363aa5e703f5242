package actorctx

import "context"

type ctxKey struct{}

// WithUserID marks ctx as acting on behalf of userID, so logs written
// deeper in the call chain can name the actor.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)

	return v, ok && v != ""
}
