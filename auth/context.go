package auth

import "context"

type ctxKey int

const userKey ctxKey = 1

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the user stored by WithUser. ok is false when the
// request never went through authentication.
func UserFrom(ctx context.Context) (user string, ok bool) {
	user, ok = ctx.Value(userKey).(string)
	return user, ok
}
