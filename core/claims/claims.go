package claims

import (
	"context"
	"errors"
)

// Claims is the session identity threaded through the request context
// by the route guard. There is no role model: a route is either open
// or requires a logged-in user.
type Claims struct {
	UserID string
	Email  string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
