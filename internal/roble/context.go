package roble

import (
	"context"
	"errors"
)

type contextKey int

const tokenKey contextKey = iota

// WithToken returns a context carrying the bearer access token used for
// authenticated Roble calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
