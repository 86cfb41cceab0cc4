package httpapi

import "context"

type contextKey string

const sessionContextKey contextKey = "fpl_session"

func withSession(ctx context.Context, cookie string) context.Context {
	return context.WithValue(ctx, sessionContextKey, cookie)
}

// sessionFromContext returns the provider session cookie attached by
// RequireSession, or "" on public routes.
func sessionFromContext(ctx context.Context) string {
	cookie, _ := ctx.Value(sessionContextKey).(string)
	return cookie
}
