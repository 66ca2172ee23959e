package shared

import "context"

type ctxKeySession struct{}

// ContextWithSession returns a context carrying the resolved session.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, sess)
}

// SessionFromContext returns the session stored by ContextWithSession, or nil
// when the request never went through the session middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKeySession{}).(*Session)
	return sess
}
