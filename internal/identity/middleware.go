package identity

import (
	"log/slog"
	"net/http"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

const usersCollection = "users"

// Resolver turns a session user id into a request Identity.
type Resolver struct {
	Store  docstore.Store
	Logger *slog.Logger
}

// Middleware resolves the session's user document and attaches the Identity
// to the request context. Requests without a logged-in session pass through
// anonymously; per-route guards decide whether that is acceptable.
func (res Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.UserID == "" {
			next.ServeHTTP(w, r)
			return
		}
		doc, err := res.Store.GetByID(r.Context(), usersCollection, sess.UserID)
		if err != nil {
			// Stale session pointing at a deleted user stays anonymous.
			if res.Logger != nil {
				res.Logger.Warn("resolve session user", slog.String("user_id", sess.UserID), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		var ident Identity
		if err := docstore.Decode(doc, &ident); err != nil {
			if res.Logger != nil {
				res.Logger.Error("decode user document", slog.String("user_id", sess.UserID), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWith(r.Context(), ident)))
	})
}
