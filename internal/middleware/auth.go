package middleware

import (
	"net/http"

	"github.com/circleup/backend/internal/session"
)

// RequireAuth gates HTML pages behind an authenticated session. Anonymous
// visitors are redirected to the sign-in page; the resolved session rides
// the request context for downstream handlers.
func RequireAuth(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r)
			if err != nil || !sess.Authenticated() {
				http.Redirect(w, r, "/sign-in", http.StatusFound)
				return
			}
			ctx := session.NewContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
