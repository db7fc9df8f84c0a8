package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/israelb-ITVarsity/Secrets-App/internal/session"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated session principal
// from context.
func PrincipalFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(principalKey).(*session.Session)
	return s, ok
}

// AuthMiddleware is the access gate for protected routes. A request is
// either anonymous or authenticated; anything in between (missing cookie,
// unknown session, undecodable principal, past expiry) is anonymous and
// gets sent to the login page.
type AuthMiddleware struct {
	Store    session.Store
	LoginURL string
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		Store:    store,
		LoginURL: "/login",
	}
}

func (a *AuthMiddleware) deny(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.LoginURL, http.StatusFound)
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session cookie
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			a.deny(w, r)
			return
		}

		sessionID := cookie.Value

		// 2. Load session; store errors and decode failures fail closed
		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil || sess == nil {
			a.deny(w, r)
			return
		}

		// 3. Enforce session expiry
		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			a.deny(w, r)
			return
		}

		// 4. Attach principal to context
		ctx := context.WithValue(r.Context(), principalKey, sess)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
