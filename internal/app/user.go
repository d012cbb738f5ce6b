package app

import (
	"net/http"

	"cms/internal/session"
)

// CurrentUser returns the user stored in the request's session. Lookup
// errors are logged and treated as anonymous.
func (a *App) CurrentUser(r *http.Request) (*session.User, bool) {
	sess, err := a.Sessions.Get(r)
	if err != nil {
		a.Log.WithError(err).Warn("resolving current user")
		return nil, false
	}
	return sess.User()
}

// RequireAuth wraps a handler and ensures that the user is authenticated
// before calling it. Anonymous users are redirected to the login page.
func (a *App) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.CurrentUser(r); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
