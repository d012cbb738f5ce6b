package app

import (
	"errors"
	"net/http"

	"cms/internal/auth"
	"cms/internal/session"
)

/*
HandleLogin verifies user credentials and marks the session as belonging to
the user when the password matches.
*/
func (a *App) HandleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.render(w, "login.html", map[string]any{"View": "login"})
		return

	case http.MethodPost:
		email := r.FormValue("email")
		pass := r.FormValue("password")

		u, err := a.Users.Authenticate(r.Context(), email, pass)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				a.Log.WithError(err).Error("login lookup failed")
				a.renderError(w, r, http.StatusInternalServerError, "failed to log in")
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			a.render(w, "login.html", map[string]any{
				"View":  "login",
				"Error": "invalid credentials",
			})
			return
		}

		a.Respond(func(r *http.Request) (Result, error) {
			sess, err := a.Sessions.Get(r)
			if err != nil {
				return Result{}, err
			}
			if err := sess.Set(session.UserKey, session.User{ID: u.ID, Username: u.Username}); err != nil {
				return Result{}, err
			}
			if err := a.Sessions.Edit(r, sess, session.Renew()); err != nil {
				return Result{}, err
			}
			a.Log.WithField("user", u.Username).Info("user logged in")
			return Result{Redirect: a.Config.SiteRoot}, nil
		})(w, r)
		return

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}
